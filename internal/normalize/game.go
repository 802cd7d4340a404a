package normalize

import (
	"fmt"
	"strconv"

	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/providers"
)

// GameFromIGDB maps an IGDB game onto a canonical GAME item. IGDB rates
// on a 0-100 aggregate scale; the canonical rating divides it down.
func GameFromIGDB(g *providers.IGDBGame, r Resolver) (*models.Item, any, error) {
	if g == nil || g.Name == "" {
		return nil, nil, fmt.Errorf("%w: igdb game without name", ErrMalformedPayload)
	}

	refID := strconv.FormatInt(g.ID, 10)
	id, err := resolveID(r, models.KindGame, refID)
	if err != nil {
		return nil, nil, err
	}

	item := &models.Item{
		ID:            id,
		Kind:          models.KindGame,
		Title:         g.Name,
		Year:          yearOf(g.ReleaseDate()),
		CoverURL:      g.CoverImageURL(),
		Description:   g.Summary,
		SourceRating:  g.Rating,
		OverallRating: OverallRating(g.Rating, ScaleHundred),
		ProviderName:  models.ProviderIGDB,
		ProviderRefID: refID,
		ProviderURL:   g.URL,
		Status:        models.StatusWant,
	}
	genres := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		genres = append(genres, genre.Name)
	}
	item.SetGenres(genres)

	detail := &models.GameDetail{
		ReleaseDate: g.ReleaseDate(),
	}
	for _, ic := range g.InvolvedCompanies {
		if ic.Developer && detail.Developer == "" {
			detail.Developer = ic.Company.Name
		}
		if ic.Publisher && detail.Publisher == "" {
			detail.Publisher = ic.Company.Name
		}
	}
	for _, p := range g.Platforms {
		detail.Platforms = append(detail.Platforms, models.GamePlatform{Name: p.Name})
	}
	for _, dlc := range g.DLCs {
		detail.DLCs = append(detail.DLCs, models.GameDLC{Name: dlc.Name})
	}

	return item, detail, nil
}

// GameFromRAWG maps a RAWG game onto a canonical GAME item. RAWG rates
// on a 0-5 scale.
func GameFromRAWG(g *providers.RAWGGame, r Resolver) (*models.Item, any, error) {
	if g == nil || g.Name == "" {
		return nil, nil, fmt.Errorf("%w: rawg game without name", ErrMalformedPayload)
	}

	refID := strconv.Itoa(g.ID)
	id, err := resolveID(r, models.KindGame, refID)
	if err != nil {
		return nil, nil, err
	}

	item := &models.Item{
		ID:            id,
		Kind:          models.KindGame,
		Title:         g.Name,
		Year:          yearOf(g.Released),
		CoverURL:      g.BackgroundImage,
		Description:   g.DescriptionRaw,
		SourceRating:  g.Rating,
		OverallRating: OverallRating(g.Rating, ScaleFiveStar),
		ProviderName:  models.ProviderRAWG,
		ProviderRefID: refID,
		ProviderURL:   firstNonEmpty(g.Website, "https://rawg.io/games/"+g.Slug),
		Status:        models.StatusWant,
	}
	genres := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		genres = append(genres, genre.Name)
	}
	item.SetGenres(genres)

	detail := &models.GameDetail{
		ReleaseDate: g.Released,
	}
	if len(g.Developers) > 0 {
		detail.Developer = g.Developers[0].Name
	}
	if len(g.Publishers) > 0 {
		detail.Publisher = g.Publishers[0].Name
	}
	for _, p := range g.Platforms {
		detail.Platforms = append(detail.Platforms, models.GamePlatform{Name: p.Platform.Name})
	}

	return item, detail, nil
}
