package normalize

import (
	"fmt"
	"strconv"

	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/providers"
)

const (
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"
	maxCastNames     = 10
)

// MovieFromTMDB maps a TMDB movie payload onto a canonical MOVIE item.
// The TMDB numeric id is the industry reference. Credits are optional;
// without them the detail simply has no director or cast.
func MovieFromTMDB(p *providers.TMDBMovie, r Resolver) (*models.Item, any, error) {
	if p == nil || p.Movie == nil || p.Movie.Title == "" {
		return nil, nil, fmt.Errorf("%w: tmdb movie without title", ErrMalformedPayload)
	}
	m := p.Movie

	refID := strconv.Itoa(m.ID)
	id, err := resolveID(r, models.KindMovie, refID)
	if err != nil {
		return nil, nil, err
	}

	rating := float64(m.VoteAverage)
	item := &models.Item{
		ID:            id,
		Kind:          models.KindMovie,
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Year:          yearOf(m.ReleaseDate),
		CoverURL:      tmdbPosterURL(m.PosterPath),
		Description:   m.Overview,
		SourceRating:  rating,
		OverallRating: OverallRating(rating, ScaleTenPoint),
		ProviderName:  models.ProviderTMDB,
		ProviderRefID: refID,
		ProviderURL:   "https://www.themoviedb.org/movie/" + refID,
		Status:        models.StatusWant,
	}
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}
	item.SetGenres(genres)

	detail := &models.MovieDetail{
		DurationMinutes: int(m.Runtime),
	}
	if len(m.ProductionCountries) > 0 {
		detail.Region = m.ProductionCountries[0].Name
	}
	if p.Credits != nil {
		for _, crew := range p.Credits.Crew {
			if crew.Job == "Director" {
				detail.Director = crew.Name
				break
			}
		}
		cast := make([]string, 0, maxCastNames)
		for _, member := range p.Credits.Cast {
			if len(cast) == maxCastNames {
				break
			}
			cast = append(cast, member.Name)
		}
		detail.SetCast(cast)
	}

	return item, detail, nil
}

func tmdbPosterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + path
}
