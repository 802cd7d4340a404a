package normalize

import (
	"fmt"
	"strconv"

	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/providers"
)

// TVShowFromTMDB maps a TMDB TV payload onto a canonical TV_SHOW item
// with its season and episode tree. Season zero (specials) never appears
// in the payload; the client filters it at fetch time.
func TVShowFromTMDB(p *providers.TMDBTVShow, r Resolver) (*models.Item, any, error) {
	if p == nil || p.TV == nil || p.TV.Name == "" {
		return nil, nil, fmt.Errorf("%w: tmdb show without name", ErrMalformedPayload)
	}
	tv := p.TV

	refID := strconv.Itoa(tv.ID)
	id, err := resolveID(r, models.KindTVShow, refID)
	if err != nil {
		return nil, nil, err
	}

	rating := float64(tv.VoteAverage)
	item := &models.Item{
		ID:            id,
		Kind:          models.KindTVShow,
		Title:         tv.Name,
		OriginalTitle: tv.OriginalName,
		Year:          yearOf(tv.FirstAirDate),
		CoverURL:      tmdbPosterURL(tv.PosterPath),
		Description:   tv.Overview,
		SourceRating:  rating,
		OverallRating: OverallRating(rating, ScaleTenPoint),
		ProviderName:  models.ProviderTMDB,
		ProviderRefID: refID,
		ProviderURL:   "https://www.themoviedb.org/tv/" + refID,
		Status:        models.StatusWant,
	}
	genres := make([]string, 0, len(tv.Genres))
	for _, g := range tv.Genres {
		genres = append(genres, g.Name)
	}
	item.SetGenres(genres)

	detail := &models.TvShowDetail{
		TotalSeasons:  tv.NumberOfSeasons,
		TotalEpisodes: tv.NumberOfEpisodes,
		ShowStatus:    tv.Status,
		FirstAirDate:  tv.FirstAirDate,
		LastAirDate:   tv.LastAirDate,
	}
	if len(tv.Networks) > 0 {
		detail.Network = tv.Networks[0].Name
	}

	for _, s := range tv.Seasons {
		if s.SeasonNumber == 0 {
			continue
		}
		season := models.Season{
			SeasonNumber: s.SeasonNumber,
			EpisodeCount: s.EpisodeCount,
			AirDate:      s.AirDate,
		}
		for _, ep := range p.Episodes[s.SeasonNumber] {
			season.Episodes = append(season.Episodes, models.Episode{
				EpisodeNumber: ep.EpisodeNumber,
				AirDate:       ep.AirDate,
			})
		}
		if season.EpisodeCount == 0 {
			season.EpisodeCount = len(season.Episodes)
		}
		detail.Seasons = append(detail.Seasons, season)
	}

	return item, detail, nil
}
