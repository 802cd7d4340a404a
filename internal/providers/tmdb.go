package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	tmdb "github.com/ryanbradynd05/go-tmdb"
	"golang.org/x/time/rate"

	"github.com/shelfmark/shelfmark/internal/models"
)

const tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"

// TMDBAPI is the subset of the go-tmdb SDK the client uses; it matches
// *tmdb.TMDb exactly so a fake can stand in for tests.
type TMDBAPI interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error)
	GetMovieInfo(id int, options map[string]string) (*tmdb.Movie, error)
	GetMovieCredits(id int, options map[string]string) (*tmdb.MovieCredits, error)
	GetTvInfo(id int, options map[string]string) (*tmdb.TV, error)
	GetTvSeasonInfo(showID, seasonID int, options map[string]string) (*tmdb.TvSeason, error)
}

// TMDBMovie is the movie detail payload: SDK movie plus credits.
// Credits may be nil when the credits call failed; the normalizer treats
// that as an empty cast.
type TMDBMovie struct {
	Movie   *tmdb.Movie
	Credits *tmdb.MovieCredits
}

// Provider implements Payload.
func (*TMDBMovie) Provider() string { return models.ProviderTMDB }

// TMDBTVShow is the TV detail payload: SDK show plus per-season episode
// lists keyed by season number. Episode lists are best-effort.
type TMDBTVShow struct {
	TV       *tmdb.TV
	Episodes map[int][]tmdb.TvEpisode
}

// Provider implements Payload.
func (*TMDBTVShow) Provider() string { return models.ProviderTMDB }

// TMDBClient serves both MOVIE and TV_SHOW lookups against TMDB through
// the go-tmdb SDK. One instance serves exactly one kind so it satisfies
// the per-kind Client contract.
type TMDBClient struct {
	api      TMDBAPI
	kind     models.MediaKind
	cache    *cache.Cache
	limiter  *rate.Limiter
	language string
}

// NewTMDBClient creates a TMDB client for the given kind (MOVIE or
// TV_SHOW) from the stored provider config. Extra1 optionally carries the
// preferred language (default en-US).
func NewTMDBClient(cfg *models.ApiConfig, kind models.MediaKind) (*TMDBClient, error) {
	if cfg == nil || cfg.Credential == "" {
		return nil, ErrInvalidCredential
	}
	if kind != models.KindMovie && kind != models.KindTVShow {
		return nil, fmt.Errorf("tmdb does not serve kind %q", kind)
	}

	language := cfg.Extra1
	if language == "" {
		language = "en-US"
	}

	api := tmdb.Init(tmdb.Config{APIKey: cfg.Credential})

	return &TMDBClient{
		api:      api,
		kind:     kind,
		cache:    cache.New(DefaultCacheTTL, 10*time.Minute),
		limiter:  rate.NewLimiter(rate.Every(250*time.Millisecond), 4),
		language: language,
	}, nil
}

// Name returns the provider name.
func (c *TMDBClient) Name() string { return models.ProviderTMDB }

// Kind returns the media kind this client instance serves.
func (c *TMDBClient) Kind() models.MediaKind { return c.kind }

// SetAPI replaces the SDK client (for testing).
func (c *TMDBClient) SetAPI(api TMDBAPI) { c.api = api }

func (c *TMDBClient) options() map[string]string {
	return map[string]string{"language": c.language}
}

// Search queries TMDB. Paging is 1-based page numbers per the TMDB API.
func (c *TMDBClient) Search(ctx context.Context, query string, page int) ([]SearchResult, error) {
	cacheKey := fmt.Sprintf("tmdb:search:%s:%s:%d", c.kind, query, page)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]SearchResult), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	options := c.options()
	if page > 0 {
		options["page"] = strconv.Itoa(page + 1)
	}

	var results []SearchResult
	switch c.kind {
	case models.KindMovie:
		resp, err := c.api.SearchMovie(query, options)
		if err != nil {
			return nil, mapTMDBError(err)
		}
		if resp == nil || len(resp.Results) == 0 {
			return nil, ErrNoResults
		}
		for _, m := range resp.Results {
			results = append(results, SearchResult{
				ProviderID: strconv.Itoa(m.ID),
				Title:      m.Title,
				Year:       yearFromDate(m.ReleaseDate),
				CoverURL:   posterURL(m.PosterPath),
			})
		}

	case models.KindTVShow:
		resp, err := c.api.SearchTv(query, options)
		if err != nil {
			return nil, mapTMDBError(err)
		}
		if resp == nil || len(resp.Results) == 0 {
			return nil, ErrNoResults
		}
		for _, show := range resp.Results {
			results = append(results, SearchResult{
				ProviderID: strconv.Itoa(show.ID),
				Title:      show.Name,
				Year:       yearFromDate(show.FirstAirDate),
				CoverURL:   posterURL(show.PosterPath),
			})
		}
	}

	c.cache.Set(cacheKey, results, cache.DefaultExpiration)
	return results, nil
}

// FetchDetail retrieves the full payload for one TMDB id.
func (c *TMDBClient) FetchDetail(ctx context.Context, providerID string) (Payload, error) {
	id, err := strconv.Atoi(providerID)
	if err != nil {
		return nil, fmt.Errorf("invalid tmdb id %q: %w", providerID, err)
	}

	cacheKey := fmt.Sprintf("tmdb:detail:%s:%d", c.kind, id)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(Payload), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var payload Payload
	switch c.kind {
	case models.KindMovie:
		movie, err := c.api.GetMovieInfo(id, c.options())
		if err != nil {
			return nil, mapTMDBError(err)
		}
		if movie == nil {
			return nil, ErrNoResults
		}
		// Credits are display enrichment; a failed credits call does not
		// fail the import.
		credits, _ := c.api.GetMovieCredits(id, c.options())
		payload = &TMDBMovie{Movie: movie, Credits: credits}

	case models.KindTVShow:
		show, err := c.api.GetTvInfo(id, c.options())
		if err != nil {
			return nil, mapTMDBError(err)
		}
		if show == nil {
			return nil, ErrNoResults
		}
		episodes := make(map[int][]tmdb.TvEpisode)
		for _, season := range show.Seasons {
			if season.SeasonNumber == 0 {
				continue // specials
			}
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
			info, err := c.api.GetTvSeasonInfo(id, season.SeasonNumber, c.options())
			if err != nil || info == nil {
				continue
			}
			episodes[season.SeasonNumber] = info.Episodes
		}
		payload = &TMDBTVShow{TV: show, Episodes: episodes}
	}

	c.cache.Set(cacheKey, payload, cache.DefaultExpiration)
	return payload, nil
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + path
}

// mapTMDBError converts SDK errors into the typed provider errors.
func mapTMDBError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case containsFold(msg, "401"), containsFold(msg, "unauthorized"):
		return ErrInvalidCredential
	case containsFold(msg, "429"), containsFold(msg, "rate limit"):
		return ErrRateLimited
	case containsFold(msg, "503"), containsFold(msg, "unavailable"):
		return ErrUnavailable
	}
	return fmt.Errorf("tmdb: %w", err)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
