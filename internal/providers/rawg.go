package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/shelfmark/shelfmark/internal/models"
)

const rawgDefaultBaseURL = "https://api.rawg.io/api"

// RAWGGame is the RAWG game payload. Search hits and the detail
// endpoint share field names; detail adds description and companies.
type RAWGGame struct {
	ID              int     `json:"id"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Released        string  `json:"released"` // YYYY-MM-DD
	BackgroundImage string  `json:"background_image"`
	Rating          float64 `json:"rating"` // 0-5 scale
	Website         string  `json:"website"`
	DescriptionRaw  string  `json:"description_raw"`
	Genres          []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Platforms []struct {
		Platform struct {
			Name string `json:"name"`
		} `json:"platform"`
	} `json:"platforms"`
	Developers []struct {
		Name string `json:"name"`
	} `json:"developers"`
	Publishers []struct {
		Name string `json:"name"`
	} `json:"publishers"`
}

// Provider implements Payload.
func (*RAWGGame) Provider() string { return models.ProviderRAWG }

type rawgSearchResponse struct {
	Count   int         `json:"count"`
	Results []*RAWGGame `json:"results"`
}

// RAWGClient queries the RAWG video game database. The API key is a
// plain query parameter; RAWG rejects requests without one.
type RAWGClient struct {
	http    *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	baseURL string
	apiKey  string
}

// NewRAWGClient creates a client from the stored provider config.
func NewRAWGClient(cfg *models.ApiConfig) (*RAWGClient, error) {
	if cfg == nil || cfg.Credential == "" {
		return nil, ErrInvalidCredential
	}
	baseURL := rawgDefaultBaseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	return &RAWGClient{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		cache:   cache.New(DefaultCacheTTL, 10*time.Minute),
		baseURL: baseURL,
		apiKey:  cfg.Credential,
	}, nil
}

// Name returns the provider name.
func (c *RAWGClient) Name() string { return models.ProviderRAWG }

// Kind returns the media kind this provider serves.
func (c *RAWGClient) Kind() models.MediaKind { return models.KindGame }

// Search queries the games endpoint. Paging is 1-based page numbers.
func (c *RAWGClient) Search(ctx context.Context, query string, page int) ([]SearchResult, error) {
	cacheKey := fmt.Sprintf("rawg:search:%s:%d", query, page)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]SearchResult), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("search", query)
	q.Set("page_size", "20")
	if page > 0 {
		q.Set("page", strconv.Itoa(page+1))
	}
	setParam(q, "key", c.apiKey)

	var resp rawgSearchResponse
	if err := fetchJSON(ctx, c.http, c.baseURL+"/games?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNoResults
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, g := range resp.Results {
		results = append(results, SearchResult{
			ProviderID: strconv.Itoa(g.ID),
			Title:      g.Name,
			Year:       yearFromDate(g.Released),
			CoverURL:   g.BackgroundImage,
		})
	}

	c.cache.Set(cacheKey, results, cache.DefaultExpiration)
	return results, nil
}

// FetchDetail retrieves one game by RAWG id.
func (c *RAWGClient) FetchDetail(ctx context.Context, providerID string) (Payload, error) {
	cacheKey := "rawg:game:" + providerID
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*RAWGGame), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	setParam(q, "key", c.apiKey)

	var game RAWGGame
	endpoint := c.baseURL + "/games/" + url.PathEscape(providerID) + "?" + q.Encode()
	if err := fetchJSON(ctx, c.http, endpoint, &game); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, &game, cache.DefaultExpiration)
	return &game, nil
}
