package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/shelfmark/shelfmark/internal/models"
)

const (
	igdbDefaultBaseURL = "https://api.igdb.com/v4"
	twitchTokenURL     = "https://id.twitch.tv/oauth2/token"

	igdbFields = "fields name, summary, url, rating, first_release_date, " +
		"genres.name, cover.url, platforms.name, dlcs.name, " +
		"involved_companies.company.name, involved_companies.developer, involved_companies.publisher"
)

// IGDBGame is the IGDB game payload. Rating is IGDB's aggregate on a
// 0-100 scale.
type IGDBGame struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Summary          string  `json:"summary"`
	URL              string  `json:"url"`
	Rating           float64 `json:"rating"` // 0-100 scale
	FirstReleaseDate int64   `json:"first_release_date"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Cover struct {
		URL string `json:"url"`
	} `json:"cover"`
	Platforms []struct {
		Name string `json:"name"`
	} `json:"platforms"`
	DLCs []struct {
		Name string `json:"name"`
	} `json:"dlcs"`
	InvolvedCompanies []struct {
		Company struct {
			Name string `json:"name"`
		} `json:"company"`
		Developer bool `json:"developer"`
		Publisher bool `json:"publisher"`
	} `json:"involved_companies"`
}

// Provider implements Payload.
func (*IGDBGame) Provider() string { return models.ProviderIGDB }

// ReleaseDate formats the unix release timestamp as YYYY-MM-DD.
func (g *IGDBGame) ReleaseDate() string {
	if g.FirstReleaseDate == 0 {
		return ""
	}
	return time.Unix(g.FirstReleaseDate, 0).UTC().Format("2006-01-02")
}

// CoverImageURL upgrades IGDB's thumbnail URL to the big cover size.
func (g *IGDBGame) CoverImageURL() string {
	if g.Cover.URL == "" {
		return ""
	}
	cover := strings.Replace(g.Cover.URL, "t_thumb", "t_cover_big", 1)
	if strings.HasPrefix(cover, "//") {
		cover = "https:" + cover
	}
	return cover
}

// IGDBClient queries IGDB v4. Auth uses the Twitch client-credentials
// flow: Credential carries the Twitch client id, Extra1 the client
// secret. The oauth2 transport refreshes the app token transparently.
type IGDBClient struct {
	http     *http.Client
	limiter  *rate.Limiter
	cache    *cache.Cache
	baseURL  string
	clientID string
}

// NewIGDBClient creates a client from the stored provider config.
func NewIGDBClient(cfg *models.ApiConfig) (*IGDBClient, error) {
	if cfg == nil || cfg.Credential == "" || cfg.Extra1 == "" {
		return nil, ErrInvalidCredential
	}
	baseURL := igdbDefaultBaseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	oauthCfg := &clientcredentials.Config{
		ClientID:     cfg.Credential,
		ClientSecret: cfg.Extra1,
		TokenURL:     twitchTokenURL,
	}
	httpClient := oauthCfg.Client(context.Background())
	httpClient.Timeout = DefaultHTTPTimeout

	return &IGDBClient{
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Every(250*time.Millisecond), 4), // IGDB allows 4 rps
		cache:    cache.New(DefaultCacheTTL, 10*time.Minute),
		baseURL:  baseURL,
		clientID: cfg.Credential,
	}, nil
}

// SetHTTPClient replaces the underlying HTTP client (for testing).
func (c *IGDBClient) SetHTTPClient(h *http.Client) { c.http = h }

// Name returns the provider name.
func (c *IGDBClient) Name() string { return models.ProviderIGDB }

// Kind returns the media kind this provider serves.
func (c *IGDBClient) Kind() models.MediaKind { return models.KindGame }

// query posts an Apicalypse query body to an IGDB endpoint.
func (c *IGDBClient) query(ctx context.Context, endpoint, body string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Accept", "application/json")

	return doJSON(c.http, req, out)
}

// Search queries the games endpoint. Paging is offset-based with a
// fixed page size of 20.
func (c *IGDBClient) Search(ctx context.Context, query string, page int) ([]SearchResult, error) {
	cacheKey := fmt.Sprintf("igdb:search:%s:%d", query, page)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]SearchResult), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body := fmt.Sprintf("search %q; %s; limit 20; offset %d;", query, igdbFields, page*20)

	var games []*IGDBGame
	if err := c.query(ctx, "games", body, &games); err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, ErrNoResults
	}

	results := make([]SearchResult, 0, len(games))
	for _, g := range games {
		results = append(results, SearchResult{
			ProviderID: strconv.FormatInt(g.ID, 10),
			Title:      g.Name,
			Year:       yearFromDate(g.ReleaseDate()),
			Byline:     developerName(g),
			CoverURL:   g.CoverImageURL(),
		})
	}

	c.cache.Set(cacheKey, results, cache.DefaultExpiration)
	return results, nil
}

// FetchDetail retrieves one game by IGDB id.
func (c *IGDBClient) FetchDetail(ctx context.Context, providerID string) (Payload, error) {
	cacheKey := "igdb:game:" + providerID
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*IGDBGame), nil
	}

	id, err := strconv.ParseInt(providerID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid igdb id %q: %w", providerID, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body := fmt.Sprintf("%s; where id = %d;", igdbFields, id)

	var games []*IGDBGame
	if err := c.query(ctx, "games", body, &games); err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, ErrNoResults
	}

	c.cache.Set(cacheKey, games[0], cache.DefaultExpiration)
	return games[0], nil
}

func developerName(g *IGDBGame) string {
	for _, ic := range g.InvolvedCompanies {
		if ic.Developer {
			return ic.Company.Name
		}
	}
	return ""
}
