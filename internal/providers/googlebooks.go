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

const googleBooksDefaultBaseURL = "https://www.googleapis.com/books/v1"

// GoogleVolume is the Google Books volume payload.
type GoogleVolume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Subtitle            string   `json:"subtitle"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		PageCount           int      `json:"pageCount"`
		Categories          []string `json:"categories"`
		AverageRating       float64  `json:"averageRating"` // 0-5 scale
		Language            string   `json:"language"`
		PreviewLink         string   `json:"previewLink"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
	SaleInfo struct {
		ListPrice struct {
			Amount       float64 `json:"amount"`
			CurrencyCode string  `json:"currencyCode"`
		} `json:"listPrice"`
	} `json:"saleInfo"`
}

// Provider implements Payload.
func (*GoogleVolume) Provider() string { return models.ProviderGoogleBooks }

// ISBN13 returns the ISBN-13 identifier, falling back to ISBN-10.
func (v *GoogleVolume) ISBN13() string {
	fallback := ""
	for _, id := range v.VolumeInfo.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			fallback = id.Identifier
		}
	}
	return fallback
}

type googleSearchResponse struct {
	TotalItems int             `json:"totalItems"`
	Items      []*GoogleVolume `json:"items"`
}

// GoogleBooksClient searches the Google Books volumes API. The API works
// without a key on an anonymous tier; when a key is configured it is sent
// as a query parameter.
type GoogleBooksClient struct {
	http    *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	baseURL string
	apiKey  string
}

// NewGoogleBooksClient creates a client from the stored provider config.
func NewGoogleBooksClient(cfg *models.ApiConfig) *GoogleBooksClient {
	baseURL := googleBooksDefaultBaseURL
	apiKey := ""
	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
		apiKey = cfg.Credential
	}
	return &GoogleBooksClient{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		cache:   cache.New(DefaultCacheTTL, 10*time.Minute),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Name returns the provider name.
func (c *GoogleBooksClient) Name() string { return models.ProviderGoogleBooks }

// Kind returns the media kind this provider serves.
func (c *GoogleBooksClient) Kind() models.MediaKind { return models.KindBook }

// Search queries the volumes endpoint. Paging is offset-based with a
// fixed page size of 20.
func (c *GoogleBooksClient) Search(ctx context.Context, query string, page int) ([]SearchResult, error) {
	cacheKey := fmt.Sprintf("gb:search:%s:%d", query, page)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]SearchResult), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", "20")
	if page > 0 {
		q.Set("startIndex", strconv.Itoa(page*20))
	}
	setParam(q, "key", c.apiKey)

	var resp googleSearchResponse
	if err := fetchJSON(ctx, c.http, c.baseURL+"/volumes?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrNoResults
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, v := range resp.Items {
		results = append(results, SearchResult{
			ProviderID: v.ID,
			Title:      v.VolumeInfo.Title,
			Year:       yearFromDate(v.VolumeInfo.PublishedDate),
			Byline:     models.JoinList(v.VolumeInfo.Authors),
			CoverURL:   v.VolumeInfo.ImageLinks.Thumbnail,
		})
	}

	c.cache.Set(cacheKey, results, cache.DefaultExpiration)
	return results, nil
}

// FetchDetail retrieves one volume by its Google Books id.
func (c *GoogleBooksClient) FetchDetail(ctx context.Context, providerID string) (Payload, error) {
	cacheKey := "gb:volume:" + providerID
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*GoogleVolume), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	setParam(q, "key", c.apiKey)
	endpoint := c.baseURL + "/volumes/" + url.PathEscape(providerID)
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var volume GoogleVolume
	if err := fetchJSON(ctx, c.http, endpoint, &volume); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, &volume, cache.DefaultExpiration)
	return &volume, nil
}

// yearFromDate extracts the year from a YYYY or YYYY-MM-DD date string.
func yearFromDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
