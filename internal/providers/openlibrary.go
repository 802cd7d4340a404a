package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/shelfmark/shelfmark/internal/models"
)

const (
	openLibraryDefaultBaseURL = "https://openlibrary.org"
	openLibraryCoverURL       = "https://covers.openlibrary.org/b/id/%d-L.jpg"
)

// OpenLibraryDoc is one search hit from the Open Library search API.
// The detail payload reuses this shape because the works endpoint omits
// edition-level fields (ISBN, publisher) that the tracker wants.
type OpenLibraryDoc struct {
	Key                  string   `json:"key"` // "/works/OL45883W"
	Title                string   `json:"title"`
	AuthorName           []string `json:"author_name"`
	FirstPublishYear     int      `json:"first_publish_year"`
	ISBN                 []string `json:"isbn"`
	Publisher            []string `json:"publisher"`
	Subject              []string `json:"subject"`
	CoverID              int      `json:"cover_i"`
	NumberOfPagesMedian  int      `json:"number_of_pages_median"`
	RatingsAverage       float64  `json:"ratings_average"` // 0-5 scale
	Language             []string `json:"language"`
	FirstSentence        []string `json:"first_sentence"`
	WorkDescriptionExtra string   `json:"-"` // filled from the works endpoint when available
}

// Provider implements Payload.
func (*OpenLibraryDoc) Provider() string { return models.ProviderOpenLibrary }

// WorkID returns the bare OLID ("OL45883W") from the work key.
func (d *OpenLibraryDoc) WorkID() string {
	return strings.TrimPrefix(d.Key, "/works/")
}

// CoverImageURL returns the large cover URL, or empty when no cover exists.
func (d *OpenLibraryDoc) CoverImageURL() string {
	if d.CoverID == 0 {
		return ""
	}
	return fmt.Sprintf(openLibraryCoverURL, d.CoverID)
}

type openLibrarySearchResponse struct {
	NumFound int               `json:"numFound"`
	Docs     []*OpenLibraryDoc `json:"docs"`
}

// openLibraryWork is the works endpoint payload. Description is
// polymorphic: either a plain string or {"type": ..., "value": ...}.
type openLibraryWork struct {
	Description flexText `json:"description"`
}

// flexText unmarshals either a JSON string or an object with a "value"
// field, both of which Open Library emits for the same logical field.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexText(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = flexText(obj.Value)
	return nil
}

// OpenLibraryClient searches the Open Library catalog. The API requires
// no credential at all.
type OpenLibraryClient struct {
	http    *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	baseURL string
}

// NewOpenLibraryClient creates a client from the stored provider config.
func NewOpenLibraryClient(cfg *models.ApiConfig) *OpenLibraryClient {
	baseURL := openLibraryDefaultBaseURL
	if cfg != nil && cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	return &OpenLibraryClient{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		cache:   cache.New(DefaultCacheTTL, 10*time.Minute),
		baseURL: baseURL,
	}
}

// Name returns the provider name.
func (c *OpenLibraryClient) Name() string { return models.ProviderOpenLibrary }

// Kind returns the media kind this provider serves.
func (c *OpenLibraryClient) Kind() models.MediaKind { return models.KindBook }

// Search queries the search endpoint. Paging is 1-based page numbers.
func (c *OpenLibraryClient) Search(ctx context.Context, query string, page int) ([]SearchResult, error) {
	cacheKey := fmt.Sprintf("ol:search:%s:%d", query, page)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]SearchResult), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "20")
	if page > 0 {
		q.Set("page", strconv.Itoa(page+1))
	}

	var resp openLibrarySearchResponse
	if err := fetchJSON(ctx, c.http, c.baseURL+"/search.json?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Docs) == 0 {
		return nil, ErrNoResults
	}

	results := make([]SearchResult, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		results = append(results, SearchResult{
			ProviderID: doc.WorkID(),
			Title:      doc.Title,
			Year:       doc.FirstPublishYear,
			Byline:     models.JoinList(doc.AuthorName),
			CoverURL:   doc.CoverImageURL(),
		})
	}

	c.cache.Set(cacheKey, results, cache.DefaultExpiration)
	return results, nil
}

// FetchDetail retrieves one work by OLID. The search index carries the
// edition-level fields, so the doc is re-queried by key and enriched
// with the work description when the works endpoint has one.
func (c *OpenLibraryClient) FetchDetail(ctx context.Context, providerID string) (Payload, error) {
	cacheKey := "ol:work:" + providerID
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*OpenLibraryDoc), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("q", "key:/works/"+providerID)
	q.Set("limit", "1")

	var resp openLibrarySearchResponse
	if err := fetchJSON(ctx, c.http, c.baseURL+"/search.json?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Docs) == 0 {
		return nil, ErrNoResults
	}
	doc := resp.Docs[0]

	// Best-effort description from the works endpoint; absence is fine.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	var work openLibraryWork
	if err := fetchJSON(ctx, c.http, c.baseURL+"/works/"+url.PathEscape(providerID)+".json", &work); err == nil {
		doc.WorkDescriptionExtra = string(work.Description)
	}

	c.cache.Set(cacheKey, doc, cache.DefaultExpiration)
	return doc, nil
}
