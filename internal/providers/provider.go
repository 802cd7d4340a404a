// Package providers contains the clients for the external metadata
// catalogs. Each client knows how to search its catalog and fetch one
// work's full payload; none of them know anything about the canonical
// item shape (that translation lives in internal/normalize).
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shelfmark/shelfmark/internal/models"
)

// Typed provider errors. Callers retry by issuing a fresh call; the
// clients never retry implicitly.
var (
	ErrNoResults         = errors.New("no results found")
	ErrInvalidCredential = errors.New("invalid or missing API credential")
	ErrRateLimited       = errors.New("rate limited by provider")
	ErrUnavailable       = errors.New("provider unavailable")
	ErrProviderDisabled  = errors.New("provider is disabled")
)

// DefaultHTTPTimeout bounds every provider call.
const DefaultHTTPTimeout = 15 * time.Second

// DefaultCacheTTL is the default TTL for cached provider responses.
const DefaultCacheTTL = time.Hour

// Payload is a provider-native detail payload, produced by FetchDetail
// and consumed by the normalizer.
type Payload interface {
	Provider() string
}

// SearchResult is the lightweight summary a client returns for display
// before the user commits to importing one entry.
type SearchResult struct {
	ProviderID string // provider-native id, usable with FetchDetail
	Title      string
	Year       int
	Byline     string // author / director / developer line for display
	CoverURL   string
}

// Client is the contract every catalog provider implements.
type Client interface {
	Name() string
	Kind() models.MediaKind
	Search(ctx context.Context, query string, page int) ([]SearchResult, error)
	FetchDetail(ctx context.Context, providerID string) (Payload, error)
}

// setParam adds a query parameter, omitting empty values entirely.
// Some providers reject an explicit empty parameter while accepting its
// absence, so an unset credential must never be sent as "key=".
func setParam(q url.Values, key, value string) {
	if value == "" {
		return
	}
	q.Set(key, value)
}

// fetchJSON performs a GET against the provider and decodes the JSON
// response into out, mapping HTTP status codes onto typed errors.
func fetchJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return doJSON(client, req, out)
}

// doJSON executes a prepared request and decodes the JSON response.
func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrInvalidCredential
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return ErrNoResults
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
