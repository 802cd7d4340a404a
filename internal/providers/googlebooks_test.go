package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/models"
)

const googleSearchBody = `{
	"totalItems": 1,
	"items": [{
		"id": "vol-1",
		"volumeInfo": {
			"title": "Atomic Habits",
			"authors": ["James Clear"],
			"publisher": "Avery",
			"publishedDate": "2018-10-16",
			"pageCount": 320,
			"categories": ["Self-Help"],
			"averageRating": 4.5,
			"industryIdentifiers": [
				{"type": "ISBN_10", "identifier": "0735211299"},
				{"type": "ISBN_13", "identifier": "9780735211292"}
			],
			"imageLinks": {"thumbnail": "http://books.google.com/thumb.jpg"}
		}
	}]
}`

func googleTestClient(t *testing.T, handler http.HandlerFunc, apiKey string) *GoogleBooksClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewGoogleBooksClient(&models.ApiConfig{
		Provider:   models.ProviderGoogleBooks,
		BaseURL:    server.URL,
		Credential: apiKey,
		Enabled:    true,
	})
}

func TestGoogleBooksSearch(t *testing.T) {
	var gotURL string
	client := googleTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_, _ = w.Write([]byte(googleSearchBody))
	}, "secret-key")

	results, err := client.Search(context.Background(), "atomic habits", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "vol-1", results[0].ProviderID)
	assert.Equal(t, "Atomic Habits", results[0].Title)
	assert.Equal(t, 2018, results[0].Year)
	assert.Equal(t, "James Clear", results[0].Byline)
	assert.Contains(t, gotURL, "key=secret-key")
}

func TestGoogleBooksSearch_OmitsEmptyCredential(t *testing.T) {
	var gotURL string
	client := googleTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_, _ = w.Write([]byte(googleSearchBody))
	}, "")

	_, err := client.Search(context.Background(), "atomic habits", 0)
	require.NoError(t, err)

	// Anonymous tier: the key parameter must be absent, not empty.
	assert.NotContains(t, gotURL, "key=")
}

func TestGoogleBooksSearch_NoResults(t *testing.T) {
	client := googleTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}, "")

	_, err := client.Search(context.Background(), "zzzzz", 0)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGoogleBooksSearch_Unauthorized(t *testing.T) {
	client := googleTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "bad-key")

	_, err := client.Search(context.Background(), "atomic habits", 0)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestGoogleBooksFetchDetail_CachesResponse(t *testing.T) {
	calls := 0
	client := googleTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"id": "vol-1", "volumeInfo": {"title": "Atomic Habits"}}`))
	}, "")

	first, err := client.FetchDetail(context.Background(), "vol-1")
	require.NoError(t, err)
	second, err := client.FetchDetail(context.Background(), "vol-1")
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second fetch is served from cache")
	assert.Same(t, first, second)
}

func TestGoogleVolume_ISBN13Fallback(t *testing.T) {
	v := &GoogleVolume{}
	v.VolumeInfo.IndustryIdentifiers = []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	}{
		{Type: "ISBN_10", Identifier: "0735211299"},
	}
	assert.Equal(t, "0735211299", v.ISBN13())

	v.VolumeInfo.IndustryIdentifiers = append(v.VolumeInfo.IndustryIdentifiers, struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	}{Type: "ISBN_13", Identifier: "9780735211292"})
	assert.Equal(t, "9780735211292", v.ISBN13())
}
