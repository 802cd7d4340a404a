package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/models"
)

const openLibrarySearchBody = `{
	"numFound": 1,
	"docs": [{
		"key": "/works/OL45883W",
		"title": "Dune",
		"author_name": ["Frank Herbert"],
		"first_publish_year": 1965,
		"isbn": ["9780441172719"],
		"publisher": ["Ace Books"],
		"subject": ["Science Fiction"],
		"cover_i": 12345,
		"number_of_pages_median": 412,
		"ratings_average": 4.2
	}]
}`

func openLibraryTestClient(t *testing.T, handler http.HandlerFunc) *OpenLibraryClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenLibraryClient(&models.ApiConfig{
		Provider: models.ProviderOpenLibrary,
		BaseURL:  server.URL,
		Enabled:  true,
	})
}

func TestOpenLibrarySearch(t *testing.T) {
	client := openLibraryTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(openLibrarySearchBody))
	})

	results, err := client.Search(context.Background(), "dune", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "OL45883W", results[0].ProviderID)
	assert.Equal(t, "Dune", results[0].Title)
	assert.Equal(t, 1965, results[0].Year)
	assert.Equal(t, "Frank Herbert", results[0].Byline)
	assert.Contains(t, results[0].CoverURL, "12345-L.jpg")
}

func TestOpenLibrarySearch_NoResults(t *testing.T) {
	client := openLibraryTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numFound": 0, "docs": []}`))
	})

	_, err := client.Search(context.Background(), "zzzzz", 0)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestOpenLibraryFetchDetail_EnrichesDescription(t *testing.T) {
	client := openLibraryTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/works/") {
			_, _ = w.Write([]byte(`{"description": {"type": "/type/text", "value": "Arrakis, the desert planet."}}`))
			return
		}
		_, _ = w.Write([]byte(openLibrarySearchBody))
	})

	payload, err := client.FetchDetail(context.Background(), "OL45883W")
	require.NoError(t, err)

	doc, ok := payload.(*OpenLibraryDoc)
	require.True(t, ok)
	assert.Equal(t, "Dune", doc.Title)
	assert.Equal(t, "OL45883W", doc.WorkID())
	assert.Equal(t, "Arrakis, the desert planet.", doc.WorkDescriptionExtra)
	assert.Equal(t, 412, doc.NumberOfPagesMedian)
}

func TestFlexText_StringAndObject(t *testing.T) {
	var f flexText
	require.NoError(t, json.Unmarshal([]byte(`"plain"`), &f))
	assert.Equal(t, "plain", string(f))

	require.NoError(t, json.Unmarshal([]byte(`{"type": "/type/text", "value": "wrapped"}`), &f))
	assert.Equal(t, "wrapped", string(f))
}
