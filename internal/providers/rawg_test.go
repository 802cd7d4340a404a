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

func rawgTestClient(t *testing.T, handler http.HandlerFunc) *RAWGClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewRAWGClient(&models.ApiConfig{
		Provider:   models.ProviderRAWG,
		BaseURL:    server.URL,
		Credential: "rawg-key",
		Enabled:    true,
	})
	require.NoError(t, err)
	return client
}

func TestNewRAWGClient_RequiresCredential(t *testing.T) {
	_, err := NewRAWGClient(&models.ApiConfig{Provider: models.ProviderRAWG})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = NewRAWGClient(nil)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestRAWGSearch(t *testing.T) {
	var gotURL string
	client := rawgTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_, _ = w.Write([]byte(`{
			"count": 1,
			"results": [{
				"id": 3328,
				"name": "The Witcher 3: Wild Hunt",
				"released": "2015-05-18",
				"rating": 4.65,
				"background_image": "https://media.rawg.io/witcher3.jpg"
			}]
		}`))
	})

	results, err := client.Search(context.Background(), "witcher", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "3328", results[0].ProviderID)
	assert.Equal(t, "The Witcher 3: Wild Hunt", results[0].Title)
	assert.Equal(t, 2015, results[0].Year)
	assert.Contains(t, gotURL, "key=rawg-key")
	assert.Contains(t, gotURL, "search=witcher")
}

func TestRAWGFetchDetail(t *testing.T) {
	client := rawgTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 3328,
			"name": "The Witcher 3: Wild Hunt",
			"released": "2015-05-18",
			"rating": 4.65,
			"description_raw": "An open world RPG.",
			"genres": [{"name": "RPG"}, {"name": "Adventure"}],
			"platforms": [{"platform": {"name": "PC"}}, {"platform": {"name": "PlayStation 4"}}],
			"developers": [{"name": "CD PROJEKT RED"}],
			"publishers": [{"name": "CD PROJEKT RED"}]
		}`))
	})

	payload, err := client.FetchDetail(context.Background(), "3328")
	require.NoError(t, err)

	game, ok := payload.(*RAWGGame)
	require.True(t, ok)
	assert.Equal(t, "The Witcher 3: Wild Hunt", game.Name)
	assert.Equal(t, 4.65, game.Rating)
	assert.Len(t, game.Platforms, 2)
	assert.Equal(t, "CD PROJEKT RED", game.Developers[0].Name)
	assert.Equal(t, models.ProviderRAWG, game.Provider())
}

func TestRAWGSearch_RateLimited(t *testing.T) {
	client := rawgTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), "witcher", 0)
	assert.ErrorIs(t, err, ErrRateLimited)
}
