package providers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/models"
)

func igdbTestClient(t *testing.T, handler http.HandlerFunc) *IGDBClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewIGDBClient(&models.ApiConfig{
		Provider:   models.ProviderIGDB,
		BaseURL:    server.URL,
		Credential: "twitch-client-id",
		Extra1:     "twitch-client-secret",
		Enabled:    true,
	})
	require.NoError(t, err)

	// Bypass the Twitch token exchange in tests.
	client.SetHTTPClient(&http.Client{Timeout: DefaultHTTPTimeout})
	return client
}

func TestNewIGDBClient_RequiresClientIDAndSecret(t *testing.T) {
	_, err := NewIGDBClient(&models.ApiConfig{Provider: models.ProviderIGDB, Credential: "id-only"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestIGDBSearch(t *testing.T) {
	var gotBody string
	var gotClientID string
	client := igdbTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotClientID = r.Header.Get("Client-ID")
		_, _ = w.Write([]byte(`[{
			"id": 1942,
			"name": "The Witcher 3: Wild Hunt",
			"rating": 93.4,
			"first_release_date": 1431993600,
			"cover": {"url": "//images.igdb.com/t_thumb/co1wyy.jpg"},
			"involved_companies": [
				{"company": {"name": "CD Projekt RED"}, "developer": true, "publisher": false}
			]
		}]`))
	})

	results, err := client.Search(context.Background(), "witcher", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "1942", results[0].ProviderID)
	assert.Equal(t, "The Witcher 3: Wild Hunt", results[0].Title)
	assert.Equal(t, 2015, results[0].Year)
	assert.Equal(t, "CD Projekt RED", results[0].Byline)
	assert.Equal(t, "https://images.igdb.com/t_cover_big/co1wyy.jpg", results[0].CoverURL)

	assert.Equal(t, "twitch-client-id", gotClientID)
	assert.Contains(t, gotBody, `search "witcher"`)
	assert.Contains(t, gotBody, "limit 20")
}

func TestIGDBFetchDetail(t *testing.T) {
	client := igdbTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{
			"id": 1942,
			"name": "The Witcher 3: Wild Hunt",
			"summary": "An open world RPG.",
			"rating": 93.4,
			"platforms": [{"name": "PC (Microsoft Windows)"}],
			"dlcs": [{"name": "Blood and Wine"}, {"name": "Hearts of Stone"}]
		}]`))
	})

	payload, err := client.FetchDetail(context.Background(), "1942")
	require.NoError(t, err)

	game, ok := payload.(*IGDBGame)
	require.True(t, ok)
	assert.Equal(t, "The Witcher 3: Wild Hunt", game.Name)
	assert.Len(t, game.DLCs, 2)
	assert.Equal(t, models.ProviderIGDB, game.Provider())
}

func TestIGDBFetchDetail_NoResults(t *testing.T) {
	client := igdbTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.FetchDetail(context.Background(), "999999")
	assert.ErrorIs(t, err, ErrNoResults)
}
