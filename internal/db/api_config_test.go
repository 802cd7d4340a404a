package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/models"
)

func TestSaveAPIConfig_RoundTrip(t *testing.T) {
	db := testDB(t)

	cfg := &models.ApiConfig{
		Provider:   models.ProviderTMDB,
		Credential: "tmdb-key",
		BaseURL:    "https://api.themoviedb.org/3",
		Enabled:    true,
		Extra1:     "en-US",
	}
	require.NoError(t, db.SaveAPIConfig(cfg))

	got, err := db.GetAPIConfig(models.ProviderTMDB)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tmdb-key", got.Credential)
	assert.True(t, got.Enabled)
	assert.Equal(t, "en-US", got.Extra1)

	// Update overwrites in place
	cfg.Credential = "rotated"
	require.NoError(t, db.SaveAPIConfig(cfg))

	got, err = db.GetAPIConfig(models.ProviderTMDB)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.Credential)
}

func TestGetAPIConfig_Unknown(t *testing.T) {
	db := testDB(t)

	got, err := db.GetAPIConfig("not-a-provider")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetProviderEnabled(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.SetProviderEnabled(models.ProviderRAWG, true))

	got, err := db.GetAPIConfig(models.ProviderRAWG)
	require.NoError(t, err)
	assert.True(t, got.Enabled)

	assert.ErrorIs(t, db.SetProviderEnabled("not-a-provider", true), ErrNotFound)
}
