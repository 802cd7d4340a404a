package normalize

import (
	"encoding/json"
	"testing"

	tmdb "github.com/ryanbradynd05/go-tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/providers"
)

// fakeResolver returns a canned item for one (kind, refID) pair.
type fakeResolver struct {
	kind  models.MediaKind
	refID string
	item  *models.Item
}

func (f *fakeResolver) FindByProviderRef(kind models.MediaKind, refID string) (*models.Item, error) {
	if f.item != nil && kind == f.kind && refID == f.refID {
		return f.item, nil
	}
	return nil, nil
}

func TestOverallRating(t *testing.T) {
	tests := []struct {
		name  string
		raw   float64
		scale RatingScale
		want  float64
	}{
		{"five star doubles", 4.5, ScaleFiveStar, 9.0},
		{"five star zero", 0, ScaleFiveStar, 0},
		{"ten point passes through", 8.2, ScaleTenPoint, 8.2},
		{"hundred divides", 93.4, ScaleHundred, 9.34},
		{"clamped above", 11, ScaleTenPoint, 10},
		{"clamped below", -1, ScaleTenPoint, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, OverallRating(tt.raw, tt.scale), 1e-9)
		})
	}
}

func googleAtomicHabits() *providers.GoogleVolume {
	v := &providers.GoogleVolume{ID: "vol-1"}
	v.VolumeInfo.Title = "Atomic Habits"
	v.VolumeInfo.Authors = []string{"James Clear"}
	v.VolumeInfo.Publisher = "Avery"
	v.VolumeInfo.PublishedDate = "2018-10-16"
	v.VolumeInfo.PageCount = 320
	v.VolumeInfo.Categories = []string{"Self-Help"}
	v.VolumeInfo.AverageRating = 4.5
	v.VolumeInfo.IndustryIdentifiers = []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	}{
		{Type: "ISBN_13", Identifier: "9780735211292"},
	}
	return v
}

func TestBookFromGoogle(t *testing.T) {
	item, detail, err := BookFromGoogle(googleAtomicHabits(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.KindBook, item.Kind)
	assert.Equal(t, "Atomic Habits", item.Title)
	assert.Equal(t, 2018, item.Year)
	assert.Equal(t, models.StatusWant, item.Status)
	assert.Equal(t, "9780735211292", item.ProviderRefID)
	assert.Equal(t, 4.5, item.SourceRating)
	assert.InDelta(t, 9.0, item.OverallRating, 1e-9)
	assert.Equal(t, []string{"Self-Help"}, item.GenreList())

	book, ok := detail.(*models.BookDetail)
	require.True(t, ok)
	assert.Equal(t, "James Clear", book.Author)
	assert.Equal(t, "9780735211292", book.ISBN)
	assert.Equal(t, 320, book.PageCount)
	assert.Equal(t, "Avery", book.Publisher)
}

func TestBookFromGoogle_MissingTitle(t *testing.T) {
	_, _, err := BookFromGoogle(&providers.GoogleVolume{ID: "vol-1"}, nil)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestBookMappers_SameISBNResolvesToSameItem(t *testing.T) {
	resolver := &fakeResolver{
		kind:  models.KindBook,
		refID: "9780735211292",
		item:  &models.Item{ID: "existing-id", Kind: models.KindBook},
	}

	fromGoogle, _, err := BookFromGoogle(googleAtomicHabits(), resolver)
	require.NoError(t, err)
	assert.Equal(t, "existing-id", fromGoogle.ID)

	doc := &providers.OpenLibraryDoc{
		Key:        "/works/OL17930368W",
		Title:      "Atomic Habits",
		AuthorName: []string{"James Clear"},
		ISBN:       []string{"9780735211292"},
	}
	fromOpenLibrary, _, err := BookFromOpenLibrary(doc, resolver)
	require.NoError(t, err)
	assert.Equal(t, "existing-id", fromOpenLibrary.ID)
}

func TestBookFromOpenLibrary(t *testing.T) {
	doc := &providers.OpenLibraryDoc{
		Key:                 "/works/OL17930368W",
		Title:               "Atomic Habits",
		AuthorName:          []string{"James Clear"},
		FirstPublishYear:    2018,
		Publisher:           []string{"Avery"},
		Subject:             []string{"Habit", "Self-Help"},
		NumberOfPagesMedian: 320,
		RatingsAverage:      4.2,
	}
	item, detail, err := BookFromOpenLibrary(doc, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ProviderOpenLibrary, item.ProviderName)
	assert.Equal(t, "OL17930368W", item.ProviderRefID) // no ISBN in doc
	assert.Equal(t, 2018, item.Year)
	assert.InDelta(t, 8.4, item.OverallRating, 1e-9)
	assert.Equal(t, "https://openlibrary.org/works/OL17930368W", item.ProviderURL)

	book := detail.(*models.BookDetail)
	assert.Equal(t, "James Clear", book.Author)
	assert.Equal(t, 320, book.PageCount)
	assert.Equal(t, "2018", book.PublishDate)
}

func TestMovieFromTMDB(t *testing.T) {
	payload := &providers.TMDBMovie{
		Movie: &tmdb.Movie{
			ID:            603,
			Title:         "The Matrix",
			OriginalTitle: "The Matrix",
			ReleaseDate:   "1999-03-31",
			Overview:      "A computer hacker learns the truth.",
			VoteAverage:   8.2,
			Runtime:       136,
			PosterPath:    "/matrix.jpg",
		},
		Credits: &tmdb.MovieCredits{},
	}

	item, detail, err := MovieFromTMDB(payload, nil)
	require.NoError(t, err)

	assert.Equal(t, models.KindMovie, item.Kind)
	assert.Equal(t, "603", item.ProviderRefID)
	assert.Equal(t, 1999, item.Year)
	assert.InDelta(t, 8.2, item.OverallRating, 1e-6)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", item.CoverURL)
	assert.Equal(t, "https://www.themoviedb.org/movie/603", item.ProviderURL)

	movie := detail.(*models.MovieDetail)
	assert.Equal(t, 136, movie.DurationMinutes)
}

func TestMovieFromTMDB_NilCredits(t *testing.T) {
	payload := &providers.TMDBMovie{Movie: &tmdb.Movie{ID: 603, Title: "The Matrix"}}

	_, detail, err := MovieFromTMDB(payload, nil)
	require.NoError(t, err)

	movie := detail.(*models.MovieDetail)
	assert.Empty(t, movie.Director)
	assert.Empty(t, movie.CastList())
}

func TestTVShowFromTMDB(t *testing.T) {
	show := &tmdb.TV{
		ID:               1396,
		Name:             "Breaking Bad",
		OriginalName:     "Breaking Bad",
		FirstAirDate:     "2008-01-20",
		LastAirDate:      "2013-09-29",
		NumberOfSeasons:  2,
		NumberOfEpisodes: 20,
		Status:           "Ended",
		VoteAverage:      8.9,
	}
	payload := &providers.TMDBTVShow{
		TV: show,
		Episodes: map[int][]tmdb.TvEpisode{
			1: {{EpisodeNumber: 1, AirDate: "2008-01-20"}, {EpisodeNumber: 2, AirDate: "2008-01-27"}},
		},
	}

	item, detail, err := TVShowFromTMDB(payload, nil)
	require.NoError(t, err)

	assert.Equal(t, models.KindTVShow, item.Kind)
	assert.Equal(t, "1396", item.ProviderRefID)
	assert.Equal(t, 2008, item.Year)

	tv := detail.(*models.TvShowDetail)
	assert.Equal(t, 2, tv.TotalSeasons)
	assert.Equal(t, "Ended", tv.ShowStatus)
	assert.Empty(t, tv.Seasons, "seasons come from the show payload, not the episode map")
}

func TestTVShowFromTMDB_SkipsSpecials(t *testing.T) {
	var show tmdb.TV
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 1396,
		"name": "Breaking Bad",
		"seasons": [
			{"season_number": 0, "episode_count": 3},
			{"season_number": 1, "episode_count": 7, "air_date": "2008-01-20"}
		]
	}`), &show))

	payload := &providers.TMDBTVShow{
		TV: &show,
		Episodes: map[int][]tmdb.TvEpisode{
			1: {{EpisodeNumber: 1}, {EpisodeNumber: 2}},
		},
	}

	_, detail, err := TVShowFromTMDB(payload, nil)
	require.NoError(t, err)

	tv := detail.(*models.TvShowDetail)
	require.Len(t, tv.Seasons, 1)
	assert.Equal(t, 1, tv.Seasons[0].SeasonNumber)
	assert.Equal(t, 7, tv.Seasons[0].EpisodeCount)
	assert.Len(t, tv.Seasons[0].Episodes, 2)
}

func TestGameFromIGDB(t *testing.T) {
	game := &providers.IGDBGame{
		ID:               1942,
		Name:             "The Witcher 3: Wild Hunt",
		Summary:          "An open world RPG.",
		Rating:           93.4,
		FirstReleaseDate: 1431993600,
	}
	game.Platforms = append(game.Platforms, struct {
		Name string `json:"name"`
	}{Name: "PC (Microsoft Windows)"})
	game.DLCs = append(game.DLCs, struct {
		Name string `json:"name"`
	}{Name: "Blood and Wine"})

	item, detail, err := GameFromIGDB(game, nil)
	require.NoError(t, err)

	assert.Equal(t, models.KindGame, item.Kind)
	assert.Equal(t, "1942", item.ProviderRefID)
	assert.Equal(t, 2015, item.Year)
	assert.Equal(t, 93.4, item.SourceRating)
	assert.InDelta(t, 9.34, item.OverallRating, 1e-9)

	g := detail.(*models.GameDetail)
	require.Len(t, g.Platforms, 1)
	assert.Equal(t, "PC (Microsoft Windows)", g.Platforms[0].Name)
	require.Len(t, g.DLCs, 1)
	assert.Equal(t, "Blood and Wine", g.DLCs[0].Name)
}

func TestGameFromRAWG(t *testing.T) {
	game := &providers.RAWGGame{
		ID:             3328,
		Slug:           "the-witcher-3-wild-hunt",
		Name:           "The Witcher 3: Wild Hunt",
		Released:       "2015-05-18",
		Rating:         4.65,
		DescriptionRaw: "An open world RPG.",
	}

	item, detail, err := GameFromRAWG(game, nil)
	require.NoError(t, err)

	assert.Equal(t, "3328", item.ProviderRefID)
	assert.InDelta(t, 9.3, item.OverallRating, 1e-9)
	assert.Equal(t, "https://rawg.io/games/the-witcher-3-wild-hunt", item.ProviderURL)

	g := detail.(*models.GameDetail)
	assert.Equal(t, "2015-05-18", g.ReleaseDate)
}

func TestFromPayload_Dispatch(t *testing.T) {
	item, detail, err := FromPayload(googleAtomicHabits(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.KindBook, item.Kind)
	_, ok := detail.(*models.BookDetail)
	assert.True(t, ok)
}

func TestFromPayload_Unsupported(t *testing.T) {
	_, _, err := FromPayload(nil, nil)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
