package notion

import (
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/models"
)

func TestPropertiesFor_Book(t *testing.T) {
	rating := 9.5
	item := &models.Item{
		ID:            "item-1",
		Kind:          models.KindBook,
		Title:         "Atomic Habits",
		Year:          2018,
		OverallRating: 9.0,
		UserRating:    &rating,
		UserComment:   "Life changing",
		Status:        models.StatusDone,
		CoverURL:      "https://example.com/cover.jpg",
		ProviderURL:   "https://books.google.com/v/1",
	}
	item.SetGenres([]string{"Self-Help"})
	item.SetTags([]string{"productivity", "2024"})

	detail := &models.BookDetail{
		Author:    models.JoinList([]string{"James Clear"}),
		ISBN:      "9780735211292",
		PageCount: 320,
	}

	props := PropertiesFor(item, detail)

	title := props[PropName].(*notionapi.TitleProperty)
	require.Len(t, title.Title, 1)
	assert.Equal(t, "Atomic Habits", title.Title[0].Text.Content)

	assert.Equal(t, "BOOK", props[PropKind].(*notionapi.SelectProperty).Select.Name)
	assert.Equal(t, "DONE", props[PropStatus].(*notionapi.SelectProperty).Select.Name)
	assert.Equal(t, 9.0, props[PropRating].(*notionapi.NumberProperty).Number)
	assert.Equal(t, 9.5, props[PropMyRating].(*notionapi.NumberProperty).Number)
	assert.Equal(t, 2018.0, props[PropYear].(*notionapi.NumberProperty).Number)

	tags := props[PropTags].(*notionapi.MultiSelectProperty).MultiSelect
	require.Len(t, tags, 2)
	assert.Equal(t, "productivity", tags[0].Name)

	assert.Equal(t, "9780735211292", props[PropISBN].(*notionapi.RichTextProperty).RichText[0].Text.Content)
	assert.Equal(t, 320.0, props[PropPages].(*notionapi.NumberProperty).Number)
	assert.Equal(t, "James Clear", props[PropAuthor].(*notionapi.RichTextProperty).RichText[0].Text.Content)
}

func TestPropertiesFor_OmitsEmptyOptionalColumns(t *testing.T) {
	item := &models.Item{Kind: models.KindMovie, Title: "Untitled", Status: models.StatusWant}

	props := PropertiesFor(item, nil)

	assert.Contains(t, props, PropName)
	assert.Contains(t, props, PropStatus)
	assert.NotContains(t, props, PropYear)
	assert.NotContains(t, props, PropMyRating)
	assert.NotContains(t, props, PropComment)
	assert.NotContains(t, props, PropCover)
	assert.NotContains(t, props, PropDirector)
}

func TestPropertiesFor_Game(t *testing.T) {
	item := &models.Item{Kind: models.KindGame, Title: "The Witcher 3", Status: models.StatusInProgress}
	detail := &models.GameDetail{
		Developer: "CD Projekt RED",
		Platforms: []models.GamePlatform{{Name: "PC"}, {Name: "Switch"}},
	}

	props := PropertiesFor(item, detail)

	assert.Equal(t, "CD Projekt RED", props[PropDeveloper].(*notionapi.RichTextProperty).RichText[0].Text.Content)
	platforms := props[PropPlatforms].(*notionapi.MultiSelectProperty).MultiSelect
	require.Len(t, platforms, 2)
	assert.Equal(t, "PC", platforms[0].Name)
}

func TestPropertiesFor_TruncatesLongComment(t *testing.T) {
	item := &models.Item{
		Kind:        models.KindBook,
		Title:       "T",
		Status:      models.StatusWant,
		UserComment: strings.Repeat("a", 3000),
	}

	props := PropertiesFor(item, nil)

	comment := props[PropComment].(*notionapi.RichTextProperty)
	assert.Len(t, comment.RichText[0].Text.Content, maxRichTextLen)
}

func TestStateFromPage(t *testing.T) {
	page := &notionapi.Page{
		Properties: notionapi.Properties{
			PropStatus:   &notionapi.SelectProperty{Select: notionapi.Option{Name: "IN_PROGRESS"}},
			PropMyRating: &notionapi.NumberProperty{Number: 8.5},
			PropComment:  &notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: "Good so far"}}},
			PropTags:     &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{{Name: "rpg"}}},
		},
	}

	patch := StateFromPage(page)

	assert.Equal(t, models.StatusInProgress, patch.Status)
	require.NotNil(t, patch.UserRating)
	assert.Equal(t, 8.5, *patch.UserRating)
	assert.Equal(t, "Good so far", patch.Comment)
	assert.Equal(t, []string{"rpg"}, patch.Tags)
}

func TestStateFromPage_IgnoresUnknownStatus(t *testing.T) {
	page := &notionapi.Page{
		Properties: notionapi.Properties{
			PropStatus: &notionapi.SelectProperty{Select: notionapi.Option{Name: "Someday"}},
		},
	}

	patch := StateFromPage(page)

	assert.Empty(t, patch.Status)
	assert.Nil(t, patch.UserRating)
}
