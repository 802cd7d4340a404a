package notion

import (
	"strings"

	"github.com/jomei/notionapi"

	"github.com/shelfmark/shelfmark/internal/models"
)

// Notion rejects rich text fragments over 2000 characters.
const maxRichTextLen = 2000

// Database column names. The target database is expected to carry this
// schema; the sync engine surfaces Notion's validation error when a
// column is missing.
const (
	PropName     = "Name"
	PropKind     = "Kind"
	PropStatus   = "Status"
	PropYear     = "Year"
	PropRating   = "Rating"
	PropMyRating = "My Rating"
	PropGenres   = "Genres"
	PropTags     = "Tags"
	PropComment  = "Comment"
	PropCover    = "Cover"
	PropLink     = "Link"

	PropAuthor    = "Author"
	PropISBN      = "ISBN"
	PropPages     = "Pages"
	PropDirector  = "Director"
	PropDuration  = "Duration (min)"
	PropSeasons   = "Seasons"
	PropEpisodes  = "Episodes"
	PropNetwork   = "Network"
	PropDeveloper = "Developer"
	PropPlatforms = "Platforms"
	PropRelease   = "Release"
)

// PropertiesFor flattens an item and its detail record into the Notion
// property map. Kind-specific columns are only set for the matching
// kind; absent details contribute nothing.
func PropertiesFor(item *models.Item, detail any) notionapi.Properties {
	props := notionapi.Properties{
		PropName:   titleProp(item.Title),
		PropKind:   selectProp(string(item.Kind)),
		PropStatus: selectProp(string(item.Status)),
		PropRating: numberProp(item.OverallRating),
	}
	if item.Year > 0 {
		props[PropYear] = numberProp(float64(item.Year))
	}
	if item.UserRating != nil {
		props[PropMyRating] = numberProp(*item.UserRating)
	}
	if genres := item.GenreList(); len(genres) > 0 {
		props[PropGenres] = multiSelectProp(genres)
	}
	if tags := item.TagList(); len(tags) > 0 {
		props[PropTags] = multiSelectProp(tags)
	}
	if item.UserComment != "" {
		props[PropComment] = richTextProp(item.UserComment)
	}
	if item.CoverURL != "" {
		props[PropCover] = &notionapi.URLProperty{URL: item.CoverURL}
	}
	if item.ProviderURL != "" {
		props[PropLink] = &notionapi.URLProperty{URL: item.ProviderURL}
	}

	switch d := detail.(type) {
	case *models.BookDetail:
		if d == nil {
			break
		}
		if d.Author != "" {
			props[PropAuthor] = richTextProp(strings.Join(models.SplitList(d.Author), ", "))
		}
		if d.ISBN != "" {
			props[PropISBN] = richTextProp(d.ISBN)
		}
		if d.PageCount > 0 {
			props[PropPages] = numberProp(float64(d.PageCount))
		}

	case *models.MovieDetail:
		if d == nil {
			break
		}
		if d.Director != "" {
			props[PropDirector] = richTextProp(d.Director)
		}
		if d.DurationMinutes > 0 {
			props[PropDuration] = numberProp(float64(d.DurationMinutes))
		}

	case *models.TvShowDetail:
		if d == nil {
			break
		}
		if d.TotalSeasons > 0 {
			props[PropSeasons] = numberProp(float64(d.TotalSeasons))
		}
		if d.TotalEpisodes > 0 {
			props[PropEpisodes] = numberProp(float64(d.TotalEpisodes))
		}
		if d.Network != "" {
			props[PropNetwork] = richTextProp(d.Network)
		}

	case *models.GameDetail:
		if d == nil {
			break
		}
		if d.Developer != "" {
			props[PropDeveloper] = richTextProp(d.Developer)
		}
		if len(d.Platforms) > 0 {
			names := make([]string, 0, len(d.Platforms))
			for _, p := range d.Platforms {
				names = append(names, p.Name)
			}
			props[PropPlatforms] = multiSelectProp(names)
		}
		if d.ReleaseDate != "" {
			props[PropRelease] = richTextProp(d.ReleaseDate)
		}
	}

	return props
}

// StatePatch is the user-editable state read back from a Notion page
// during a pull. Nil/empty fields mean the page does not carry a value.
type StatePatch struct {
	Status     models.Status
	UserRating *float64
	Comment    string
	Tags       []string
}

// StateFromPage extracts the user-editable columns from a queried page.
// Unknown or malformed properties are skipped, never fatal.
func StateFromPage(page *notionapi.Page) StatePatch {
	var patch StatePatch

	if sel, ok := page.Properties[PropStatus].(*notionapi.SelectProperty); ok {
		if status, valid := models.ParseStatus(sel.Select.Name); valid {
			patch.Status = status
		}
	}
	if num, ok := page.Properties[PropMyRating].(*notionapi.NumberProperty); ok && num.Number > 0 {
		rating := num.Number
		patch.UserRating = &rating
	}
	if rt, ok := page.Properties[PropComment].(*notionapi.RichTextProperty); ok {
		patch.Comment = plainText(rt.RichText)
	}
	if ms, ok := page.Properties[PropTags].(*notionapi.MultiSelectProperty); ok {
		for _, opt := range ms.MultiSelect {
			patch.Tags = append(patch.Tags, opt.Name)
		}
	}

	return patch
}

func titleProp(s string) *notionapi.TitleProperty {
	return &notionapi.TitleProperty{Title: richText(s)}
}

func richTextProp(s string) *notionapi.RichTextProperty {
	return &notionapi.RichTextProperty{RichText: richText(s)}
}

func richText(s string) []notionapi.RichText {
	if len(s) > maxRichTextLen {
		s = s[:maxRichTextLen]
	}
	return []notionapi.RichText{{Text: &notionapi.Text{Content: s}}}
}

func selectProp(name string) *notionapi.SelectProperty {
	return &notionapi.SelectProperty{Select: notionapi.Option{Name: name}}
}

func multiSelectProp(names []string) *notionapi.MultiSelectProperty {
	options := make([]notionapi.Option, 0, len(names))
	for _, name := range names {
		options = append(options, notionapi.Option{Name: name})
	}
	return &notionapi.MultiSelectProperty{MultiSelect: options}
}

func numberProp(n float64) *notionapi.NumberProperty {
	return &notionapi.NumberProperty{Number: n}
}

func plainText(fragments []notionapi.RichText) string {
	var b strings.Builder
	for _, fragment := range fragments {
		if fragment.PlainText != "" {
			b.WriteString(fragment.PlainText)
		} else if fragment.Text != nil {
			b.WriteString(fragment.Text.Content)
		}
	}
	return b.String()
}
