package normalize

import (
	"fmt"
	"strconv"

	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/providers"
)

// BookFromGoogle maps a Google Books volume onto a canonical BOOK item.
// The ISBN is the item's industry reference so the same edition imported
// from another provider lands on the same record; volumes without any
// ISBN fall back to the Google volume id.
func BookFromGoogle(v *providers.GoogleVolume, r Resolver) (*models.Item, any, error) {
	if v == nil || v.VolumeInfo.Title == "" {
		return nil, nil, fmt.Errorf("%w: google volume without title", ErrMalformedPayload)
	}

	refID := firstNonEmpty(v.ISBN13(), v.ID)
	id, err := resolveID(r, models.KindBook, refID)
	if err != nil {
		return nil, nil, err
	}

	info := v.VolumeInfo
	item := &models.Item{
		ID:            id,
		Kind:          models.KindBook,
		Title:         info.Title,
		Year:          yearOf(info.PublishedDate),
		CoverURL:      firstNonEmpty(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail),
		Description:   info.Description,
		SourceRating:  info.AverageRating,
		OverallRating: OverallRating(info.AverageRating, ScaleFiveStar),
		ProviderName:  models.ProviderGoogleBooks,
		ProviderRefID: refID,
		ProviderURL:   info.PreviewLink,
		Status:        models.StatusWant,
	}
	item.SetGenres(info.Categories)

	detail := &models.BookDetail{
		Author:      models.JoinList(info.Authors),
		ISBN:        v.ISBN13(),
		PageCount:   info.PageCount,
		Publisher:   info.Publisher,
		PublishDate: info.PublishedDate,
	}
	if price := v.SaleInfo.ListPrice; price.Amount > 0 {
		detail.Price = fmt.Sprintf("%.2f %s", price.Amount, price.CurrencyCode)
	}

	return item, detail, nil
}

// BookFromOpenLibrary maps an Open Library doc onto a canonical BOOK
// item. Like the Google mapper it keys on ISBN when the doc carries one,
// so the two book providers deduplicate against each other.
func BookFromOpenLibrary(d *providers.OpenLibraryDoc, r Resolver) (*models.Item, any, error) {
	if d == nil || d.Title == "" {
		return nil, nil, fmt.Errorf("%w: open library doc without title", ErrMalformedPayload)
	}

	isbn := ""
	if len(d.ISBN) > 0 {
		isbn = d.ISBN[0]
	}
	refID := firstNonEmpty(isbn, d.WorkID())
	id, err := resolveID(r, models.KindBook, refID)
	if err != nil {
		return nil, nil, err
	}

	item := &models.Item{
		ID:            id,
		Kind:          models.KindBook,
		Title:         d.Title,
		Year:          d.FirstPublishYear,
		CoverURL:      d.CoverImageURL(),
		Description:   firstNonEmpty(d.WorkDescriptionExtra, models.JoinList(d.FirstSentence)),
		SourceRating:  d.RatingsAverage,
		OverallRating: OverallRating(d.RatingsAverage, ScaleFiveStar),
		ProviderName:  models.ProviderOpenLibrary,
		ProviderRefID: refID,
		ProviderURL:   "https://openlibrary.org/works/" + d.WorkID(),
		Status:        models.StatusWant,
	}
	item.SetGenres(d.Subject)

	publisher := ""
	if len(d.Publisher) > 0 {
		publisher = d.Publisher[0]
	}
	publishDate := ""
	if d.FirstPublishYear > 0 {
		publishDate = strconv.Itoa(d.FirstPublishYear)
	}
	detail := &models.BookDetail{
		Author:      models.JoinList(d.AuthorName),
		ISBN:        isbn,
		PageCount:   d.NumberOfPagesMedian,
		Publisher:   publisher,
		PublishDate: publishDate,
	}

	return item, detail, nil
}
