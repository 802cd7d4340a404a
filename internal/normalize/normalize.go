// Package normalize converts heterogeneous provider payloads into the
// canonical item model. Mapping is pure: no network access, no storage
// writes. The only lookup is identity resolution against the local
// library so re-adding a known work updates it instead of duplicating it.
package normalize

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/providers"
)

// ErrMalformedPayload indicates a provider payload missing required
// fields (a title, at minimum).
var ErrMalformedPayload = errors.New("malformed provider payload")

// RatingScale identifies the native scale of a provider rating.
type RatingScale int

const (
	// ScaleTenPoint is the canonical 0-10 scale (TMDB).
	ScaleTenPoint RatingScale = iota
	// ScaleFiveStar is the 0-5 star scale (Google Books, Open Library, RAWG).
	ScaleFiveStar
	// ScaleHundred is the 0-100 aggregate scale (IGDB).
	ScaleHundred
)

// OverallRating converts a provider-native rating onto the canonical
// 0-10 scale. All scale conversion lives here; mappers never do their
// own arithmetic.
func OverallRating(raw float64, scale RatingScale) float64 {
	var r float64
	switch scale {
	case ScaleFiveStar:
		r = raw * 2
	case ScaleHundred:
		r = raw / 10
	default:
		r = raw
	}
	if r < 0 {
		return 0
	}
	if r > 10 {
		return 10
	}
	return r
}

// Resolver finds a previously imported item by its industry identifier.
// *db.DB satisfies it; a nil Resolver always mints fresh ids.
type Resolver interface {
	FindByProviderRef(kind models.MediaKind, refID string) (*models.Item, error)
}

// resolveID reuses the id of an existing item with the same kind and
// reference, so repeated imports converge on one record. Unknown
// references get a fresh uuid.
func resolveID(r Resolver, kind models.MediaKind, refID string) (string, error) {
	if r != nil && refID != "" {
		existing, err := r.FindByProviderRef(kind, refID)
		if err != nil {
			return "", fmt.Errorf("resolve %s %s: %w", kind, refID, err)
		}
		if existing != nil {
			return existing.ID, nil
		}
	}
	return uuid.NewString(), nil
}

// FromPayload dispatches a provider payload to its mapper. The returned
// detail is the kind-matching record (*models.BookDetail etc) ready for
// db.UpsertItem.
func FromPayload(payload providers.Payload, r Resolver) (*models.Item, any, error) {
	switch p := payload.(type) {
	case *providers.GoogleVolume:
		return BookFromGoogle(p, r)
	case *providers.OpenLibraryDoc:
		return BookFromOpenLibrary(p, r)
	case *providers.TMDBMovie:
		return MovieFromTMDB(p, r)
	case *providers.TMDBTVShow:
		return TVShowFromTMDB(p, r)
	case *providers.IGDBGame:
		return GameFromIGDB(p, r)
	case *providers.RAWGGame:
		return GameFromRAWG(p, r)
	}
	return nil, nil, fmt.Errorf("%w: unsupported payload %T", ErrMalformedPayload, payload)
}

// yearOf extracts the year from a YYYY or YYYY-MM-DD date string.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
