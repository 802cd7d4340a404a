package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shelfmark/shelfmark/internal/models"
)

// UpsertItem creates or updates a canonical item together with its detail
// record in a single transaction. The detail must match the item's kind;
// pass nil to leave an existing detail record untouched.
//
// Owned sub-entities (seasons/episodes, platforms/DLCs) are replaced
// wholesale from the supplied detail so repeated imports never accumulate
// duplicates.
func (db *DB) UpsertItem(item *models.Item, detail any) error {
	if item.ID == "" {
		return fmt.Errorf("upsert item: missing id")
	}
	if item.Title == "" {
		return fmt.Errorf("upsert item: missing title")
	}

	return db.Transaction(func(tx *DB) error {
		now := time.Now()
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		if item.Status == "" {
			item.Status = models.StatusWant
		}
		item.LastModified = now

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "original_title", "year", "cover_url", "description",
				"source_rating", "overall_rating",
				"genres",
				"provider_name", "provider_ref_id", "provider_url",
				"last_modified",
				// NOT updated: status, user_rating, user_comment, user_tags,
				// notion_page_id, created_at - user and sync state survives
				// repeated imports.
			}),
		}).Create(item).Error; err != nil {
			return fmt.Errorf("upsert item: %w", err)
		}

		if detail == nil {
			return nil
		}
		return tx.upsertDetail(item, detail)
	})
}

func (db *DB) upsertDetail(item *models.Item, detail any) error {
	switch d := detail.(type) {
	case *models.BookDetail:
		if item.Kind != models.KindBook {
			return ErrKindMismatch
		}
		d.ItemID = item.ID
		return db.saveDetail(d)

	case *models.MovieDetail:
		if item.Kind != models.KindMovie {
			return ErrKindMismatch
		}
		d.ItemID = item.ID
		return db.saveDetail(d)

	case *models.TvShowDetail:
		if item.Kind != models.KindTVShow {
			return ErrKindMismatch
		}
		d.ItemID = item.ID
		if err := db.deleteTvSubEntities(item.ID); err != nil {
			return err
		}
		seasons := d.Seasons
		d.Seasons = nil
		if err := db.saveDetail(d); err != nil {
			return err
		}
		for i := range seasons {
			seasons[i].ID = 0
			seasons[i].ItemID = item.ID
			episodes := seasons[i].Episodes
			seasons[i].Episodes = nil
			if err := db.Create(&seasons[i]).Error; err != nil {
				return fmt.Errorf("create season %d: %w", seasons[i].SeasonNumber, err)
			}
			for j := range episodes {
				episodes[j].ID = 0
				episodes[j].SeasonID = seasons[i].ID
			}
			if len(episodes) > 0 {
				if err := db.Create(&episodes).Error; err != nil {
					return fmt.Errorf("create episodes for season %d: %w", seasons[i].SeasonNumber, err)
				}
			}
			seasons[i].Episodes = episodes
		}
		d.Seasons = seasons
		return nil

	case *models.GameDetail:
		if item.Kind != models.KindGame {
			return ErrKindMismatch
		}
		d.ItemID = item.ID
		if err := db.deleteGameSubEntities(item.ID); err != nil {
			return err
		}
		platforms, dlcs := d.Platforms, d.DLCs
		d.Platforms, d.DLCs = nil, nil
		if err := db.saveDetail(d); err != nil {
			return err
		}
		for i := range platforms {
			platforms[i].ID = 0
			platforms[i].ItemID = item.ID
		}
		if len(platforms) > 0 {
			if err := db.Create(&platforms).Error; err != nil {
				return fmt.Errorf("create platforms: %w", err)
			}
		}
		for i := range dlcs {
			dlcs[i].ID = 0
			dlcs[i].ItemID = item.ID
		}
		if len(dlcs) > 0 {
			if err := db.Create(&dlcs).Error; err != nil {
				return fmt.Errorf("create dlcs: %w", err)
			}
		}
		d.Platforms, d.DLCs = platforms, dlcs
		return nil

	default:
		return fmt.Errorf("upsert detail: unsupported type %T", detail)
	}
}

// saveDetail upserts a one-to-one detail record keyed by item_id.
func (db *DB) saveDetail(detail any) error {
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}},
		UpdateAll: true,
	}).Create(detail).Error; err != nil {
		return fmt.Errorf("upsert detail: %w", err)
	}
	return nil
}

// GetItem retrieves a canonical item by id.
func (db *DB) GetItem(id string) (*models.Item, error) {
	var item models.Item
	err := db.First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetDetail retrieves the kind-appropriate detail record for an item,
// with owned sub-entities preloaded. Returns nil without error when the
// item has no detail record yet (e.g. manual entry).
func (db *DB) GetDetail(item *models.Item) (any, error) {
	switch item.Kind {
	case models.KindBook:
		var d models.BookDetail
		err := db.First(&d, "item_id = ?", item.ID).Error
		return detailOrNil(&d, err)

	case models.KindMovie:
		var d models.MovieDetail
		err := db.First(&d, "item_id = ?", item.ID).Error
		return detailOrNil(&d, err)

	case models.KindTVShow:
		var d models.TvShowDetail
		err := db.Preload("Seasons", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("season_number")
		}).Preload("Seasons.Episodes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("episode_number")
		}).First(&d, "item_id = ?", item.ID).Error
		return detailOrNil(&d, err)

	case models.KindGame:
		var d models.GameDetail
		err := db.Preload("Platforms").Preload("DLCs").First(&d, "item_id = ?", item.ID).Error
		return detailOrNil(&d, err)

	default:
		return nil, fmt.Errorf("get detail: unknown kind %q", item.Kind)
	}
}

func detailOrNil(detail any, err error) (any, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return detail, nil
}

// ListItems returns all items of a kind in creation order.
func (db *DB) ListItems(kind models.MediaKind) ([]models.Item, error) {
	var items []models.Item
	err := db.Where("kind = ?", kind).Order("created_at").Find(&items).Error
	return items, err
}

// ListByStatus returns all items of a kind in the given status.
func (db *DB) ListByStatus(kind models.MediaKind, status models.Status) ([]models.Item, error) {
	var items []models.Item
	err := db.Where("kind = ? AND status = ?", kind, status).Order("created_at").Find(&items).Error
	return items, err
}

// SearchByTitle performs a case-insensitive, unanchored substring match
// against title and original title.
func (db *DB) SearchByTitle(kind models.MediaKind, substring string) ([]models.Item, error) {
	pattern := "%" + strings.ToLower(substring) + "%"
	var items []models.Item
	err := db.Where("kind = ? AND (LOWER(title) LIKE ? OR LOWER(original_title) LIKE ?)", kind, pattern, pattern).
		Order("created_at").Find(&items).Error
	return items, err
}

// FindByProviderRef looks up an item by kind and industry identifier
// (ISBN, TMDB id, IGDB id, ...). Returns nil when no match exists.
func (db *DB) FindByProviderRef(kind models.MediaKind, refID string) (*models.Item, error) {
	if refID == "" {
		return nil, nil
	}
	var item models.Item
	err := db.First(&item, "kind = ? AND provider_ref_id = ?", kind, refID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// UpdateStatus moves an item to a new consumption state. The current
// status is read from storage inside the transaction, never trusted from
// the caller, so a stale client cannot force an illegal jump.
func (db *DB) UpdateStatus(id string, next models.Status) error {
	if !next.IsValid() {
		return ErrInvalidTransition
	}
	return db.Transaction(func(tx *DB) error {
		item, err := tx.GetItem(id)
		if err != nil {
			return err
		}
		if !item.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, item.Status, next)
		}
		return tx.Model(&models.Item{}).Where("id = ?", id).Updates(map[string]any{
			"status":        next,
			"last_modified": time.Now(),
		}).Error
	})
}

// UpdateRating sets the user rating (0-10 scale).
func (db *DB) UpdateRating(id string, rating float64) error {
	if rating < 0 || rating > 10 {
		return ErrInvalidRating
	}
	return db.updateItemFields(id, map[string]any{"user_rating": rating})
}

// UpdateComment sets the user comment.
func (db *DB) UpdateComment(id string, comment string) error {
	return db.updateItemFields(id, map[string]any{"user_comment": comment})
}

// UpdateTags replaces the ordered user tag sequence.
func (db *DB) UpdateTags(id string, tags []string) error {
	return db.updateItemFields(id, map[string]any{"user_tags": models.JoinList(tags)})
}

// SetSyncTargetPage records the Notion page id returned by a successful
// create against the sync target. The engine never clears it.
func (db *DB) SetSyncTargetPage(id string, pageID string) error {
	return db.updateItemFields(id, map[string]any{"notion_page_id": pageID})
}

func (db *DB) updateItemFields(id string, fields map[string]any) error {
	fields["last_modified"] = time.Now()
	result := db.Model(&models.Item{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes an item, its detail record, and any owned
// sub-entities, all-or-nothing.
func (db *DB) DeleteItem(id string) error {
	return db.Transaction(func(tx *DB) error {
		item, err := tx.GetItem(id)
		if err != nil {
			return err
		}

		switch item.Kind {
		case models.KindBook:
			if err := tx.Delete(&models.BookDetail{}, "item_id = ?", id).Error; err != nil {
				return fmt.Errorf("delete book detail: %w", err)
			}
		case models.KindMovie:
			if err := tx.Delete(&models.MovieDetail{}, "item_id = ?", id).Error; err != nil {
				return fmt.Errorf("delete movie detail: %w", err)
			}
		case models.KindTVShow:
			if err := tx.Delete(&models.TvShowDetail{}, "item_id = ?", id).Error; err != nil {
				return fmt.Errorf("delete tv show detail: %w", err)
			}
			if err := tx.deleteTvSubEntities(id); err != nil {
				return err
			}
		case models.KindGame:
			if err := tx.Delete(&models.GameDetail{}, "item_id = ?", id).Error; err != nil {
				return fmt.Errorf("delete game detail: %w", err)
			}
			if err := tx.deleteGameSubEntities(id); err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.Item{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return nil
	})
}

func (db *DB) deleteTvSubEntities(itemID string) error {
	if err := db.Where("season_id IN (?)",
		db.Model(&models.Season{}).Select("id").Where("item_id = ?", itemID),
	).Delete(&models.Episode{}).Error; err != nil {
		return fmt.Errorf("delete episodes: %w", err)
	}
	if err := db.Delete(&models.Season{}, "item_id = ?", itemID).Error; err != nil {
		return fmt.Errorf("delete seasons: %w", err)
	}
	return nil
}

func (db *DB) deleteGameSubEntities(itemID string) error {
	if err := db.Delete(&models.GamePlatform{}, "item_id = ?", itemID).Error; err != nil {
		return fmt.Errorf("delete platforms: %w", err)
	}
	if err := db.Delete(&models.GameDLC{}, "item_id = ?", itemID).Error; err != nil {
		return fmt.Errorf("delete dlcs: %w", err)
	}
	return nil
}
