package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/notion"
)

// Pull reads user-editable columns back from Notion and applies them to
// the matching local items. Matching is by stored page id: pages created
// outside a push run are ignored, since the local library is the source
// of truth for which works exist.
//
// Status changes from Notion go through the same transition rules as
// local edits; an illegal jump is reported as an item failure and the
// pull continues.
func (e *Engine) Pull(ctx context.Context) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		e.pull(ctx, events)
	}()
	return events
}

func (e *Engine) pull(ctx context.Context, events chan<- Event) {
	if e.writer == nil {
		events <- Event{Kind: EventError, Err: notion.ErrNotConfigured}
		return
	}

	byPage, err := e.itemsByPage()
	if err != nil {
		events <- Event{Kind: EventError, Err: err}
		return
	}

	pages, err := e.writer.QueryPages(ctx)
	if err != nil {
		events <- Event{Kind: EventError, Err: err}
		return
	}

	// Only pages we created are candidates.
	matched := make([]int, 0, len(pages))
	for i := range pages {
		if _, ok := byPage[string(pages[i].ID)]; ok {
			matched = append(matched, i)
		}
	}

	total := len(matched)
	events <- Event{Kind: EventStarted, Total: total}

	applied := 0
	for n, i := range matched {
		if ctx.Err() != nil {
			events <- Event{Kind: EventError, Processed: n, Total: total, Err: ctx.Err()}
			return
		}
		page := &pages[i]
		item := byPage[string(page.ID)]

		if err := e.applyPatch(item, notion.StateFromPage(page)); err != nil {
			events <- Event{Kind: EventItemFailed, ItemID: item.ID, Title: item.Title, Err: err}
		} else {
			applied++
			events <- Event{Kind: EventItemSynced, ItemID: item.ID, Title: item.Title}
		}
		events <- Event{Kind: EventProgress, Processed: n + 1, Total: total}
	}

	if err := e.db.SetSyncMeta(models.SyncMetaLastPullSync, time.Now().UTC().Format(time.RFC3339)); err != nil {
		events <- Event{Kind: EventError, Processed: total, Total: total, Err: err}
		return
	}
	events <- Event{Kind: EventSuccess, Synced: applied, Total: total}
}

// itemsByPage indexes every synced item by its Notion page id.
func (e *Engine) itemsByPage() (map[string]*models.Item, error) {
	byPage := make(map[string]*models.Item)
	for _, kind := range models.ValidKinds() {
		items, err := e.db.ListItems(kind)
		if err != nil {
			return nil, fmt.Errorf("list %s items: %w", kind, err)
		}
		for i := range items {
			if items[i].NotionPageID != "" {
				item := items[i]
				byPage[item.NotionPageID] = &item
			}
		}
	}
	return byPage, nil
}

func (e *Engine) applyPatch(item *models.Item, patch notion.StatePatch) error {
	if patch.Status != "" && patch.Status != item.Status {
		if err := e.db.UpdateStatus(item.ID, patch.Status); err != nil {
			return fmt.Errorf("apply status: %w", err)
		}
	}
	if patch.UserRating != nil {
		if err := e.db.UpdateRating(item.ID, *patch.UserRating); err != nil {
			return fmt.Errorf("apply rating: %w", err)
		}
	}
	if patch.Comment != "" && patch.Comment != item.UserComment {
		if err := e.db.UpdateComment(item.ID, patch.Comment); err != nil {
			return fmt.Errorf("apply comment: %w", err)
		}
	}
	if len(patch.Tags) > 0 {
		if err := e.db.UpdateTags(item.ID, patch.Tags); err != nil {
			return fmt.Errorf("apply tags: %w", err)
		}
	}
	return nil
}
