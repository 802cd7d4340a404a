// Package sync mirrors the local library into the configured Notion
// database. Runs are batch-oriented: one item failing never aborts the
// batch, and progress streams over a channel so the CLI can render it
// live.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfmark/shelfmark/internal/db"
	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/notion"
)

// Engine pushes items to the sync target and pulls user edits back.
type Engine struct {
	db     *db.DB
	writer notion.PageWriter
}

// New creates an engine over an already constructed page writer.
func New(database *db.DB, writer notion.PageWriter) *Engine {
	return &Engine{db: database, writer: writer}
}

// NewFromConfig builds the Notion client from the stored provider
// config. Returns notion.ErrNotConfigured when the token or database id
// is missing.
func NewFromConfig(database *db.DB) (*Engine, error) {
	cfg, err := database.GetAPIConfig(models.ProviderNotion)
	if err != nil {
		return nil, err
	}
	client, err := notion.New(cfg)
	if err != nil {
		return nil, err
	}
	return New(database, client), nil
}

// Run mirrors every item of the given kind (or all kinds when kind is
// empty) into Notion. Events stream on the returned channel, which is
// closed when the run ends. Cancellation is honored between items; a
// cancelled run emits EventError and records no sync timestamp.
func (e *Engine) Run(ctx context.Context, kind models.MediaKind) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		e.run(ctx, kind, events)
	}()
	return events
}

func (e *Engine) run(ctx context.Context, kind models.MediaKind, events chan<- Event) {
	if e.writer == nil {
		events <- Event{Kind: EventError, Err: notion.ErrNotConfigured}
		return
	}

	items, err := e.collect(kind)
	if err != nil {
		events <- Event{Kind: EventError, Err: err}
		return
	}

	total := len(items)
	events <- Event{Kind: EventStarted, Total: total}

	synced := 0
	for i := range items {
		if ctx.Err() != nil {
			events <- Event{Kind: EventError, Processed: i, Total: total, Err: ctx.Err()}
			return
		}
		item := &items[i]

		if err := e.pushItem(ctx, item); err != nil {
			events <- Event{Kind: EventItemFailed, ItemID: item.ID, Title: item.Title, Err: err}
		} else {
			synced++
			events <- Event{Kind: EventItemSynced, ItemID: item.ID, Title: item.Title}
		}
		events <- Event{Kind: EventProgress, Processed: i + 1, Total: total}
	}

	if err := e.db.SetSyncMeta(models.SyncMetaLastFullSync, time.Now().UTC().Format(time.RFC3339)); err != nil {
		events <- Event{Kind: EventError, Processed: total, Total: total, Err: err}
		return
	}
	events <- Event{Kind: EventSuccess, Synced: synced, Total: total}
}

func (e *Engine) collect(kind models.MediaKind) ([]models.Item, error) {
	kinds := models.ValidKinds()
	if kind != "" {
		kinds = []models.MediaKind{kind}
	}
	var items []models.Item
	for _, k := range kinds {
		batch, err := e.db.ListItems(k)
		if err != nil {
			return nil, fmt.Errorf("list %s items: %w", k, err)
		}
		items = append(items, batch...)
	}
	return items, nil
}

// pushItem creates or updates the Notion page for one item. A first
// successful create stores the returned page id so later runs update in
// place instead of duplicating.
func (e *Engine) pushItem(ctx context.Context, item *models.Item) error {
	detail, err := e.db.GetDetail(item)
	if err != nil {
		return fmt.Errorf("load detail: %w", err)
	}
	properties := notion.PropertiesFor(item, detail)

	if item.NotionPageID == "" {
		pageID, err := e.writer.CreatePage(ctx, properties)
		if err != nil {
			return err
		}
		if err := e.db.SetSyncTargetPage(item.ID, pageID); err != nil {
			return fmt.Errorf("record page id: %w", err)
		}
		item.NotionPageID = pageID
		return nil
	}
	return e.writer.UpdatePage(ctx, item.NotionPageID, properties)
}

// SyncItem mirrors a single item immediately, outside a batch run.
func (e *Engine) SyncItem(ctx context.Context, id string) error {
	if e.writer == nil {
		return notion.ErrNotConfigured
	}
	item, err := e.db.GetItem(id)
	if err != nil {
		return err
	}
	return e.pushItem(ctx, item)
}

// LastFullSync returns the timestamp of the last completed push run, or
// the zero time when no run has completed.
func (e *Engine) LastFullSync() (time.Time, error) {
	value, err := e.db.GetSyncMeta(models.SyncMetaLastFullSync)
	if err != nil || value == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}
