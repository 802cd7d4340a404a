package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/log"
	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/sync"
)

var syncKind string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the library into your Notion database",
	Long: `Mirror the library into your Notion database.

Items synced for the first time get a new page; items synced before are
updated in place. One failing item never aborts the run.

Configure the target first:
  shelfmark providers set notion <integration-token> --extra <database-id>
  shelfmark providers enable notion

Examples:
  shelfmark sync
  shelfmark sync --kind book`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncKind, "kind", "", "Sync only one kind (BOOK, MOVIE, TV_SHOW, GAME)")
}

func runSync(cmd *cobra.Command, args []string) error {
	var kind models.MediaKind
	var err error
	if syncKind != "" {
		if kind, err = parseKindArg(syncKind); err != nil {
			return trackCLIError("sync", err)
		}
	}

	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("sync", err)
	}
	defer func() { _ = database.Close() }()

	engine, err := sync.NewFromConfig(database)
	if err != nil {
		return trackCLIError("sync", err)
	}

	start := time.Now()
	events := engine.Run(cmd.Context(), kind)
	synced, failed, total, err := renderRun(events, "Syncing to Notion")
	telemetryClient.TrackSyncRun("push", synced, failed, total, time.Since(start).Milliseconds())
	return trackCLIError("sync", err)
}

// renderRun consumes an event stream and paints the progress bar.
// Returns the final tally and the run error, if any.
func renderRun(events <-chan sync.Event, heading string) (synced, failed, total int, err error) {
	var bar *ProgressBar

	for ev := range events {
		switch ev.Kind {
		case sync.EventStarted:
			total = ev.Total
			fmt.Printf("%s (%d items)\n", heading, ev.Total)
			bar = NewProgressBar(ev.Total, 20)

		case sync.EventItemFailed:
			failed++
			ClearLine()
			fmt.Printf("  ✗ %s: %v\n", ev.Title, ev.Err)
			log.Errorf("sync: item %s failed: %v", ev.ItemID, ev.Err)

		case sync.EventItemSynced:
			// The progress event that follows repaints the bar.

		case sync.EventProgress:
			if bar != nil {
				bar.Update(ev.Processed, "")
				ClearLine()
				fmt.Print(bar.Render())
			}

		case sync.EventSuccess:
			synced = ev.Synced
			ClearLine()
			if failed > 0 {
				fmt.Printf("Done: %d/%d synced, %d failed.\n", ev.Synced, ev.Total, failed)
			} else {
				fmt.Printf("Done: %d/%d synced.\n", ev.Synced, ev.Total)
			}

		case sync.EventError:
			ClearLine()
			err = ev.Err
		}
	}
	return synced, failed, total, err
}
