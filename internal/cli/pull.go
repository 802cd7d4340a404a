package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/sync"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull status, rating, comment and tag edits back from Notion",
	Long: `Pull status, rating, comment and tag edits back from Notion.

Only pages created by 'shelfmark sync' are considered; catalog metadata
always flows from the local library to Notion, never back. Status
changes made in Notion obey the same transition rules as local edits.`,
	RunE: runPull,
}

func runPull(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("pull", err)
	}
	defer func() { _ = database.Close() }()

	engine, err := sync.NewFromConfig(database)
	if err != nil {
		return trackCLIError("pull", err)
	}

	start := time.Now()
	events := engine.Pull(cmd.Context())
	synced, failed, total, err := renderRun(events, "Pulling from Notion")
	telemetryClient.TrackSyncRun("pull", synced, failed, total, time.Since(start).Milliseconds())
	return trackCLIError("pull", err)
}
