package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("stats", err)
	}
	defer func() { _ = database.Close() }()

	stats, err := database.GetStats()
	if err != nil {
		return trackCLIError("stats", err)
	}

	fmt.Printf("Library: %d items (%d synced to Notion)\n", stats.TotalItems, stats.SyncedItems)

	fmt.Println("\nBy kind:")
	for _, kind := range models.ValidKinds() {
		fmt.Printf("  %-10s %d\n", kind, stats.ByKind[kind])
	}

	fmt.Println("\nBy status:")
	for _, status := range models.ValidStatuses() {
		fmt.Printf("  %-13s %d\n", status, stats.ByStatus[status])
	}

	if stats.LastFullSync.IsZero() {
		fmt.Println("\nLast sync: never")
	} else {
		fmt.Printf("\nLast sync: %s (%s)\n",
			stats.LastFullSync.Local().Format(time.DateTime),
			formatTimeSince(stats.LastFullSync))
	}
	return nil
}
