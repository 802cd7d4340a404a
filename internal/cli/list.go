package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/models"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List library items of a kind",
	Long: `List library items of a kind, oldest first.

Examples:
  shelfmark list book
  shelfmark list game --status IN_PROGRESS`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (WANT, IN_PROGRESS, DONE, ABANDONED)")
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := parseKindArg(args[0])
	if err != nil {
		return trackCLIError("list", err)
	}

	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("list", err)
	}
	defer func() { _ = database.Close() }()

	var items []models.Item
	if listStatus != "" {
		status, ok := models.ParseStatus(listStatus)
		if !ok {
			return trackCLIError("list", fmt.Errorf("unknown status %q", listStatus))
		}
		items, err = database.ListByStatus(kind, status)
	} else {
		items, err = database.ListItems(kind)
	}
	if err != nil {
		return trackCLIError("list", fmt.Errorf("list items: %w", err))
	}

	if len(items) == 0 {
		fmt.Printf("No %s items.\n\nUse 'shelfmark search' and 'shelfmark add' to import some.\n", kind)
		return nil
	}

	fmt.Printf("%s (%d items)\n", kind, len(items))
	fmt.Println("──────────────────────────────────────────────────")
	for _, item := range items {
		year := ""
		if item.Year > 0 {
			year = fmt.Sprintf(" (%d)", item.Year)
		}
		rating := ""
		if item.UserRating != nil {
			rating = fmt.Sprintf("  ★ %.1f", *item.UserRating)
		}
		synced := " "
		if item.NotionPageID != "" {
			synced = "✓"
		}
		fmt.Printf("  %s [%-11s] %s%s%s\n", synced, item.Status, item.Title, year, rating)
		fmt.Printf("      id: %s  added: %s\n", item.ID, formatTimeSince(item.CreatedAt))
	}
	return nil
}

// formatTimeSince formats a duration since a time in a human-readable way.
func formatTimeSince(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
