package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/models"
)

var statusKind string

var statusCmd = &cobra.Command{
	Use:   "status <id-or-title> <new-status>",
	Short: "Move an item to a new consumption state",
	Long: `Move an item to a new consumption state.

Legal moves:
  WANT        -> IN_PROGRESS, ABANDONED
  IN_PROGRESS -> DONE, ABANDONED
  DONE        -> WANT
  ABANDONED   -> WANT

Examples:
  shelfmark status 6a1f... IN_PROGRESS
  shelfmark status "atomic habits" DONE --kind book`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusKind, "kind", "", "Kind to search when passing a title")
}

func runStatus(cmd *cobra.Command, args []string) error {
	next, ok := models.ParseStatus(args[1])
	if !ok {
		return trackCLIError("status", fmt.Errorf("unknown status %q", args[1]))
	}

	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("status", err)
	}
	defer func() { _ = database.Close() }()

	var kind models.MediaKind
	if statusKind != "" {
		if kind, err = parseKindArg(statusKind); err != nil {
			return trackCLIError("status", err)
		}
	}

	item, err := resolveItem(database, kind, args[0])
	if err != nil {
		return trackCLIError("status", err)
	}

	previous := item.Status
	if err := database.UpdateStatus(item.ID, next); err != nil {
		return trackCLIError("status", err)
	}

	telemetryClient.TrackStatusChanged(string(item.Kind), string(previous), string(next))
	fmt.Printf("%s: %s -> %s\n", item.Title, previous, next)
	return nil
}
