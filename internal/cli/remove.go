package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	removeForce bool
	removeKind  string
)

var removeCmd = &cobra.Command{
	Use:     "remove <id-or-title>",
	Aliases: []string{"rm"},
	Short:   "Delete an item from the library (alias: rm)",
	Long: `Delete an item from the library.

The item's detail record and every owned sub-entity (seasons, episodes,
platforms, DLCs) are removed with it, all-or-nothing. The mirrored
Notion page is left alone; delete it there if you want it gone.

Examples:
  shelfmark remove 6a1f...
  shelfmark remove "the matrix" --kind movie --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation prompt")
	removeCmd.Flags().StringVar(&removeKind, "kind", "", "Kind to search when passing a title")
}

func runRemove(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("remove", err)
	}
	defer func() { _ = database.Close() }()

	item, err := resolveWithKind(database, removeKind, args[0])
	if err != nil {
		return trackCLIError("remove", err)
	}

	if !removeForce {
		fmt.Printf("You are about to remove %q (%s)\n", item.Title, item.Kind)
		fmt.Println("This will delete the item and all its detail records.")
		fmt.Println("This action cannot be undone.")
		fmt.Print("\nAre you sure? [y/N]: ")

		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" && response != "yes" && response != "Yes" {
			fmt.Println("Aborting.")
			return nil
		}
	}

	if err := database.DeleteItem(item.ID); err != nil {
		return trackCLIError("remove", err)
	}

	telemetryClient.TrackItemRemoved(string(item.Kind))
	fmt.Printf("Removed %q\n", item.Title)
	return nil
}
