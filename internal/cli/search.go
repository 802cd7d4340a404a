package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/providers"
)

var searchPage int

var searchCmd = &cobra.Command{
	Use:   "search <kind> <query>",
	Short: "Search the public catalogs for a work",
	Long: `Search the public catalogs for a work.

Every enabled provider for the kind is queried. Use the printed
provider/id pair with 'shelfmark add' to import a result.

Examples:
  shelfmark search book "atomic habits"
  shelfmark search movie "the matrix"
  shelfmark search game witcher --page 2`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 0, "Result page (0-based)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	kind, err := parseKindArg(args[0])
	if err != nil {
		return trackCLIError("search", err)
	}
	query := strings.Join(args[1:], " ")

	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("search", err)
	}
	defer func() { _ = database.Close() }()

	clients, err := providers.ForKind(kind, database)
	if err != nil {
		fmt.Printf("Warning: some providers unavailable: %v\n", err)
	}
	if len(clients) == 0 {
		return trackCLIError("search", fmt.Errorf(
			"no enabled providers for %s, run 'shelfmark providers list'", kind))
	}

	found := 0
	for _, client := range clients {
		results, err := client.Search(cmd.Context(), query, searchPage)
		if err != nil {
			if errors.Is(err, providers.ErrNoResults) {
				continue
			}
			fmt.Printf("Warning: %s: %v\n", client.Name(), err)
			continue
		}

		fmt.Printf("\n%s (%d results)\n", strings.ToUpper(client.Name()), len(results))
		fmt.Println("──────────────────────────────────────────────────")
		for _, r := range results {
			year := ""
			if r.Year > 0 {
				year = fmt.Sprintf(" (%d)", r.Year)
			}
			byline := ""
			if r.Byline != "" {
				byline = " - " + strings.ReplaceAll(r.Byline, "|", ", ")
			}
			fmt.Printf("  %-14s %s%s%s\n", r.ProviderID, r.Title, year, byline)
		}
		found += len(results)
		telemetryClient.TrackSearchPerformed(string(kind), client.Name(), len(results))
	}

	if found == 0 {
		fmt.Println("No results.")
		return nil
	}
	fmt.Printf("\nImport with: shelfmark add %s <id> --provider <name>\n", strings.ToLower(string(kind)))
	return nil
}
