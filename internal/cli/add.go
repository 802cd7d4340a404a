package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/db"
	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/normalize"
	"github.com/shelfmark/shelfmark/internal/providers"
)

var addProvider string

var addCmd = &cobra.Command{
	Use:   "add <kind> <provider-id>",
	Short: "Import a work from a catalog into the library",
	Long: `Import a work from a catalog into the library.

The provider id comes from 'shelfmark search'. New items start in WANT.
Re-importing a known work refreshes its catalog metadata and leaves your
status, rating, comment and tags untouched.

Examples:
  shelfmark add book 9780735211292 --provider googlebooks
  shelfmark add movie 603 --provider tmdb
  shelfmark add game 1942 --provider igdb`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addProvider, "provider", "", "Provider to fetch from (required when several serve the kind)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	kind, err := parseKindArg(args[0])
	if err != nil {
		return trackCLIError("add", err)
	}
	providerID := args[1]

	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("add", err)
	}
	defer func() { _ = database.Close() }()

	client, err := pickClient(database, kind)
	if err != nil {
		return trackCLIError("add", err)
	}

	fmt.Printf("Fetching %s from %s...\n", providerID, client.Name())
	payload, err := client.FetchDetail(cmd.Context(), providerID)
	if err != nil {
		return trackCLIError("add", fmt.Errorf("fetch %s: %w", providerID, err))
	}

	item, detail, err := normalize.FromPayload(payload, database)
	if err != nil {
		return trackCLIError("add", err)
	}
	if err := database.UpsertItem(item, detail); err != nil {
		return trackCLIError("add", err)
	}

	telemetryClient.TrackItemAdded(string(item.Kind), item.ProviderName)

	fmt.Printf("\nAdded %q (%d) [%s]\n", item.Title, item.Year, item.Status)
	fmt.Printf("  id: %s\n", item.ID)
	if genres := item.GenreList(); len(genres) > 0 {
		fmt.Printf("  genres: %v\n", genres)
	}
	return nil
}

// pickClient resolves the --provider flag against the kind's enabled
// providers, defaulting when only one is available.
func pickClient(database *db.DB, kind models.MediaKind) (providers.Client, error) {
	clients, err := providers.ForKind(kind, database)
	if len(clients) == 0 {
		if err != nil {
			return nil, fmt.Errorf("no usable providers for %s: %w", kind, err)
		}
		return nil, fmt.Errorf("no enabled providers for %s, run 'shelfmark providers list'", kind)
	}

	if addProvider == "" {
		if len(clients) == 1 {
			return clients[0], nil
		}
		names := make([]string, 0, len(clients))
		for _, c := range clients {
			names = append(names, c.Name())
		}
		return nil, fmt.Errorf("several providers serve %s (%v), pass --provider", kind, names)
	}

	for _, c := range clients {
		if c.Name() == addProvider {
			return c, nil
		}
	}
	return nil, fmt.Errorf("provider %q is not enabled for %s", addProvider, kind)
}
