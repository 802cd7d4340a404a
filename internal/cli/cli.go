// Package cli provides the command-line interface for Shelfmark.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/db"
	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/telemetry"
	"github.com/shelfmark/shelfmark/pkg/version"
)

var telemetryClient telemetry.Client

var commandStartTime time.Time

var rootCmd = &cobra.Command{
	Use:   "shelfmark",
	Short: "Personal media tracker for books, movies, TV shows and games",
	Long: `Personal media tracker for books, movies, TV shows and games.

Shelfmark keeps your library in a local SQLite database, pulls metadata
from public catalogs (Google Books, Open Library, TMDB, IGDB, RAWG), and
mirrors everything into a Notion database you own.

Telemetry:
  Telemetry is enabled by default, always anonymous, and will never track
  titles, queries, personal information, or IP addresses.

  Opt-out with:
  	SHELFMARK_NO_TELEMETRY=1`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "shelfmark" {
			durationMs := time.Since(commandStartTime).Milliseconds()
			hasFlags := cmd.Flags().NFlag() > 0
			telemetryClient.TrackCLICommandExecuted(cmd.Name(), hasFlags, durationMs)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(statsCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New(nil)
	}
	telemetryClient = tc

	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}

// openDatabase loads config and opens the library database. Callers must
// close the returned handle.
func openDatabase() (*config.Config, *db.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}
	return cfg, database, nil
}

// parseKindArg converts a user-supplied kind (case-insensitive, "tv" is
// accepted for TV_SHOW) into a MediaKind.
func parseKindArg(arg string) (models.MediaKind, error) {
	normalized := strings.ToUpper(strings.TrimSpace(arg))
	switch normalized {
	case "TV", "SHOW", "TVSHOW":
		normalized = string(models.KindTVShow)
	}
	kind, ok := models.ParseKind(normalized)
	if !ok {
		return "", fmt.Errorf("unknown kind %q (expected BOOK, MOVIE, TV_SHOW or GAME)", arg)
	}
	return kind, nil
}

// resolveItem finds an item by exact id first, then by title substring.
// Ambiguous title matches are an error listing the candidates.
func resolveItem(database *db.DB, kind models.MediaKind, ref string) (*models.Item, error) {
	item, err := database.GetItem(ref)
	if err == nil {
		return item, nil
	}
	if kind == "" {
		return nil, fmt.Errorf("item %q not found (pass an id, or use --kind with a title)", ref)
	}

	matches, err := database.SearchByTitle(kind, ref)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no %s matching %q", kind, ref)
	case 1:
		return &matches[0], nil
	}
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("  %s  %s (%d)", m.ID, m.Title, m.Year))
	}
	return nil, fmt.Errorf("%q is ambiguous, candidates:\n%s", ref, strings.Join(lines, "\n"))
}

// trackCLIError wraps an error with telemetry tracking.
// Call this before returning errors from CLI commands.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	errorType := classifyError(err)
	telemetryClient.TrackCLIError(cmdName, errorType)
	return err
}

// classifyError determines the error type for telemetry.
func classifyError(err error) string {
	errStr := err.Error()
	switch {
	case containsAny(errStr, "config", "configuration", "not configured"):
		return "config_error"
	case containsAny(errStr, "database", "db"):
		return "database_error"
	case containsAny(errStr, "rate limit"):
		return "rate_limit_error"
	case containsAny(errStr, "credential", "unauthorized", "token"):
		return "credential_error"
	case containsAny(errStr, "network", "timeout", "connection", "unavailable"):
		return "network_error"
	case containsAny(errStr, "not found", "no results", "does not exist"):
		return "not_found_error"
	case containsAny(errStr, "invalid", "parse", "format", "transition"):
		return "validation_error"
	default:
		return "unknown_error"
	}
}

// containsAny checks if s contains any of the substrings (case-insensitive).
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
