package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/models"
)

var infoKind string

var infoCmd = &cobra.Command{
	Use:   "info <id-or-title>",
	Short: "Show full details for one item",
	Long: `Show full details for one item, including its kind-specific record.

Pass the item id, or a title substring together with --kind.

Examples:
  shelfmark info 6a1f...
  shelfmark info "breaking bad" --kind tv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&infoKind, "kind", "", "Kind to search when passing a title")
}

func runInfo(cmd *cobra.Command, args []string) error {
	ref := strings.Join(args, " ")

	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("info", err)
	}
	defer func() { _ = database.Close() }()

	var kind models.MediaKind
	if infoKind != "" {
		if kind, err = parseKindArg(infoKind); err != nil {
			return trackCLIError("info", err)
		}
	}

	item, err := resolveItem(database, kind, ref)
	if err != nil {
		return trackCLIError("info", err)
	}

	fmt.Printf("%s (%d)\n", item.Title, item.Year)
	fmt.Println("──────────────────────────────────────────────────")
	fmt.Printf("  id:       %s\n", item.ID)
	fmt.Printf("  kind:     %s\n", item.Kind)
	fmt.Printf("  status:   %s\n", item.Status)
	if item.OriginalTitle != "" && item.OriginalTitle != item.Title {
		fmt.Printf("  original: %s\n", item.OriginalTitle)
	}
	fmt.Printf("  rating:   %.1f/10 (catalog)\n", item.OverallRating)
	if item.UserRating != nil {
		fmt.Printf("  my rating: %.1f/10\n", *item.UserRating)
	}
	if genres := item.GenreList(); len(genres) > 0 {
		fmt.Printf("  genres:   %s\n", strings.Join(genres, ", "))
	}
	if tags := item.TagList(); len(tags) > 0 {
		fmt.Printf("  tags:     %s\n", strings.Join(tags, ", "))
	}
	if item.UserComment != "" {
		fmt.Printf("  comment:  %s\n", item.UserComment)
	}
	fmt.Printf("  source:   %s (%s)\n", item.ProviderName, item.ProviderRefID)
	if item.NotionPageID != "" {
		fmt.Printf("  synced:   yes (page %s)\n", item.NotionPageID)
	} else {
		fmt.Println("  synced:   no")
	}

	detail, err := database.GetDetail(item)
	if err != nil {
		return trackCLIError("info", err)
	}
	printDetail(detail)

	if item.Description != "" {
		fmt.Printf("\n%s\n", item.Description)
	}
	return nil
}

func printDetail(detail any) {
	switch d := detail.(type) {
	case *models.BookDetail:
		if d.Author != "" {
			fmt.Printf("  author:   %s\n", strings.Join(models.SplitList(d.Author), ", "))
		}
		if d.ISBN != "" {
			fmt.Printf("  isbn:     %s\n", d.ISBN)
		}
		if d.PageCount > 0 {
			fmt.Printf("  pages:    %d\n", d.PageCount)
		}
		if d.Publisher != "" {
			fmt.Printf("  publisher: %s\n", d.Publisher)
		}

	case *models.MovieDetail:
		if d.Director != "" {
			fmt.Printf("  director: %s\n", d.Director)
		}
		if cast := d.CastList(); len(cast) > 0 {
			fmt.Printf("  cast:     %s\n", strings.Join(cast, ", "))
		}
		if d.DurationMinutes > 0 {
			fmt.Printf("  duration: %d min\n", d.DurationMinutes)
		}

	case *models.TvShowDetail:
		fmt.Printf("  seasons:  %d (%d episodes)\n", d.TotalSeasons, d.TotalEpisodes)
		if d.ShowStatus != "" {
			fmt.Printf("  status:   %s\n", d.ShowStatus)
		}
		if d.Network != "" {
			fmt.Printf("  network:  %s\n", d.Network)
		}
		for _, season := range d.Seasons {
			watched := 0
			for _, ep := range season.Episodes {
				if ep.Watched {
					watched++
				}
			}
			fmt.Printf("    S%02d: %d episodes (%d watched)\n", season.SeasonNumber, season.EpisodeCount, watched)
		}

	case *models.GameDetail:
		if d.Developer != "" {
			fmt.Printf("  developer: %s\n", d.Developer)
		}
		if d.Publisher != "" {
			fmt.Printf("  publisher: %s\n", d.Publisher)
		}
		if d.ReleaseDate != "" {
			fmt.Printf("  released: %s\n", d.ReleaseDate)
		}
		if len(d.Platforms) > 0 {
			names := make([]string, 0, len(d.Platforms))
			for _, p := range d.Platforms {
				names = append(names, p.Name)
			}
			fmt.Printf("  platforms: %s\n", strings.Join(names, ", "))
		}
		for _, dlc := range d.DLCs {
			fmt.Printf("    DLC: %s\n", dlc.Name)
		}
	}
}
