package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/db"
	"github.com/shelfmark/shelfmark/internal/models"
)

var (
	rateKind    string
	commentKind string
	tagKind     string
)

var rateCmd = &cobra.Command{
	Use:   "rate <id-or-title> <rating>",
	Short: "Set your personal rating (0-10)",
	Long: `Set your personal rating on the 0-10 scale.

The catalog rating is kept separately and never overwritten.

Examples:
  shelfmark rate 6a1f... 8.5
  shelfmark rate "the matrix" 9 --kind movie`,
	Args: cobra.ExactArgs(2),
	RunE: runRate,
}

var commentCmd = &cobra.Command{
	Use:   "comment <id-or-title> <text>",
	Short: "Set your personal comment",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runComment,
}

var tagCmd = &cobra.Command{
	Use:   "tag <id-or-title> <tag>...",
	Short: "Replace your tags on an item",
	Long: `Replace the ordered tag list on an item. Pass no tags to clear.

Examples:
  shelfmark tag 6a1f... favorite reread
  shelfmark tag "dune" sci-fi --kind book`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTag,
}

func init() {
	rateCmd.Flags().StringVar(&rateKind, "kind", "", "Kind to search when passing a title")
	commentCmd.Flags().StringVar(&commentKind, "kind", "", "Kind to search when passing a title")
	tagCmd.Flags().StringVar(&tagKind, "kind", "", "Kind to search when passing a title")
}

func runRate(cmd *cobra.Command, args []string) error {
	rating, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return trackCLIError("rate", fmt.Errorf("invalid rating %q", args[1]))
	}

	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("rate", err)
	}
	defer func() { _ = database.Close() }()

	item, err := resolveWithKind(database, rateKind, args[0])
	if err != nil {
		return trackCLIError("rate", err)
	}
	if err := database.UpdateRating(item.ID, rating); err != nil {
		return trackCLIError("rate", err)
	}

	fmt.Printf("%s: rated %.1f/10\n", item.Title, rating)
	return nil
}

func runComment(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("comment", err)
	}
	defer func() { _ = database.Close() }()

	item, err := resolveWithKind(database, commentKind, args[0])
	if err != nil {
		return trackCLIError("comment", err)
	}
	comment := strings.Join(args[1:], " ")
	if err := database.UpdateComment(item.ID, comment); err != nil {
		return trackCLIError("comment", err)
	}

	fmt.Printf("%s: comment saved\n", item.Title)
	return nil
}

func runTag(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("tag", err)
	}
	defer func() { _ = database.Close() }()

	item, err := resolveWithKind(database, tagKind, args[0])
	if err != nil {
		return trackCLIError("tag", err)
	}
	tags := args[1:]
	if err := database.UpdateTags(item.ID, tags); err != nil {
		return trackCLIError("tag", err)
	}

	if len(tags) == 0 {
		fmt.Printf("%s: tags cleared\n", item.Title)
	} else {
		fmt.Printf("%s: tagged %s\n", item.Title, strings.Join(tags, ", "))
	}
	return nil
}

// resolveWithKind applies an optional --kind flag before item lookup.
func resolveWithKind(database *db.DB, kindFlag, ref string) (*models.Item, error) {
	var kind models.MediaKind
	if kindFlag != "" {
		parsed, err := parseKindArg(kindFlag)
		if err != nil {
			return nil, err
		}
		kind = parsed
	}
	return resolveItem(database, kind, ref)
}
