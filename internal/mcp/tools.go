package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions for the Shelfmark MCP server.

// searchLibraryTool returns the search_library tool definition.
func searchLibraryTool() mcp.Tool {
	return mcp.NewTool("search_library",
		mcp.WithDescription("Search the local library by title. Matching is case-insensitive substring; results never leave the local database."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Title substring to search for"),
		),
		mcp.WithString("kind",
			mcp.Description("Restrict to one kind: BOOK, MOVIE, TV_SHOW or GAME (optional - searches all kinds if not specified)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 20, max: 100)"),
		),
	)
}

// getItemTool returns the get_item tool definition.
func getItemTool() mcp.Tool {
	return mcp.NewTool("get_item",
		mcp.WithDescription("Get a single library item by id, including its kind-specific detail (author and ISBN for books, cast for movies, seasons for TV shows, platforms and DLC for games)."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The item's unique id"),
		),
	)
}

// listByStatusTool returns the list_by_status tool definition.
func listByStatusTool() mcp.Tool {
	return mcp.NewTool("list_by_status",
		mcp.WithDescription("List library items in a given status, ordered by last modification. Statuses: WANT, IN_PROGRESS, DONE, ABANDONED."),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("Status to filter by: WANT, IN_PROGRESS, DONE or ABANDONED"),
		),
		mcp.WithString("kind",
			mcp.Description("Restrict to one kind: BOOK, MOVIE, TV_SHOW or GAME (optional)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 20, max: 100)"),
		),
	)
}

// libraryStatsTool returns the library_stats tool definition.
func libraryStatsTool() mcp.Tool {
	return mcp.NewTool("library_stats",
		mcp.WithDescription("Get library statistics: item counts by kind and status, how many items are mirrored to Notion, and the last sync time."),
	)
}
