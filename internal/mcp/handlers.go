package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/shelfmark/shelfmark/internal/models"
)

// Pagination constants for MCP tool handlers.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// parseLimit extracts and validates a limit parameter from MCP tool arguments.
// Returns defaultVal if not present, caps at maxVal if exceeded.
func parseLimit(arguments map[string]interface{}, defaultVal, maxVal int) int {
	if l, ok := arguments["limit"].(float64); ok && l > 0 {
		limit := int(l)
		if limit > maxVal {
			return maxVal
		}
		return limit
	}
	return defaultVal
}

// parseKinds extracts the optional kind argument. An absent kind means
// every kind.
func parseKinds(arguments map[string]interface{}) ([]models.MediaKind, error) {
	raw, ok := arguments["kind"].(string)
	if !ok || raw == "" {
		return models.ValidKinds(), nil
	}
	kind, ok := models.ParseKind(raw)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", raw)
	}
	return []models.MediaKind{kind}, nil
}

// trackToolCall is a helper to track MCP tool invocations.
func (s *Server) trackToolCall(toolName string, start time.Time, success bool) {
	if s.telemetry != nil {
		durationMs := time.Since(start).Milliseconds()
		s.telemetry.TrackMCPToolCalled(toolName, durationMs, success)
	}
}

// ItemResponse represents a library item in MCP tool responses.
type ItemResponse struct {
	ID            string   `json:"id"`
	Kind          string   `json:"kind"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title,omitempty"`
	Year          int      `json:"year,omitempty"`
	Status        string   `json:"status"`
	OverallRating float64  `json:"overall_rating,omitempty"`
	UserRating    *float64 `json:"user_rating,omitempty"`
	UserComment   string   `json:"user_comment,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Provider      string   `json:"provider,omitempty"`
	ProviderURL   string   `json:"provider_url,omitempty"`
	SyncedToPage  string   `json:"notion_page_id,omitempty"`
	Detail        any      `json:"detail,omitempty"`
}

// StatsResponse represents library statistics.
type StatsResponse struct {
	TotalItems   int64            `json:"total_items"`
	ByKind       map[string]int64 `json:"by_kind"`
	ByStatus     map[string]int64 `json:"by_status"`
	SyncedItems  int64            `json:"synced_items"`
	LastFullSync string           `json:"last_full_sync,omitempty"`
}

// toItemResponse converts a models.Item to ItemResponse.
func toItemResponse(item *models.Item, detail any) ItemResponse {
	return ItemResponse{
		ID:            item.ID,
		Kind:          string(item.Kind),
		Title:         item.Title,
		OriginalTitle: item.OriginalTitle,
		Year:          item.Year,
		Status:        string(item.Status),
		OverallRating: item.OverallRating,
		UserRating:    item.UserRating,
		UserComment:   item.UserComment,
		Genres:        item.GenreList(),
		Tags:          item.TagList(),
		Provider:      item.ProviderName,
		ProviderURL:   item.ProviderURL,
		SyncedToPage:  item.NotionPageID,
		Detail:        detail,
	}
}

func marshalResult(toolName string, v any, s *Server, start time.Time) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		s.trackToolCall(toolName, start, false)
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	s.trackToolCall(toolName, start, true)
	return mcp.NewToolResultText(string(data)), nil
}

// handleSearchLibrary handles the search_library tool.
func (s *Server) handleSearchLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	query, ok := req.Params.Arguments["query"].(string)
	if !ok || query == "" {
		s.trackToolCall("search_library", start, false)
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	kinds, err := parseKinds(req.Params.Arguments)
	if err != nil {
		s.trackToolCall("search_library", start, false)
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := parseLimit(req.Params.Arguments, defaultListLimit, maxListLimit)

	results := make([]ItemResponse, 0, limit)
	for _, kind := range kinds {
		items, err := s.db.SearchByTitle(kind, query)
		if err != nil {
			s.trackToolCall("search_library", start, false)
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		for i := range items {
			if len(results) >= limit {
				break
			}
			results = append(results, toItemResponse(&items[i], nil))
		}
	}

	if s.telemetry != nil {
		s.telemetry.TrackSearchPerformed("library", "mcp", len(results))
	}

	return marshalResult("search_library", results, s, start)
}

// handleGetItem handles the get_item tool.
func (s *Server) handleGetItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	id, ok := req.Params.Arguments["id"].(string)
	if !ok || id == "" {
		s.trackToolCall("get_item", start, false)
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	item, err := s.db.GetItem(id)
	if err != nil {
		s.trackToolCall("get_item", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("item not found: %s", id)), nil
	}

	detail, err := s.db.GetDetail(item)
	if err != nil {
		s.trackToolCall("get_item", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("failed to load detail: %v", err)), nil
	}

	return marshalResult("get_item", toItemResponse(item, detail), s, start)
}

// handleListByStatus handles the list_by_status tool.
func (s *Server) handleListByStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	raw, ok := req.Params.Arguments["status"].(string)
	if !ok || raw == "" {
		s.trackToolCall("list_by_status", start, false)
		return mcp.NewToolResultError("status parameter is required"), nil
	}
	status, ok := models.ParseStatus(raw)
	if !ok {
		s.trackToolCall("list_by_status", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", raw)), nil
	}

	kinds, err := parseKinds(req.Params.Arguments)
	if err != nil {
		s.trackToolCall("list_by_status", start, false)
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := parseLimit(req.Params.Arguments, defaultListLimit, maxListLimit)

	results := make([]ItemResponse, 0, limit)
	for _, kind := range kinds {
		items, err := s.db.ListByStatus(kind, status)
		if err != nil {
			s.trackToolCall("list_by_status", start, false)
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		for i := range items {
			if len(results) >= limit {
				break
			}
			results = append(results, toItemResponse(&items[i], nil))
		}
	}

	return marshalResult("list_by_status", results, s, start)
}

// handleLibraryStats handles the library_stats tool.
func (s *Server) handleLibraryStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	stats, err := s.db.GetStats()
	if err != nil {
		s.trackToolCall("library_stats", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	resp := StatsResponse{
		TotalItems:  stats.TotalItems,
		ByKind:      make(map[string]int64, len(stats.ByKind)),
		ByStatus:    make(map[string]int64, len(stats.ByStatus)),
		SyncedItems: stats.SyncedItems,
	}
	for kind, n := range stats.ByKind {
		resp.ByKind[string(kind)] = n
	}
	for status, n := range stats.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	if !stats.LastFullSync.IsZero() {
		resp.LastFullSync = stats.LastFullSync.UTC().Format(time.RFC3339)
	}

	return marshalResult("library_stats", resp, s, start)
}
