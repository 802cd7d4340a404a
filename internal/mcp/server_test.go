package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/db"
	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/telemetry"
)

// mockTelemetryClient records events for assertions.
type mockTelemetryClient struct {
	mu     sync.Mutex
	events []mockEvent
}

type mockEvent struct {
	name       string
	properties map[string]interface{}
}

func (m *mockTelemetryClient) Track(event string, properties map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, mockEvent{name: event, properties: properties})
}

func (m *mockTelemetryClient) Close()                {}
func (m *mockTelemetryClient) GetTrackingID() string { return "test-tracking-id" }

func (m *mockTelemetryClient) TrackAppStarted(mode string, itemCount int64) {}
func (m *mockTelemetryClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
}
func (m *mockTelemetryClient) TrackCLIError(commandName, errorType string) {}
func (m *mockTelemetryClient) TrackSearchPerformed(kind, provider string, resultCount int) {
	m.Track(telemetry.EventSearchPerformed, map[string]interface{}{"kind": kind, "provider": provider, "result_count": resultCount})
}
func (m *mockTelemetryClient) TrackItemAdded(kind, provider string)                              {}
func (m *mockTelemetryClient) TrackItemRemoved(kind string)                                      {}
func (m *mockTelemetryClient) TrackStatusChanged(kind, from, to string)                          {}
func (m *mockTelemetryClient) TrackSyncRun(direction string, synced, failed, total int, durationMs int64) {
}
func (m *mockTelemetryClient) TrackProviderConfigured(provider string, enabled bool) {}
func (m *mockTelemetryClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	m.Track(telemetry.EventMCPToolCalled, map[string]interface{}{"tool_name": toolName, "success": success})
}

func (m *mockTelemetryClient) hasEvent(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.name == name {
			return true
		}
	}
	return false
}

func (m *mockTelemetryClient) getEvents() []mockEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]mockEvent, len(m.events))
	copy(events, m.events)
	return events
}

var _ telemetry.Client = (*mockTelemetryClient)(nil)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(db.DefaultConfig(dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func seedLibrary(t *testing.T, database *db.DB) {
	t.Helper()

	require.NoError(t, database.UpsertItem(&models.Item{
		ID:    "item-dune",
		Kind:  models.KindBook,
		Title: "Dune",
		Year:  1965,
	}, &models.BookDetail{Author: "Frank Herbert", ISBN: "9780441172719"}))

	require.NoError(t, database.UpsertItem(&models.Item{
		ID:    "item-dune-movie",
		Kind:  models.KindMovie,
		Title: "Dune",
		Year:  2021,
	}, &models.MovieDetail{Director: "Denis Villeneuve"}))

	require.NoError(t, database.UpsertItem(&models.Item{
		ID:    "item-witcher",
		Kind:  models.KindGame,
		Title: "The Witcher 3",
		Year:  2015,
	}, nil))

	require.NoError(t, database.UpdateStatus("item-witcher", models.StatusInProgress))
}

func callTool(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestNewServer(t *testing.T) {
	database := setupTestDB(t)

	srv := NewServer(database, &config.Config{}, nil)

	assert.NotNil(t, srv)
	assert.NotNil(t, srv.server)
	assert.NotNil(t, srv.db)
}

func TestNewServer_WithNilConfig(t *testing.T) {
	database := setupTestDB(t)

	srv := NewServer(database, nil, nil)

	assert.NotNil(t, srv)
	assert.NotNil(t, srv.server)
}

func TestSearchLibrary(t *testing.T) {
	database := setupTestDB(t)
	srv := NewServer(database, &config.Config{}, nil)
	seedLibrary(t, database)

	result, err := srv.handleSearchLibrary(context.Background(), callTool(map[string]any{
		"query": "dune",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var items []ItemResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &items))
	assert.Len(t, items, 2)
}

func TestSearchLibrary_KindFilter(t *testing.T) {
	database := setupTestDB(t)
	srv := NewServer(database, &config.Config{}, nil)
	seedLibrary(t, database)

	result, err := srv.handleSearchLibrary(context.Background(), callTool(map[string]any{
		"query": "dune",
		"kind":  "BOOK",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var items []ItemResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "item-dune", items[0].ID)
	assert.Equal(t, "BOOK", items[0].Kind)
}

func TestSearchLibrary_MissingQuery(t *testing.T) {
	database := setupTestDB(t)
	srv := NewServer(database, &config.Config{}, nil)

	result, err := srv.handleSearchLibrary(context.Background(), callTool(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetItem_IncludesDetail(t *testing.T) {
	database := setupTestDB(t)
	srv := NewServer(database, &config.Config{}, nil)
	seedLibrary(t, database)

	result, err := srv.handleGetItem(context.Background(), callTool(map[string]any{
		"id": "item-dune",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var item ItemResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &item))
	assert.Equal(t, "Dune", item.Title)

	detail, err := json.Marshal(item.Detail)
	require.NoError(t, err)
	assert.Contains(t, string(detail), "Frank Herbert")
}

func TestGetItem_NotFound(t *testing.T) {
	database := setupTestDB(t)
	srv := NewServer(database, &config.Config{}, nil)

	result, err := srv.handleGetItem(context.Background(), callTool(map[string]any{
		"id": "no-such-item",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestListByStatus(t *testing.T) {
	database := setupTestDB(t)
	srv := NewServer(database, &config.Config{}, nil)
	seedLibrary(t, database)

	result, err := srv.handleListByStatus(context.Background(), callTool(map[string]any{
		"status": "IN_PROGRESS",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var items []ItemResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "item-witcher", items[0].ID)
}

func TestListByStatus_UnknownStatus(t *testing.T) {
	database := setupTestDB(t)
	srv := NewServer(database, &config.Config{}, nil)

	result, err := srv.handleListByStatus(context.Background(), callTool(map[string]any{
		"status": "SHELVED",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestLibraryStats(t *testing.T) {
	database := setupTestDB(t)
	srv := NewServer(database, &config.Config{}, nil)
	seedLibrary(t, database)

	result, err := srv.handleLibraryStats(context.Background(), callTool(map[string]any{}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &stats))
	assert.Equal(t, int64(3), stats.TotalItems)
	assert.Equal(t, int64(1), stats.ByKind["BOOK"])
	assert.Equal(t, int64(1), stats.ByStatus["IN_PROGRESS"])
}

func TestTelemetry_ToolCallsTracked(t *testing.T) {
	database := setupTestDB(t)
	mockTC := &mockTelemetryClient{}
	srv := NewServer(database, &config.Config{}, mockTC)
	seedLibrary(t, database)

	result, err := srv.handleSearchLibrary(context.Background(), callTool(map[string]any{
		"query": "dune",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.True(t, mockTC.hasEvent(telemetry.EventSearchPerformed))
	assert.True(t, mockTC.hasEvent(telemetry.EventMCPToolCalled))
}

func TestTelemetry_FailureTracksFalseSuccess(t *testing.T) {
	database := setupTestDB(t)
	mockTC := &mockTelemetryClient{}
	srv := NewServer(database, &config.Config{}, mockTC)

	result, err := srv.handleGetItem(context.Background(), callTool(map[string]any{
		"id": "no-such-item",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	var found bool
	for _, e := range mockTC.getEvents() {
		if e.name == telemetry.EventMCPToolCalled {
			found = true
			success, ok := e.properties["success"].(bool)
			assert.True(t, ok)
			assert.False(t, success)
		}
	}
	assert.True(t, found)
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return textContent.Text
}
