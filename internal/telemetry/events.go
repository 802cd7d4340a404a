package telemetry

import (
	"runtime"

	"github.com/shelfmark/shelfmark/pkg/version"
)

// Event names
const (
	EventAppStarted         = "app_started"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
	EventSearchPerformed    = "search_performed"
	EventItemAdded          = "item_added"
	EventItemRemoved        = "item_removed"
	EventStatusChanged      = "status_changed"
	EventSyncRun            = "sync_run"
	EventProviderConfigured = "provider_configured"
	EventMCPToolCalled      = "mcp_tool_called"
)

// Version is set at compile time via ldflags.
var Version string

// baseProperties returns common properties for all events. Titles,
// queries, and credentials are never sent; only kinds, counts, and
// provider names.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"version":    Version,
		"prerelease": version.IsPrerelease(),
		"dev_build":  version.IsDevBuild(),
	}
}

// TrackAppStarted tracks application startup.
func (c *posthogClient) TrackAppStarted(mode string, itemCount int64) {
	props := baseProperties()
	props["mode"] = mode
	props["item_count"] = itemCount
	c.Track(EventAppStarted, props)
}

// TrackCLICommandExecuted tracks CLI command execution.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["execution_duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackCLIError tracks CLI errors.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIErrorOccurred, props)
}

// TrackSearchPerformed tracks catalog searches. The query itself is
// never sent.
func (c *posthogClient) TrackSearchPerformed(kind, provider string, resultCount int) {
	props := baseProperties()
	props["kind"] = kind
	props["provider"] = provider
	props["result_count"] = resultCount
	c.Track(EventSearchPerformed, props)
}

// TrackItemAdded tracks an item import.
func (c *posthogClient) TrackItemAdded(kind, provider string) {
	props := baseProperties()
	props["kind"] = kind
	props["provider"] = provider
	c.Track(EventItemAdded, props)
}

// TrackItemRemoved tracks an item deletion.
func (c *posthogClient) TrackItemRemoved(kind string) {
	props := baseProperties()
	props["kind"] = kind
	c.Track(EventItemRemoved, props)
}

// TrackStatusChanged tracks a status transition.
func (c *posthogClient) TrackStatusChanged(kind, from, to string) {
	props := baseProperties()
	props["kind"] = kind
	props["from"] = from
	props["to"] = to
	c.Track(EventStatusChanged, props)
}

// TrackSyncRun tracks a push or pull run against the sync target.
func (c *posthogClient) TrackSyncRun(direction string, synced, failed, total int, durationMs int64) {
	props := baseProperties()
	props["direction"] = direction
	props["synced"] = synced
	props["failed"] = failed
	props["total"] = total
	props["duration_ms"] = durationMs
	c.Track(EventSyncRun, props)
}

// TrackProviderConfigured tracks provider enable/disable changes.
func (c *posthogClient) TrackProviderConfigured(provider string, enabled bool) {
	props := baseProperties()
	props["provider"] = provider
	props["enabled"] = enabled
	c.Track(EventProviderConfigured, props)
}

// TrackMCPToolCalled tracks MCP tool invocations.
func (c *posthogClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	props := baseProperties()
	props["tool_name"] = toolName
	props["duration_ms"] = durationMs
	props["success"] = success
	c.Track(EventMCPToolCalled, props)
}

// --- noopClient implementations (no-ops) ---

func (c *noopClient) TrackAppStarted(mode string, itemCount int64)                                {}
func (c *noopClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {}
func (c *noopClient) TrackCLIError(commandName, errorType string)                                 {}
func (c *noopClient) TrackSearchPerformed(kind, provider string, resultCount int)                 {}
func (c *noopClient) TrackItemAdded(kind, provider string)                                        {}
func (c *noopClient) TrackItemRemoved(kind string)                                                {}
func (c *noopClient) TrackStatusChanged(kind, from, to string)                                    {}
func (c *noopClient) TrackSyncRun(direction string, synced, failed, total int, durationMs int64)  {}
func (c *noopClient) TrackProviderConfigured(provider string, enabled bool)                       {}
func (c *noopClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool)          {}
