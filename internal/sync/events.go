package sync

import "fmt"

// EventKind discriminates engine progress events.
type EventKind int

const (
	// EventStarted opens a run and carries the total item count.
	EventStarted EventKind = iota
	// EventItemSynced reports one item successfully mirrored.
	EventItemSynced
	// EventItemFailed reports one item that could not be mirrored. The
	// run continues; failures never abort the batch.
	EventItemFailed
	// EventProgress reports processed/total after each item.
	EventProgress
	// EventSuccess closes a completed run with the final tally.
	EventSuccess
	// EventError closes a run that could not complete.
	EventError
)

// Event is one progress report from a sync run. Which fields are set
// depends on Kind.
type Event struct {
	Kind      EventKind
	Total     int
	Processed int
	Synced    int
	ItemID    string
	Title     string
	Err       error
}

// String renders the event for logs.
func (e Event) String() string {
	switch e.Kind {
	case EventStarted:
		return fmt.Sprintf("started: %d items", e.Total)
	case EventItemSynced:
		return fmt.Sprintf("synced: %s", e.Title)
	case EventItemFailed:
		return fmt.Sprintf("failed: %s: %v", e.Title, e.Err)
	case EventProgress:
		return fmt.Sprintf("progress: %d/%d", e.Processed, e.Total)
	case EventSuccess:
		return fmt.Sprintf("success: %d/%d synced", e.Synced, e.Total)
	case EventError:
		return fmt.Sprintf("error: %v", e.Err)
	}
	return "unknown event"
}
