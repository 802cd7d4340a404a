package models

// Status is the consumption state of an item. The same four-state machine
// applies to every kind; kind-appropriate labels are a display concern.
type Status string

const (
	StatusWant       Status = "WANT"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusAbandoned  Status = "ABANDONED"
)

// ValidStatuses returns all consumption states.
func ValidStatuses() []Status {
	return []Status{StatusWant, StatusInProgress, StatusDone, StatusAbandoned}
}

// ParseStatus converts a user-supplied string into a Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusWant, StatusInProgress, StatusDone, StatusAbandoned:
		return Status(s), true
	}
	return "", false
}

// legalTransitions is the fixed adjacency table for status changes.
var legalTransitions = map[Status][]Status{
	StatusWant:       {StatusInProgress, StatusAbandoned},
	StatusInProgress: {StatusDone, StatusAbandoned},
	StatusDone:       {StatusWant},
	StatusAbandoned:  {StatusWant},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}
