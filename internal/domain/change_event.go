package domain

import "time"

// ChangeOperation describes one journaled board transition.
type ChangeOperation string

// ChangeOperation values recorded by the session journal.
const (
	ChangeOperationCreate   ChangeOperation = "create"
	ChangeOperationToggle   ChangeOperation = "toggle"
	ChangeOperationDelete   ChangeOperation = "delete"
	ChangeOperationCategory ChangeOperation = "category"
	ChangeOperationFilter   ChangeOperation = "filter"
	ChangeOperationTheme    ChangeOperation = "theme"
)

// ChangeEvent represents a single activity-log entry for the current session.
type ChangeEvent struct {
	ID         int64
	Operation  ChangeOperation
	TaskID     string
	Label      string
	Summary    string
	Metadata   map[string]string
	OccurredAt time.Time
}
