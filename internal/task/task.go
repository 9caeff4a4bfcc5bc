// Package task defines the task data model shared by the engine packages.
package task

import (
	"encoding/base32"
	"fmt"
	"strings"
	"time"
)

// Status is a task lifecycle state.
type Status string

// Valid task statuses.
const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
)

// Statuses lists the valid statuses in board-column order.
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusInReview, StatusDone}
}

// IsValidStatus checks if the status is one of the four lifecycle states.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusInReview, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus parses an external status label case-insensitively.
func ParseStatus(label string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(label)))
	if !IsValidStatus(s) {
		return "", fmt.Errorf("%w: status %q", ErrValidationFailed, label)
	}

	return s, nil
}

// Priority is a task priority level.
type Priority string

// Valid task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is assigned when no priority is given.
const DefaultPriority = PriorityMedium

// Rank returns the numeric ordering of a priority: urgent=4 down to low=1.
// Unknown priorities rank 0, below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsValidPriority checks if the priority is one of the four levels.
func IsValidPriority(p Priority) bool {
	return p.Rank() > 0
}

// ParsePriority parses an external priority label ("Low", "URGENT", ...)
// case-insensitively.
func ParsePriority(label string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(label)))
	if !IsValidPriority(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, label)
	}

	return p, nil
}

// Task represents a task with all its fields.
//
// ID and Key are assigned by the store on first insert and immutable after.
// DueAt is an absolute instant, always normalized to UTC; the zero time means
// "no due date". ParentID is empty for top-level tasks.
type Task struct {
	ID             string
	Key            string
	ProjectID      string
	Title          string
	Description    string
	Status         Status
	Priority       Priority
	DueAt          time.Time
	EstimatedHours float64
	AssigneeIDs    []string
	ParentID       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep copy so callers never alias store-owned slices.
func (t Task) Clone() Task {
	if t.AssigneeIDs != nil {
		t.AssigneeIDs = append([]string(nil), t.AssigneeIDs...)
	}

	return t
}

// ProjectRef is read-only reference data owned by a Project aggregate
// outside this engine.
type ProjectRef struct {
	ID         string
	Name       string
	Key        string
	ColorToken string
}

// crockfordBase32 is a sortable base32 alphabet (digits before letters).
const crockfordBase32 = "0123456789abcdefghjkmnpqrstvwxyz"

var crockfordEncoding = base32.NewEncoding(crockfordBase32).WithPadding(base32.NoPadding)

const (
	timestampBytes = 4
	byteMask       = 0xFF
)

// GenerateID creates a lexicographically sortable task ID from an instant.
// Uses Unix seconds encoded in Crockford's base32 (7 chars). Works until 2106.
func GenerateID(now time.Time) string {
	sec := now.Unix()

	buf := make([]byte, timestampBytes)
	for i := timestampBytes - 1; i >= 0; i-- {
		buf[i] = byte(sec & byteMask)
		sec >>= 8
	}

	return crockfordEncoding.EncodeToString(buf)
}

// NextSuffix increments a collision suffix like base-26:
// "" -> "a", "a" -> "b", ..., "z" -> "za".
func NextSuffix(suffix string) string {
	if suffix == "" {
		return "a"
	}

	runes := []rune(suffix)

	for idx := len(runes) - 1; idx >= 0; idx-- {
		if runes[idx] < 'z' {
			runes[idx]++

			return string(runes)
		}

		// Current char is 'z', reset to 'a' and continue carry
		runes[idx] = 'a'
	}

	// All chars were 'z', append 'a' (e.g., "z" -> "za", "zz" -> "zza")
	return suffix + "a"
}
