package model

import (
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the priorities from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for display: high sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority normalizes user input. Empty input means medium.
func ParsePriority(value string) (Priority, error) {
	normalized := Priority(strings.TrimSpace(strings.ToLower(value)))
	if normalized == "" {
		return PriorityMedium, nil
	}
	if !normalized.IsValid() {
		return "", fmt.Errorf("unknown priority %q", value)
	}
	return normalized, nil
}

type SortMode string

const (
	SortByDate     SortMode = "date"
	SortByStatus   SortMode = "status"
	SortByPriority SortMode = "priority"
)

const DefaultSortMode = SortByDate

func SortModes() []SortMode {
	return []SortMode{SortByDate, SortByStatus, SortByPriority}
}

func ParseSortMode(value string) (SortMode, error) {
	normalized := SortMode(strings.TrimSpace(strings.ToLower(value)))
	switch normalized {
	case "":
		return DefaultSortMode, nil
	case SortByDate, SortByStatus, SortByPriority:
		return normalized, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", value)
	}
}

// Next cycles through the sort modes in a fixed order.
func (m SortMode) Next() SortMode {
	modes := SortModes()
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return DefaultSortMode
}

// Patch carries the fields of an update. Nil fields are left untouched.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil
}

type Counts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}
