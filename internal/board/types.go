package board

import (
	"strings"
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inProgress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting. Unset priority ranks below low.
func (p Priority) Rank() int {
	switch p {
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

// Task is the single persisted entity of the board. ID and CreatedAt are
// assigned once at creation and never change afterwards.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t Task) Clone() Task {
	out := t
	if t.Priority != nil {
		p := *t.Priority
		out.Priority = &p
	}
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	return out
}

// Overdue reports whether the task has a due date strictly in the past.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// Patch carries the mutable fields of a task; nil means "leave unchanged".
// ID and CreatedAt are deliberately absent. The Clear flags unset the
// optional fields, which a nil pointer alone cannot express.
type Patch struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Status        *Status    `json:"status,omitempty"`
	Priority      *Priority  `json:"priority,omitempty"`
	ClearPriority bool       `json:"clear_priority,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	ClearDueDate  bool       `json:"clear_due_date,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && !p.ClearPriority &&
		p.DueDate == nil && !p.ClearDueDate
}

type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByDueDate   SortField = "dueDate"
	SortByPriority  SortField = "priority"
	SortByTitle     SortField = "title"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByCreatedAt, SortByDueDate, SortByPriority, SortByTitle:
		return true
	default:
		return false
	}
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

// SortConfig selects the comparator applied by the sort engine.
type SortConfig struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// StatusAll and PriorityAll are the sentinel filter values matching everything.
const (
	StatusAll   = "all"
	PriorityAll = "all"
)

// Filters is the in-memory view criteria. Never persisted across runs.
type Filters struct {
	Search      string `json:"search"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	ShowOverdue bool   `json:"show_overdue"`
}

// FilterPatch is a partial update over Filters; nil fields keep the
// current value.
type FilterPatch struct {
	Search      *string `json:"search,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	ShowOverdue *bool   `json:"show_overdue,omitempty"`
}

func DefaultFilters() Filters {
	return Filters{Status: StatusAll, Priority: PriorityAll}
}

func DefaultSortConfig() SortConfig {
	return SortConfig{Field: SortByCreatedAt, Direction: SortDesc}
}

func normalizeTitle(title string) string {
	return strings.TrimSpace(title)
}
