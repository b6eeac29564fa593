package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the completion state of a task.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusTodo:
		return StatusTodo, true
	case StatusDone:
		return StatusDone, true
	}
	return "", false
}

// Toggle flips todo to done and done to todo.
func (s Status) Toggle() Status {
	if s == StatusDone {
		return StatusTodo
	}
	return StatusDone
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

// Rank orders priorities: high > medium > low. Unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// TaskRef addresses a task document inside its owner's collection.
type TaskRef struct {
	OwnerID string
	ID      string
}

// String returns the document path of the task.
func (r TaskRef) String() string {
	return fmt.Sprintf("users/%s/tasks/%s", r.OwnerID, r.ID)
}

// Task represents one user-created unit of work.
// OwnerID is set at creation and never changes. SharedWith is always
// non-nil and never contains OwnerID.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	SharedWith  []string   `json:"sharedWith"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Ref returns the address of the task.
func (t Task) Ref() TaskRef {
	return TaskRef{OwnerID: t.OwnerID, ID: t.ID}
}

// IsOwnedBy reports whether uid owns the task.
func (t Task) IsOwnedBy(uid string) bool {
	return uid != "" && t.OwnerID == uid
}

// IsSharedWith reports whether uid has been granted access to the task.
func (t Task) IsSharedWith(uid string) bool {
	for _, id := range t.SharedWith {
		if id == uid {
			return true
		}
	}
	return false
}

// HasDueDate reports whether the task has a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	c.SharedWith = append([]string{}, t.SharedWith...)
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return c
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// DateOf truncates t to its calendar date, expressed at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NewTaskInput holds the caller-supplied fields of a new task.
type NewTaskInput struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
}

// TaskPatch holds the fields of an owner update. Nil fields are left
// unchanged. ClearDueDate removes an existing due date.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *Status
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && !p.ClearDueDate
}

// Normalized returns a copy with the title trimmed and status and
// priority in canonical lower case. Unparseable values are kept verbatim
// so validation can report them.
func (p TaskPatch) Normalized() TaskPatch {
	out := p
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		out.Title = &title
	}
	if p.Status != nil {
		if status, ok := ParseStatus(string(*p.Status)); ok {
			out.Status = &status
		}
	}
	if p.Priority != nil {
		if priority, ok := ParsePriority(string(*p.Priority)); ok {
			out.Priority = &priority
		}
	}
	return out
}

// Apply returns a copy of t with the patch merged in.
func (p TaskPatch) Apply(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.ClearDueDate {
		out.DueDate = nil
	} else if p.DueDate != nil {
		due := DateOf(*p.DueDate)
		out.DueDate = &due
	}
	return out
}
