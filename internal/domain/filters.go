package domain

import "strings"

// StatusFilter selects tasks by status. StatusAll disables the filter.
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusFilterTodo StatusFilter = StatusFilter(StatusTodo)
	StatusFilterDone StatusFilter = StatusFilter(StatusDone)
)

// SortField names the sort key of the visible task list.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByPriority  SortField = "priority"
	SortByDueDate   SortField = "dueDate"
)

// TaskFilters are the user-selected list options.
type TaskFilters struct {
	Status      StatusFilter `json:"status"`
	SortBy      SortField    `json:"sortBy"`
	SearchQuery string       `json:"searchQuery"`
}

// DefaultFilters returns all tasks, newest first, unsearched.
func DefaultFilters() TaskFilters {
	return TaskFilters{
		Status: StatusAll,
		SortBy: SortByCreatedAt,
	}
}

// Normalized returns a copy with empty fields defaulted and the query trimmed.
func (f TaskFilters) Normalized() TaskFilters {
	out := f
	if out.Status == "" {
		out.Status = StatusAll
	}
	if out.SortBy == "" {
		out.SortBy = SortByCreatedAt
	}
	out.SearchQuery = strings.TrimSpace(out.SearchQuery)
	return out
}

// ParseStatusFilter parses all|todo|done.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, true
	case StatusFilterTodo:
		return StatusFilterTodo, true
	case StatusFilterDone:
		return StatusFilterDone, true
	}
	return "", false
}

// ParseSortField parses createdAt|priority|dueDate. Matching ignores case
// so "duedate" and "created_at" style inputs from the CLI also work.
func ParseSortField(s string) (SortField, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	switch key {
	case "", "createdat":
		return SortByCreatedAt, true
	case "priority":
		return SortByPriority, true
	case "duedate":
		return SortByDueDate, true
	}
	return "", false
}

// ParseFilters builds filters from raw user input. Values that do not
// parse are kept verbatim so validation can report them.
func ParseFilters(status, sortBy, query string) TaskFilters {
	f := TaskFilters{
		Status:      StatusFilter(status),
		SortBy:      SortField(sortBy),
		SearchQuery: query,
	}
	if s, ok := ParseStatusFilter(status); ok {
		f.Status = s
	}
	if s, ok := ParseSortField(sortBy); ok {
		f.SortBy = s
	}
	return f
}
