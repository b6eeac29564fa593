package services

import (
	"context"
	"time"

	"taskshare/internal/auth"
	"taskshare/internal/domain"
)

// Reminder announces a task that is due today
type Reminder struct {
	Ref     domain.TaskRef `json:"ref"`
	Title   string         `json:"title"`
	DueDate time.Time      `json:"dueDate"`
}

// Statistics summarizes a task list
type Statistics struct {
	Total    int `json:"total"`
	Todo     int `json:"todo"`
	Done     int `json:"done"`
	DueToday int `json:"dueToday"`
	Overdue  int `json:"overdue"`
}

// Notifier delivers reminders to the user
type Notifier interface {
	Notify(ctx context.Context, reminder Reminder) error
}

// TaskService handles task mutations. Every operation acts on behalf of
// the session's principal; a nil session is unauthenticated.
type TaskService interface {
	CreateTask(ctx context.Context, session *auth.Session, input domain.NewTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error)
	UpdateTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, patch domain.TaskPatch) (*domain.Task, error)
	ToggleStatus(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error)
	DeleteTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, confirmed bool) error
	ShareTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, email string) (*domain.Task, error)
}

// SearchService builds the list of tasks visible to a user
type SearchService interface {
	// ListVisibleTasks merges owned and shared-with-me tasks, sorts them,
	// then applies the status and search filters.
	ListVisibleTasks(ctx context.Context, session *auth.Session, filters domain.TaskFilters) ([]domain.Task, error)

	SortTasks(tasks []domain.Task, sortBy domain.SortField) []domain.Task
	FilterByStatus(tasks []domain.Task, status domain.StatusFilter) []domain.Task
	FilterBySearch(tasks []domain.Task, query string) []domain.Task
}

// ReminderService evaluates due dates
type ReminderService interface {
	DueToday(tasks []domain.Task, now time.Time) []Reminder
	// Evaluate sends a reminder for each task due today and returns them.
	Evaluate(ctx context.Context, tasks []domain.Task) []Reminder
	IsOverdue(task domain.Task, now time.Time) bool
	Statistics(tasks []domain.Task, now time.Time) Statistics
}

// UserService maintains the user directory
type UserService interface {
	EnsureUser(ctx context.Context, principal domain.Principal) (bool, error)
	GetUser(ctx context.Context, uid string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// HandleAuthStateChange upserts the signed-in principal.
	HandleAuthStateChange(ctx context.Context, principal *domain.Principal) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService     TaskService
	SearchService   SearchService
	ReminderService ReminderService
	UserService     UserService
	Changes         *ChangeNotifier
}
