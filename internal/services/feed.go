package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"taskshare/internal/auth"
	"taskshare/internal/domain"
	"taskshare/internal/validation"
)

// FeedSnapshot is a copy of a feed's state
type FeedSnapshot struct {
	Filters     domain.TaskFilters `json:"filters"`
	Tasks       []domain.Task      `json:"tasks"`
	Reminders   []Reminder         `json:"reminders"`
	Err         error              `json:"-"`
	RefreshedAt time.Time          `json:"refreshedAt"`
}

// TaskFeed keeps one session's visible task list current. A failed
// refresh keeps the previous list and records the error. Overlapping
// refreshes are not sequenced: whichever finishes last wins, except that
// a result fetched for filters that have since been replaced is dropped.
type TaskFeed struct {
	session   *auth.Session
	search    SearchService
	tasks     TaskService
	reminders ReminderService
	validator *validation.TaskValidator
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.Mutex
	filters     domain.TaskFilters
	list        []domain.Task
	lastErr     error
	due         []Reminder
	refreshedAt time.Time
}

// NewTaskFeed creates an empty feed for session using the default filters
func NewTaskFeed(session *auth.Session, container *ServiceContainer, logger *slog.Logger) *TaskFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFeed{
		session:   session,
		search:    container.SearchService,
		tasks:     container.TaskService,
		reminders: container.ReminderService,
		validator: validation.NewTaskValidator(),
		logger:    logger,
		now:       time.Now,
		filters:   domain.DefaultFilters(),
		list:      []domain.Task{},
		due:       []Reminder{},
	}
}

// Snapshot returns a copy of the feed state
func (f *TaskFeed) Snapshot() FeedSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return FeedSnapshot{
		Filters:     f.filters,
		Tasks:       cloneTasks(f.list),
		Reminders:   append([]Reminder{}, f.due...),
		Err:         f.lastErr,
		RefreshedAt: f.refreshedAt,
	}
}

// Filters returns the current filters
func (f *TaskFeed) Filters() domain.TaskFilters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters
}

// Refresh fetches the list with the current filters
func (f *TaskFeed) Refresh(ctx context.Context) error {
	_, err := f.refresh(ctx, f.Filters())
	return err
}

// refresh fetches the list for filters and returns it. The feed state is
// only updated while filters are still the current ones.
func (f *TaskFeed) refresh(ctx context.Context, filters domain.TaskFilters) ([]domain.Task, error) {
	tasks, err := f.search.ListVisibleTasks(ctx, f.session, filters)
	if err != nil {
		f.mu.Lock()
		current := f.filters == filters
		if current {
			f.lastErr = err
		}
		f.mu.Unlock()
		if current {
			f.logger.WarnContext(ctx, "task refresh failed; keeping previous list", "uid", f.session.UID(), "error", err)
		}
		return nil, err
	}

	if f.Filters() != filters {
		return tasks, nil
	}
	due := f.reminders.Evaluate(ctx, tasks)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.filters != filters {
		return tasks, nil
	}
	f.list = cloneTasks(tasks)
	f.lastErr = nil
	f.due = due
	f.refreshedAt = f.now()
	return tasks, nil
}

// SetFilters replaces the filters, refreshes, and returns the tasks
// fetched for them. Invalid filters are rejected and the current ones
// kept. When a newer SetFilters overtakes this one, the returned tasks
// still match filters but are not kept by the feed.
func (f *TaskFeed) SetFilters(ctx context.Context, filters domain.TaskFilters) ([]domain.Task, error) {
	if err := f.validator.ValidateFilters(filters); err != nil {
		return nil, err
	}

	normalized := filters.Normalized()
	f.mu.Lock()
	f.filters = normalized
	f.mu.Unlock()

	return f.refresh(ctx, normalized)
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i, task := range tasks {
		out[i] = task.Clone()
	}
	return out
}

// Run refreshes on every change notification until ctx is done or
// changes is closed. Refresh failures are recorded, not returned.
func (f *TaskFeed) Run(ctx context.Context, changes <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			_ = f.Refresh(ctx)
		}
	}
}

// UpdateTask applies patch to the local list immediately and then to the
// store. The local entry is restored if the store write fails.
func (f *TaskFeed) UpdateTask(ctx context.Context, ref domain.TaskRef, patch domain.TaskPatch) (*domain.Task, error) {
	return f.optimistic(ctx, ref, patch.Apply, func() (*domain.Task, error) {
		return f.tasks.UpdateTask(ctx, f.session, ref, patch)
	})
}

// ToggleStatus flips the local entry immediately and then in the store,
// restoring the local entry if the store write fails.
func (f *TaskFeed) ToggleStatus(ctx context.Context, ref domain.TaskRef) (*domain.Task, error) {
	toggle := func(t domain.Task) domain.Task {
		out := t.Clone()
		out.Status = t.Status.Toggle()
		return out
	}
	return f.optimistic(ctx, ref, toggle, func() (*domain.Task, error) {
		return f.tasks.ToggleStatus(ctx, f.session, ref)
	})
}

func (f *TaskFeed) optimistic(ctx context.Context, ref domain.TaskRef, apply func(domain.Task) domain.Task, write func() (*domain.Task, error)) (*domain.Task, error) {
	f.mu.Lock()
	var previous *domain.Task
	if i := f.indexOf(ref); i >= 0 {
		prev := f.list[i].Clone()
		previous = &prev
		f.list[i] = apply(prev)
	}
	f.mu.Unlock()

	updated, err := write()

	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(ref)
	if err != nil {
		if previous != nil && i >= 0 {
			f.list[i] = *previous
		}
		f.logger.WarnContext(ctx, "task update failed; local change rolled back", "task", ref.String(), "error", err)
		return nil, err
	}
	if i >= 0 {
		f.list[i] = updated.Clone()
	}
	return updated, nil
}

// indexOf must be called with f.mu held
func (f *TaskFeed) indexOf(ref domain.TaskRef) int {
	for i, task := range f.list {
		if task.Ref() == ref {
			return i
		}
	}
	return -1
}
