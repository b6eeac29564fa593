package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"taskshare/internal/auth"
	"taskshare/internal/domain"
	"taskshare/internal/errors"
	"taskshare/internal/repository"
	"taskshare/internal/validation"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	repo          repository.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
}

// NewSearchService creates a new SearchService instance
func NewSearchService(repo repository.Repository) SearchService {
	return &searchServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidator(),
	}
}

// ListVisibleTasks returns the principal's own tasks followed by the tasks
// shared with them, sorted and filtered. An unauthenticated session sees
// nothing.
func (s *searchServiceImpl) ListVisibleTasks(ctx context.Context, session *auth.Session, filters domain.TaskFilters) ([]domain.Task, error) {
	if err := s.taskValidator.ValidateFilters(filters); err != nil {
		return nil, err
	}
	if !session.IsAuthenticated() {
		return []domain.Task{}, nil
	}

	status, _ := domain.ParseStatusFilter(string(filters.Status))
	sortBy, _ := domain.ParseSortField(string(filters.SortBy))
	query := strings.TrimSpace(filters.SearchQuery)
	order := s.mapper.Filters.ToOrder(sortBy)
	uid := session.UID()

	var owned, shared []*repository.TaskRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = s.repo.ListOwnedTasks(gctx, uid, order)
		return err
	})
	g.Go(func() error {
		var err error
		shared, err = s.repo.ListSharedTasks(gctx, uid, order)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewStoreError("list visible tasks", err)
	}

	tasks := s.mapper.Task.FromRecords(append(owned, shared...))
	tasks = s.SortTasks(tasks, sortBy)
	tasks = s.FilterByStatus(tasks, status)
	tasks = s.FilterBySearch(tasks, query)
	return tasks, nil
}

// SortTasks stably sorts tasks in place and returns them.
// createdAt and priority sort descending; dueDate sorts ascending with
// undated tasks last.
func (s *searchServiceImpl) SortTasks(tasks []domain.Task, sortBy domain.SortField) []domain.Task {
	var less func(a, b domain.Task) bool
	switch sortBy {
	case domain.SortByPriority:
		less = func(a, b domain.Task) bool {
			return a.Priority.Rank() > b.Priority.Rank()
		}
	case domain.SortByDueDate:
		less = func(a, b domain.Task) bool {
			if a.DueDate == nil || b.DueDate == nil {
				return a.DueDate != nil && b.DueDate == nil
			}
			return a.DueDate.Before(*b.DueDate)
		}
	default:
		less = func(a, b domain.Task) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
	return tasks
}

// FilterByStatus keeps tasks with the given status. StatusAll keeps everything.
func (s *searchServiceImpl) FilterByStatus(tasks []domain.Task, status domain.StatusFilter) []domain.Task {
	if status == domain.StatusAll || status == "" {
		return tasks
	}

	filtered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if string(task.Status) == string(status) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// FilterBySearch keeps tasks whose title or description contains query,
// ignoring case. An empty query keeps everything.
func (s *searchServiceImpl) FilterBySearch(tasks []domain.Task, query string) []domain.Task {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return tasks
	}

	filtered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) ||
			strings.Contains(strings.ToLower(task.Description), needle) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}
