package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/domain"
	"taskshare/internal/errors"
	"taskshare/internal/repository"
)

func titles(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func at(minute int) time.Time {
	return time.Date(2026, 10, 1, 9, minute, 0, 0, time.UTC)
}

func TestSearchService_Unauthenticated(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(repository.TaskRecord{OwnerID: "alice", Title: "Hidden"})

	tasks, err := NewSearchService(repo).ListVisibleTasks(context.Background(), nil, domain.DefaultFilters())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Equal(t, 0, repo.callCount("ListOwnedTasks"))
}

func TestSearchService_UnionOfOwnedAndShared(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(repository.TaskRecord{OwnerID: "alice", Title: "Mine 1", CreatedAt: at(1)})
	repo.seed(repository.TaskRecord{OwnerID: "bob", Title: "From Bob", CreatedAt: at(2), SharedWith: []string{"alice"}})
	repo.seed(repository.TaskRecord{OwnerID: "alice", Title: "Mine 2", CreatedAt: at(3), SharedWith: []string{"carol"}})
	repo.seed(repository.TaskRecord{OwnerID: "carol", Title: "Not mine", CreatedAt: at(4)})
	repo.seed(repository.TaskRecord{OwnerID: "carol", Title: "From Carol", CreatedAt: at(5), SharedWith: []string{"bob", "alice"}})

	tasks, err := NewSearchService(repo).ListVisibleTasks(context.Background(), sessionFor("alice"), domain.TaskFilters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"From Carol", "Mine 2", "From Bob", "Mine 1"}, titles(tasks))

	seen := make(map[domain.TaskRef]bool)
	for _, task := range tasks {
		assert.False(t, seen[task.Ref()], "duplicate %s", task.Ref())
		seen[task.Ref()] = true
	}
}

func TestSearchService_SortTasks(t *testing.T) {
	service := NewSearchService(newFakeRepository())

	tasks := func() []domain.Task {
		return []domain.Task{
			{Title: "A", Priority: domain.PriorityLow, CreatedAt: at(1), DueDate: datePtr(2026, 10, 25)},
			{Title: "B", Priority: domain.PriorityHigh, CreatedAt: at(2)},
			{Title: "C", Priority: domain.PriorityMedium, CreatedAt: at(3), DueDate: datePtr(2026, 10, 19)},
			{Title: "D", Priority: domain.PriorityHigh, CreatedAt: at(4), DueDate: datePtr(2026, 10, 22)},
			{Title: "E", Priority: domain.PriorityLow, CreatedAt: at(5)},
		}
	}

	tests := []struct {
		sortBy   domain.SortField
		expected []string
	}{
		{domain.SortByCreatedAt, []string{"E", "D", "C", "B", "A"}},
		{domain.SortByPriority, []string{"B", "D", "C", "A", "E"}},
		{domain.SortByDueDate, []string{"C", "D", "A", "B", "E"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sortBy), func(t *testing.T) {
			assert.Equal(t, tt.expected, titles(service.SortTasks(tasks(), tt.sortBy)))
		})
	}
}

func TestSearchService_DueDateSortPutsUndatedLast(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(repository.TaskRecord{OwnerID: "alice", Title: "No date", CreatedAt: at(1)})
	repo.seed(repository.TaskRecord{OwnerID: "alice", Title: "Later", CreatedAt: at(2), DueDate: datePtr(2026, 12, 1)})
	repo.seed(repository.TaskRecord{OwnerID: "bob", Title: "Shared undated", CreatedAt: at(3), SharedWith: []string{"alice"}})
	repo.seed(repository.TaskRecord{OwnerID: "bob", Title: "Sooner", CreatedAt: at(4), DueDate: datePtr(2026, 10, 20), SharedWith: []string{"alice"}})

	tasks, err := NewSearchService(repo).ListVisibleTasks(context.Background(), sessionFor("alice"), domain.TaskFilters{SortBy: domain.SortByDueDate})
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	assert.Equal(t, "Sooner", tasks[0].Title)
	assert.Equal(t, "Later", tasks[1].Title)
	assert.Nil(t, tasks[2].DueDate)
	assert.Nil(t, tasks[3].DueDate)
}

func TestSearchService_StatusFilterPreservesOrder(t *testing.T) {
	repo := newFakeRepository()
	statuses := []domain.Status{domain.StatusTodo, domain.StatusDone, domain.StatusTodo, domain.StatusDone, domain.StatusTodo}
	for i, status := range statuses {
		repo.seed(repository.TaskRecord{OwnerID: "alice", Title: string(rune('A' + i)), Status: string(status), CreatedAt: at(i)})
	}

	service := NewSearchService(repo)
	all, err := service.ListVisibleTasks(context.Background(), sessionFor("alice"), domain.DefaultFilters())
	require.NoError(t, err)

	done, err := service.ListVisibleTasks(context.Background(), sessionFor("alice"), domain.TaskFilters{Status: domain.StatusFilterDone})
	require.NoError(t, err)

	assert.Equal(t, []string{"E", "D", "C", "B", "A"}, titles(all))
	assert.Equal(t, []string{"D", "B"}, titles(done))
	for _, task := range done {
		assert.Equal(t, domain.StatusDone, task.Status)
	}
}

func TestSearchService_Search(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(repository.TaskRecord{OwnerID: "alice", Title: "Whiteboard", CreatedAt: at(1)})
	repo.seed(repository.TaskRecord{OwnerID: "alice", Title: "Board meeting", CreatedAt: at(2)})
	repo.seed(repository.TaskRecord{OwnerID: "bob", Title: "Keyboard", CreatedAt: at(3), SharedWith: []string{"alice"}})
	repo.seed(repository.TaskRecord{OwnerID: "alice", Title: "Groceries", Description: "Check the notice BOARD first", CreatedAt: at(4)})
	repo.seed(repository.TaskRecord{OwnerID: "alice", Title: "Laundry", CreatedAt: at(5)})

	service := NewSearchService(repo)

	tests := []struct {
		query    string
		expected []string
	}{
		{"board", []string{"Groceries", "Keyboard", "Board meeting", "Whiteboard"}},
		{"  BOARD  ", []string{"Groceries", "Keyboard", "Board meeting", "Whiteboard"}},
		{"xyz", []string{}},
		{"", []string{"Laundry", "Groceries", "Keyboard", "Board meeting", "Whiteboard"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			tasks, err := service.ListVisibleTasks(context.Background(), sessionFor("alice"), domain.TaskFilters{SearchQuery: tt.query})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titles(tasks))
		})
	}
}

func TestSearchService_InvalidFilters(t *testing.T) {
	repo := newFakeRepository()
	service := NewSearchService(repo)

	for _, filters := range []domain.TaskFilters{{Status: "archived"}, {SortBy: "title"}} {
		_, err := service.ListVisibleTasks(context.Background(), sessionFor("alice"), filters)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	}
	assert.Equal(t, 0, repo.callCount("ListOwnedTasks"))
	assert.Equal(t, 0, repo.callCount("ListSharedTasks"))
}

func TestSearchService_StoreFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.failWith("ListSharedTasks", stderrors.New("connection reset"))

	_, err := NewSearchService(repo).ListVisibleTasks(context.Background(), sessionFor("alice"), domain.DefaultFilters())
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStore))
}

func TestSearchService_FiltersAreNotMutated(t *testing.T) {
	filters := domain.TaskFilters{Status: "DONE", SortBy: "due_date", SearchQuery: "  x "}
	original := filters

	_, err := NewSearchService(newFakeRepository()).ListVisibleTasks(context.Background(), sessionFor("alice"), filters)
	require.NoError(t, err)
	assert.Equal(t, original, filters)
}
