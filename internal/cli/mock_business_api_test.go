package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskshare/internal/api"
	"taskshare/internal/auth"
	"taskshare/internal/domain"
	"taskshare/internal/errors"
	"taskshare/internal/services"
)

// mockBusinessAPI implements the BusinessAPI interface for testing
type mockBusinessAPI struct {
	mu        sync.Mutex
	uid       string
	tasks     []*domain.Task
	nextID    int
	reminders []services.Reminder
	stats     services.Statistics

	// failWith is returned by every task operation when set
	failWith error

	signIns     int
	signOuts    int
	closed      bool
	created     []domain.NewTaskInput
	patches     []domain.TaskPatch
	deleted     []domain.TaskRef
	shares      map[domain.TaskRef][]string
	lastFilters domain.TaskFilters
}

var _ api.BusinessAPI = (*mockBusinessAPI)(nil)

// newMockBusinessAPI creates a mock acting as uid
func newMockBusinessAPI(uid string) *mockBusinessAPI {
	return &mockBusinessAPI{
		uid:    uid,
		nextID: 1,
		shares: make(map[domain.TaskRef][]string),
	}
}

func (m *mockBusinessAPI) seed(title string, status domain.Status) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add(domain.NewTaskInput{Title: title}, status)
}

// add must be called with m.mu held
func (m *mockBusinessAPI) add(input domain.NewTaskInput, status domain.Status) *domain.Task {
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	task := &domain.Task{
		ID:          fmt.Sprintf("t%d", m.nextID),
		OwnerID:     m.uid,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		SharedWith:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.nextID++
	m.tasks = append(m.tasks, task)
	return task
}

func (m *mockBusinessAPI) find(ref domain.TaskRef) (*domain.Task, error) {
	for _, task := range m.tasks {
		if task.Ref() == ref {
			return task, nil
		}
	}
	return nil, errors.NewNotFoundError("task", ref.String())
}

func (m *mockBusinessAPI) BeginLogin() (string, string) {
	return "/auth/callback?code=static&state=s", "s"
}

func (m *mockBusinessAPI) CompleteLogin(ctx context.Context, state, code string) (*auth.Session, error) {
	return m.SignIn(ctx, code)
}

func (m *mockBusinessAPI) SignIn(ctx context.Context, code string) (*auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signIns++
	return &auth.Session{Token: "token", Principal: domain.Principal{UID: m.uid}}, nil
}

func (m *mockBusinessAPI) SignOut(ctx context.Context, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signOuts++
}

func (m *mockBusinessAPI) Session(token string) (*auth.Session, error) {
	return &auth.Session{Token: token, Principal: domain.Principal{UID: m.uid}}, nil
}

func (m *mockBusinessAPI) CurrentUser(ctx context.Context, session *auth.Session) (*domain.User, error) {
	return &domain.User{UID: session.UID()}, nil
}

func (m *mockBusinessAPI) ListTasks(ctx context.Context, session *auth.Session, filters domain.TaskFilters) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.lastFilters = filters

	out := []domain.Task{}
	for _, task := range m.tasks {
		if filters.Status == domain.StatusFilterTodo && task.Status != domain.StatusTodo {
			continue
		}
		if filters.Status == domain.StatusFilterDone && task.Status != domain.StatusDone {
			continue
		}
		out = append(out, task.Clone())
	}
	return out, nil
}

func (m *mockBusinessAPI) CreateTask(ctx context.Context, session *auth.Session, input domain.NewTaskInput) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.NewValidationError("title is required", nil)
	}
	m.created = append(m.created, input)
	task := m.add(input, domain.StatusTodo)
	clone := task.Clone()
	return &clone, nil
}

func (m *mockBusinessAPI) GetTask(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, err := m.find(ref)
	if err != nil {
		return nil, err
	}
	clone := task.Clone()
	return &clone, nil
}

func (m *mockBusinessAPI) UpdateTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, patch domain.TaskPatch) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if patch.IsEmpty() {
		return nil, errors.NewValidationError("nothing to update", nil)
	}
	task, err := m.find(ref)
	if err != nil {
		return nil, err
	}
	m.patches = append(m.patches, patch)
	*task = patch.Apply(*task)
	clone := task.Clone()
	return &clone, nil
}

func (m *mockBusinessAPI) ToggleStatus(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	task, err := m.find(ref)
	if err != nil {
		return nil, err
	}
	task.Status = task.Status.Toggle()
	clone := task.Clone()
	return &clone, nil
}

func (m *mockBusinessAPI) DeleteTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, confirmed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if !confirmed {
		return errors.NewValidationError("deletion must be confirmed", nil)
	}
	for i, task := range m.tasks {
		if task.Ref() == ref {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			m.deleted = append(m.deleted, ref)
			return nil
		}
	}
	return errors.NewNotFoundError("task", ref.String())
}

func (m *mockBusinessAPI) ShareTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, email string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	task, err := m.find(ref)
	if err != nil {
		return nil, err
	}
	m.shares[ref] = append(m.shares[ref], email)
	clone := task.Clone()
	return &clone, nil
}

func (m *mockBusinessAPI) Reminders(ctx context.Context, session *auth.Session) ([]services.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]services.Reminder{}, m.reminders...), nil
}

func (m *mockBusinessAPI) Statistics(ctx context.Context, session *auth.Session) (*services.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	stats := m.stats
	return &stats, nil
}

func (m *mockBusinessAPI) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
