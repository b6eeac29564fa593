package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskshare/internal/auth"
	"taskshare/internal/domain"
	"taskshare/internal/errors"
	"taskshare/internal/repository"
)

// fakeRepository is an in-memory repository.Repository with
// deterministic timestamps and injectable failures.
type fakeRepository struct {
	mu     sync.Mutex
	tasks  []*repository.TaskRecord
	users  map[string]*repository.UserRecord
	fail   map[string]error
	calls  map[string]int
	clock  time.Time
	nextID int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users: make(map[string]*repository.UserRecord),
		fail:  make(map[string]error),
		calls: make(map[string]int),
		clock: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepository) enter(method string) error {
	r.calls[method]++
	return r.fail[method]
}

func (r *fakeRepository) failWith(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[method] = err
}

func (r *fakeRepository) callCount(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

func (r *fakeRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func (r *fakeRepository) find(key repository.TaskKey) *repository.TaskRecord {
	for _, rec := range r.tasks {
		if rec.OwnerID == key.OwnerID && rec.ID == key.ID {
			return rec
		}
	}
	return nil
}

func copyRecord(rec *repository.TaskRecord) *repository.TaskRecord {
	c := *rec
	c.SharedWith = append([]string{}, rec.SharedWith...)
	if rec.DueDate != nil {
		due := *rec.DueDate
		c.DueDate = &due
	}
	return &c
}

func (r *fakeRepository) CreateTask(ctx context.Context, task *repository.TaskRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("CreateTask"); err != nil {
		return err
	}
	r.nextID++
	task.ID = fmt.Sprintf("t%d", r.nextID)
	if task.CreatedAt.IsZero() {
		task.CreatedAt = r.tick()
	}
	task.UpdatedAt = task.CreatedAt
	if task.SharedWith == nil {
		task.SharedWith = []string{}
	}
	r.tasks = append(r.tasks, copyRecord(task))
	return nil
}

func (r *fakeRepository) GetTask(ctx context.Context, key repository.TaskKey) (*repository.TaskRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("GetTask"); err != nil {
		return nil, err
	}
	rec := r.find(key)
	if rec == nil {
		return nil, errors.NewNotFoundError("task", key.ID)
	}
	return copyRecord(rec), nil
}

func (r *fakeRepository) ListOwnedTasks(ctx context.Context, ownerID string, order repository.Order) ([]*repository.TaskRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("ListOwnedTasks"); err != nil {
		return nil, err
	}
	out := []*repository.TaskRecord{}
	for _, rec := range r.tasks {
		if rec.OwnerID == ownerID {
			out = append(out, copyRecord(rec))
		}
	}
	return out, nil
}

func (r *fakeRepository) ListSharedTasks(ctx context.Context, uid string, order repository.Order) ([]*repository.TaskRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("ListSharedTasks"); err != nil {
		return nil, err
	}
	out := []*repository.TaskRecord{}
	for _, rec := range r.tasks {
		for _, g := range rec.SharedWith {
			if g == uid {
				out = append(out, copyRecord(rec))
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepository) UpdateTask(ctx context.Context, key repository.TaskKey, update repository.TaskUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("UpdateTask"); err != nil {
		return err
	}
	rec := r.find(key)
	if rec == nil {
		return errors.NewNotFoundError("task", key.ID)
	}
	if update.Title != nil {
		rec.Title = *update.Title
	}
	if update.Description != nil {
		rec.Description = *update.Description
	}
	if update.Status != nil {
		rec.Status = *update.Status
	}
	if update.Priority != nil {
		rec.Priority = *update.Priority
	}
	if update.ClearDueDate {
		rec.DueDate = nil
	} else if update.DueDate != nil {
		due := *update.DueDate
		rec.DueDate = &due
	}
	rec.UpdatedAt = r.tick()
	return nil
}

func (r *fakeRepository) AddShare(ctx context.Context, key repository.TaskKey, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("AddShare"); err != nil {
		return err
	}
	rec := r.find(key)
	if rec == nil {
		return errors.NewNotFoundError("task", key.ID)
	}
	if uid == "" || uid == rec.OwnerID {
		return nil
	}
	for _, g := range rec.SharedWith {
		if g == uid {
			return nil
		}
	}
	rec.SharedWith = append(rec.SharedWith, uid)
	return nil
}

func (r *fakeRepository) DeleteTask(ctx context.Context, key repository.TaskKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("DeleteTask"); err != nil {
		return err
	}
	for i, rec := range r.tasks {
		if rec.OwnerID == key.OwnerID && rec.ID == key.ID {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("task", key.ID)
}

func (r *fakeRepository) UpsertUser(ctx context.Context, user *repository.UserRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("UpsertUser"); err != nil {
		return false, err
	}
	if _, ok := r.users[user.UID]; ok {
		return false, nil
	}
	u := *user
	u.CreatedAt = r.tick()
	r.users[user.UID] = &u
	return true, nil
}

func (r *fakeRepository) GetUser(ctx context.Context, uid string) (*repository.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("GetUser"); err != nil {
		return nil, err
	}
	u, ok := r.users[uid]
	if !ok {
		return nil, errors.NewNotFoundError("user", uid)
	}
	c := *u
	return &c, nil
}

func (r *fakeRepository) FindUserByEmail(ctx context.Context, email string) (*repository.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("FindUserByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, errors.NewUserNotFoundError(email)
}

func (r *fakeRepository) Close() error { return nil }

// addUser registers a directory entry
func (r *fakeRepository) addUser(uid, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[uid] = &repository.UserRecord{UID: uid, Email: email}
}

// seed stores a task directly, bypassing the services
func (r *fakeRepository) seed(rec repository.TaskRecord) domain.TaskRef {
	if rec.Status == "" {
		rec.Status = string(domain.StatusTodo)
	}
	if rec.Priority == "" {
		rec.Priority = string(domain.PriorityMedium)
	}
	if err := r.CreateTask(context.Background(), &rec); err != nil {
		panic(err)
	}
	return domain.TaskRef{OwnerID: rec.OwnerID, ID: rec.ID}
}

func sessionFor(uid string) *auth.Session {
	return &auth.Session{
		Token:     "token-" + uid,
		Principal: domain.Principal{UID: uid, Email: uid + "@example.com"},
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func datePtr(year int, month time.Month, day int) *time.Time {
	return timePtr(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
