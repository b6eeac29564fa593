// Package postgres implements the task store on PostgreSQL. Shares are
// kept in a TEXT[] column on the task row.
package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskshare/internal/errors"
	"taskshare/internal/repository"
)

const taskColumns = `owner_id, id, title, description, status, priority, due_date, shared_with, created_at, updated_at`

const userColumns = `uid, email, display_name, photo_url, created_at`

// Options tunes per-call deadlines. Zero disables a deadline.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// PgStore is a PostgreSQL-backed task store.
type PgStore struct {
	pool *pgxpool.Pool
	opts Options
}

var _ repository.Repository = (*PgStore)(nil)

// NewPgStore creates a PgStore on an existing pool.
func NewPgStore(pool *pgxpool.Pool, opts Options) *PgStore {
	return &PgStore{pool: pool, opts: opts}
}

// Open connects to dsn, creates the schema and returns a ready store.
func Open(ctx context.Context, dsn string, opts Options) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.NewStoreError("connect postgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, handleError("ping postgres", err)
	}

	s := NewPgStore(pool, opts)
	if err := s.EnsureTables(ctx); err != nil {
		pool.Close()
		return nil, handleError("create schema", err)
	}
	return s, nil
}

// EnsureTables creates the users and tasks tables if they don't exist.
func (s *PgStore) EnsureTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uid          TEXT PRIMARY KEY,
			email        TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			photo_url    TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users (lower(email))`,
		`CREATE TABLE IF NOT EXISTS tasks (
			owner_id    TEXT NOT NULL,
			id          TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'todo',
			priority    TEXT NOT NULL DEFAULT 'medium',
			due_date    DATE,
			shared_with TEXT[] NOT NULL DEFAULT '{}',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (owner_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_shared_with ON tasks USING GIN (shared_with)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the pool.
func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateTask inserts a new task with a time-ordered UUID.
func (s *PgStore) CreateTask(ctx context.Context, t *repository.TaskRecord) error {
	ctx, cancel := withTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	if t.ID == "" {
		t.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now().Truncate(time.Microsecond)
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = "todo"
	}
	if t.Priority == "" {
		t.Priority = "medium"
	}
	t.SharedWith = uniqueGrantees(t.OwnerID, t.SharedWith)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (owner_id, id, title, description, status, priority, due_date, shared_with, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.OwnerID, t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.SharedWith, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return handleError("create task", err)
	}
	return nil
}

// GetTask retrieves a single task.
func (s *PgStore) GetTask(ctx context.Context, key repository.TaskKey) (*repository.TaskRecord, error) {
	ctx, cancel := withTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 AND id = $2`, key.OwnerID, key.ID)
	t, err := scanTask(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("task", key.ID)
		}
		return nil, handleError("get task", err)
	}
	return t, nil
}

// ListOwnedTasks returns every task in the owner's collection.
func (s *PgStore) ListOwnedTasks(ctx context.Context, ownerID string, order repository.Order) ([]*repository.TaskRecord, error) {
	ctx, cancel := withTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 ORDER BY `+orderClause(order), ownerID)
	if err != nil {
		return nil, handleError("list owned tasks", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

// ListSharedTasks returns tasks of any owner whose shared_with contains uid.
func (s *PgStore) ListSharedTasks(ctx context.Context, uid string, order repository.Order) ([]*repository.TaskRecord, error) {
	ctx, cancel := withTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE $1 = ANY(shared_with) ORDER BY `+orderClause(order), uid)
	if err != nil {
		return nil, handleError("list shared tasks", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

// UpdateTask writes the given columns and bumps updated_at.
func (s *PgStore) UpdateTask(ctx context.Context, key repository.TaskKey, update repository.TaskUpdate) error {
	ctx, cancel := withTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	// Build SET clause dynamically
	setClauses := "updated_at = $1"
	args := []any{time.Now().Truncate(time.Microsecond)}
	argIdx := 2

	add := func(column string, value any) {
		setClauses += fmt.Sprintf(", %s = $%d", column, argIdx)
		args = append(args, value)
		argIdx++
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.Priority != nil {
		add("priority", *update.Priority)
	}
	if update.ClearDueDate {
		setClauses += ", due_date = NULL"
	} else if update.DueDate != nil {
		add("due_date", *update.DueDate)
	}

	args = append(args, key.OwnerID, key.ID)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE owner_id = $%d AND id = $%d", setClauses, argIdx, argIdx+1)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return handleError("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("task", key.ID)
	}
	return nil
}

// AddShare appends uid to shared_with unless already present.
func (s *PgStore) AddShare(ctx context.Context, key repository.TaskKey, uid string) error {
	ctx, cancel := withTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	if uid == "" || uid == key.OwnerID {
		return s.ensureTaskExists(ctx, key)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE tasks
		SET shared_with = array_append(shared_with, $3), updated_at = $4
		WHERE owner_id = $1 AND id = $2 AND NOT ($3 = ANY(shared_with))`,
		key.OwnerID, key.ID, uid, time.Now().Truncate(time.Microsecond))
	if err != nil {
		return handleError("add share", err)
	}
	if tag.RowsAffected() == 0 {
		return s.ensureTaskExists(ctx, key)
	}
	return nil
}

// DeleteTask removes a task.
func (s *PgStore) DeleteTask(ctx context.Context, key repository.TaskKey) error {
	ctx, cancel := withTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE owner_id = $1 AND id = $2`, key.OwnerID, key.ID)
	if err != nil {
		return handleError("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("task", key.ID)
	}
	return nil
}

// UpsertUser inserts the user unless the uid already exists.
func (s *PgStore) UpsertUser(ctx context.Context, u *repository.UserRecord) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	now := time.Now().Truncate(time.Microsecond)
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO users (uid, email, display_name, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO NOTHING`,
		u.UID, u.Email, u.DisplayName, u.PhotoURL, now)
	if err != nil {
		return false, handleError("upsert user", err)
	}
	if tag.RowsAffected() > 0 {
		u.CreatedAt = now
		return true, nil
	}
	return false, nil
}

// GetUser retrieves a user by uid.
func (s *PgStore) GetUser(ctx context.Context, uid string) (*repository.UserRecord, error) {
	ctx, cancel := withTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("user", uid)
		}
		return nil, handleError("get user", err)
	}
	return u, nil
}

// FindUserByEmail looks up a user by email, ignoring case.
func (s *PgStore) FindUserByEmail(ctx context.Context, email string) (*repository.UserRecord, error) {
	ctx, cancel := withTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE lower(email) = lower($1)
		ORDER BY created_at ASC
		LIMIT 1`, strings.TrimSpace(email)))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewUserNotFoundError(email)
		}
		return nil, handleError("find user by email", err)
	}
	return u, nil
}

func (s *PgStore) ensureTaskExists(ctx context.Context, key repository.TaskKey) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE owner_id = $1 AND id = $2)`, key.OwnerID, key.ID).Scan(&exists)
	if err != nil {
		return handleError("check task", err)
	}
	if !exists {
		return errors.NewNotFoundError("task", key.ID)
	}
	return nil
}

func scanTask(row pgx.Row) (*repository.TaskRecord, error) {
	var t repository.TaskRecord
	if err := row.Scan(&t.OwnerID, &t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.SharedWith, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if t.SharedWith == nil {
		t.SharedWith = []string{}
	}
	return &t, nil
}

func scanTaskRows(rows pgx.Rows) ([]*repository.TaskRecord, error) {
	tasks := []*repository.TaskRecord{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, handleError("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, handleError("row iteration", err)
	}
	return tasks, nil
}

func scanUser(row pgx.Row) (*repository.UserRecord, error) {
	var u repository.UserRecord
	if err := row.Scan(&u.UID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func handleError(operation string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.FromContext(operation, err)
	}
	return errors.NewStoreError(operation, err)
}

func orderClause(order repository.Order) string {
	dir := "ASC"
	if order.Descending {
		dir = "DESC"
	}

	switch order.Field {
	case repository.OrderByPriority:
		return `CASE priority WHEN 'high' THEN 3 WHEN 'low' THEN 1 ELSE 2 END ` + dir + `, created_at DESC, id ASC`
	case repository.OrderByDueDate:
		return `due_date ` + dir + ` NULLS LAST, created_at DESC, id ASC`
	default:
		return `created_at ` + dir + `, id ASC`
	}
}

func uniqueGrantees(ownerID string, uids []string) []string {
	out := make([]string, 0, len(uids))
	seen := make(map[string]bool, len(uids))
	for _, uid := range uids {
		if uid == "" || uid == ownerID || seen[uid] {
			continue
		}
		seen[uid] = true
		out = append(out, uid)
	}
	return out
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
