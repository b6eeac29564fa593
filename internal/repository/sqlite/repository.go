package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskshare/internal/errors"
	"taskshare/internal/repository"
	"taskshare/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

const taskColumns = `t.owner_id, t.id, t.title, t.description, t.status, t.priority, t.due_date, t.created_at, t.updated_at`

const userColumns = `uid, email, display_name, photo_url, created_at`

// Options tunes the repository's per-call deadlines. Zero disables a deadline.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLiteRepository implements repository.Repository on a single sqlite file
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

var _ repository.Repository = (*SQLiteRepository)(nil)

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions creates a new SQLite repository with explicit timeouts
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStoreError("open database", err)
	}

	// sqlite serializes writers anyway and :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewStoreError("enable foreign keys", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewStoreError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts, now: time.Now}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateTask inserts a task and its shares. ID, timestamps and missing
// enum values are assigned by the store.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *repository.TaskRecord) error {
	ctx, cancel := withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = "todo"
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	now := r.now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.SharedWith = uniqueGrantees(task.OwnerID, task.SharedWith)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin create task", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO tasks (owner_id, id, title, description, status, priority, due_date, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, query,
		task.OwnerID, task.ID, task.Title, task.Description, task.Status, task.Priority,
		FormatDateForDB(task.DueDate), FormatTimeForDB(task.CreatedAt), FormatTimeForDB(task.UpdatedAt))
	if err != nil {
		return HandleDatabaseError("create task", err)
	}

	for _, uid := range task.SharedWith {
		if err := insertShare(ctx, tx, task.OwnerID, task.ID, uid, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit create task", err)
	}
	return nil
}

// GetTask retrieves a task by its owner and ID
func (r *SQLiteRepository) GetTask(ctx context.Context, key repository.TaskKey) (*repository.TaskRecord, error) {
	ctx, cancel := withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.owner_id = ? AND t.id = ?`
	task, err := QuerySingle(ctx, r.db, query, ScanTask, "task", key.ID, key.OwnerID, key.ID)
	if err != nil {
		return nil, err
	}

	if err := r.loadShares(ctx, []*repository.TaskRecord{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// ListOwnedTasks retrieves every task in the owner's collection
func (r *SQLiteRepository) ListOwnedTasks(ctx context.Context, ownerID string, order repository.Order) ([]*repository.TaskRecord, error) {
	ctx, cancel := withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.owner_id = ? ORDER BY ` + orderClause(order)
	tasks, err := QueryMultiple(ctx, r.db, query, ScanTasks, "owned tasks", ownerID)
	if err != nil {
		return nil, err
	}

	if err := r.loadShares(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListSharedTasks retrieves tasks across all owners whose shares include uid
func (r *SQLiteRepository) ListSharedTasks(ctx context.Context, uid string, order repository.Order) ([]*repository.TaskRecord, error) {
	ctx, cancel := withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	query := `
	SELECT ` + taskColumns + `
	FROM tasks t
	JOIN task_shares s ON s.owner_id = t.owner_id AND s.task_id = t.id
	WHERE s.uid = ?
	ORDER BY ` + orderClause(order)

	tasks, err := QueryMultiple(ctx, r.db, query, ScanTasks, "shared tasks", uid)
	if err != nil {
		return nil, err
	}

	if err := r.loadShares(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask writes the given columns and bumps updated_at
func (r *SQLiteRepository) UpdateTask(ctx context.Context, key repository.TaskKey, update repository.TaskUpdate) error {
	ctx, cancel := withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	var sets []string
	var args []interface{}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *update.Priority)
	}
	if update.ClearDueDate {
		sets = append(sets, "due_date = NULL")
	} else if update.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, FormatDateForDB(update.DueDate))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, FormatTimeForDB(r.now()))
	args = append(args, key.OwnerID, key.ID)

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE owner_id = ? AND id = ?`, strings.Join(sets, ", "))
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", key.ID, args...)
}

// AddShare grants uid access to the task. Granting twice is a no-op, as is
// granting the owner.
func (r *SQLiteRepository) AddShare(ctx context.Context, key repository.TaskKey, uid string) error {
	ctx, cancel := withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin add share", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE owner_id = ? AND id = ?`, key.OwnerID, key.ID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError("task", key.ID)
		}
		return HandleDatabaseError("check task", err)
	}

	if uid == "" || uid == key.OwnerID {
		return nil
	}

	now := r.now()
	inserted, err := ExecuteCountingRows(ctx, tx,
		`INSERT OR IGNORE INTO task_shares (owner_id, task_id, uid, created_at) VALUES (?, ?, ?, ?)`,
		key.OwnerID, key.ID, uid, FormatTimeForDB(now))
	if err != nil {
		return err
	}

	if inserted > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET updated_at = ? WHERE owner_id = ? AND id = ?`,
			FormatTimeForDB(now), key.OwnerID, key.ID); err != nil {
			return HandleDatabaseError("touch task", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit add share", err)
	}
	return nil
}

// DeleteTask removes a task and its shares
func (r *SQLiteRepository) DeleteTask(ctx context.Context, key repository.TaskKey) error {
	ctx, cancel := withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin delete task", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_shares WHERE owner_id = ? AND task_id = ?`, key.OwnerID, key.ID); err != nil {
		return HandleDatabaseError("delete shares", err)
	}

	if err := ExecuteWithRowsAffected(ctx, tx, `DELETE FROM tasks WHERE owner_id = ? AND id = ?`, "task", key.ID, key.OwnerID, key.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit delete task", err)
	}
	return nil
}

// UpsertUser inserts the user unless a row with the same uid exists.
// It reports whether a row was created; existing users are left unchanged.
func (r *SQLiteRepository) UpsertUser(ctx context.Context, user *repository.UserRecord) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	createdAt := r.now().UTC()
	query := `
	INSERT INTO users (uid, email, display_name, photo_url, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(uid) DO NOTHING`

	inserted, err := ExecuteCountingRows(ctx, r.db, query,
		user.UID, user.Email, user.DisplayName, user.PhotoURL, FormatTimeForDB(createdAt))
	if err != nil {
		return false, err
	}
	if inserted > 0 {
		user.CreatedAt = createdAt
	}
	return inserted > 0, nil
}

// GetUser retrieves a user by uid
func (r *SQLiteRepository) GetUser(ctx context.Context, uid string) (*repository.UserRecord, error) {
	ctx, cancel := withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = ?`
	return QuerySingle(ctx, r.db, query, ScanUser, "user", uid, uid)
}

// FindUserByEmail looks up a user by email, ignoring case
func (r *SQLiteRepository) FindUserByEmail(ctx context.Context, email string) (*repository.UserRecord, error) {
	ctx, cancel := withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower(?) ORDER BY created_at ASC LIMIT 1`
	user, err := QuerySingle(ctx, r.db, query, ScanUser, "user", email, strings.TrimSpace(email))
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, errors.NewUserNotFoundError(email)
		}
		return nil, err
	}
	return user, nil
}

// loadShares fills SharedWith for the given tasks with a single query
func (r *SQLiteRepository) loadShares(ctx context.Context, tasks []*repository.TaskRecord) error {
	if len(tasks) == 0 {
		return nil
	}

	placeholders := make([]string, len(tasks))
	args := make([]interface{}, len(tasks))
	byKey := make(map[repository.TaskKey]*repository.TaskRecord, len(tasks))
	for i, task := range tasks {
		placeholders[i] = "?"
		args[i] = task.ID
		byKey[repository.TaskKey{OwnerID: task.OwnerID, ID: task.ID}] = task
	}

	query := `
	SELECT owner_id, task_id, uid
	FROM task_shares
	WHERE task_id IN (` + strings.Join(placeholders, ", ") + `)
	ORDER BY created_at ASC, uid ASC`

	shares, err := QueryMultiple(ctx, r.db, query, scanShares, "task shares", args...)
	if err != nil {
		return err
	}

	for _, s := range shares {
		if task, ok := byKey[repository.TaskKey{OwnerID: s.OwnerID, ID: s.TaskID}]; ok {
			task.SharedWith = append(task.SharedWith, s.UID)
		}
	}
	return nil
}

func insertShare(ctx context.Context, db DBTX, ownerID, taskID, uid string, at time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_shares (owner_id, task_id, uid, created_at) VALUES (?, ?, ?, ?)`,
		ownerID, taskID, uid, FormatTimeForDB(at))
	if err != nil {
		return HandleDatabaseError("insert share", err)
	}
	return nil
}

// orderClause renders a repository.Order as SQL. Missing due dates sort last.
func orderClause(order repository.Order) string {
	dir := "ASC"
	if order.Descending {
		dir = "DESC"
	}

	switch order.Field {
	case repository.OrderByPriority:
		return `CASE t.priority WHEN 'high' THEN 3 WHEN 'low' THEN 1 ELSE 2 END ` + dir + `, t.created_at DESC, t.id ASC`
	case repository.OrderByDueDate:
		return `t.due_date IS NULL ASC, t.due_date ` + dir + `, t.created_at DESC, t.id ASC`
	default:
		return `t.created_at ` + dir + `, t.id ASC`
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
