package sqlite

import (
	"database/sql"
	"fmt"

	"taskshare/internal/repository"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a database row. SharedWith is left
// empty; shares live in their own table.
func ScanTask(scanner Scanner) (*repository.TaskRecord, error) {
	task := &repository.TaskRecord{SharedWith: []string{}}
	var dueDate sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&task.OwnerID,
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&dueDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if task.DueDate, err = ParseDateFromDB(dueDate); err != nil {
		return nil, err
	}
	if task.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for task %s: %w", task.ID, err)
	}
	if task.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at for task %s: %w", task.ID, err)
	}

	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*repository.TaskRecord, error) {
	tasks := []*repository.TaskRecord{}
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// ScanUser scans a single user from a database row
func ScanUser(scanner Scanner) (*repository.UserRecord, error) {
	user := &repository.UserRecord{}
	var createdAt string

	err := scanner.Scan(&user.UID, &user.Email, &user.DisplayName, &user.PhotoURL, &createdAt)
	if err != nil {
		return nil, err
	}

	if user.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for user %s: %w", user.UID, err)
	}
	return user, nil
}

// share is one row of the task_shares table
type share struct {
	OwnerID string
	TaskID  string
	UID     string
}

func scanShares(rows Rows) ([]*share, error) {
	var shares []*share
	for rows.Next() {
		s := &share{}
		if err := rows.Scan(&s.OwnerID, &s.TaskID, &s.UID); err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}
	return shares, rows.Err()
}
