package migrations

import (
	"database/sql"
	"fmt"
	"strings"

	"taskshare/internal/logging"
)

func init() {
	RegisterGoMigration(3, Up_000003_normalize_task_fields, Down_000003_normalize_task_fields)
}

// Up_000003_normalize_task_fields rewrites imported task rows into canonical form:
// - status and priority are lower-cased, unknown values fall back to todo/medium
// - due dates holding a full timestamp are cut down to YYYY-MM-DD, blanks become NULL
// - shares granting the owner or an empty uid are removed
func Up_000003_normalize_task_fields(tx *sql.Tx) error {
	// Read all rows into memory first to avoid locking issues
	type row struct {
		ownerID  string
		id       string
		status   string
		priority string
		dueDate  sql.NullString
	}
	var tasks []row

	rows, err := tx.Query("SELECT owner_id, id, status, priority, due_date FROM tasks")
	if err != nil {
		return fmt.Errorf("failed to query tasks: %w", err)
	}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.ownerID, &r.id, &r.status, &r.priority, &r.dueDate); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, r)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating tasks: %w", err)
	}
	rows.Close()

	stmt, err := tx.Prepare("UPDATE tasks SET status = ?, priority = ?, due_date = ? WHERE owner_id = ? AND id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare task update statement: %w", err)
	}
	defer stmt.Close()

	updates := 0
	for _, r := range tasks {
		status := NormalizeStatus(r.status)
		priority := NormalizePriority(r.priority)
		dueDate := NormalizeDueDate(r.dueDate)

		if status == r.status && priority == r.priority && dueDate == r.dueDate {
			continue
		}

		var due interface{}
		if dueDate.Valid {
			due = dueDate.String
		}
		if _, err := stmt.Exec(status, priority, due, r.ownerID, r.id); err != nil {
			return fmt.Errorf("failed to update task %s/%s: %w", r.ownerID, r.id, err)
		}
		updates++
	}

	result, err := tx.Exec("DELETE FROM task_shares WHERE uid = owner_id OR trim(uid) = ''")
	if err != nil {
		return fmt.Errorf("failed to remove invalid shares: %w", err)
	}
	removed, _ := result.RowsAffected()

	logging.Debugf("Migration complete: processed %d tasks, updated %d, removed %d invalid shares\n", len(tasks), updates, removed)
	return nil
}

// Down_000003_normalize_task_fields is a no-op; the original values are not kept.
func Down_000003_normalize_task_fields(tx *sql.Tx) error {
	return nil
}

// NormalizeStatus maps a stored status to todo or done
func NormalizeStatus(s string) string {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "todo", "done":
		return v
	}
	return "todo"
}

// NormalizePriority maps a stored priority to low, medium or high
func NormalizePriority(s string) string {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "low", "medium", "high":
		return v
	}
	return "medium"
}

// NormalizeDueDate truncates timestamps to their date part and drops blanks
func NormalizeDueDate(s sql.NullString) sql.NullString {
	if !s.Valid {
		return s
	}
	v := strings.TrimSpace(s.String)
	if v == "" {
		return sql.NullString{}
	}
	if len(v) > 10 {
		v = v[:10]
	}
	return sql.NullString{String: v, Valid: true}
}
