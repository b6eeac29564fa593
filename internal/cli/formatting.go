package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"taskshare/internal/domain"
)

// writeTaskTable prints one row per task. Tasks owned by someone else
// are marked as shared.
func writeTaskTable(w io.Writer, tasks []domain.Task, uid string, now time.Time, dateFormat string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REF\tSTATUS\tPRIORITY\tDUE\tCREATED\tTITLE")

	for _, task := range tasks {
		title := task.Title
		if !task.IsOwnedBy(uid) {
			title += " (shared)"
		} else if len(task.SharedWith) > 0 {
			title += fmt.Sprintf(" (shared with %d)", len(task.SharedWith))
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatRef(task.Ref()),
			task.Status,
			task.Priority,
			formatDue(task.DueDate, now, dateFormat),
			humanize.RelTime(task.CreatedAt, now, "ago", "from now"),
			title)
	}
	return tw.Flush()
}

func formatDue(due *time.Time, now time.Time, dateFormat string) string {
	if due == nil {
		return "-"
	}
	if domain.SameDate(*due, now) {
		return due.Format(dateFormat) + " (today)"
	}
	return due.Format(dateFormat) + " (" + humanize.RelTime(*due, domain.DateOf(now), "ago", "from now") + ")"
}

func writeTasksJSON(w io.Writer, tasks []domain.Task) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tasks)
}

func writeTasksCSV(w io.Writer, tasks []domain.Task, dateFormat string) error {
	writer := csv.NewWriter(w)

	header := []string{"Owner", "ID", "Title", "Description", "Status", "Priority", "Due Date", "Shared With", "Created At", "Updated At"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, task := range tasks {
		var due string
		if task.DueDate != nil {
			due = task.DueDate.Format(dateFormat)
		}
		row := []string{
			task.OwnerID,
			task.ID,
			task.Title,
			task.Description,
			string(task.Status),
			string(task.Priority),
			due,
			strings.Join(task.SharedWith, ";"),
			task.CreatedAt.Format(time.RFC3339),
			task.UpdatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
