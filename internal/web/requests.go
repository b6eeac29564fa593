package web

import (
	"strings"
	"time"

	"taskshare/internal/domain"
	"taskshare/internal/errors"
)

const dateLayout = "2006-01-02"

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

func (r createTaskRequest) toInput() (domain.NewTaskInput, error) {
	input := domain.NewTaskInput{
		Title:       r.Title,
		Description: r.Description,
	}

	if strings.TrimSpace(r.Priority) != "" {
		priority, ok := domain.ParsePriority(r.Priority)
		if !ok {
			return input, errors.NewInvalidInputError("priority", r.Priority, "must be low, medium or high")
		}
		input.Priority = priority
	}

	due, err := parseDate(r.DueDate)
	if err != nil {
		return input, err
	}
	input.DueDate = due
	return input, nil
}

// patchTaskRequest leaves absent fields unchanged. An empty dueDate
// string or clearDueDate removes the due date.
type patchTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	DueDate      *string `json:"dueDate"`
	ClearDueDate bool    `json:"clearDueDate"`
}

func (r patchTaskRequest) toPatch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:        r.Title,
		Description:  r.Description,
		ClearDueDate: r.ClearDueDate,
	}

	if r.Status != nil {
		status, ok := domain.ParseStatus(*r.Status)
		if !ok {
			return patch, errors.NewInvalidInputError("status", *r.Status, "must be todo or done")
		}
		patch.Status = &status
	}

	if r.Priority != nil {
		priority, ok := domain.ParsePriority(*r.Priority)
		if !ok {
			return patch, errors.NewInvalidInputError("priority", *r.Priority, "must be low, medium or high")
		}
		patch.Priority = &priority
	}

	if r.DueDate != nil {
		if strings.TrimSpace(*r.DueDate) == "" {
			patch.ClearDueDate = true
		} else {
			due, err := parseDate(*r.DueDate)
			if err != nil {
				return patch, err
			}
			patch.DueDate = due
		}
	}
	return patch, nil
}

type shareTaskRequest struct {
	Email string `json:"email"`
}

func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, errors.NewInvalidInputError("dueDate", value, "expected YYYY-MM-DD")
	}
	return &t, nil
}
