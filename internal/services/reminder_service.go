package services

import (
	"context"
	"log/slog"
	"time"

	"taskshare/internal/domain"
)

// reminderServiceImpl implements the ReminderService interface
type reminderServiceImpl struct {
	location *time.Location
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewReminderService creates a reminder service that decides "today" in
// location and delivers reminders through notifier.
func NewReminderService(location *time.Location, notifier Notifier, logger *slog.Logger) ReminderService {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &reminderServiceImpl{
		location: location,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// DueToday returns one reminder per task whose due date is today's date.
// Only the calendar date is compared.
func (r *reminderServiceImpl) DueToday(tasks []domain.Task, now time.Time) []Reminder {
	today := now.In(r.location)

	reminders := make([]Reminder, 0)
	for _, task := range tasks {
		if task.DueDate == nil || !domain.SameDate(*task.DueDate, today) {
			continue
		}
		reminders = append(reminders, Reminder{
			Ref:     task.Ref(),
			Title:   task.Title,
			DueDate: *task.DueDate,
		})
	}
	return reminders
}

// Evaluate notifies each reminder due now. Delivery failures are logged
// and do not stop the remaining reminders.
func (r *reminderServiceImpl) Evaluate(ctx context.Context, tasks []domain.Task) []Reminder {
	reminders := r.DueToday(tasks, r.now())
	for _, reminder := range reminders {
		if err := r.notifier.Notify(ctx, reminder); err != nil {
			r.logger.WarnContext(ctx, "failed to deliver reminder", "task", reminder.Ref.String(), "error", err)
		}
	}
	return reminders
}

// IsOverdue reports whether an unfinished task's due date has passed
func (r *reminderServiceImpl) IsOverdue(task domain.Task, now time.Time) bool {
	if task.Status == domain.StatusDone || task.DueDate == nil {
		return false
	}
	today := domain.DateOf(now.In(r.location))
	return task.DueDate.Before(today)
}

// Statistics counts tasks by status and due state
func (r *reminderServiceImpl) Statistics(tasks []domain.Task, now time.Time) Statistics {
	today := now.In(r.location)

	var stats Statistics
	for _, task := range tasks {
		stats.Total++
		if task.Status == domain.StatusDone {
			stats.Done++
		} else {
			stats.Todo++
		}
		if task.DueDate != nil && domain.SameDate(*task.DueDate, today) {
			stats.DueToday++
		}
		if r.IsOverdue(task, now) {
			stats.Overdue++
		}
	}
	return stats
}
