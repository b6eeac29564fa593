package services

import (
	"log/slog"
	"time"

	"taskshare/internal/repository"
	"taskshare/internal/validation"
)

// NewServiceContainer wires every service to repo. Reminders decide
// "today" in location and are delivered through notifier.
func NewServiceContainer(repo repository.Repository, taskValidator *validation.TaskValidator, location *time.Location, notifier Notifier, logger *slog.Logger) *ServiceContainer {
	changes := NewChangeNotifier()
	return &ServiceContainer{
		TaskService:     NewTaskService(repo, taskValidator, changes),
		SearchService:   NewSearchService(repo),
		ReminderService: NewReminderService(location, notifier, logger),
		UserService:     NewUserService(repo),
		Changes:         changes,
	}
}
