package services

import (
	"context"
	"strings"

	"taskshare/internal/auth"
	"taskshare/internal/domain"
	"taskshare/internal/errors"
	"taskshare/internal/logging"
	"taskshare/internal/repository"
	"taskshare/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          repository.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	changes       *ChangeNotifier
}

// NewTaskService creates a new TaskService instance. A nil validator uses
// the default limits; changes may be nil.
func NewTaskService(repo repository.Repository, taskValidator *validation.TaskValidator, changes *ChangeNotifier) TaskService {
	if taskValidator == nil {
		taskValidator = validation.NewTaskValidator()
	}
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: taskValidator,
		changes:       changes,
	}
}

func keyOf(ref domain.TaskRef) repository.TaskKey {
	return repository.TaskKey{OwnerID: ref.OwnerID, ID: ref.ID}
}

// requireSession rejects unauthenticated callers
func requireSession(session *auth.Session) error {
	if !session.IsAuthenticated() {
		return errors.NewAuthenticationError("you must be signed in", nil)
	}
	return nil
}

// audience lists the users who can see task
func audience(task domain.Task) []string {
	return append([]string{task.OwnerID}, task.SharedWith...)
}

// fetch loads a task by ref
func (t *taskServiceImpl) fetch(ctx context.Context, ref domain.TaskRef) (*domain.Task, error) {
	rec, err := t.repo.GetTask(ctx, keyOf(ref))
	if err != nil {
		return nil, err
	}
	task := t.mapper.Task.FromRecord(*rec)
	return &task, nil
}

// loadOwned loads a task the session's principal owns
func (t *taskServiceImpl) loadOwned(ctx context.Context, session *auth.Session, ref domain.TaskRef, operation string) (*domain.Task, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if err := t.taskValidator.ValidateRef(ref); err != nil {
		return nil, err
	}
	if ref.OwnerID != session.UID() {
		return nil, errors.NewPermissionError(operation, ref.String())
	}
	return t.fetch(ctx, ref)
}

// CreateTask creates a todo task owned by the session's principal
func (t *taskServiceImpl) CreateTask(ctx context.Context, session *auth.Session, input domain.NewTaskInput) (*domain.Task, error) {
	if !session.IsAuthenticated() {
		return nil, errors.NewValidationError("you must be signed in to create a task", nil)
	}
	if err := t.taskValidator.ValidateNewTask(input); err != nil {
		return nil, err
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		priority, _ = domain.ParsePriority(string(input.Priority))
	}

	task := domain.Task{
		OwnerID:     session.UID(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      domain.StatusTodo,
		Priority:    priority,
		DueDate:     input.DueDate,
		SharedWith:  []string{},
	}

	rec := t.mapper.Task.ToRecord(task)
	if err := t.repo.CreateTask(ctx, &rec); err != nil {
		return nil, err
	}

	created := t.mapper.Task.FromRecord(rec)
	logging.Debugf("created task %s", created.Ref())
	t.changes.Publish(audience(created)...)
	return &created, nil
}

// GetTask returns a task the principal owns or that is shared with them
func (t *taskServiceImpl) GetTask(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if err := t.taskValidator.ValidateRef(ref); err != nil {
		return nil, err
	}

	task, err := t.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !task.IsOwnedBy(session.UID()) && !task.IsSharedWith(session.UID()) {
		return nil, errors.NewPermissionError("read", ref.String())
	}
	return task, nil
}

// UpdateTask merges the patch into an owned task
func (t *taskServiceImpl) UpdateTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, patch domain.TaskPatch) (*domain.Task, error) {
	if err := t.taskValidator.ValidatePatch(patch); err != nil {
		return nil, err
	}
	if _, err := t.loadOwned(ctx, session, ref, "update"); err != nil {
		return nil, err
	}

	patch = patch.Normalized()

	if err := t.repo.UpdateTask(ctx, keyOf(ref), t.mapper.Task.PatchToUpdate(patch)); err != nil {
		return nil, err
	}

	updated, err := t.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	t.changes.Publish(audience(*updated)...)
	return updated, nil
}

// ToggleStatus flips an owned task between todo and done
func (t *taskServiceImpl) ToggleStatus(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error) {
	task, err := t.loadOwned(ctx, session, ref, "toggle")
	if err != nil {
		return nil, err
	}

	status := string(task.Status.Toggle())
	if err := t.repo.UpdateTask(ctx, keyOf(ref), repository.TaskUpdate{Status: &status}); err != nil {
		return nil, err
	}

	updated, err := t.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	t.changes.Publish(audience(*updated)...)
	return updated, nil
}

// DeleteTask removes an owned task. The caller must confirm the deletion.
func (t *taskServiceImpl) DeleteTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, confirmed bool) error {
	if !confirmed {
		return errors.NewValidationError("deleting a task cannot be undone; confirm to continue", nil)
	}
	task, err := t.loadOwned(ctx, session, ref, "delete")
	if err != nil {
		return err
	}

	if err := t.repo.DeleteTask(ctx, keyOf(ref)); err != nil {
		return err
	}
	logging.Debugf("deleted task %s", ref)
	t.changes.Publish(audience(*task)...)
	return nil
}

// ShareTask grants the user registered under email access to an owned task.
// Sharing twice with the same user is a no-op.
func (t *taskServiceImpl) ShareTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, email string) (*domain.Task, error) {
	if err := t.taskValidator.ValidateEmail(email); err != nil {
		return nil, err
	}
	task, err := t.loadOwned(ctx, session, ref, "share")
	if err != nil {
		return nil, err
	}

	grantee, err := t.repo.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if grantee.UID == task.OwnerID {
		return nil, errors.NewValidationError("a task cannot be shared with its owner", nil)
	}
	if task.IsSharedWith(grantee.UID) {
		return task, nil
	}

	if err := t.repo.AddShare(ctx, keyOf(ref), grantee.UID); err != nil {
		return nil, err
	}

	shared, err := t.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	t.changes.Publish(audience(*shared)...)
	return shared, nil
}
