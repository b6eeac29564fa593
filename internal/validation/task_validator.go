package validation

import (
	"taskshare/internal/config"
	"taskshare/internal/domain"
)

// TaskValidator validates task inputs before they reach the store
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a task validator with default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithConfig creates a task validator with configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateTitle validates a task title for creation or update
func (tv *TaskValidator) ValidateTitle(title string) error {
	ve := NewValidationError()
	tv.checkTitle(ve, title)
	return ve.ToAppError()
}

func (tv *TaskValidator) checkTitle(ve *ValidationError, title string) {
	trimmed := tv.validator.TrimAndValidateString(title)
	if !tv.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError("title")
		return
	}
	if !tv.validator.IsValidTitleLength(trimmed) {
		ve.AddInvalidLengthError("title", trimmed, tv.validator.TitleMaxLength())
	}
}

func (tv *TaskValidator) checkDescription(ve *ValidationError, description string) {
	if !tv.validator.IsValidDescriptionLength(description) {
		ve.AddInvalidLengthError("description", description, tv.validator.DescriptionMaxLength())
	}
}

// ValidateNewTask validates the input of a task creation
func (tv *TaskValidator) ValidateNewTask(input domain.NewTaskInput) error {
	ve := NewValidationError()

	tv.checkTitle(ve, input.Title)
	tv.checkDescription(ve, input.Description)

	if input.Priority != "" {
		if _, ok := domain.ParsePriority(string(input.Priority)); !ok {
			ve.AddInvalidValueError("priority", input.Priority, "must be low, medium or high")
		}
	}

	return ve.ToAppError()
}

// ValidatePatch validates an owner update
func (tv *TaskValidator) ValidatePatch(patch domain.TaskPatch) error {
	ve := NewValidationError()

	if patch.IsEmpty() {
		ve.AddRequiredError("patch")
		return ve.ToAppError()
	}

	if patch.Title != nil {
		tv.checkTitle(ve, *patch.Title)
	}
	if patch.Description != nil {
		tv.checkDescription(ve, *patch.Description)
	}
	if patch.Status != nil {
		if _, ok := domain.ParseStatus(string(*patch.Status)); !ok {
			ve.AddInvalidValueError("status", *patch.Status, "must be todo or done")
		}
	}
	if patch.Priority != nil {
		if _, ok := domain.ParsePriority(string(*patch.Priority)); !ok {
			ve.AddInvalidValueError("priority", *patch.Priority, "must be low, medium or high")
		}
	}
	if patch.DueDate != nil && patch.ClearDueDate {
		ve.AddConflictError("dueDate", "clearDueDate")
	}

	return ve.ToAppError()
}

// ValidateRef validates the address of an existing task
func (tv *TaskValidator) ValidateRef(ref domain.TaskRef) error {
	ve := NewValidationError()
	if !tv.validator.IsNonEmptyString(ref.OwnerID) {
		ve.AddRequiredError("ownerId")
	}
	if !tv.validator.IsNonEmptyString(ref.ID) {
		ve.AddRequiredError("id")
	}
	return ve.ToAppError()
}

// ValidateEmail validates the grantee address of a share
func (tv *TaskValidator) ValidateEmail(email string) error {
	ve := NewValidationError()
	if !tv.validator.IsNonEmptyString(email) {
		ve.AddRequiredError("email")
	} else if !tv.validator.IsValidEmail(email) {
		ve.AddInvalidFormatError("email", email, "name@example.com")
	}
	return ve.ToAppError()
}

// ValidateFilters validates list options. Empty values are accepted and
// read as the defaults.
func (tv *TaskValidator) ValidateFilters(filters domain.TaskFilters) error {
	ve := NewValidationError()
	if _, ok := domain.ParseStatusFilter(string(filters.Status)); !ok {
		ve.AddInvalidValueError("status", filters.Status, "must be all, todo or done")
	}
	if _, ok := domain.ParseSortField(string(filters.SortBy)); !ok {
		ve.AddInvalidValueError("sortBy", filters.SortBy, "must be createdAt, priority or dueDate")
	}
	return ve.ToAppError()
}

// GetValidTitle returns the trimmed title if valid
func (tv *TaskValidator) GetValidTitle(title string) (string, error) {
	if err := tv.ValidateTitle(title); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(title), nil
}
