package domain

import (
	"taskshare/internal/repository"
)

// TaskMapper handles conversion between domain tasks and store records.
// Reads are normalized: missing sharedWith becomes empty, the owner is
// never listed as a grantee, and unknown enum values fall back to their
// defaults.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a domain Task to a store record.
func (m *TaskMapper) ToRecord(task Task) repository.TaskRecord {
	rec := repository.TaskRecord{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		SharedWith:  append([]string{}, task.SharedWith...),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.DueDate != nil {
		due := DateOf(*task.DueDate)
		rec.DueDate = &due
	}
	return rec
}

// FromRecord converts a store record to a normalized domain Task.
func (m *TaskMapper) FromRecord(rec repository.TaskRecord) Task {
	status, ok := ParseStatus(rec.Status)
	if !ok {
		status = StatusTodo
	}
	priority, ok := ParsePriority(rec.Priority)
	if !ok {
		priority = PriorityMedium
	}

	shared := make([]string, 0, len(rec.SharedWith))
	seen := make(map[string]bool, len(rec.SharedWith))
	for _, uid := range rec.SharedWith {
		if uid == "" || uid == rec.OwnerID || seen[uid] {
			continue
		}
		seen[uid] = true
		shared = append(shared, uid)
	}

	task := Task{
		ID:          rec.ID,
		OwnerID:     rec.OwnerID,
		Title:       rec.Title,
		Description: rec.Description,
		Status:      status,
		Priority:    priority,
		SharedWith:  shared,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.DueDate != nil {
		due := DateOf(*rec.DueDate)
		task.DueDate = &due
	}
	return task
}

// FromRecords converts a slice of store records, skipping nil entries.
func (m *TaskMapper) FromRecords(recs []*repository.TaskRecord) []Task {
	tasks := make([]Task, 0, len(recs))
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		tasks = append(tasks, m.FromRecord(*rec))
	}
	return tasks
}

// PatchToUpdate converts an owner patch into the columns to write.
// Status and priority are written in canonical form.
func (m *TaskMapper) PatchToUpdate(patch TaskPatch) repository.TaskUpdate {
	patch = patch.Normalized()
	update := repository.TaskUpdate{
		Title:        patch.Title,
		Description:  patch.Description,
		ClearDueDate: patch.ClearDueDate,
	}
	if patch.Status != nil {
		s := string(*patch.Status)
		update.Status = &s
	}
	if patch.Priority != nil {
		p := string(*patch.Priority)
		update.Priority = &p
	}
	if patch.DueDate != nil && !patch.ClearDueDate {
		due := DateOf(*patch.DueDate)
		update.DueDate = &due
	}
	return update
}

// UserMapper handles conversion between domain users and store records.
type UserMapper struct{}

// NewUserMapper creates a new UserMapper instance.
func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// ToRecord converts a domain User to a store record.
func (m *UserMapper) ToRecord(user User) repository.UserRecord {
	return repository.UserRecord{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		CreatedAt:   user.CreatedAt,
	}
}

// FromRecord converts a store record to a domain User.
func (m *UserMapper) FromRecord(rec repository.UserRecord) User {
	return User{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		PhotoURL:    rec.PhotoURL,
		CreatedAt:   rec.CreatedAt,
	}
}

// FiltersMapper converts list filters into a store ordering.
type FiltersMapper struct{}

// NewFiltersMapper creates a new FiltersMapper instance.
func NewFiltersMapper() *FiltersMapper {
	return &FiltersMapper{}
}

// ToOrder returns the store ordering for a sort field.
func (m *FiltersMapper) ToOrder(sortBy SortField) repository.Order {
	switch sortBy {
	case SortByPriority:
		return repository.Order{Field: repository.OrderByPriority, Descending: true}
	case SortByDueDate:
		return repository.Order{Field: repository.OrderByDueDate}
	default:
		return repository.Order{Field: repository.OrderByCreatedAt, Descending: true}
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task    *TaskMapper
	User    *UserMapper
	Filters *FiltersMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:    NewTaskMapper(),
		User:    NewUserMapper(),
		Filters: NewFiltersMapper(),
	}
}
