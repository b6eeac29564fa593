// Package repository defines the task store boundary shared by the
// sqlite and postgres drivers.
package repository

import (
	"context"
	"time"
)

// TaskRecord is a stored task document.
type TaskRecord struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	SharedWith  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserRecord is a stored user directory entry.
type UserRecord struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	CreatedAt   time.Time
}

// TaskKey addresses a task inside its owner's collection.
type TaskKey struct {
	OwnerID string
	ID      string
}

// TaskUpdate lists the columns an update writes. Nil pointers are left
// untouched; ClearDueDate sets the due date to NULL.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
}

// IsEmpty reports whether the update writes no task column.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.DueDate == nil && !u.ClearDueDate
}

// OrderField is a sortable task column.
type OrderField string

const (
	OrderByCreatedAt OrderField = "createdAt"
	OrderByPriority  OrderField = "priority"
	OrderByDueDate   OrderField = "dueDate"
)

// Order is the ordering requested from a list query.
type Order struct {
	Field      OrderField
	Descending bool
}

// Repository is implemented by every task store driver.
type Repository interface {
	// Tasks
	CreateTask(ctx context.Context, task *TaskRecord) error
	GetTask(ctx context.Context, key TaskKey) (*TaskRecord, error)
	ListOwnedTasks(ctx context.Context, ownerID string, order Order) ([]*TaskRecord, error)
	ListSharedTasks(ctx context.Context, uid string, order Order) ([]*TaskRecord, error)
	UpdateTask(ctx context.Context, key TaskKey, update TaskUpdate) error
	AddShare(ctx context.Context, key TaskKey, uid string) error
	DeleteTask(ctx context.Context, key TaskKey) error

	// Users
	UpsertUser(ctx context.Context, user *UserRecord) (bool, error)
	GetUser(ctx context.Context, uid string) (*UserRecord, error)
	FindUserByEmail(ctx context.Context, email string) (*UserRecord, error)

	Close() error
}
