package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/errors"
	"taskshare/internal/repository"
)

// openTestStore connects to TASKSHARE_TEST_POSTGRES_DSN or skips the test
func openTestStore(t *testing.T) *PgStore {
	t.Helper()
	dsn := os.Getenv("TASKSHARE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TASKSHARE_TEST_POSTGRES_DSN not set")
	}

	store, err := Open(context.Background(), dsn, Options{QueryTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// uniqueID keeps tests independent on a shared database
func uniqueID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func TestPgStore_TaskLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	owner := uniqueID("alice")
	grantee := uniqueID("bob")

	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	task := &repository.TaskRecord{OwnerID: owner, Title: "Write report", DueDate: &due, SharedWith: []string{owner}}
	require.NoError(t, store.CreateTask(ctx, task))
	assert.NotEmpty(t, task.ID)
	assert.Empty(t, task.SharedWith)
	key := repository.TaskKey{OwnerID: owner, ID: task.ID}
	t.Cleanup(func() { store.DeleteTask(context.Background(), key) })

	got, err := store.GetTask(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "todo", got.Status)
	assert.Equal(t, "medium", got.Priority)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2024-05-01", got.DueDate.Format("2006-01-02"))

	require.NoError(t, store.AddShare(ctx, key, grantee))
	require.NoError(t, store.AddShare(ctx, key, grantee))
	require.NoError(t, store.AddShare(ctx, key, owner))

	shared, err := store.ListSharedTasks(ctx, grantee, repository.Order{Field: repository.OrderByCreatedAt, Descending: true})
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, []string{grantee}, shared[0].SharedWith)

	title := "Write final report"
	require.NoError(t, store.UpdateTask(ctx, key, repository.TaskUpdate{Title: &title, ClearDueDate: true}))

	owned, err := store.ListOwnedTasks(ctx, owner, repository.Order{Field: repository.OrderByDueDate})
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, title, owned[0].Title)
	assert.Nil(t, owned[0].DueDate)
	assert.Equal(t, owner, owned[0].OwnerID)

	require.NoError(t, store.DeleteTask(ctx, key))
	_, err = store.GetTask(ctx, key)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestPgStore_MissingTask(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := repository.TaskKey{OwnerID: uniqueID("nobody"), ID: "missing"}
	title := "x"

	assert.True(t, errors.IsErrorType(store.UpdateTask(ctx, key, repository.TaskUpdate{Title: &title}), errors.ErrorTypeNotFound))
	assert.True(t, errors.IsErrorType(store.AddShare(ctx, key, "bob"), errors.ErrorTypeNotFound))
	assert.True(t, errors.IsErrorType(store.DeleteTask(ctx, key), errors.ErrorTypeNotFound))
}

func TestPgStore_Users(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	uid := uniqueID("carol")
	email := uid + "@Example.com"

	created, err := store.UpsertUser(ctx, &repository.UserRecord{UID: uid, Email: email, DisplayName: "Carol"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.UpsertUser(ctx, &repository.UserRecord{UID: uid, Email: "changed@example.com"})
	require.NoError(t, err)
	assert.False(t, created)

	found, err := store.FindUserByEmail(ctx, uid+"@example.COM")
	require.NoError(t, err)
	assert.Equal(t, uid, found.UID)
	assert.Equal(t, "Carol", found.DisplayName)

	_, err = store.FindUserByEmail(ctx, uniqueID("ghost")+"@example.com")
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "USER_NOT_FOUND", appErr.Code)
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC, id ASC", orderClause(repository.Order{Field: repository.OrderByCreatedAt, Descending: true}))
	assert.Contains(t, orderClause(repository.Order{Field: repository.OrderByDueDate}), "NULLS LAST")
	assert.Contains(t, orderClause(repository.Order{Field: repository.OrderByPriority, Descending: true}), "END DESC")
}

func TestUniqueGrantees(t *testing.T) {
	assert.Equal(t, []string{"bob", "carol"}, uniqueGrantees("alice", []string{"bob", "alice", "", "bob", "carol"}))
	assert.NotNil(t, uniqueGrantees("alice", nil))
}
