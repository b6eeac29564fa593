package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/domain"
	"taskshare/internal/errors"
)

func TestUserService_EnsureUser(t *testing.T) {
	repo := newFakeRepository()
	service := NewUserService(repo)
	ctx := context.Background()

	created, err := service.EnsureUser(ctx, domain.Principal{UID: "alice", Email: "alice@example.com", DisplayName: "Alice"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = service.EnsureUser(ctx, domain.Principal{UID: "alice", Email: "changed@example.com"})
	require.NoError(t, err)
	assert.False(t, created)

	user, err := service.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "existing users are left unchanged")
	assert.Equal(t, "Alice", user.DisplayName)
}

func TestUserService_FindByEmail(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser("bob", "bob@example.com")
	service := NewUserService(repo)

	user, err := service.FindByEmail(context.Background(), " BOB@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.UID)

	_, err = service.FindByEmail(context.Background(), "nobody@example.com")
	assert.Equal(t, "USER_NOT_FOUND", errors.GetErrorCode(err))
}

func TestUserService_HandleAuthStateChange(t *testing.T) {
	repo := newFakeRepository()
	service := NewUserService(repo)
	ctx := context.Background()

	require.NoError(t, service.HandleAuthStateChange(ctx, nil))
	assert.Equal(t, 0, repo.callCount("UpsertUser"))

	require.NoError(t, service.HandleAuthStateChange(ctx, &domain.Principal{UID: "carol", Email: "carol@example.com"}))
	_, err := service.GetUser(ctx, "carol")
	assert.NoError(t, err)
}
