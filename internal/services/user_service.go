package services

import (
	"context"
	"strings"

	"taskshare/internal/domain"
	"taskshare/internal/logging"
	"taskshare/internal/repository"
)

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	repo   repository.Repository
	mapper *domain.Mapper
}

// NewUserService creates a new UserService instance
func NewUserService(repo repository.Repository) UserService {
	return &userServiceImpl{
		repo:   repo,
		mapper: domain.NewMapper(),
	}
}

// EnsureUser records the principal in the user directory on first sign-in.
// Existing entries are left unchanged. It reports whether an entry was created.
func (u *userServiceImpl) EnsureUser(ctx context.Context, principal domain.Principal) (bool, error) {
	rec := u.mapper.User.ToRecord(principal.ToUser())
	created, err := u.repo.UpsertUser(ctx, &rec)
	if err != nil {
		return false, err
	}
	if created {
		logging.Debugf("registered user %s", principal.UID)
	}
	return created, nil
}

// GetUser returns the directory entry for uid
func (u *userServiceImpl) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	rec, err := u.repo.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	user := u.mapper.User.FromRecord(*rec)
	return &user, nil
}

// FindByEmail looks a user up by email, ignoring case
func (u *userServiceImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	rec, err := u.repo.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	user := u.mapper.User.FromRecord(*rec)
	return &user, nil
}

// HandleAuthStateChange upserts signed-in principals and ignores sign-outs
func (u *userServiceImpl) HandleAuthStateChange(ctx context.Context, principal *domain.Principal) error {
	if principal == nil || principal.IsZero() {
		return nil
	}
	_, err := u.EnsureUser(ctx, *principal)
	return err
}
