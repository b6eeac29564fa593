package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"taskshare/internal/auth"
	"taskshare/internal/domain"
	"taskshare/internal/errors"
	"taskshare/internal/services"
)

// BusinessAPI is the facade consumed by the CLI and HTTP surfaces
type BusinessAPI interface {
	// ========== Sessions ==========

	// BeginLogin returns the identity provider URL and the state to echo back
	BeginLogin() (string, string)

	// CompleteLogin redeems a login state and authorization code for a session
	CompleteLogin(ctx context.Context, state, code string) (*auth.Session, error)

	// SignIn exchanges an authorization code directly for a session
	SignIn(ctx context.Context, code string) (*auth.Session, error)

	// SignOut ends a session and stops its task feed
	SignOut(ctx context.Context, token string)

	// Session resolves a bearer token
	Session(token string) (*auth.Session, error)

	// CurrentUser returns the directory entry of the signed-in user
	CurrentUser(ctx context.Context, session *auth.Session) (*domain.User, error)

	// ========== Task Operations ==========

	// ListTasks returns the visible tasks matching filters
	ListTasks(ctx context.Context, session *auth.Session, filters domain.TaskFilters) ([]domain.Task, error)

	// CreateTask creates a task owned by the signed-in user
	CreateTask(ctx context.Context, session *auth.Session, input domain.NewTaskInput) (*domain.Task, error)

	// GetTask returns a single visible task
	GetTask(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error)

	// UpdateTask merges a patch into an owned task
	UpdateTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, patch domain.TaskPatch) (*domain.Task, error)

	// ToggleStatus flips an owned task between todo and done
	ToggleStatus(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error)

	// DeleteTask removes an owned task once confirmed
	DeleteTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, confirmed bool) error

	// ShareTask grants another user access to an owned task
	ShareTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, email string) (*domain.Task, error)

	// ========== Reminders and Statistics ==========

	// Reminders refreshes the session's feed and returns the tasks due today
	Reminders(ctx context.Context, session *auth.Session) ([]services.Reminder, error)

	// Statistics summarizes every visible task
	Statistics(ctx context.Context, session *auth.Session) (*services.Statistics, error)

	// Close stops all running feeds
	Close()
}

type feedHandle struct {
	feed   *services.TaskFeed
	cancel context.CancelFunc
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services *services.ServiceContainer
	sessions *auth.SessionManager
	logger   *slog.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	feeds map[string]*feedHandle
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(container *services.ServiceContainer, sessions *auth.SessionManager, logger *slog.Logger) BusinessAPI {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &businessAPIImpl{
		services: container,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		feeds:    make(map[string]*feedHandle),
	}
}

// ========== Sessions ==========

func (b *businessAPIImpl) BeginLogin() (string, string) {
	return b.sessions.BeginLogin()
}

func (b *businessAPIImpl) CompleteLogin(ctx context.Context, state, code string) (*auth.Session, error) {
	return b.sessions.CompleteLogin(ctx, state, code)
}

func (b *businessAPIImpl) SignIn(ctx context.Context, code string) (*auth.Session, error) {
	return b.sessions.SignIn(ctx, code)
}

func (b *businessAPIImpl) SignOut(ctx context.Context, token string) {
	b.stopFeed(token)
	b.sessions.SignOut(ctx, token)
}

// Session resolves token. The feed of an unknown or expired token is stopped.
func (b *businessAPIImpl) Session(token string) (*auth.Session, error) {
	session, err := b.sessions.Lookup(token)
	if err != nil {
		b.stopFeed(token)
		return nil, err
	}
	return session, nil
}

func (b *businessAPIImpl) CurrentUser(ctx context.Context, session *auth.Session) (*domain.User, error) {
	if !session.IsAuthenticated() {
		return nil, errors.NewAuthenticationError("you must be signed in", nil)
	}

	user, err := b.services.UserService.GetUser(ctx, session.UID())
	if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		fallback := session.Principal.ToUser()
		return &fallback, nil
	}
	return user, err
}

// feedFor returns the session's feed, starting it on first use.
// The feed refreshes on changes to the user's tasks until the session
// signs out or expires.
func (b *businessAPIImpl) feedFor(session *auth.Session) *services.TaskFeed {
	b.mu.Lock()
	defer b.mu.Unlock()

	if h, ok := b.feeds[session.Token]; ok {
		return h.feed
	}

	feed := services.NewTaskFeed(session, b.services, b.logger)
	ctx, cancel := b.feedContext(session)
	h := &feedHandle{feed: feed, cancel: cancel}
	b.feeds[session.Token] = h

	var changes <-chan struct{}
	unsubscribe := func() {}
	if b.services.Changes != nil {
		changes, unsubscribe = b.services.Changes.Subscribe(session.UID())
	}
	go func() {
		defer b.dropFeed(session.Token, h)
		defer unsubscribe()
		_ = feed.Run(ctx, changes)
	}()
	return feed
}

// feedContext ends when the API closes or the session expires
func (b *businessAPIImpl) feedContext(session *auth.Session) (context.Context, context.CancelFunc) {
	if session.ExpiresAt.IsZero() {
		return context.WithCancel(b.ctx)
	}
	return context.WithDeadline(b.ctx, session.ExpiresAt)
}

// dropFeed stops h and forgets it unless token already maps to a newer feed
func (b *businessAPIImpl) dropFeed(token string, h *feedHandle) {
	h.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.feeds[token] == h {
		delete(b.feeds, token)
	}
}

func (b *businessAPIImpl) stopFeed(token string) {
	b.mu.Lock()
	h, ok := b.feeds[token]
	b.mu.Unlock()
	if ok {
		b.dropFeed(token, h)
	}
}

// feedCount reports the number of running feeds
func (b *businessAPIImpl) feedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.feeds)
}

// ========== Task Operations ==========

func (b *businessAPIImpl) ListTasks(ctx context.Context, session *auth.Session, filters domain.TaskFilters) ([]domain.Task, error) {
	if !session.IsAuthenticated() {
		return b.services.SearchService.ListVisibleTasks(ctx, session, filters)
	}

	return b.feedFor(session).SetFilters(ctx, filters)
}

func (b *businessAPIImpl) CreateTask(ctx context.Context, session *auth.Session, input domain.NewTaskInput) (*domain.Task, error) {
	return b.services.TaskService.CreateTask(ctx, session, input)
}

func (b *businessAPIImpl) GetTask(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error) {
	return b.services.TaskService.GetTask(ctx, session, ref)
}

func (b *businessAPIImpl) UpdateTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, patch domain.TaskPatch) (*domain.Task, error) {
	if !session.IsAuthenticated() {
		return b.services.TaskService.UpdateTask(ctx, session, ref, patch)
	}
	return b.feedFor(session).UpdateTask(ctx, ref, patch)
}

func (b *businessAPIImpl) ToggleStatus(ctx context.Context, session *auth.Session, ref domain.TaskRef) (*domain.Task, error) {
	if !session.IsAuthenticated() {
		return b.services.TaskService.ToggleStatus(ctx, session, ref)
	}
	return b.feedFor(session).ToggleStatus(ctx, ref)
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, confirmed bool) error {
	return b.services.TaskService.DeleteTask(ctx, session, ref, confirmed)
}

func (b *businessAPIImpl) ShareTask(ctx context.Context, session *auth.Session, ref domain.TaskRef, email string) (*domain.Task, error) {
	return b.services.TaskService.ShareTask(ctx, session, ref, email)
}

// ========== Reminders and Statistics ==========

func (b *businessAPIImpl) Reminders(ctx context.Context, session *auth.Session) ([]services.Reminder, error) {
	if !session.IsAuthenticated() {
		return []services.Reminder{}, nil
	}

	feed := b.feedFor(session)
	if err := feed.Refresh(ctx); err != nil {
		return nil, err
	}
	return feed.Snapshot().Reminders, nil
}

func (b *businessAPIImpl) Statistics(ctx context.Context, session *auth.Session) (*services.Statistics, error) {
	tasks, err := b.services.SearchService.ListVisibleTasks(ctx, session, domain.DefaultFilters())
	if err != nil {
		return nil, err
	}
	stats := b.services.ReminderService.Statistics(tasks, b.now())
	return &stats, nil
}

func (b *businessAPIImpl) Close() {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	for token, h := range b.feeds {
		h.cancel()
		delete(b.feeds, token)
	}
}
