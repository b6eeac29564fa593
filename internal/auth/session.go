package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskshare/internal/domain"
	apperrors "taskshare/internal/errors"
)

// Session is an authenticated principal with an opaque bearer token.
// A nil *Session is the unauthenticated session.
type Session struct {
	Token     string           `json:"token"`
	Principal domain.Principal `json:"principal"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// IsAuthenticated reports whether the session carries a principal
func (s *Session) IsAuthenticated() bool {
	return s != nil && !s.Principal.IsZero()
}

// UID returns the uid of the signed-in principal, or "" when unauthenticated
func (s *Session) UID() string {
	if s == nil {
		return ""
	}
	return s.Principal.UID
}

// AuthStateListener is notified with the principal on sign-in and with nil on sign-out
type AuthStateListener func(ctx context.Context, principal *domain.Principal) error

// pendingLoginTTL bounds how long a login state stays redeemable.
const pendingLoginTTL = 10 * time.Minute

// SessionManager tracks sessions created through a Provider
type SessionManager struct {
	provider Provider
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	sessions  map[string]*Session
	pending   map[string]time.Time
	listeners map[int]AuthStateListener
	nextID    int
}

// NewSessionManager creates a session manager. Sessions expire after ttl.
func NewSessionManager(provider Provider, ttl time.Duration, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		provider:  provider,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
		pending:   make(map[string]time.Time),
		listeners: make(map[int]AuthStateListener),
	}
}

// OnAuthStateChange registers a listener and returns a function that removes it
func (m *SessionManager) OnAuthStateChange(listener AuthStateListener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = listener

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// BeginLogin starts a login and returns the provider URL and its state.
// Every call issues a fresh state, so an abandoned login can be retried.
func (m *SessionManager) BeginLogin() (string, string) {
	state := uuid.NewString()

	m.mu.Lock()
	now := m.now()
	for s, expires := range m.pending {
		if now.After(expires) {
			delete(m.pending, s)
		}
	}
	m.pending[state] = now.Add(pendingLoginTTL)
	m.mu.Unlock()

	return m.provider.AuthCodeURL(state), state
}

// CompleteLogin redeems the state issued by BeginLogin together with the
// provider's authorization code.
func (m *SessionManager) CompleteLogin(ctx context.Context, state, code string) (*Session, error) {
	m.mu.Lock()
	expires, ok := m.pending[state]
	delete(m.pending, state)
	m.mu.Unlock()

	if !ok || m.now().After(expires) {
		return nil, apperrors.NewAuthenticationError("login state mismatch", nil)
	}
	return m.SignIn(ctx, code)
}

// SignIn exchanges code with the provider and opens a new session
func (m *SessionManager) SignIn(ctx context.Context, code string) (*Session, error) {
	principal, err := m.provider.Exchange(ctx, code)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.NewAuthenticationError("sign-in failed", err)
	}

	now := m.now()
	session := &Session{
		Token:     uuid.NewString(),
		Principal: principal,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()

	m.logger.Info("signed in", "uid", principal.UID)
	m.notify(ctx, &principal)
	return session, nil
}

// SignOut ends the session identified by token. Unknown tokens are ignored.
func (m *SessionManager) SignOut(ctx context.Context, token string) {
	m.mu.Lock()
	session, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if !ok {
		return
	}
	m.logger.Info("signed out", "uid", session.UID())
	m.notify(ctx, nil)
}

// Lookup returns the live session for token
func (m *SessionManager) Lookup(token string) (*Session, error) {
	if token == "" {
		return nil, apperrors.NewAuthenticationError("not signed in", nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return nil, apperrors.NewAuthenticationError("session not found", nil)
	}
	if m.now().After(session.ExpiresAt) {
		delete(m.sessions, token)
		return nil, apperrors.NewAuthenticationError("session expired", nil)
	}
	return session, nil
}

func (m *SessionManager) notify(ctx context.Context, principal *domain.Principal) {
	m.mu.Lock()
	listeners := make([]AuthStateListener, 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if l, ok := m.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	m.mu.Unlock()

	for _, listener := range listeners {
		if err := listener(ctx, principal); err != nil {
			m.logger.Warn("auth state listener failed", "error", err)
		}
	}
}
