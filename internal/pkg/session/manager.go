// internal/pkg/session/manager.go
package session

import (
	"context"
	"errors"
	"time"

	"jiudi-console/internal/domain/auth"
	"jiudi-console/internal/pkg/jwt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=manager.go -destination=mocks/mock_manager.go -package=mocks
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// Authenticator verifies and revokes API credentials.
type Authenticator interface {
	Me(ctx context.Context, token string) (*auth.Identity, error)
	Logout(ctx context.Context, token string) error
}

// Notifier pushes session events to every open tab of a session.
type Notifier interface {
	ForceLogout(sessionID, reason string)
}

// Manager builds per-request session contexts on top of a Store.
type Manager struct {
	store    Store
	auth     Authenticator
	notifier Notifier
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

type ManagerOption func(*Manager)

// WithTTL sets the longest a session record may live.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithNotifier(n Notifier) ManagerOption {
	return func(m *Manager) {
		m.notifier = n
	}
}

func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func NewManager(store Store, authenticator Authenticator, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		auth:   authenticator,
		ttl:    7 * 24 * time.Hour,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewID returns a fresh session id.
func NewID() string {
	return ulid.Make().String()
}

// Load returns the session context for a cookie value. Unknown, expired or
// empty ids get a fresh, unsaved record under a new id. The context starts
// in StateLoading until Establish runs.
func (m *Manager) Load(ctx context.Context, id string) *Context {
	if id != "" {
		rec, err := m.store.Get(ctx, id)
		if err == nil {
			return &Context{m: m, rec: rec, persisted: true, state: StateLoading}
		}
		if !errors.Is(err, ErrNotFound) {
			m.logger.Warn("failed to load session", zap.String("session_id", id), zap.Error(err))
		}
	}
	return &Context{m: m, rec: &Record{ID: NewID()}, state: StateLoading}
}

// expiry bounds a record by the configured TTL and by the token's own exp.
func (m *Manager) expiry(token string, now time.Time) time.Time {
	deadline := now.Add(m.ttl)
	if exp, ok := jwt.ExpiresAt(token); ok && exp.After(now) && exp.Before(deadline) {
		return exp
	}
	return deadline
}
