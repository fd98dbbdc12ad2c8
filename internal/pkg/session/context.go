package session

import (
	"context"
	"sync"

	"jiudi-console/internal/domain/auth"
	xerrors "jiudi-console/internal/pkg/errors"

	"go.uber.org/zap"
)

// Context is the session of one request. It is created by Manager.Load and
// moves Loading -> Authenticated|Anonymous -> Ended. Ended is terminal.
type Context struct {
	m    *Manager
	once sync.Once

	mu        sync.Mutex
	rec       *Record
	persisted bool
	state     State
}

func (s *Context) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.ID
}

func (s *Context) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Persisted reports whether the current id exists in the store, which is
// when the browser should hold it.
func (s *Context) Persisted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted
}

// Loading is true until Establish has finished.
func (s *Context) Loading() bool {
	return s.State() == StateLoading
}

// Identity returns a copy of the current identity, or nil.
func (s *Context) Identity() *auth.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec.Identity == nil || s.state != StateAuthenticated {
		return nil
	}
	id := *s.rec.Identity
	return &id
}

// Token is the stored API credential, empty when there is none.
func (s *Context) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Token
}

// Establish verifies the stored credential against the API, once per
// context. Without a credential the session becomes anonymous without a
// network call; a rejected credential is discarded.
func (s *Context) Establish(ctx context.Context) {
	s.once.Do(func() {
		s.verify(ctx)
	})
}

// Refresh re-runs verification, picking up identity changes such as a
// cleared first-login flag.
func (s *Context) Refresh(ctx context.Context) {
	s.once.Do(func() {})
	s.verify(ctx)
}

func (s *Context) verify(ctx context.Context) {
	s.mu.Lock()
	rec, state := s.rec, s.state
	token := rec.Token
	s.mu.Unlock()

	if state == StateEnded {
		return
	}
	if token == "" {
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()
		return
	}

	identity, err := s.m.auth.Me(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	// a login or logout while Me was in flight wins
	if s.state == StateEnded || s.rec != rec {
		return
	}
	if err != nil {
		s.m.logger.Info("discarding session credential",
			zap.String("session_id", s.rec.ID),
			zap.Error(err),
		)
		s.discardLocked(ctx)
		s.state = StateAnonymous
		return
	}

	changed := s.rec.Identity == nil || *s.rec.Identity != *identity
	s.rec.Identity = identity
	s.state = StateAuthenticated
	if changed {
		if err := s.saveLocked(ctx); err != nil {
			s.m.logger.Warn("failed to save refreshed identity", zap.String("session_id", s.rec.ID), zap.Error(err))
		}
	}
}

// RecordLogin stores the login payload: the token when one was issued and
// the identity in every case. The session id is rotated so a pre-login id
// can never carry a credential.
func (s *Context) RecordLogin(ctx context.Context, resp *auth.LoginResponse, ip, userAgent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return xerrors.ErrSessionEnded
	}

	token := resp.Token
	if token == "" {
		token = s.rec.Token
	}
	if token == "" {
		return xerrors.ErrNoCredential
	}
	identity := resp.Identity
	now := s.m.now()

	rec := &Record{
		ID:        NewID(),
		Token:     token,
		Identity:  &identity,
		Flashes:   s.rec.Flashes,
		IPAddress: ip,
		UserAgent: userAgent,
		LoginAt:   now,
		ExpiresAt: s.m.expiry(token, now),
	}
	if err := s.m.store.Save(ctx, rec); err != nil {
		return xerrors.Wrap(err, "record login")
	}

	if s.persisted {
		if err := s.m.store.Delete(ctx, s.rec.ID); err != nil {
			s.m.logger.Warn("failed to drop pre-login session", zap.String("session_id", s.rec.ID), zap.Error(err))
		}
	}

	s.rec = rec
	s.persisted = true
	s.state = StateAuthenticated
	return nil
}

// EndSession logs out. The API logout is best effort; local state is always
// cleared, other tabs are told to leave, and the login path is returned for
// a full redirect. Calling it again is a no-op.
func (s *Context) EndSession(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return auth.LoginPath
	}

	if s.rec.Token != "" {
		if err := s.m.auth.Logout(ctx, s.rec.Token); err != nil {
			s.m.logger.Warn("api logout failed", zap.String("session_id", s.rec.ID), zap.Error(err))
		}
	}
	if s.persisted {
		if err := s.m.store.Delete(ctx, s.rec.ID); err != nil {
			s.m.logger.Warn("failed to delete session", zap.String("session_id", s.rec.ID), zap.Error(err))
		}
	}
	if s.m.notifier != nil {
		s.m.notifier.ForceLogout(s.rec.ID, "logout")
	}

	s.rec = &Record{ID: s.rec.ID}
	s.persisted = false
	s.state = StateEnded
	return auth.LoginPath
}

// AddFlash queues a notification for the next rendered page.
func (s *Context) AddFlash(ctx context.Context, f Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return xerrors.ErrSessionEnded
	}
	s.rec.Flashes = append(s.rec.Flashes, f)
	return s.saveLocked(ctx)
}

// PopFlashes returns and clears the queued notifications.
func (s *Context) PopFlashes(ctx context.Context) []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rec.Flashes) == 0 {
		return nil
	}
	out := s.rec.Flashes
	s.rec.Flashes = nil
	if s.persisted {
		if err := s.saveLocked(ctx); err != nil {
			s.m.logger.Warn("failed to clear flashes", zap.String("session_id", s.rec.ID), zap.Error(err))
		}
	}
	return out
}

func (s *Context) saveLocked(ctx context.Context) error {
	now := s.m.now()
	if !s.rec.ExpiresAt.After(now) {
		s.rec.ExpiresAt = s.m.expiry(s.rec.Token, now)
	}
	if err := s.m.store.Save(ctx, s.rec); err != nil {
		return err
	}
	s.persisted = true
	return nil
}

func (s *Context) discardLocked(ctx context.Context) {
	if s.persisted {
		if err := s.m.store.Delete(ctx, s.rec.ID); err != nil {
			s.m.logger.Warn("failed to delete session", zap.String("session_id", s.rec.ID), zap.Error(err))
		}
	}
	s.rec = &Record{ID: NewID()}
	s.persisted = false
}
