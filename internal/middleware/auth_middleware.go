// internal/middleware/auth_middleware.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"jiudi-console/internal/domain/auth"
	"jiudi-console/internal/pkg/apiclient"
	"jiudi-console/internal/pkg/guard"
	"jiudi-console/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionKey  = "session"
	identityKey = "identity"
	cookieKey   = "session_cookie"
)

// CookieConfig describes the browser cookie holding the session id.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

type AuthMiddleware struct {
	manager   *session.Manager
	cookie    CookieConfig
	wait      time.Duration
	onLoading gin.HandlerFunc
	logger    *zap.Logger
}

// NewAuthMiddleware wires the session loader and route guards. onLoading
// renders the page shown while a credential is still being verified.
func NewAuthMiddleware(manager *session.Manager, cookie CookieConfig, onLoading gin.HandlerFunc, logger *zap.Logger) *AuthMiddleware {
	if onLoading == nil {
		onLoading = func(c *gin.Context) {
			c.String(http.StatusOK, "Đang tải...")
		}
	}
	return &AuthMiddleware{
		manager:   manager,
		cookie:    cookie,
		wait:      5 * time.Second,
		onLoading: onLoading,
		logger:    logger,
	}
}

// SetEstablishWait bounds how long a request waits for credential
// verification before the loading page is served instead.
func (m *AuthMiddleware) SetEstablishWait(d time.Duration) {
	if d > 0 {
		m.wait = d
	}
}

// Session loads the console session for every request and establishes it.
// Verification that outlives the wait keeps running and settles the stored
// record; this request then sees the session as still loading.
func (m *AuthMiddleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		incoming, _ := c.Cookie(m.cookie.Name)
		sess := m.manager.Load(c.Request.Context(), incoming)

		done := make(chan struct{})
		ectx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 30*time.Second)
		go func() {
			defer cancel()
			defer close(done)
			sess.Establish(ectx)
		}()

		timer := time.NewTimer(m.wait)
		select {
		case <-done:
		case <-timer.C:
			m.logger.Warn("session verification still running",
				zap.String("session_id", sess.ID()),
				zap.String("path", c.Request.URL.Path),
			)
		}
		timer.Stop()

		c.Set(sessionKey, sess)
		c.Set(cookieKey, cookieState{config: m.cookie, incoming: incoming})

		ctx := c.Request.Context()
		if sess.State() == session.StateAuthenticated {
			ctx = apiclient.WithToken(ctx, sess.Token())
			c.Set(identityKey, sess.Identity())
		}
		c.Request = c.Request.WithContext(ctx)

		CommitSession(c)
		c.Next()
	}
}

// RequireRole gates a route group to one role. It must run after Session.
func (m *AuthMiddleware) RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil {
			m.logger.Error("guard used without session middleware", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		d := guard.Decide(sess.Identity(), sess.Loading(), role, c.Request.URL.Path)
		switch d.Outcome {
		case guard.Wait:
			m.onLoading(c)
			c.Abort()
		case guard.Redirect:
			Redirect(c, http.StatusFound, d.Location)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// RequireIdentity admits any signed-in identity.
func (m *AuthMiddleware) RequireIdentity() gin.HandlerFunc {
	return m.RequireRole("")
}

func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return m.RequireRole(auth.RoleAdmin)
}

func (m *AuthMiddleware) AgentOnly() gin.HandlerFunc {
	return m.RequireRole(auth.RoleAgent)
}

type cookieState struct {
	config   CookieConfig
	incoming string
}

// CommitSession brings the browser cookie in line with the session: set
// when the id is stored under a new value, cleared once nothing is stored.
// Call it before writing any response that follows a login or logout.
func CommitSession(c *gin.Context) {
	sess := GetSession(c)
	v, ok := c.Get(cookieKey)
	if sess == nil || !ok {
		return
	}
	cs := v.(cookieState)

	c.SetSameSite(http.SameSiteLaxMode)
	id := sess.ID()
	switch {
	case sess.State() == session.StateEnded || !sess.Persisted():
		if cs.incoming != "" {
			c.SetCookie(cs.config.Name, "", -1, "/", "", cs.config.Secure, true)
			cs.incoming = ""
		}
	case id != cs.incoming:
		c.SetCookie(cs.config.Name, id, int(cs.config.MaxAge.Seconds()), "/", "", cs.config.Secure, true)
		cs.incoming = id
	}
	c.Set(cookieKey, cs)
}
