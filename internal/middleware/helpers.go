// internal/middleware/helpers.go
package middleware

import (
	"jiudi-console/internal/domain/auth"
	"jiudi-console/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

// GetSession returns the request's session context, nil outside Session().
func GetSession(c *gin.Context) *session.Context {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	sess, _ := v.(*session.Context)
	return sess
}

// MustGetSession gets the session from context or panics
func MustGetSession(c *gin.Context) *session.Context {
	sess := GetSession(c)
	if sess == nil {
		panic("session not found in context")
	}
	return sess
}

// GetIdentity returns the signed-in identity, nil for anonymous requests.
func GetIdentity(c *gin.Context) *auth.Identity {
	if sess := GetSession(c); sess != nil {
		return sess.Identity()
	}
	return nil
}

// Flash queues a notification on the request's session. Failures are
// ignored: a lost toast never blocks the action that produced it.
func Flash(c *gin.Context, f session.Flash) {
	if sess := GetSession(c); sess != nil {
		_ = sess.AddFlash(c.Request.Context(), f)
	}
}

// Redirect commits the session cookie and redirects.
func Redirect(c *gin.Context, code int, location string) {
	CommitSession(c)
	c.Redirect(code, location)
}
