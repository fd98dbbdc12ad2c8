// internal/pkg/session/types.go
package session

import (
	"time"

	"jiudi-console/internal/domain/auth"
)

// Record is what the store keeps per console session. The API token never
// leaves the server.
type Record struct {
	ID        string         `json:"id"`
	Token     string         `json:"token,omitempty"`
	Identity  *auth.Identity `json:"identity,omitempty"`
	Flashes   []Flash        `json:"flashes,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	LoginAt   time.Time      `json:"login_at,omitempty"`
	ExpiresAt time.Time      `json:"expires_at"`
}

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

func Success(title, message string) Flash {
	return Flash{Kind: FlashSuccess, Title: title, Message: message}
}

func Failure(title, message string) Flash {
	return Flash{Kind: FlashError, Title: title, Message: message}
}

// State is the lifecycle of a session context.
type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}
