package xerrors

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimited  = errors.New("too many requests")
	ErrSessionEnded = errors.New("session has ended")
	ErrNoCredential = errors.New("no credential to store")
)

// serverMessenger is implemented by errors that carry a human readable
// message produced by the remote API.
type serverMessenger interface {
	ServerMessage() string
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ServerMessage returns the message the remote API attached to err, or
// fallback when err carries none. Transport and decoding errors never leak
// their text to the page.
func ServerMessage(err error, fallback string) string {
	var sm serverMessenger
	if errors.As(err, &sm) {
		if msg := sm.ServerMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
