package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when no live record has the id.
var ErrNotFound = errors.New("session not found")

// Store persists session records. Save replaces the whole record and
// expires it at rec.ExpiresAt.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
}
