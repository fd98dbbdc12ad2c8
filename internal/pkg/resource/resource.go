// internal/pkg/resource/resource.go
package resource

import (
	"context"
	"errors"
	"net/url"

	"jiudi-console/internal/pkg/apiclient"
	"jiudi-console/internal/pkg/pagination"
)

// ListResult is the envelope every list endpoint answers with.
type ListResult[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Resource is a paginated REST collection at one base path: T is the row
// type, P the create/update body. Read-only collections use struct{} for P.
type Resource[T any, P any] struct {
	client *apiclient.Client
	base   string
}

func New[T any, P any](client *apiclient.Client, base string) *Resource[T, P] {
	return &Resource[T, P]{client: client, base: base}
}

// List issues exactly one request carrying the whole cursor. Data is never
// nil on success.
func (r *Resource[T, P]) List(ctx context.Context, st pagination.State) (ListResult[T], error) {
	return r.ListWith(ctx, st.APIParams())
}

// ListWith lists with explicit query parameters, for lookups such as
// dropdown options that do not follow a page cursor.
func (r *Resource[T, P]) ListWith(ctx context.Context, params url.Values) (ListResult[T], error) {
	var out ListResult[T]
	if err := r.client.Get(ctx, r.base, &out, apiclient.WithQuery(params)); err != nil {
		return ListResult[T]{Data: []T{}}, err
	}
	if out.Data == nil {
		out.Data = []T{}
	}
	return out, nil
}

func (r *Resource[T, P]) Create(ctx context.Context, payload P) error {
	return r.client.Post(ctx, r.base, payload, nil)
}

func (r *Resource[T, P]) Update(ctx context.Context, id string, payload P) error {
	if id == "" {
		return Invalid(errors.New("missing id"))
	}
	return r.client.Put(ctx, r.itemPath(id), payload, nil)
}

func (r *Resource[T, P]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return Invalid(errors.New("missing id"))
	}
	return r.client.Delete(ctx, r.itemPath(id), nil)
}

func (r *Resource[T, P]) itemPath(id string) string {
	return r.base + "/" + url.PathEscape(id)
}

// ValidationError is a form problem caught before any request was sent.
// Its text is meant for the page.
type ValidationError struct {
	Err error
}

// Invalid marks err as a local validation failure.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}

func (e *ValidationError) Error() string         { return e.Err.Error() }
func (e *ValidationError) Unwrap() error         { return e.Err }
func (e *ValidationError) ServerMessage() string { return e.Err.Error() }

// IsValidation reports whether err was raised locally.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
