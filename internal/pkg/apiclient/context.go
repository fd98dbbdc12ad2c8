package apiclient

import "context"

const CorrelationIDHeader = "X-Correlation-ID"

type contextKey string

const (
	tokenContextKey         contextKey = "apiToken"
	correlationIDContextKey contextKey = "correlationID"
)

// WithToken returns a context whose API calls carry token as a bearer credential.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext returns the credential token stored in ctx, if any.
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tokenContextKey).(string); ok {
		return v
	}
	return ""
}

// WithCorrelationID adds correlation ID to context
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey, correlationID)
}

// CorrelationIDFromContext retrieves correlation ID from context
func CorrelationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(correlationIDContextKey).(string); ok {
		return v
	}
	return ""
}
