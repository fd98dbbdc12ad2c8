package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the remote API, forwarded unchanged.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
	Method     string
	// Message is the "message" field of the JSON error body, when present.
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s failed with status %d %s", e.Method, e.URL, e.StatusCode, e.Status)
}

// ServerMessage returns the message the API attached to the failure.
func (e *APIError) ServerMessage() string {
	return e.Message
}

// IsUnauthorized reports whether err is an API rejection of the credential.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

func newAPIError(method, url string, resp *http.Response, body []byte) *APIError {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		msg = envelope.Message
		if msg == "" {
			msg = envelope.Error
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        url,
		Method:     method,
		Message:    msg,
		Body:       string(body),
	}
}
