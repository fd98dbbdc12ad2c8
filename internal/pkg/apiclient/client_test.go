package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAttachesTokenFromContext(t *testing.T) {
	var gotAuth, gotCorrelation string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCorrelation = r.Header.Get(CorrelationIDHeader)
		_, _ = w.Write([]byte(`{"name":"Lan"}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL + "/"))

	ctx := WithToken(context.Background(), "tok-123")
	ctx = WithCorrelationID(ctx, "corr-1")

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(ctx, "/auth/me", &out))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "corr-1", gotCorrelation)
	assert.Equal(t, "Lan", out.Name)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	require.NoError(t, client.Post(context.Background(), "auth/login", map[string]string{"phone": "0900"}, nil))
	assert.Empty(t, gotAuth)
}

func TestClientSendsJSONBodyAndQuery(t *testing.T) {
	var gotBody map[string]interface{}
	var gotQuery url.Values
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	err := client.Put(context.Background(), "/admin/agents/a1",
		map[string]interface{}{"name": "Lan", "active": false}, nil,
		WithQuery(url.Values{"page": {"2"}}),
	)
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "Lan", gotBody["name"])
	assert.Equal(t, false, gotBody["active"])
}

func TestClientForwardsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Số điện thoại đã tồn tại"}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	err := client.Post(context.Background(), "/admin/agents", map[string]string{}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Số điện thoại đã tồn tại", apiErr.ServerMessage())
	assert.False(t, IsUnauthorized(err))
}

func TestClientErrorWithoutJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(WithBaseURL(srv.URL)).Get(context.Background(), "/admin/stats", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Empty(t, apiErr.Message)
	assert.Contains(t, apiErr.Body, "upstream down")
}

func TestIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := New(WithBaseURL(srv.URL)).Get(context.Background(), "/auth/me", nil)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsUnauthorized(errors.New("other")))
}

func TestClientDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := New(WithBaseURL(srv.URL)).Post(context.Background(), "/wc/sync-orders", nil, nil)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	err := New(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond)).Get(context.Background(), "/slow", nil)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
