// Package handlertest runs console handlers against a fake REST API.
package handlertest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"jiudi-console/internal/domain/auth"
	"jiudi-console/internal/middleware"
	"jiudi-console/internal/pkg/apiclient"
	"jiudi-console/internal/pkg/session"
	authUsecase "jiudi-console/internal/service/auth"
	"jiudi-console/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const CookieName = "jiudi_session"

// Harness wires a gin engine with the session middleware to a fake API.
// Tests register API routes on Mux and console routes on Engine.
type Harness struct {
	API      *httptest.Server
	Mux      *http.ServeMux
	Client   *apiclient.Client
	Store    *session.MemoryStore
	Manager  *session.Manager
	Auth     *middleware.AuthMiddleware
	Renderer *web.Renderer
	Engine   *gin.Engine
	Logger   *zap.Logger

	mu       sync.Mutex
	tokens   map[string]auth.Identity
	requests []string
}

func New(t *testing.T, opts ...session.ManagerOption) *Harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &Harness{
		Mux:    http.NewServeMux(),
		Store:  session.NewMemoryStore(),
		Logger: zap.NewNop(),
		tokens: make(map[string]auth.Identity),
	}

	h.Mux.HandleFunc("GET /auth/me", h.me)
	h.API = httptest.NewServer(http.HandlerFunc(h.record))
	t.Cleanup(h.API.Close)

	h.Client = apiclient.New(apiclient.WithBaseURL(h.API.URL), apiclient.WithLogger(h.Logger))
	authService := authUsecase.NewAuthService(h.Client, h.Logger)
	h.Manager = session.NewManager(h.Store, authService, append([]session.ManagerOption{session.WithLogger(h.Logger)}, opts...)...)

	renderer, err := web.NewRenderer(h.Logger)
	require.NoError(t, err)
	h.Renderer = renderer

	h.Auth = middleware.NewAuthMiddleware(h.Manager, middleware.CookieConfig{
		Name:   CookieName,
		MaxAge: 24 * time.Hour,
	}, renderer.Loading, h.Logger)

	h.Engine = gin.New()
	h.Engine.Use(h.Auth.Session())
	return h
}

// SignIn stores a session for identity and returns its cookie.
func (h *Harness) SignIn(t *testing.T, identity auth.Identity) *http.Cookie {
	t.Helper()
	token := "tok-" + session.NewID()

	h.mu.Lock()
	h.tokens[token] = identity
	h.mu.Unlock()

	id := identity
	rec := &session.Record{
		ID:        session.NewID(),
		Token:     token,
		Identity:  &id,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, h.Store.Save(t.Context(), rec))
	return &http.Cookie{Name: CookieName, Value: rec.ID}
}

// SetIdentity changes what /auth/me reports for every token of the user.
func (h *Harness) SetIdentity(identity auth.Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for token, existing := range h.tokens {
		if existing.ID == identity.ID {
			h.tokens[token] = identity
		}
	}
}

// IssueToken makes token valid for identity.
func (h *Harness) IssueToken(token string, identity auth.Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tokens[token] = identity
}

// Requests lists the API calls seen so far as "METHOD /path?query",
// excluding credential verification.
func (h *Harness) Requests() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.requests...)
}

// Get performs a console GET.
func (h *Harness) Get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return h.Do(http.MethodGet, path, nil, cookie)
}

// Post submits a form to the console.
func (h *Harness) Post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	return h.Do(http.MethodPost, path, form, cookie)
}

func (h *Harness) Do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.Engine.ServeHTTP(w, req)
	return w
}

// Cookie returns the session cookie set by a response, nil when none was set.
func Cookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes an API error body carrying message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

func (h *Harness) record(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/auth/me" {
		entry := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			entry += "?" + r.URL.RawQuery
		}
		h.mu.Lock()
		h.requests = append(h.requests, entry)
		h.mu.Unlock()
	}
	h.Mux.ServeHTTP(w, r)
}

func (h *Harness) me(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	h.mu.Lock()
	identity, ok := h.tokens[token]
	h.mu.Unlock()
	if !ok {
		Fail(w, http.StatusUnauthorized, "invalid token")
		return
	}
	JSON(w, http.StatusOK, identity)
}
