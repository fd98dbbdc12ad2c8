package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"jiudi-console/internal/domain/auth"
	"jiudi-console/internal/handlers/handlertest"
	"jiudi-console/internal/pkg/session"
	authUsecase "jiudi-console/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *handlertest.Harness {
	t.Helper()
	h := handlertest.New(t)
	ah := NewAuthHandler(authUsecase.NewAuthService(h.Client, h.Logger), session.NewRateLimiter(nil), h.Renderer, h.Logger)

	h.Engine.GET("/", ah.Root)
	h.Engine.GET("/login", ah.ShowLogin)
	h.Engine.POST("/login", ah.Login)
	h.Engine.POST("/logout", ah.Logout)

	guarded := h.Engine.Group("", h.Auth.RequireIdentity())
	guarded.GET("/change-password", ah.ShowChangePassword)
	guarded.POST("/change-password", ah.ChangePassword)

	h.Engine.GET("/admin", h.Auth.AdminOnly(), func(c *gin.Context) { c.String(http.StatusOK, "admin home") })
	return h
}

func credentials(phone, password string) url.Values {
	return url.Values{"phone": {phone}, "password": {password}}
}

func TestRootRedirectsToLogin(t *testing.T) {
	h := setup(t)

	w := h.Get("/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestShowLogin(t *testing.T) {
	h := setup(t)

	w := h.Get("/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/login"`)
	assert.Nil(t, handlertest.Cookie(w))
}

func TestShowLoginRedirectsSignedIn(t *testing.T) {
	h := setup(t)
	cookie := h.SignIn(t, auth.Identity{ID: "u1", Name: "Minh", Role: auth.RoleAdmin})

	w := h.Get("/login", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
}

func TestLoginSuccess(t *testing.T) {
	h := setup(t)
	identity := auth.Identity{ID: "u1", Name: "Minh", Phone: "0900", Role: auth.RoleAdmin}
	h.IssueToken("t1", identity)
	h.Mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0900", body["phone"])
		assert.Equal(t, "secret", body["password"])
		handlertest.JSON(w, http.StatusOK, auth.LoginResponse{Token: "t1", Identity: identity})
	})

	w := h.Post("/login", credentials(" 0900 ", "secret"), nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	cookie := handlertest.Cookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, h.Store.Len())

	w = h.Get("/admin", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin home", w.Body.String())
}

func TestLoginFirstLoginGoesToChangePassword(t *testing.T) {
	h := setup(t)
	identity := auth.Identity{ID: "u2", Name: "Lan", Role: auth.RoleAgent, IsFirstLogin: true}
	h.IssueToken("t2", identity)
	h.Mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, auth.LoginResponse{Token: "t2", Identity: identity})
	})

	w := h.Post("/login", credentials("0911", "123456789"), nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/change-password", w.Header().Get("Location"))

	cookie := handlertest.Cookie(w)
	require.NotNil(t, cookie)

	// every other route funnels back to the password change
	w = h.Get("/admin", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/change-password", w.Header().Get("Location"))

	w = h.Get("/change-password", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lần đăng nhập đầu tiên")
}

func TestLoginFailureKeepsPhone(t *testing.T) {
	h := setup(t)
	h.Mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		handlertest.Fail(w, http.StatusUnauthorized, "Sai số điện thoại hoặc mật khẩu")
	})

	w := h.Post("/login", credentials("0900", "wrong"), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Sai số điện thoại hoặc mật khẩu")
	assert.Contains(t, w.Body.String(), `value="0900"`)
	assert.Equal(t, 0, h.Store.Len())
}

func TestLoginFailureFallback(t *testing.T) {
	h := setup(t)
	h.Mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := h.Post("/login", credentials("0900", "secret"), nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), msgLoginFailed)
}

func TestLoginWithoutTokenFails(t *testing.T) {
	h := setup(t)
	h.Mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, auth.LoginResponse{Identity: auth.Identity{ID: "u1", Name: "Minh", Role: auth.RoleAdmin}})
	})

	w := h.Post("/login", credentials("0900", "secret"), nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), msgLoginFailed)
	assert.Contains(t, w.Body.String(), `value="0900"`)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Equal(t, 0, h.Store.Len())
}

func TestLoginMissingFieldsSkipsNetwork(t *testing.T) {
	h := setup(t)

	w := h.Post("/login", credentials("0900", ""), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), msgMissingCredentials)
	assert.Empty(t, h.Requests())
}

func TestLogout(t *testing.T) {
	h := setup(t)
	h.Mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	cookie := h.SignIn(t, auth.Identity{ID: "u1", Name: "Minh", Role: auth.RoleAdmin})

	w := h.Post("/logout", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cleared := handlertest.Cookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, 0, h.Store.Len())
	assert.Equal(t, []string{"POST /auth/logout"}, h.Requests())

	w = h.Get("/admin", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLogoutSurvivesAPIFailure(t *testing.T) {
	h := setup(t)
	h.Mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	cookie := h.SignIn(t, auth.Identity{ID: "u1", Name: "Minh", Role: auth.RoleAdmin})

	w := h.Post("/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, h.Store.Len())
}

func passwords(oldPw, newPw, confirm string) url.Values {
	return url.Values{"oldPassword": {oldPw}, "newPassword": {newPw}, "confirmPassword": {confirm}}
}

func TestChangePasswordMismatchSkipsNetwork(t *testing.T) {
	h := setup(t)
	cookie := h.SignIn(t, auth.Identity{ID: "u2", Name: "Lan", Role: auth.RoleAgent, IsFirstLogin: true})

	w := h.Post("/change-password", passwords("123456789", "newpass1", "newpass2"), cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Mật khẩu nhập lại không khớp")
	assert.Empty(t, h.Requests())
}

func TestChangePasswordSuccess(t *testing.T) {
	h := setup(t)
	identity := auth.Identity{ID: "u2", Name: "Lan", Role: auth.RoleAgent, IsFirstLogin: true}
	h.Mux.HandleFunc("POST /auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "123456789", body["oldPassword"])
		assert.Equal(t, "newpass1", body["newPassword"])

		cleared := identity
		cleared.IsFirstLogin = false
		h.SetIdentity(cleared)
		handlertest.JSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	cookie := h.SignIn(t, identity)

	w := h.Post("/change-password", passwords("123456789", "newpass1", "newpass1"), cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/agent", w.Header().Get("Location"))

	// the refreshed identity is stored, so the guard lets the user through
	w = h.Get("/change-password", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "lần đăng nhập đầu tiên")
	assert.Contains(t, w.Body.String(), msgPasswordChanged)
}

func TestChangePasswordServerMessage(t *testing.T) {
	h := setup(t)
	h.Mux.HandleFunc("POST /auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		handlertest.Fail(w, http.StatusBadRequest, "Mật khẩu cũ không đúng")
	})
	cookie := h.SignIn(t, auth.Identity{ID: "u1", Name: "Minh", Role: auth.RoleAdmin})

	w := h.Post("/change-password", passwords("bad", "newpass1", "newpass1"), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Mật khẩu cũ không đúng")
}
