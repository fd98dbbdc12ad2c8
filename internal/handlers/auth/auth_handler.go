// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"jiudi-console/internal/domain/auth"
	"jiudi-console/internal/handlers/crud"
	"jiudi-console/internal/middleware"
	xerrors "jiudi-console/internal/pkg/errors"
	"jiudi-console/internal/pkg/session"
	authUsecase "jiudi-console/internal/service/auth"
	"jiudi-console/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const (
	msgMissingCredentials = "Vui lòng nhập số điện thoại và mật khẩu"
	msgLoginFailed        = "Đăng nhập thất bại"
	msgTooManyAttempts    = "Bạn đã thử đăng nhập quá nhiều lần. Vui lòng thử lại sau 15 phút."
	msgMissingPasswords   = "Vui lòng nhập đầy đủ thông tin"
	msgChangeFailed       = "Đổi mật khẩu thất bại"
	msgPasswordChanged    = "Đổi mật khẩu thành công!"
)

var errSessionUnavailable = errors.New("Không thể lưu phiên đăng nhập, vui lòng thử lại")

// LoginView is the login page data.
type LoginView struct {
	Phone string
	Error string
}

// ChangePasswordView is the change password page data.
type ChangePasswordView struct {
	FirstLogin bool
	Error      string
}

type AuthHandler struct {
	authService *authUsecase.AuthService
	limiter     *session.RateLimiter
	renderer    *web.Renderer
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, limiter *session.RateLimiter, renderer *web.Renderer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
		renderer:    renderer,
		logger:      logger,
	}
}

// Root sends visitors to the login page, which forwards signed-in users home.
func (h *AuthHandler) Root(c *gin.Context) {
	middleware.Redirect(c, http.StatusFound, auth.LoginPath)
}

// ========== Login ==========

// ShowLogin renders the login form. A signed-in user goes straight home.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess.Loading() {
		h.renderer.Loading(c)
		return
	}
	if identity := sess.Identity(); identity != nil {
		middleware.Redirect(c, http.StatusFound, identity.LandingPath())
		return
	}
	h.renderLogin(c, http.StatusOK, LoginView{})
}

// Login submits the credentials once. On success the session is recorded
// and the browser goes to the first-login page or the role home.
func (h *AuthHandler) Login(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	ctx := c.Request.Context()

	var req auth.LoginRequest
	if err := c.ShouldBindWith(&req, binding.FormPost); err != nil {
		h.renderLogin(c, http.StatusUnprocessableEntity, LoginView{Phone: req.Phone, Error: msgMissingCredentials})
		return
	}

	ip := c.ClientIP()
	allowed, remaining, err := h.limiter.CheckLoginAttempt(ctx, ip, req.Phone)
	if err != nil {
		h.logger.Warn("login limiter unavailable", zap.String("ip", ip), zap.Error(err))
		allowed = true
	}
	if !allowed {
		h.logger.Warn("login rate limited", zap.String("ip", ip), zap.String("phone", req.Phone))
		h.renderLogin(c, http.StatusTooManyRequests, LoginView{Phone: req.Phone, Error: msgTooManyAttempts})
		return
	}

	resp, err := h.authService.Login(ctx, &req)
	if err != nil {
		h.logger.Info("login failed",
			zap.String("phone", req.Phone),
			zap.String("ip", ip),
			zap.Int64("attempts_left", remaining),
			zap.Error(err),
		)
		h.renderLogin(c, crud.StatusFor(err), LoginView{
			Phone: req.Phone,
			Error: xerrors.ServerMessage(err, msgLoginFailed),
		})
		return
	}

	if err := h.limiter.ResetLoginAttempts(ctx, ip, req.Phone); err != nil {
		h.logger.Warn("failed to reset login attempts", zap.String("ip", ip), zap.Error(err))
	}

	if err := sess.RecordLogin(ctx, resp, ip, c.GetHeader("User-Agent")); err != nil {
		h.logger.Error("failed to record login", zap.String("user_id", resp.ID), zap.Error(err))
		h.renderLogin(c, http.StatusInternalServerError, LoginView{Phone: req.Phone, Error: errSessionUnavailable.Error()})
		return
	}

	middleware.Redirect(c, http.StatusSeeOther, resp.Identity.LandingPath())
}

// ========== Logout ==========

// Logout ends the session everywhere and returns to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	location := sess.EndSession(c.Request.Context())
	middleware.Redirect(c, http.StatusSeeOther, location)
}

// ========== Password Management ==========

// ShowChangePassword renders the form. The route is guarded, so an
// identity is always present here.
func (h *AuthHandler) ShowChangePassword(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	h.renderChangePassword(c, http.StatusOK, ChangePasswordView{FirstLogin: identity != nil && identity.IsFirstLogin})
}

// ChangePassword submits the new password. A mismatch never reaches the
// API. On success the identity is verified again so a cleared first-login
// flag takes effect before the redirect.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	ctx := c.Request.Context()
	identity := sess.Identity()
	view := ChangePasswordView{FirstLogin: identity != nil && identity.IsFirstLogin}

	var form auth.ChangePasswordForm
	if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
		view.Error = msgMissingPasswords
		h.renderChangePassword(c, http.StatusUnprocessableEntity, view)
		return
	}

	if err := h.authService.ChangePassword(ctx, &form); err != nil {
		h.logger.Info("password change failed", zap.String("session_id", sess.ID()), zap.Error(err))
		view.Error = xerrors.ServerMessage(err, msgChangeFailed)
		h.renderChangePassword(c, crud.StatusFor(err), view)
		return
	}

	sess.Refresh(ctx)
	identity = sess.Identity()
	if identity == nil {
		middleware.Redirect(c, http.StatusSeeOther, auth.LoginPath)
		return
	}

	middleware.Flash(c, session.Success(crud.TitleSuccess, msgPasswordChanged))
	middleware.Redirect(c, http.StatusSeeOther, identity.Role.Home())
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, v LoginView) {
	h.renderer.HTML(c, status, "login", web.View{Title: "Đăng nhập", Data: v})
}

func (h *AuthHandler) renderChangePassword(c *gin.Context, status int, v ChangePasswordView) {
	h.renderer.HTML(c, status, "change_password", web.View{Title: "Đổi mật khẩu", Data: v})
}
