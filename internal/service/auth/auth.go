// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jiudi-console/internal/domain/auth"
	"jiudi-console/internal/pkg/apiclient"
	"jiudi-console/internal/pkg/resource"

	"go.uber.org/zap"
)

var (
	errPasswordMismatch = errors.New("Mật khẩu nhập lại không khớp")
	errNoToken          = errors.New("login returned no token")
)

// AuthService talks to the /auth endpoints. It also verifies and revokes
// stored credentials for the session manager.
type AuthService struct {
	client *apiclient.Client
	logger *zap.Logger
}

func NewAuthService(client *apiclient.Client, logger *zap.Logger) *AuthService {
	return &AuthService{
		client: client,
		logger: logger,
	}
}

// ========== Login ==========

// Login exchanges phone and password for an identity and, usually, a token.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	body := auth.LoginRequest{
		Phone:    strings.TrimSpace(req.Phone),
		Password: req.Password,
	}

	var resp auth.LoginResponse
	if err := s.client.Post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Role.Valid() {
		return nil, fmt.Errorf("login returned unknown role %q", resp.Role)
	}
	if resp.Token == "" {
		return nil, errNoToken
	}

	s.logger.Info("user logged in",
		zap.String("user_id", resp.ID),
		zap.String("role", string(resp.Role)),
		zap.Bool("first_login", resp.IsFirstLogin),
	)
	return &resp, nil
}

// ========== Session verification ==========

// Me returns the identity behind token.
func (s *AuthService) Me(ctx context.Context, token string) (*auth.Identity, error) {
	var identity auth.Identity
	if err := s.client.Get(ctx, "/auth/me", &identity, apiclient.WithBearerToken(token)); err != nil {
		return nil, err
	}
	if !identity.Role.Valid() {
		return nil, fmt.Errorf("identity has unknown role %q", identity.Role)
	}
	return &identity, nil
}

// Logout revokes token on the API.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.client.Post(ctx, "/auth/logout", nil, nil, apiclient.WithBearerToken(token))
}

// ========== Password ==========

// ChangePassword checks the confirmation locally before sending anything.
func (s *AuthService) ChangePassword(ctx context.Context, form *auth.ChangePasswordForm) error {
	if !form.Matches() {
		return resource.Invalid(errPasswordMismatch)
	}
	req := auth.ChangePasswordRequest{
		OldPassword: form.OldPassword,
		NewPassword: form.NewPassword,
	}
	if err := s.client.Post(ctx, "/auth/change-password", req, nil); err != nil {
		return err
	}
	s.logger.Info("password changed")
	return nil
}
