// internal/domain/auth/dto.go
package auth

// LoginRequest for user login
type LoginRequest struct {
	Phone    string `json:"phone" form:"phone" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse is the identity payload returned by /auth/login, plus the
// credential token when the API issued one.
type LoginResponse struct {
	Token string `json:"token,omitempty"`
	Identity
}

// ChangePasswordForm is what the change password page submits.
type ChangePasswordForm struct {
	OldPassword     string `form:"oldPassword" binding:"required"`
	NewPassword     string `form:"newPassword" binding:"required"`
	ConfirmPassword string `form:"confirmPassword" binding:"required"`
}

// Matches reports whether the new password was typed identically twice.
func (f ChangePasswordForm) Matches() bool {
	return f.NewPassword == f.ConfirmPassword
}

// ChangePasswordRequest is the body sent to /auth/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
