package controllers

import (
	"net/http"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/users"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// AuthController serves registration, login, and credential recovery.
type AuthController struct {
	users users.Service
	logg  *logger.Logger
}

// NewAuthController builds the auth handlers.
func NewAuthController(usersService users.Service, logg *logger.Logger) *AuthController {
	return &AuthController{users: usersService, logg: logg}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

type authResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Register creates an account and returns an access token.
func (c *AuthController) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		result, err := c.users.Register(r.Context(), users.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, authResponse{Token: result.Token, User: result.User})
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns an access token.
func (c *AuthController) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		result, err := c.users.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, authResponse{Token: result.Token, User: result.User})
	}
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// VerifyEmail redeems a verification token.
func (c *AuthController) VerifyEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyEmailRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		if err := c.users.VerifyEmail(r.Context(), req.Token); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "email verified")
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword issues a reset token. Always answers success.
func (c *AuthController) ForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		if err := c.users.RequestPasswordReset(r.Context(), req.Email); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "if the account exists, a reset email is on its way")
	}
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ResetPassword redeems a reset token and sets the new password.
func (c *AuthController) ResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		if err := c.users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "password updated")
	}
}
