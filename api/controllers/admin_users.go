package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/users"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// AdminUsersController serves account administration.
type AdminUsersController struct {
	users users.Service
	logg  *logger.Logger
}

// NewAdminUsersController builds the account admin handlers.
func NewAdminUsersController(usersService users.Service, logg *logger.Logger) *AdminUsersController {
	return &AdminUsersController{users: usersService, logg: logg}
}

// List returns accounts, newest first.
func (c *AdminUsersController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		page, err := c.users.AdminListUsers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WritePage(w, page.Users, page.Meta)
	}
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// SetRole changes an account's role.
func (c *AdminUsersController) SetRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParsePathUUID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req setRoleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(req.Role)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown role"))
			return
		}

		user, err := c.users.AdminSetRole(r.Context(), userID, role)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
