package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/users"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/types"
)

// UsersController serves the authenticated user's profile, address book,
// wishlist, and preferences.
type UsersController struct {
	users users.Service
	logg  *logger.Logger
}

// NewUsersController builds the account handlers.
func NewUsersController(usersService users.Service, logg *logger.Logger) *UsersController {
	return &UsersController{users: usersService, logg: logg}
}

// Profile returns the current account.
func (c *UsersController) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		user, err := c.users.GetProfile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UpdateProfile mutates the editable profile fields.
func (c *UsersController) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req updateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		user, err := c.users.UpdateProfile(r.Context(), userID, users.UpdateProfileInput{
			Name:  req.Name,
			Phone: req.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UpdatePreferences replaces the stored preference blob.
func (c *UsersController) UpdatePreferences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var prefs types.UserPreferences
		if err := validators.DecodeJSONBody(r, &prefs); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		user, err := c.users.UpdatePreferences(r.Context(), userID, prefs)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

type addressRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
	IsDefault  bool   `json:"is_default"`
}

func (req addressRequest) toInput() users.AddressInput {
	return users.AddressInput{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}
}

// ListAddresses returns the address book, default first.
func (c *UsersController) ListAddresses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		rows, err := c.users.ListAddresses(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AddAddress saves a new address.
func (c *UsersController) AddAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req addressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		address, err := c.users.AddAddress(r.Context(), userID, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

// UpdateAddress replaces an existing address.
func (c *UsersController) UpdateAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		addressID, err := validators.ParsePathUUID(chi.URLParam(r, "addressID"), "addressID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req addressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		address, err := c.users.UpdateAddress(r.Context(), userID, addressID, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

// DeleteAddress removes an address.
func (c *UsersController) DeleteAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		addressID, err := validators.ParsePathUUID(chi.URLParam(r, "addressID"), "addressID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		if err := c.users.DeleteAddress(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "address removed")
	}
}

// ListWishlist returns the saved products.
func (c *UsersController) ListWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		rows, err := c.users.ListWishlist(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type wishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// AddToWishlist saves a product; repeated adds are a no-op.
func (c *UsersController) AddToWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req wishlistRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		if err := c.users.AddToWishlist(r.Context(), userID, req.ProductID); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "added to wishlist")
	}
}

// RemoveFromWishlist drops a saved product.
func (c *UsersController) RemoveFromWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		if err := c.users.RemoveFromWishlist(r.Context(), userID, productID); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "removed from wishlist")
	}
}
