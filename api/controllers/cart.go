package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/cart"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// CartController serves the authenticated user's cart.
type CartController struct {
	cart cart.Service
	logg *logger.Logger
}

// NewCartController builds the cart handlers.
func NewCartController(cartService cart.Service, logg *logger.Logger) *CartController {
	return &CartController{cart: cartService, logg: logg}
}

type cartResponse struct {
	Cart     any    `json:"cart"`
	Subtotal string `json:"subtotal"`
	Count    int    `json:"count"`
}

func cartPayload(view *cart.CartView) cartResponse {
	return cartResponse{
		Cart:     view.Cart,
		Subtotal: view.Subtotal.StringFixed(2),
		Count:    view.Count,
	}
}

// Get returns the cart with derived totals.
func (c *CartController) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		view, err := c.cart.GetCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(view))
	}
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// AddItem adds or merges a cart line.
func (c *CartController) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		view, err := c.cart.AddItem(r.Context(), userID, cart.AddItemInput{
			ProductID: req.ProductID,
			Color:     req.Color,
			Quantity:  req.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(view))
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// UpdateItem sets the quantity of an existing line.
func (c *CartController) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		view, err := c.cart.UpdateItem(r.Context(), userID, itemID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(view))
	}
}

// RemoveItem deletes one line from the cart.
func (c *CartController) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		view, err := c.cart.RemoveItem(r.Context(), userID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(view))
	}
}

// Clear empties the cart.
func (c *CartController) Clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		if err := c.cart.ClearCart(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "cart cleared")
	}
}
