package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/orders"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/types"
)

// OrdersController serves the customer-facing order operations.
type OrdersController struct {
	orders orders.Service
	logg   *logger.Logger
}

// NewOrdersController builds the order handlers.
func NewOrdersController(ordersService orders.Service, logg *logger.Logger) *OrdersController {
	return &OrdersController{orders: ordersService, logg: logg}
}

type checkoutRequest struct {
	PaymentMethod   string         `json:"payment_method" validate:"required,oneof=cod card bank_transfer"`
	AddressID       *uuid.UUID     `json:"address_id"`
	ShippingAddress *types.Address `json:"shipping_address"`
	Notes           string         `json:"notes"`
}

// Checkout places an order from the user's cart.
func (c *OrdersController) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method"))
			return
		}

		order, err := c.orders.Checkout(r.Context(), userID, orders.CheckoutInput{
			PaymentMethod:   method,
			AddressID:       req.AddressID,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// List returns the user's own orders, newest first.
func (c *OrdersController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		input, err := parseOrderListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		result, err := c.orders.ListOrders(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WritePage(w, result.Orders, result.Meta)
	}
}

// Get returns one of the user's orders.
func (c *OrdersController) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		order, err := c.orders.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Cancel lets the owner cancel an order that has not shipped.
func (c *OrdersController) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		order, err := c.orders.CancelOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func parseOrderListInput(r *http.Request) (orders.ListInput, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return orders.ListInput{}, err
	}

	input := orders.ListInput{Pagination: params}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return orders.ListInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
		}
		input.Status = &status
	}
	return input, nil
}
