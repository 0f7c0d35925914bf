package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/orders"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// AdminOrdersController serves order management across all users.
type AdminOrdersController struct {
	orders orders.Service
	logg   *logger.Logger
}

// NewAdminOrdersController builds the order admin handlers.
func NewAdminOrdersController(ordersService orders.Service, logg *logger.Logger) *AdminOrdersController {
	return &AdminOrdersController{orders: ordersService, logg: logg}
}

// List returns orders across all users, newest first.
func (c *AdminOrdersController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseOrderListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		result, err := c.orders.AdminListOrders(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WritePage(w, result.Orders, result.Meta)
	}
}

// Get returns any order by id.
func (c *AdminOrdersController) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		order, err := c.orders.AdminGetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderStatusRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

// UpdateStatus advances the order or payment status.
func (c *AdminOrdersController) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var input orders.AdminStatusUpdateInput
		if req.Status != nil {
			status, err := enums.ParseOrderStatus(*req.Status)
			if err != nil {
				responses.WriteError(r.Context(), c.logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
				return
			}
			input.Status = &status
		}
		if req.PaymentStatus != nil {
			paymentStatus, err := enums.ParsePaymentStatus(*req.PaymentStatus)
			if err != nil {
				responses.WriteError(r.Context(), c.logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status"))
				return
			}
			input.PaymentStatus = &paymentStatus
		}

		order, err := c.orders.AdminUpdateStatus(r.Context(), orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
