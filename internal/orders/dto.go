package orders

import (
	"github.com/google/uuid"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
	"github.com/luxenest/luxenest-backend/pkg/types"
)

// CheckoutInput is the validated payload to place an order from the cart.
// Exactly one of AddressID or ShippingAddress must be provided.
type CheckoutInput struct {
	PaymentMethod   enums.PaymentMethod
	AddressID       *uuid.UUID
	ShippingAddress *types.Address
	Notes           string
}

// AdminStatusUpdateInput carries the admin-side status mutation. Either
// field may be nil to leave it unchanged.
type AdminStatusUpdateInput struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
}

// ListInput pages through orders, optionally filtered by status.
type ListInput struct {
	Status     *enums.OrderStatus
	Pagination pagination.Params
}

// OrderListResult is one page of orders plus metadata.
type OrderListResult struct {
	Orders []models.Order
	Meta   pagination.Meta
}
