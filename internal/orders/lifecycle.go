package orders

import (
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
)

// statusRank orders the fulfillment pipeline. Cancelled sits outside the
// pipeline and is handled separately.
var statusRank = map[enums.OrderStatus]int{
	enums.OrderStatusPending:    0,
	enums.OrderStatusConfirmed:  1,
	enums.OrderStatusProcessing: 2,
	enums.OrderStatusShipped:    3,
	enums.OrderStatusDelivered:  4,
}

// userCancellable lists the states a customer may cancel from.
var userCancellable = map[enums.OrderStatus]bool{
	enums.OrderStatusPending:    true,
	enums.OrderStatusConfirmed:  true,
	enums.OrderStatusProcessing: true,
}

// ValidateAdminTransition enforces forward-only pipeline moves, plus
// cancellation from any non-terminal state.
func ValidateAdminTransition(from, to enums.OrderStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	if from.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is in a terminal state").
			WithDetails(map[string]any{"status": from.String()})
	}
	if to == enums.OrderStatusCancelled {
		return nil
	}
	if statusRank[to] <= statusRank[from] {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status can only move forward").
			WithDetails(map[string]any{"from": from.String(), "to": to.String()})
	}
	return nil
}

// ValidateUserCancel enforces the customer-side cancellation window.
func ValidateUserCancel(status enums.OrderStatus) error {
	if userCancellable[status] {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
		WithDetails(map[string]any{"status": status.String()})
}
