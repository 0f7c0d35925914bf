package orders

import (
	"testing"

	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
)

func TestValidateAdminTransition(t *testing.T) {
	cases := []struct {
		name     string
		from     enums.OrderStatus
		to       enums.OrderStatus
		wantCode pkgerrors.Code
	}{
		{name: "pending to confirmed", from: enums.OrderStatusPending, to: enums.OrderStatusConfirmed},
		{name: "pending to shipped skips steps", from: enums.OrderStatusPending, to: enums.OrderStatusShipped},
		{name: "processing to delivered", from: enums.OrderStatusProcessing, to: enums.OrderStatusDelivered},
		{name: "shipped to cancelled", from: enums.OrderStatusShipped, to: enums.OrderStatusCancelled},
		{name: "backwards move rejected", from: enums.OrderStatusShipped, to: enums.OrderStatusConfirmed, wantCode: pkgerrors.CodeStateConflict},
		{name: "same status rejected", from: enums.OrderStatusConfirmed, to: enums.OrderStatusConfirmed, wantCode: pkgerrors.CodeStateConflict},
		{name: "delivered is terminal", from: enums.OrderStatusDelivered, to: enums.OrderStatusShipped, wantCode: pkgerrors.CodeStateConflict},
		{name: "cancelled is terminal", from: enums.OrderStatusCancelled, to: enums.OrderStatusPending, wantCode: pkgerrors.CodeStateConflict},
		{name: "delivered cannot be cancelled", from: enums.OrderStatusDelivered, to: enums.OrderStatusCancelled, wantCode: pkgerrors.CodeStateConflict},
		{name: "unknown target status", from: enums.OrderStatusPending, to: enums.OrderStatus("misplaced"), wantCode: pkgerrors.CodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAdminTransition(tc.from, tc.to)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected transition to be allowed, got %v", err)
				}
				return
			}
			typed := pkgerrors.As(err)
			if typed == nil {
				t.Fatalf("expected a typed error, got %v", err)
			}
			if typed.Code() != tc.wantCode {
				t.Fatalf("expected code %s, got %s", tc.wantCode, typed.Code())
			}
		})
	}
}

func TestValidateUserCancel(t *testing.T) {
	allowed := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusConfirmed,
		enums.OrderStatusProcessing,
	}
	for _, status := range allowed {
		if err := ValidateUserCancel(status); err != nil {
			t.Fatalf("expected cancel from %s to be allowed, got %v", status, err)
		}
	}

	blocked := []enums.OrderStatus{
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	}
	for _, status := range blocked {
		err := ValidateUserCancel(status)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict cancelling from %s, got %v", status, err)
		}
	}
}
