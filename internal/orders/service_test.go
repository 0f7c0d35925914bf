package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/internal/cart"
	"github.com/luxenest/luxenest-backend/pkg/config"
	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/types"
)

// boundTxRunner reuses an already-open transaction so test seeds roll back
// together with the writes under test.
type boundTxRunner struct {
	tx *gorm.DB
}

func (r boundTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.tx.Transaction(fn)
}

type stubUserLoader struct {
	user *models.User
}

func (s stubUserLoader) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubAddressLoader struct {
	address *models.Address
}

func (s stubAddressLoader) FindAddress(context.Context, uuid.UUID, uuid.UUID) (*models.Address, error) {
	if s.address == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.address, nil
}

func testShippingAddress() *types.Address {
	return &types.Address{
		FullName:   "Test Shopper",
		Phone:      "5550100",
		Line1:      "1 Harbor Street",
		City:       "Lisbon",
		State:      "Lisboa",
		PostalCode: "1100-001",
		Country:    "PT",
	}
}

func newCheckoutService(t *testing.T, tx *gorm.DB, user *models.User) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(
		NewRepository(tx),
		cart.NewRepository(tx),
		stubAddressLoader{},
		stubUserLoader{user: user},
		boundTxRunner{tx: tx},
		config.PricingConfig{
			FreeShippingThreshold: decimal.NewFromInt(1000),
			ShippingFlatFee:       decimal.NewFromInt(100),
			TaxRate:               decimal.RequireFromString("0.18"),
		},
		nil,
		logg,
	)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return svc
}

func seedCartWithLine(t *testing.T, tx *gorm.DB, userID uuid.UUID, product *models.Product, color string, qty int) *models.Cart {
	t.Helper()

	userCart := &models.Cart{ID: uuid.New(), UserID: userID}
	if err := tx.Create(userCart).Error; err != nil {
		t.Fatalf("failed to seed cart: %v", err)
	}
	line := &models.CartItem{
		ID:        uuid.New(),
		CartID:    userCart.ID,
		ProductID: product.ID,
		Color:     color,
		Quantity:  qty,
		Price:     product.Price,
	}
	if err := tx.Create(line).Error; err != nil {
		t.Fatalf("failed to seed cart line: %v", err)
	}
	return userCart
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		user := seedUser(t, tx)
		product := seedProduct(t, tx, "Oak Dining Table", "600.00", 4)
		userCart := seedCartWithLine(t, tx, user.ID, product, "", 2)

		svc := newCheckoutService(t, tx, user)
		order, err := svc.Checkout(ctx, user.ID, CheckoutInput{
			PaymentMethod:   enums.PaymentMethodCard,
			ShippingAddress: testShippingAddress(),
		})
		if err != nil {
			t.Fatalf("checkout failed: %v", err)
		}

		if !order.Subtotal.Equal(decimal.RequireFromString("1200")) {
			t.Fatalf("expected subtotal 1200, got %s", order.Subtotal)
		}
		if !order.ShippingFee.IsZero() {
			t.Fatalf("expected free shipping above threshold, got %s", order.ShippingFee)
		}
		if !order.Tax.Equal(decimal.RequireFromString("216")) {
			t.Fatalf("expected tax 216, got %s", order.Tax)
		}
		if !order.Total.Equal(decimal.RequireFromString("1416")) {
			t.Fatalf("expected total 1416, got %s", order.Total)
		}
		if order.Status != enums.OrderStatusPending {
			t.Fatalf("expected new order to be pending, got %s", order.Status)
		}
		if len(order.Items) != 1 || order.Items[0].ProductName != product.Name {
			t.Fatalf("expected one snapshot line for %s", product.Name)
		}

		var stocked models.Product
		if err := tx.First(&stocked, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if stocked.Stock != 2 {
			t.Fatalf("expected stock 2 after checkout, got %d", stocked.Stock)
		}

		var remaining int64
		if err := tx.Model(&models.CartItem{}).Where("cart_id = ?", userCart.ID).Count(&remaining).Error; err != nil {
			t.Fatalf("failed to count cart lines: %v", err)
		}
		if remaining != 0 {
			t.Fatalf("expected cart to be cleared, %d lines remain", remaining)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestCheckoutChargesLivePriceNotCartPrice(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		user := seedUser(t, tx)
		product := seedProduct(t, tx, "Bouclé Sofa", "900.00", 4)
		seedCartWithLine(t, tx, user.ID, product, "", 1)

		// Price changes after the item was added to the cart.
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Update("price", decimal.RequireFromString("950.00")).Error; err != nil {
			t.Fatalf("failed to reprice product: %v", err)
		}

		svc := newCheckoutService(t, tx, user)
		order, err := svc.Checkout(ctx, user.ID, CheckoutInput{
			PaymentMethod:   enums.PaymentMethodCOD,
			ShippingAddress: testShippingAddress(),
		})
		if err != nil {
			t.Fatalf("checkout failed: %v", err)
		}
		if !order.Subtotal.Equal(decimal.RequireFromString("950")) {
			t.Fatalf("expected live price 950 in subtotal, got %s", order.Subtotal)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestCheckoutFailsOnEmptyCart(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		user := seedUser(t, tx)
		svc := newCheckoutService(t, tx, user)

		_, err := svc.Checkout(ctx, user.ID, CheckoutInput{
			PaymentMethod:   enums.PaymentMethodCard,
			ShippingAddress: testShippingAddress(),
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for empty cart, got %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestCheckoutInsufficientStockKeepsCart(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		user := seedUser(t, tx)
		product := seedProduct(t, tx, "Teak Bookshelf", "420.00", 1)
		userCart := seedCartWithLine(t, tx, user.ID, product, "", 3)

		svc := newCheckoutService(t, tx, user)
		_, err := svc.Checkout(ctx, user.ID, CheckoutInput{
			PaymentMethod:   enums.PaymentMethodCard,
			ShippingAddress: testShippingAddress(),
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
			t.Fatalf("expected insufficient stock error, got %v", err)
		}

		var stocked models.Product
		if err := tx.First(&stocked, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if stocked.Stock != 1 {
			t.Fatalf("expected stock untouched at 1, got %d", stocked.Stock)
		}

		var remaining int64
		if err := tx.Model(&models.CartItem{}).Where("cart_id = ?", userCart.ID).Count(&remaining).Error; err != nil {
			t.Fatalf("failed to count cart lines: %v", err)
		}
		if remaining != 1 {
			t.Fatalf("expected cart line preserved, got %d", remaining)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		user := seedUser(t, tx)
		product := seedProduct(t, tx, "Ash Nightstand", "260.00", 6)
		seedCartWithLine(t, tx, user.ID, product, "", 2)

		svc := newCheckoutService(t, tx, user)
		order, err := svc.Checkout(ctx, user.ID, CheckoutInput{
			PaymentMethod:   enums.PaymentMethodCard,
			ShippingAddress: testShippingAddress(),
		})
		if err != nil {
			t.Fatalf("checkout failed: %v", err)
		}

		cancelled, err := svc.CancelOrder(ctx, user.ID, order.ID)
		if err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		if cancelled.Status != enums.OrderStatusCancelled {
			t.Fatalf("expected cancelled status, got %s", cancelled.Status)
		}
		if cancelled.CancelledAt == nil {
			t.Fatal("expected cancelled_at to be stamped")
		}

		var stocked models.Product
		if err := tx.First(&stocked, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if stocked.Stock != 6 {
			t.Fatalf("expected stock restored to 6, got %d", stocked.Stock)
		}

		// A cancelled order is terminal for the customer.
		if _, err := svc.CancelOrder(ctx, user.ID, order.ID); pkgerrors.As(err) == nil {
			t.Fatalf("expected second cancel to fail, got %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestGetOrderHidesOtherUsersOrders(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		owner := seedUser(t, tx)
		stranger := seedUser(t, tx)
		product := seedProduct(t, tx, "Glass Console", "310.00", 2)
		seedCartWithLine(t, tx, owner.ID, product, "", 1)

		svc := newCheckoutService(t, tx, owner)
		order, err := svc.Checkout(ctx, owner.ID, CheckoutInput{
			PaymentMethod:   enums.PaymentMethodCard,
			ShippingAddress: testShippingAddress(),
		})
		if err != nil {
			t.Fatalf("checkout failed: %v", err)
		}

		if _, err := svc.GetOrder(ctx, owner.ID, order.ID); err != nil {
			t.Fatalf("owner lookup failed: %v", err)
		}

		_, err = svc.GetOrder(ctx, stranger.ID, order.ID)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found for non-owner, got %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestAdminUpdateStatusForwardOnly(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		user := seedUser(t, tx)
		product := seedProduct(t, tx, "Cane Bed Frame", "880.00", 3)
		seedCartWithLine(t, tx, user.ID, product, "", 1)

		svc := newCheckoutService(t, tx, user)
		order, err := svc.Checkout(ctx, user.ID, CheckoutInput{
			PaymentMethod:   enums.PaymentMethodBankTransfer,
			ShippingAddress: testShippingAddress(),
		})
		if err != nil {
			t.Fatalf("checkout failed: %v", err)
		}

		shipped := enums.OrderStatusShipped
		updated, err := svc.AdminUpdateStatus(ctx, order.ID, AdminStatusUpdateInput{Status: &shipped})
		if err != nil {
			t.Fatalf("forward transition failed: %v", err)
		}
		if updated.Status != enums.OrderStatusShipped {
			t.Fatalf("expected shipped, got %s", updated.Status)
		}

		pending := enums.OrderStatusPending
		_, err = svc.AdminUpdateStatus(ctx, order.ID, AdminStatusUpdateInput{Status: &pending})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected backwards transition rejection, got %v", err)
		}

		delivered := enums.OrderStatusDelivered
		updated, err = svc.AdminUpdateStatus(ctx, order.ID, AdminStatusUpdateInput{Status: &delivered})
		if err != nil {
			t.Fatalf("delivery transition failed: %v", err)
		}
		if updated.DeliveredAt == nil {
			t.Fatal("expected delivered_at to be stamped")
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}
