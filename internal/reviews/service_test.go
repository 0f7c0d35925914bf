package reviews

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/internal/catalog"
	"github.com/luxenest/luxenest-backend/internal/orders"
	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
	"github.com/luxenest/luxenest-backend/pkg/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("LUXENEST_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("LUXENEST_TEST_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

type boundTxRunner struct {
	tx *gorm.DB
}

func (r boundTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.tx.Transaction(fn)
}

func newReviewService(t *testing.T, tx *gorm.DB) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(
		NewRepository(tx),
		catalog.NewRepository(tx),
		orders.NewRepository(tx),
		boundTxRunner{tx: tx},
		logg,
	)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return svc
}

func seedReviewUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.New().String()[:8] + "@luxenest.test",
		PasswordHash: "x",
		Name:         "Test Reviewer",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedReviewProduct(t *testing.T, tx *gorm.DB) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		SKU:      "LX-" + uuid.New().String()[:8],
		Name:     "Oak Coffee Table",
		Slug:     "test-" + uuid.New().String()[:8],
		Price:    decimal.RequireFromString("450.00"),
		Stock:    10,
		IsActive: true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func seedDeliveredOrder(t *testing.T, tx *gorm.DB, user *models.User, product *models.Product) {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "LUX-TEST-" + uuid.New().String()[:6],
		UserID:        user.ID,
		Status:        enums.OrderStatusDelivered,
		PaymentStatus: enums.PaymentStatusPaid,
		PaymentMethod: enums.PaymentMethodCard,
		Subtotal:      product.Price,
		Total:         product.Price,
		ShippingAddress: types.Address{
			FullName: user.Name,
			Line1:    "1 Harbor Street",
			City:     "Lisbon",
			Country:  "PT",
		},
		Items: []models.OrderItem{{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Price:       product.Price,
			Quantity:    1,
			LineTotal:   product.Price,
		}},
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("failed to seed delivered order: %v", err)
	}
}

func TestCreateReviewVerifiedPurchaseAutoApproves(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		user := seedReviewUser(t, tx)
		product := seedReviewProduct(t, tx)
		seedDeliveredOrder(t, tx, user, product)

		svc := newReviewService(t, tx)
		review, err := svc.CreateReview(ctx, user.ID, CreateReviewInput{
			ProductID: product.ID,
			Rating:    4,
			Title:     "Solid build",
		})
		if err != nil {
			t.Fatalf("create review failed: %v", err)
		}
		if !review.IsVerifiedPurchase || !review.IsApproved {
			t.Fatalf("expected verified auto-approved review, got verified=%v approved=%v",
				review.IsVerifiedPurchase, review.IsApproved)
		}

		var reloaded models.Product
		if err := tx.First(&reloaded, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if !reloaded.Rating.Equal(decimal.RequireFromString("4")) || reloaded.ReviewsCount != 1 {
			t.Fatalf("expected rating 4 with one review, got %s / %d", reloaded.Rating, reloaded.ReviewsCount)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestCreateReviewWithoutPurchaseAwaitsModeration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		user := seedReviewUser(t, tx)
		product := seedReviewProduct(t, tx)

		svc := newReviewService(t, tx)
		review, err := svc.CreateReview(ctx, user.ID, CreateReviewInput{
			ProductID: product.ID,
			Rating:    5,
		})
		if err != nil {
			t.Fatalf("create review failed: %v", err)
		}
		if review.IsVerifiedPurchase || review.IsApproved {
			t.Fatalf("expected unverified pending review, got verified=%v approved=%v",
				review.IsVerifiedPurchase, review.IsApproved)
		}

		// Pending reviews do not touch the aggregate.
		var reloaded models.Product
		if err := tx.First(&reloaded, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if reloaded.ReviewsCount != 0 {
			t.Fatalf("expected reviews count 0 before approval, got %d", reloaded.ReviewsCount)
		}

		// Nor does the storefront list show them.
		page, err := svc.ListProductReviews(ctx, product.ID, pagination.Params{})
		if err != nil {
			t.Fatalf("list reviews failed: %v", err)
		}
		if len(page.Reviews) != 0 {
			t.Fatalf("expected no visible reviews, got %d", len(page.Reviews))
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestCreateReviewRejectsSecondReview(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		user := seedReviewUser(t, tx)
		product := seedReviewProduct(t, tx)

		svc := newReviewService(t, tx)
		if _, err := svc.CreateReview(ctx, user.ID, CreateReviewInput{ProductID: product.ID, Rating: 3}); err != nil {
			t.Fatalf("first review failed: %v", err)
		}

		_, err := svc.CreateReview(ctx, user.ID, CreateReviewInput{ProductID: product.ID, Rating: 5})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected conflict for duplicate review, got %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestApprovalRecomputesAggregate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		product := seedReviewProduct(t, tx)
		first := seedReviewUser(t, tx)
		second := seedReviewUser(t, tx)

		svc := newReviewService(t, tx)
		one, err := svc.CreateReview(ctx, first.ID, CreateReviewInput{ProductID: product.ID, Rating: 5})
		if err != nil {
			t.Fatalf("first review failed: %v", err)
		}
		two, err := svc.CreateReview(ctx, second.ID, CreateReviewInput{ProductID: product.ID, Rating: 4})
		if err != nil {
			t.Fatalf("second review failed: %v", err)
		}

		if _, err := svc.AdminSetApproval(ctx, one.ID, true); err != nil {
			t.Fatalf("approve first failed: %v", err)
		}
		if _, err := svc.AdminSetApproval(ctx, two.ID, true); err != nil {
			t.Fatalf("approve second failed: %v", err)
		}

		var reloaded models.Product
		if err := tx.First(&reloaded, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		// (5 + 4) / 2 rounded to one decimal.
		if !reloaded.Rating.Equal(decimal.RequireFromString("4.5")) || reloaded.ReviewsCount != 2 {
			t.Fatalf("expected rating 4.5 with two reviews, got %s / %d", reloaded.Rating, reloaded.ReviewsCount)
		}

		// Unapproving drops the review back out of the aggregate.
		if _, err := svc.AdminSetApproval(ctx, two.ID, false); err != nil {
			t.Fatalf("unapprove failed: %v", err)
		}
		if err := tx.First(&reloaded, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if !reloaded.Rating.Equal(decimal.RequireFromString("5")) || reloaded.ReviewsCount != 1 {
			t.Fatalf("expected rating 5 with one review, got %s / %d", reloaded.Rating, reloaded.ReviewsCount)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestDeleteApprovedReviewRecomputesAggregate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		product := seedReviewProduct(t, tx)
		user := seedReviewUser(t, tx)
		seedDeliveredOrder(t, tx, user, product)

		svc := newReviewService(t, tx)
		review, err := svc.CreateReview(ctx, user.ID, CreateReviewInput{ProductID: product.ID, Rating: 2})
		if err != nil {
			t.Fatalf("create review failed: %v", err)
		}

		if err := svc.AdminDeleteReview(ctx, review.ID); err != nil {
			t.Fatalf("delete review failed: %v", err)
		}

		var reloaded models.Product
		if err := tx.First(&reloaded, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if !reloaded.Rating.IsZero() || reloaded.ReviewsCount != 0 {
			t.Fatalf("expected zeroed aggregate, got %s / %d", reloaded.Rating, reloaded.ReviewsCount)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}
