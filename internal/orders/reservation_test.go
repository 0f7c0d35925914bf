package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
)

func TestReserveStock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		product := seedProduct(t, tx, "Walnut Sideboard", "750.00", 5)

		err := ReserveStock(ctx, tx, []ReservationLine{{ProductID: product.ID, Quantity: 3}})
		if err != nil {
			t.Fatalf("expected reservation within stock to succeed, got %v", err)
		}

		var after models.Product
		if err := tx.First(&after, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if after.Stock != 2 {
			t.Fatalf("expected stock 2 after reservation, got %d", after.Stock)
		}
		if after.SalesCount != 3 {
			t.Fatalf("expected sales count 3, got %d", after.SalesCount)
		}

		err = ReserveStock(ctx, tx, []ReservationLine{{ProductID: product.ID, Quantity: 3}})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
			t.Fatalf("expected insufficient stock error, got %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestReserveStockFailureLeavesNoPartialWrites(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		first := seedProduct(t, tx, "Linen Armchair", "480.00", 10)
		second := seedProduct(t, tx, "Marble Side Table", "320.00", 1)

		// The savepoint models a real checkout transaction. The first line
		// succeeds, the second is short, and the rollback undoes both.
		innerErr := tx.Transaction(func(inner *gorm.DB) error {
			return ReserveStock(ctx, inner, []ReservationLine{
				{ProductID: first.ID, Quantity: 2},
				{ProductID: second.ID, Quantity: 5},
			})
		})
		typed := pkgerrors.As(innerErr)
		if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
			t.Fatalf("expected insufficient stock error, got %v", innerErr)
		}

		var reloaded models.Product
		if err := tx.First(&reloaded, "id = ?", first.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if reloaded.Stock != 10 || reloaded.SalesCount != 0 {
			t.Fatalf("expected first product untouched, got stock %d sales %d", reloaded.Stock, reloaded.SalesCount)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestReserveStockMergesDuplicateProductLines(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		product := seedProduct(t, tx, "Rattan Lounge Chair", "560.00", 3)

		// Two colors of the same product must count against stock together.
		err := ReserveStock(ctx, tx, []ReservationLine{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 2},
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
			t.Fatalf("expected merged demand to exceed stock, got %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestReserveStockUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		err := ReserveStock(ctx, tx, []ReservationLine{{ProductID: uuid.New(), Quantity: 1}})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for unknown product, got %v", err)
		}
		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestReleaseStockRestoresCounts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		product := seedProduct(t, tx, "Velvet Ottoman", "210.00", 8)

		if err := ReserveStock(ctx, tx, []ReservationLine{{ProductID: product.ID, Quantity: 5}}); err != nil {
			t.Fatalf("reserve failed: %v", err)
		}
		if err := ReleaseStock(ctx, tx, []ReservationLine{{ProductID: product.ID, Quantity: 5}}); err != nil {
			t.Fatalf("release failed: %v", err)
		}

		var after models.Product
		if err := tx.First(&after, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if after.Stock != 8 || after.SalesCount != 0 {
			t.Fatalf("expected stock restored to 8 and sales 0, got %d and %d", after.Stock, after.SalesCount)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}
