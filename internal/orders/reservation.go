package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
)

// ReservationLine requests stock for one product.
type ReservationLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// ReserveStock decrements stock and bumps sales counters for every line
// inside the caller's transaction. The conditional WHERE guard means a
// concurrent checkout can never drive stock negative; any shortfall fails
// the whole transaction so no line is partially applied.
func ReserveStock(ctx context.Context, tx *gorm.DB, lines []ReservationLine) error {
	for _, line := range mergeLines(lines) {
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
		}

		res := tx.WithContext(ctx).Exec(
			"UPDATE products SET stock = stock - ?, sales_count = sales_count + ? WHERE id = ? AND stock >= ?",
			line.Quantity, line.Quantity, line.ProductID, line.Quantity,
		)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve stock")
		}
		if res.RowsAffected == 0 {
			return insufficientStockError(ctx, tx, line)
		}
	}
	return nil
}

// ReleaseStock returns previously reserved stock, used by cancellation.
// Runs in the caller's transaction alongside the status change.
func ReleaseStock(ctx context.Context, tx *gorm.DB, lines []ReservationLine) error {
	for _, line := range mergeLines(lines) {
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "release quantity must be positive")
		}
		err := tx.WithContext(ctx).Exec(
			"UPDATE products SET stock = stock + ?, sales_count = sales_count - ? WHERE id = ?",
			line.Quantity, line.Quantity, line.ProductID,
		).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release stock")
		}
	}
	return nil
}

// mergeLines combines lines referencing the same product (different colors
// become separate cart lines) so the stock guard sees the full demand.
func mergeLines(lines []ReservationLine) []ReservationLine {
	merged := make([]ReservationLine, 0, len(lines))
	index := map[uuid.UUID]int{}
	for _, line := range lines {
		if at, ok := index[line.ProductID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

func insufficientStockError(ctx context.Context, tx *gorm.DB, line ReservationLine) error {
	var product models.Product
	err := tx.WithContext(ctx).First(&product, "id = ?", line.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeValidation, "product does not exist").
			WithDetails(map[string]any{"product_id": line.ProductID.String()})
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product for stock check")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for "+product.Name).
		WithDetails(map[string]any{
			"product_id": product.ID.String(),
			"product":    product.Name,
			"requested":  line.Quantity,
			"available":  product.Stock,
		})
}
