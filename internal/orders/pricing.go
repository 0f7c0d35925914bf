package orders

import (
	"github.com/shopspring/decimal"

	"github.com/luxenest/luxenest-backend/pkg/config"
	"github.com/luxenest/luxenest-backend/pkg/db/models"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
)

// PricingLine is one priced quantity entering the total calculation.
type PricingLine struct {
	Price    decimal.Decimal
	Quantity int
}

// Totals is the complete checkout price breakdown, all values rounded to
// two decimal places.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives order totals from lines and pricing policy.
// Shipping is free strictly above the threshold. The discount is a flat
// amount clamped to [0, subtotal].
func ComputeTotals(cfg config.PricingConfig, lines []PricingLine, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	shipping := cfg.ShippingFlatFee.Round(2)
	if subtotal.GreaterThan(cfg.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(cfg.TaxRate).Round(2)

	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	discount = discount.Round(2)

	total := subtotal.Add(shipping).Add(tax).Sub(discount).Round(2)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}

// VerifyOrderTotals recomputes total from the order's stored components and
// rejects drift before any write.
func VerifyOrderTotals(order *models.Order) error {
	expected := order.Subtotal.Add(order.ShippingFee).Add(order.Tax).Sub(order.Discount).Round(2)
	if !order.Total.Equal(expected) {
		return pkgerrors.New(pkgerrors.CodeValidation, "order total does not match its components").
			WithDetails(map[string]any{
				"stored":   order.Total.String(),
				"expected": expected.String(),
			})
	}
	return nil
}
