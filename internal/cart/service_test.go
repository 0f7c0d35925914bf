package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
)

func TestBuildViewSumsLines(t *testing.T) {
	cart := &models.Cart{
		ID: uuid.New(),
		Items: []models.CartItem{
			{Quantity: 2, Price: decimal.RequireFromString("499.50")},
			{Quantity: 1, Price: decimal.RequireFromString("120.00")},
		},
	}

	view := buildView(cart)

	assert.Equal(t, "1119", view.Subtotal.String())
	assert.Equal(t, 3, view.Count)
}

func TestBuildViewEmptyCart(t *testing.T) {
	view := buildView(&models.Cart{ID: uuid.New()})
	assert.True(t, view.Subtotal.IsZero())
	assert.Zero(t, view.Count)
}

func TestContainsFold(t *testing.T) {
	colors := pq.StringArray{"Walnut", "Natural Oak"}
	assert.True(t, containsFold(colors, "walnut"))
	assert.True(t, containsFold(colors, "NATURAL OAK"))
	assert.False(t, containsFold(colors, "white"))
}
