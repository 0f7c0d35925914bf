package orders

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/shopspring/decimal"
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

func seedProduct(t *testing.T, tx *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		SKU:      "LX-" + uuid.New().String()[:8],
		Name:     name,
		Slug:     "test-" + uuid.New().String()[:8],
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	if err := tx.WithContext(context.Background()).Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func seedUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.New().String()[:8] + "@luxenest.test",
		PasswordHash: "x",
		Name:         "Test Shopper",
	}
	if err := tx.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
