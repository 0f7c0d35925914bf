package users

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
	"github.com/luxenest/luxenest-backend/pkg/config"
	"github.com/luxenest/luxenest-backend/pkg/db/models"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
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

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test",
		Issuer:            "luxenest-test",
		ExpirationMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	// Small parameters keep the hash fast in tests.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newUserService(t *testing.T, tx *gorm.DB) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(
		NewRepository(tx),
		catalog.NewRepository(tx),
		boundTxRunner{tx: tx},
		testJWTConfig(),
		testPasswordConfig(),
		nil,
		logg,
	)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return svc
}

func uniqueEmail() string {
	return uuid.New().String()[:8] + "@luxenest.test"
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		svc := newUserService(t, tx)
		email := uniqueEmail()

		result, err := svc.Register(ctx, RegisterInput{
			Name:     "New Shopper",
			Email:    email,
			Password: "hunter2hunter2",
		})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if result.Token == "" {
			t.Fatal("expected an access token after registration")
		}
		if result.User.PasswordHash == "hunter2hunter2" {
			t.Fatal("password stored in plain text")
		}

		// Registration also issues a verification token.
		var tokens int64
		if err := tx.Model(&models.UserToken{}).Where("user_id = ?", result.User.ID).Count(&tokens).Error; err != nil {
			t.Fatalf("failed to count tokens: %v", err)
		}
		if tokens != 1 {
			t.Fatalf("expected one verification token, got %d", tokens)
		}

		login, err := svc.Login(ctx, email, "hunter2hunter2")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if login.Token == "" {
			t.Fatal("expected an access token after login")
		}

		_, err = svc.Login(ctx, email, "wrong-password")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for wrong password, got %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		svc := newUserService(t, tx)
		email := uniqueEmail()

		if _, err := svc.Register(ctx, RegisterInput{Name: "First", Email: email, Password: "hunter2hunter2"}); err != nil {
			t.Fatalf("first register failed: %v", err)
		}

		_, err := svc.Register(ctx, RegisterInput{Name: "Second", Email: email, Password: "hunter2hunter2"})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected conflict for duplicate email, got %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		svc := newUserService(t, tx)
		email := uniqueEmail()

		registered, err := svc.Register(ctx, RegisterInput{Name: "Reset Me", Email: email, Password: "originalpass"})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}

		if err := svc.RequestPasswordReset(ctx, email); err != nil {
			t.Fatalf("request reset failed: %v", err)
		}
		// Unknown emails succeed silently.
		if err := svc.RequestPasswordReset(ctx, "nobody@luxenest.test"); err != nil {
			t.Fatalf("expected silent success for unknown email, got %v", err)
		}

		var token models.UserToken
		err = tx.First(&token, "user_id = ? AND purpose = ?", registered.User.ID, "password_reset").Error
		if err != nil {
			t.Fatalf("failed to load reset token: %v", err)
		}

		if err := svc.ResetPassword(ctx, token.Token, "replacement-pass"); err != nil {
			t.Fatalf("reset failed: %v", err)
		}

		if _, err := svc.Login(ctx, email, "replacement-pass"); err != nil {
			t.Fatalf("login with new password failed: %v", err)
		}
		if _, err := svc.Login(ctx, email, "originalpass"); err == nil {
			t.Fatal("expected old password to be rejected")
		}

		// The token is single use.
		err = svc.ResetPassword(ctx, token.Token, "third-password")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for reused token, got %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestAddressBookKeepsSingleDefault(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		svc := newUserService(t, tx)

		registered, err := svc.Register(ctx, RegisterInput{Name: "Mover", Email: uniqueEmail(), Password: "hunter2hunter2"})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}
		userID := registered.User.ID

		base := AddressInput{
			FullName:   "Mover",
			Line1:      "1 Harbor Street",
			City:       "Lisbon",
			PostalCode: "1100-001",
			Country:    "PT",
		}

		first, err := svc.AddAddress(ctx, userID, base)
		if err != nil {
			t.Fatalf("first address failed: %v", err)
		}
		if !first.IsDefault {
			t.Fatal("expected first address to become the default")
		}

		second := base
		second.Line1 = "2 Hill Road"
		second.IsDefault = true
		promoted, err := svc.AddAddress(ctx, userID, second)
		if err != nil {
			t.Fatalf("second address failed: %v", err)
		}
		if !promoted.IsDefault {
			t.Fatal("expected second address to take the default")
		}

		var defaults int64
		err = tx.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", userID, true).Count(&defaults).Error
		if err != nil {
			t.Fatalf("failed to count defaults: %v", err)
		}
		if defaults != 1 {
			t.Fatalf("expected exactly one default address, got %d", defaults)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		svc := newUserService(t, tx)

		registered, err := svc.Register(ctx, RegisterInput{Name: "Collector", Email: uniqueEmail(), Password: "hunter2hunter2"})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}

		product := &models.Product{
			ID:       uuid.New(),
			SKU:      "LX-" + uuid.New().String()[:8],
			Name:     "Smoked Glass Vase",
			Slug:     "test-" + uuid.New().String()[:8],
			Price:    decimal.RequireFromString("75.00"),
			IsActive: true,
		}
		if err := tx.Create(product).Error; err != nil {
			t.Fatalf("failed to seed product: %v", err)
		}

		if err := svc.AddToWishlist(ctx, registered.User.ID, product.ID); err != nil {
			t.Fatalf("wishlist add failed: %v", err)
		}
		if err := svc.AddToWishlist(ctx, registered.User.ID, product.ID); err != nil {
			t.Fatalf("repeated wishlist add should be a no-op, got %v", err)
		}

		items, err := svc.ListWishlist(ctx, registered.User.ID)
		if err != nil {
			t.Fatalf("wishlist list failed: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected one wishlist row, got %d", len(items))
		}

		if err := svc.RemoveFromWishlist(ctx, registered.User.ID, product.ID); err != nil {
			t.Fatalf("wishlist remove failed: %v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound && err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}
