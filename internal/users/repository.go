package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
)

// Repository persists users, their addresses, wishlists, and one-time tokens.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new account.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads a user by email, matched case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Save writes back a mutated user row.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// List pages all accounts for the admin surface, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.User, pagination.Meta, error) {
	qb := r.db.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var rows []models.User
	err := qb.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(params.Limit)).
		Offset(params.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return rows, pagination.BuildMeta(params, total), nil
}

// ListAddresses returns the user's address book, default first.
func (r *Repository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindAddress loads one address owned by the user.
func (r *Repository) FindAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		First(&address, "id = ? AND user_id = ?", addressID, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// CreateAddress inserts a new saved address.
func (r *Repository) CreateAddress(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// SaveAddress writes back a mutated address row.
func (r *Repository) SaveAddress(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

// DeleteAddress removes an address owned by the user.
func (r *Repository) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&models.Address{}).
		Error
}

// ClearDefaultAddress drops the default flag from every address of the user.
// Runs before promoting a new default so at most one row carries it.
func (r *Repository) ClearDefaultAddress(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).
		Error
}

// ListWishlist returns the user's saved products, newest first.
func (r *Repository) ListWishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var rows []models.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// AddWishlistItem saves a product for the user. A repeated add is a no-op
// thanks to the unique (user, product) index.
func (r *Repository) AddWishlistItem(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item).
		Error
}

// RemoveWishlistItem drops a product from the user's wishlist.
func (r *Repository) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).
		Error
}

// CreateToken stores a one-time token.
func (r *Repository) CreateToken(ctx context.Context, token *models.UserToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// FindToken loads a token by value and purpose.
func (r *Repository) FindToken(ctx context.Context, value string, purpose enums.TokenPurpose) (*models.UserToken, error) {
	var token models.UserToken
	err := r.db.WithContext(ctx).
		First(&token, "token = ? AND purpose = ?", value, purpose).
		Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// MarkTokenUsed stamps the token so it cannot be redeemed twice.
func (r *Repository) MarkTokenUsed(ctx context.Context, tokenID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UserToken{}).
		Where("id = ? AND used_at IS NULL", tokenID).
		Update("used_at", at).
		Error
}
