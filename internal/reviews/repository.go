package reviews

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
)

// Repository persists product reviews.
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

// Create inserts a review. The unique (user, product) index rejects a second
// review from the same user.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByID loads one review.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Save writes back a mutated review row.
func (r *Repository) Save(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete removes a review row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{}).Error
}

// ListApprovedByProduct pages the storefront-visible reviews for a product.
func (r *Repository) ListApprovedByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, pagination.Meta, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND is_approved = ?", productID, true)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var rows []models.Review
	err := qb.
		Preload("User").
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

// ListAll pages every review for moderation, optionally filtered by approval.
func (r *Repository) ListAll(ctx context.Context, approved *bool, params pagination.Params) ([]models.Review, pagination.Meta, error) {
	qb := r.db.WithContext(ctx).Model(&models.Review{})
	if approved != nil {
		qb = qb.Where("is_approved = ?", *approved)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var rows []models.Review
	err := qb.
		Preload("User").
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

// ApprovedStats returns the mean rating (1 decimal place) and count over the
// product's approved reviews. Both are zero with no approved reviews.
func (r *Repository) ApprovedStats(ctx context.Context, productID uuid.UUID) (decimal.Decimal, int, error) {
	var row struct {
		Avg   decimal.Decimal
		Total int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&row).
		Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Avg.Round(1), row.Total, nil
}
