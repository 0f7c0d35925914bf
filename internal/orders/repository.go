package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
)

// Repository persists orders and their line snapshots.
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

// Create inserts the order with its items in one write.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Save writes back a mutated order row.
func (r *Repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// ListByUser pages the user's own orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, input ListInput) (*OrderListResult, error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	return r.page(ctx, qb, input)
}

// ListAll pages every order for the admin surface.
func (r *Repository) ListAll(ctx context.Context, input ListInput) (*OrderListResult, error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{})
	return r.page(ctx, qb, input)
}

func (r *Repository) page(ctx context.Context, qb *gorm.DB, input ListInput) (*OrderListResult, error) {
	if input.Status != nil {
		qb = qb.Where("status = ?", *input.Status)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Order
	err := qb.
		Preload("Items").
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(input.Pagination.Limit)).
		Offset(input.Pagination.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	return &OrderListResult{
		Orders: rows,
		Meta:   pagination.BuildMeta(input.Pagination, total),
	}, nil
}

// HasDeliveredOrderWithProduct reports whether the user has a delivered
// order containing the product. Drives verified-purchase review status.
func (r *Repository) HasDeliveredOrderWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, enums.OrderStatusDelivered, productID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
