package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots a product at purchase time. Later catalog edits never
// change a placed order.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName  string          `gorm:"column:product_name;not null"`
	ProductSKU   string          `gorm:"column:product_sku;not null"`
	ProductImage string          `gorm:"column:product_image;not null;default:''"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Color        string          `gorm:"column:color;not null;default:''"`
	Quantity     int             `gorm:"column:quantity;not null"`
	LineTotal    decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
