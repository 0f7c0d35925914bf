package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. Prices are store currency units with
// two decimal places. Storefront reads exclude rows with is_active = false.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU            string           `gorm:"column:sku;not null;uniqueIndex"`
	Name           string           `gorm:"column:name;not null"`
	Slug           string           `gorm:"column:slug;not null;uniqueIndex"`
	Description    string           `gorm:"column:description;not null;default:''"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Stock          int              `gorm:"column:stock;not null;default:0"`
	SalesCount     int              `gorm:"column:sales_count;not null;default:0"`
	CategoryID     *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	Category       *Category        `gorm:"foreignKey:CategoryID"`
	Brand          string           `gorm:"column:brand;not null;default:''"`
	Colors         pq.StringArray   `gorm:"column:colors;type:text[];not null;default:'{}'"`
	Materials      pq.StringArray   `gorm:"column:materials;type:text[];not null;default:'{}'"`
	Dimensions     string           `gorm:"column:dimensions;not null;default:''"`
	Weight         string           `gorm:"column:weight;not null;default:''"`
	Images         pq.StringArray   `gorm:"column:images;type:text[];not null;default:'{}'"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured     bool             `gorm:"column:is_featured;not null;default:false"`
	IsNew          bool             `gorm:"column:is_new;not null;default:false"`
	IsSale         bool             `gorm:"column:is_sale;not null;default:false"`
	IsBestSeller   bool             `gorm:"column:is_best_seller;not null;default:false"`
	Rating         decimal.Decimal  `gorm:"column:rating;type:numeric(2,1);not null;default:0"`
	ReviewsCount   int              `gorm:"column:reviews_count;not null;default:0"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// FirstImage returns the primary product image, or empty when none exist.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
