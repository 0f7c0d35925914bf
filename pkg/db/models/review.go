package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a per-user product rating. A user gets one review per product.
type Review struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_reviews_user_product"`
	User               *User     `gorm:"foreignKey:UserID"`
	ProductID          uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_reviews_user_product"`
	Rating             int       `gorm:"column:rating;not null"`
	Title              string    `gorm:"column:title;not null;default:''"`
	Comment            string    `gorm:"column:comment;not null;default:''"`
	IsApproved         bool      `gorm:"column:is_approved;not null;default:false"`
	IsVerifiedPurchase bool      `gorm:"column:is_verified_purchase;not null;default:false"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
