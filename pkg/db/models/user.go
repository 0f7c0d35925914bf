package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/luxenest/luxenest-backend/pkg/enums"
	"github.com/luxenest/luxenest-backend/pkg/types"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string                `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string                `gorm:"column:password_hash;not null"`
	Name         string                `gorm:"column:name;not null"`
	Phone        string                `gorm:"column:phone;not null;default:''"`
	Role         enums.UserRole        `gorm:"column:role;not null;default:'user'"`
	IsVerified   bool                  `gorm:"column:is_verified;not null;default:false"`
	Preferences  types.UserPreferences `gorm:"column:preferences;type:jsonb;serializer:json"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
