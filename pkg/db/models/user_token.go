package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/luxenest/luxenest-backend/pkg/enums"
)

// UserToken is a single-use token for email verification or password reset.
type UserToken struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index:idx_user_tokens_user_purpose"`
	Purpose   enums.TokenPurpose `gorm:"column:purpose;not null;index:idx_user_tokens_user_purpose"`
	Token     string             `gorm:"column:token;not null;uniqueIndex"`
	ExpiresAt time.Time          `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time         `gorm:"column:used_at"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// IsUsable reports whether the token is unused and unexpired at the given time.
func (t UserToken) IsUsable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
