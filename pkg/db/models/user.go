package models

import (
	"time"

	"github.com/dmarquez/autoglass-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents a staff account able to sign in to the back office.
type User struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string          `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string          `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string          `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string          `gorm:"column:last_name;not null" json:"last_name"`
	Role         enums.StaffRole `gorm:"column:role;type:text;not null;default:'staff'" json:"role"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
