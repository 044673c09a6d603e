package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle belongs to exactly one customer. VIN is globally unique.
type Vehicle struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index" json:"customer_id"`
	Year       int       `gorm:"column:year;not null" json:"year"`
	Make       string    `gorm:"column:make;not null" json:"make"`
	Model      string    `gorm:"column:model;not null" json:"model"`
	Color      *string   `gorm:"column:color" json:"color,omitempty"`
	VIN        string    `gorm:"column:vin;type:text;not null;uniqueIndex" json:"vin"`
	PartNumber string    `gorm:"column:part_number;not null" json:"part_number"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
