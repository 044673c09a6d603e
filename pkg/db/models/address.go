package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a postal address, shared by customer home addresses and
// alternate installation locations.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Street     string    `gorm:"column:street;not null" json:"street"`
	Unit       *string   `gorm:"column:unit" json:"unit,omitempty"`
	City       string    `gorm:"column:city;not null" json:"city"`
	State      string    `gorm:"column:state;not null" json:"state"`
	PostalCode string    `gorm:"column:postal_code;not null" json:"postal_code"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
