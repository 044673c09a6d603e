package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the shop's client record. Address and insurance links are
// optional and filled in the first time an appointment supplies them.
type Customer struct {
	ID             uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName      string             `gorm:"column:first_name;not null" json:"first_name"`
	LastName       string             `gorm:"column:last_name;not null" json:"last_name"`
	Phone          string             `gorm:"column:phone;type:text;not null;uniqueIndex" json:"phone"`
	SecondaryPhone *string            `gorm:"column:secondary_phone" json:"secondary_phone,omitempty"`
	Email          *string            `gorm:"column:email" json:"email,omitempty"`
	AddressID      *uuid.UUID         `gorm:"column:address_id;type:uuid" json:"address_id,omitempty"`
	InsuranceID    *uuid.UUID         `gorm:"column:insurance_id;type:uuid" json:"insurance_id,omitempty"`
	Address        *Address           `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Insurance      *CustomerInsurance `gorm:"foreignKey:InsuranceID" json:"insurance,omitempty"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
