package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GeneralInsurance is the carrier lookup table.
type GeneralInsurance struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (GeneralInsurance) TableName() string { return "general_insurance" }

// CustomerInsurance is the customer's persistent policy record, at most one
// per customer.
type CustomerInsurance struct {
	ID                 uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID         uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index" json:"customer_id"`
	GeneralInsuranceID uuid.UUID         `gorm:"column:general_insurance_id;type:uuid;not null" json:"general_insurance_id"`
	PolicyNumber       string            `gorm:"column:policy_number;not null" json:"policy_number"`
	Carrier            *GeneralInsurance `gorm:"foreignKey:GeneralInsuranceID" json:"carrier,omitempty"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CustomerInsurance) TableName() string { return "customer_insurance" }

// InsuranceAppointment is the per-appointment snapshot of insurance facts.
// It is always inserted fresh; prior snapshots are never updated.
type InsuranceAppointment struct {
	ID                 uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GeneralInsuranceID uuid.UUID         `gorm:"column:general_insurance_id;type:uuid;not null" json:"general_insurance_id"`
	PolicyNumber       string            `gorm:"column:policy_number;not null" json:"policy_number"`
	DateOfLoss         time.Time         `gorm:"column:date_of_loss;type:date;not null" json:"date_of_loss"`
	GlassDeductible    decimal.Decimal   `gorm:"column:glass_deductible;type:numeric(10,2);not null" json:"glass_deductible"`
	Safelite           bool              `gorm:"column:safelite;not null;default:false" json:"safelite"`
	Carrier            *GeneralInsurance `gorm:"foreignKey:GeneralInsuranceID" json:"carrier,omitempty"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
