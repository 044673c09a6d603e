package models

import (
	"time"

	"github.com/dmarquez/autoglass-backend/pkg/enums"
	"github.com/google/uuid"
)

// Appointment is the aggregate row tying the whole job together. It
// references exactly one of {InsuranceAppointment, Sale}, matching its
// ReplacementType.
type Appointment struct {
	ID                     uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID             uuid.UUID               `gorm:"column:customer_id;type:uuid;not null;index" json:"customer_id"`
	AddressID              uuid.UUID               `gorm:"column:address_id;type:uuid;not null" json:"address_id"`
	VehicleID              uuid.UUID               `gorm:"column:vehicle_id;type:uuid;not null" json:"vehicle_id"`
	InsuranceAppointmentID *uuid.UUID              `gorm:"column:insurance_appointment_id;type:uuid" json:"insurance_appointment_id,omitempty"`
	RebateID               *uuid.UUID              `gorm:"column:rebate_id;type:uuid" json:"rebate_id,omitempty"`
	SaleID                 *uuid.UUID              `gorm:"column:sale_id;type:uuid" json:"sale_id,omitempty"`
	InstallationDate       time.Time               `gorm:"column:installation_date;type:date;not null;index" json:"installation_date"`
	InstallationTime       enums.InstallationTime  `gorm:"column:installation_time;type:text;not null" json:"installation_time"`
	LocationType           enums.LocationType      `gorm:"column:location_type;type:text;not null;default:'home'" json:"location_type"`
	ReplacementType        enums.ReplacementType   `gorm:"column:replacement_type;type:text;not null" json:"replacement_type"`
	Status                 enums.AppointmentStatus `gorm:"column:status;type:text;not null;default:'scheduled'" json:"status"`
	TechName               string                  `gorm:"column:tech_name;not null" json:"tech_name"`
	ServiceAdvisor         string                  `gorm:"column:service_advisor;not null" json:"service_advisor"`
	Observations           *string                 `gorm:"column:observations" json:"observations,omitempty"`
	Customer               *Customer               `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Address                *Address                `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Vehicle                *Vehicle                `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Insurance              *InsuranceAppointment   `gorm:"foreignKey:InsuranceAppointmentID" json:"insurance,omitempty"`
	Rebate                 *Rebate                 `gorm:"foreignKey:RebateID" json:"rebate,omitempty"`
	Sale                   *Sale                   `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
	Job                    *AppointmentJob         `gorm:"foreignKey:AppointmentID" json:"job,omitempty"`
	CreatedAt              time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
