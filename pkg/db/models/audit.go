package models

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentAudit is an append-only trail of appointment mutations. Its FK
// carries ON DELETE CASCADE, so it is the one child the delete path leaves
// to the database.
type AppointmentAudit struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;not null;index" json:"appointment_id"`
	Action        string    `gorm:"column:action;not null" json:"action"`
	Actor         string    `gorm:"column:actor;not null" json:"actor"`
	RecordedAt    time.Time `gorm:"column:recorded_at;autoCreateTime" json:"recorded_at"`
}

func (AppointmentAudit) TableName() string { return "appointment_audit" }
