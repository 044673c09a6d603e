package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale captures the cash facts of an out-of-pocket appointment.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PriceCash   decimal.Decimal `gorm:"column:price_cash;type:numeric(10,2);not null" json:"price_cash"`
	Salesperson string          `gorm:"column:salesperson;not null" json:"salesperson"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
