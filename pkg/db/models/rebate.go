package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rebate records cash/check amounts returned to the customer on
// insurance-funded jobs. At least one of the two amounts is present.
type Rebate struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Cash         *decimal.Decimal `gorm:"column:cash;type:numeric(10,2)" json:"cash,omitempty"`
	Check        *decimal.Decimal `gorm:"column:check_amount;type:numeric(10,2)" json:"check,omitempty"`
	Observations *string          `gorm:"column:observations" json:"observations,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
