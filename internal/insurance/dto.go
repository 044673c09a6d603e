package insurance

import (
	"github.com/google/uuid"

	"github.com/dmarquez/autoglass-backend/pkg/db/models"
)

// CarrierInput is the payload for adding a carrier to the lookup table.
type CarrierInput struct {
	Name  string  `json:"name" validate:"required"`
	Phone *string `json:"phone"`
}

func (c CarrierInput) toModel() *models.GeneralInsurance {
	return &models.GeneralInsurance{
		ID:    uuid.New(),
		Name:  c.Name,
		Phone: c.Phone,
	}
}
