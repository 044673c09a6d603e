package customers

import (
	"github.com/google/uuid"

	"github.com/dmarquez/autoglass-backend/pkg/db/models"
)

// CreateInput is the payload for registering a new customer, optionally with
// their home address in the same request.
type CreateInput struct {
	FirstName      string        `json:"first_name" validate:"required"`
	LastName       string        `json:"last_name" validate:"required"`
	Phone          string        `json:"phone" validate:"required"`
	SecondaryPhone *string       `json:"secondary_phone"`
	Email          *string       `json:"email" validate:"omitempty,email"`
	Address        *AddressInput `json:"address"`
}

// AddressInput describes the customer's home address.
type AddressInput struct {
	Street     string  `json:"street" validate:"required"`
	Unit       *string `json:"unit"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required"`
}

// UpdateInput carries the editable contact fields. Nil fields are left
// untouched.
type UpdateInput struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Phone          *string `json:"phone"`
	SecondaryPhone *string `json:"secondary_phone"`
	Email          *string `json:"email" validate:"omitempty,email"`
}

func (c CreateInput) toModel() *models.Customer {
	return &models.Customer{
		ID:             uuid.New(),
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Phone:          c.Phone,
		SecondaryPhone: c.SecondaryPhone,
		Email:          c.Email,
	}
}

func (a AddressInput) toModel() *models.Address {
	return &models.Address{
		ID:         uuid.New(),
		Street:     a.Street,
		Unit:       a.Unit,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
	}
}

func (u UpdateInput) fields() map[string]any {
	fields := map[string]any{}
	if u.FirstName != nil {
		fields["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		fields["last_name"] = *u.LastName
	}
	if u.Phone != nil {
		fields["phone"] = *u.Phone
	}
	if u.SecondaryPhone != nil {
		fields["secondary_phone"] = *u.SecondaryPhone
	}
	if u.Email != nil {
		fields["email"] = *u.Email
	}
	return fields
}
