package appointments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	"github.com/dmarquez/autoglass-backend/pkg/enums"
)

// CreateInput is the composite payload for appointment creation. One request
// carries the customer, their address and vehicle, the payment facts, and the
// glass selections, all persisted in a single transaction.
type CreateInput struct {
	Customer         CustomerInput    `json:"customer" validate:"required"`
	Address          *AddressInput    `json:"address"`
	AlternateAddress *AddressInput    `json:"alternate_address"`
	Vehicle          VehicleInput     `json:"vehicle" validate:"required"`
	Insurance        *InsuranceInput  `json:"insurance"`
	Rebate           *RebateInput     `json:"rebate"`
	Sale             *SaleInput       `json:"sale"`
	Appointment      AppointmentInput `json:"appointment" validate:"required"`
	GlassTypes       GlassTypesInput  `json:"glass_types"`
	Extras           *ExtrasInput     `json:"extras"`
}

// CustomerInput identifies the existing customer and carries optional contact
// edits applied as the first step of the transaction.
type CustomerInput struct {
	ID             uuid.UUID `json:"id" validate:"required"`
	FirstName      *string   `json:"first_name"`
	LastName       *string   `json:"last_name"`
	Phone          *string   `json:"phone"`
	SecondaryPhone *string   `json:"secondary_phone"`
	Email          *string   `json:"email"`
}

// AddressInput describes a postal address. For the home address, the
// customer's existing row is updated in place when they already have one.
type AddressInput struct {
	Street     string  `json:"street" validate:"required"`
	Unit       *string `json:"unit"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required"`
}

// VehicleInput describes the vehicle receiving the glass. When ID is present
// and UpdateExisting is true the row is updated, otherwise a new vehicle is
// inserted for the customer.
type VehicleInput struct {
	ID             *uuid.UUID `json:"id"`
	UpdateExisting bool       `json:"update_existing"`
	Year           int        `json:"year" validate:"required"`
	Make           string     `json:"make" validate:"required"`
	Model          string     `json:"model" validate:"required"`
	Color          *string    `json:"color"`
	VIN            string     `json:"vin" validate:"required"`
	PartNumber     string     `json:"part_number" validate:"required"`
}

// InsuranceInput carries the per-appointment insurance facts. The snapshot is
// always inserted fresh; the persistent customer_insurance record is only
// touched when UpdateCustomerInsurance is set.
type InsuranceInput struct {
	GeneralInsuranceID      uuid.UUID        `json:"general_insurance_id" validate:"required"`
	PolicyNumber            string           `json:"policy_number" validate:"required"`
	DateOfLoss              time.Time        `json:"date_of_loss" validate:"required"`
	GlassDeductible         *decimal.Decimal `json:"glass_deductible"`
	Safelite                bool             `json:"safelite"`
	UpdateCustomerInsurance bool             `json:"update_customer_insurance"`
}

// RebateInput needs at least one of the two amounts.
type RebateInput struct {
	Cash         *decimal.Decimal `json:"cash"`
	Check        *decimal.Decimal `json:"check"`
	Observations *string          `json:"observations"`
}

// SaleInput carries the cash-path facts.
type SaleInput struct {
	PriceCash   decimal.Decimal `json:"price_cash"`
	Salesperson string          `json:"salesperson"`
}

// AppointmentInput carries the scheduling fields of the aggregate row.
type AppointmentInput struct {
	InstallationDate time.Time `json:"installation_date" validate:"required"`
	InstallationTime string    `json:"installation_time" validate:"required"`
	LocationType     string    `json:"location_type"`
	ReplacementType  string    `json:"replacement_type" validate:"required"`
	TechName         string    `json:"tech_name" validate:"required"`
	ServiceAdvisor   string    `json:"service_advisor" validate:"required"`
	Observations     *string   `json:"observations"`
}

// GlassTypesInput selects the glass areas covered by the job. At least one
// flag must be true.
type GlassTypesInput struct {
	Windshield   bool `json:"windshield"`
	DoorGlass    bool `json:"door_glass"`
	BackGlass    bool `json:"back_glass"`
	QuarterGlass bool `json:"quarter_glass"`
	VentGlass    bool `json:"vent_glass"`
}

// Any reports whether at least one glass area was selected.
func (g GlassTypesInput) Any() bool {
	return g.Windshield || g.DoorGlass || g.BackGlass || g.QuarterGlass || g.VentGlass
}

// ExtrasInput carries the technical/cosmetic feature flags.
type ExtrasInput struct {
	HUD              bool `json:"hud"`
	Heated           bool `json:"heated"`
	Antenna          bool `json:"antenna"`
	RainSensor       bool `json:"rain_sensor"`
	LaneDeparture    bool `json:"lane_departure"`
	WindshieldCamera bool `json:"windshield_camera"`
	TintStrip        bool `json:"tint_strip"`
	Tint             bool `json:"tint"`
	MoldingBlack     bool `json:"molding_black"`
	MoldingChrome    bool `json:"molding_chrome"`
	VINEtch          bool `json:"vin_etch"`
}

// UpdateInput carries the mutable fields of an existing appointment. Nil
// fields are left untouched.
type UpdateInput struct {
	InstallationDate *time.Time `json:"installation_date"`
	InstallationTime *string    `json:"installation_time"`
	Status           *string    `json:"status"`
	TechName         *string    `json:"tech_name"`
	ServiceAdvisor   *string    `json:"service_advisor"`
	Observations     *string    `json:"observations"`
}

// ListFilters narrows the appointment list view.
type ListFilters struct {
	From            *time.Time
	To              *time.Time
	Status          *enums.AppointmentStatus
	ReplacementType *enums.ReplacementType
	Query           string
}

// insurancePath and cashPath are the two arms of the payment plan. Exactly
// one of them is set on a resolved plan, so "both" and "neither" states are
// unrepresentable past intake.
type insurancePath struct {
	Insurance InsuranceInput
	Rebate    *RebateInput
}

type cashPath struct {
	Sale SaleInput
}

type paymentPlan struct {
	Insurance *insurancePath
	Cash      *cashPath
}

func (p paymentPlan) replacementType() enums.ReplacementType {
	if p.Insurance != nil {
		return enums.ReplacementTypeInsurance
	}
	return enums.ReplacementTypeOutOfPocket
}

func (c CustomerInput) contactFields() map[string]any {
	fields := map[string]any{}
	if c.FirstName != nil {
		fields["first_name"] = *c.FirstName
	}
	if c.LastName != nil {
		fields["last_name"] = *c.LastName
	}
	if c.Phone != nil {
		fields["phone"] = *c.Phone
	}
	if c.SecondaryPhone != nil {
		fields["secondary_phone"] = *c.SecondaryPhone
	}
	if c.Email != nil {
		fields["email"] = *c.Email
	}
	return fields
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

func (a AddressInput) fields() map[string]any {
	return map[string]any{
		"street":      a.Street,
		"unit":        a.Unit,
		"city":        a.City,
		"state":       a.State,
		"postal_code": a.PostalCode,
	}
}

func (v VehicleInput) toModel(customerID uuid.UUID) *models.Vehicle {
	return &models.Vehicle{
		ID:         uuid.New(),
		CustomerID: customerID,
		Year:       v.Year,
		Make:       v.Make,
		Model:      v.Model,
		Color:      v.Color,
		VIN:        v.VIN,
		PartNumber: v.PartNumber,
	}
}

func (v VehicleInput) fields() map[string]any {
	return map[string]any{
		"year":        v.Year,
		"make":        v.Make,
		"model":       v.Model,
		"color":       v.Color,
		"vin":         v.VIN,
		"part_number": v.PartNumber,
	}
}

func (g GlassTypesInput) toModel(appointmentID uuid.UUID) *models.AppointmentJob {
	return &models.AppointmentJob{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Windshield:    g.Windshield,
		DoorGlass:     g.DoorGlass,
		BackGlass:     g.BackGlass,
		QuarterGlass:  g.QuarterGlass,
		VentGlass:     g.VentGlass,
	}
}

func (e ExtrasInput) toModel(jobID uuid.UUID) *models.JobExtras {
	return &models.JobExtras{
		ID:               uuid.New(),
		AppointmentJobID: jobID,
		HUD:              e.HUD,
		Heated:           e.Heated,
		Antenna:          e.Antenna,
		RainSensor:       e.RainSensor,
		LaneDeparture:    e.LaneDeparture,
		WindshieldCamera: e.WindshieldCamera,
		TintStrip:        e.TintStrip,
		Tint:             e.Tint,
		MoldingBlack:     e.MoldingBlack,
		MoldingChrome:    e.MoldingChrome,
		VINEtch:          e.VINEtch,
	}
}
