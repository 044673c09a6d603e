package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/dmarquez/autoglass-backend/internal/addresses"
	"github.com/dmarquez/autoglass-backend/internal/customers"
	"github.com/dmarquez/autoglass-backend/internal/insurance"
	"github.com/dmarquez/autoglass-backend/internal/vehicles"
	"github.com/dmarquez/autoglass-backend/pkg/db"
	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	"github.com/dmarquez/autoglass-backend/pkg/enums"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
	"github.com/dmarquez/autoglass-backend/pkg/pagination"
)

// Audit trail actions.
const (
	auditActionCreated = "created"
	auditActionUpdated = "updated"
)

// TxRunner opens a transaction and runs fn inside it, rolling back when fn
// errors. pkg/db.Client satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the appointment aggregate: the multi-entity creation
// transaction, reads, reschedules, and the manual cascade delete.
type Service struct {
	tx        TxRunner
	customers *customers.Repository
	addresses *addresses.Repository
	vehicles  *vehicles.Repository
	insurance *insurance.Repository
	repo      *Repository
	logg      *logger.Logger
	now       func() time.Time
	loc       *time.Location
}

// NewService wires the appointment service with its collaborator repos. loc
// anchors the "not before today" installation date check.
func NewService(
	tx TxRunner,
	customersRepo *customers.Repository,
	addressesRepo *addresses.Repository,
	vehiclesRepo *vehicles.Repository,
	insuranceRepo *insurance.Repository,
	repo *Repository,
	logg *logger.Logger,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		tx:        tx,
		customers: customersRepo,
		addresses: addressesRepo,
		vehicles:  vehiclesRepo,
		insurance: insuranceRepo,
		repo:      repo,
		logg:      logg,
		now:       time.Now,
		loc:       loc,
	}
}

// createPlan is the validated form of a CreateInput. Building it is the only
// way into the transaction, so the write steps never re-check payload shape.
type createPlan struct {
	payment  paymentPlan
	slot     enums.InstallationTime
	location enums.LocationType
	date     time.Time
}

// CreateComplete validates the composite payload, then persists the whole
// aggregate inside one transaction. Either every row lands or none do. The
// returned appointment is the joined detail view fetched after commit.
//
// Double submits are not deduplicated: two identical payloads create two
// appointments.
func (s *Service) CreateComplete(ctx context.Context, in CreateInput, actor string) (*models.Appointment, error) {
	plan, err := s.validateCreate(in)
	if err != nil {
		return nil, err
	}

	var appointmentID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		custRepo := s.customers.WithTx(tx)
		addrRepo := s.addresses.WithTx(tx)
		vehRepo := s.vehicles.WithTx(tx)
		insRepo := s.insurance.WithTx(tx)
		apptRepo := s.repo.WithTx(tx)

		customer, err := custRepo.FindByID(ctx, in.Customer.ID)
		if err != nil {
			return err
		}

		if fields := in.Customer.contactFields(); len(fields) > 0 {
			if err := custRepo.UpdateContact(ctx, customer.ID, fields); err != nil {
				return err
			}
		}

		homeAddressID, err := resolveHomeAddress(ctx, addrRepo, custRepo, customer, in.Address)
		if err != nil {
			return err
		}

		vehicleID, err := resolveVehicle(ctx, vehRepo, customer.ID, in.Vehicle)
		if err != nil {
			return err
		}

		var snapshotID *uuid.UUID
		if plan.payment.Insurance != nil {
			snapshotID, err = resolveInsurance(ctx, insRepo, custRepo, customer, plan.payment.Insurance.Insurance)
			if err != nil {
				return err
			}
		}

		installAddressID := homeAddressID
		if in.AlternateAddress != nil {
			alt, err := addrRepo.Create(ctx, in.AlternateAddress.toModel())
			if err != nil {
				return err
			}
			installAddressID = alt.ID
		}

		var rebateID, saleID *uuid.UUID
		switch {
		case plan.payment.Insurance != nil && plan.payment.Insurance.Rebate != nil:
			reb := plan.payment.Insurance.Rebate
			created, err := apptRepo.CreateRebate(ctx, &models.Rebate{
				ID:           uuid.New(),
				Cash:         reb.Cash,
				Check:        reb.Check,
				Observations: reb.Observations,
			})
			if err != nil {
				return err
			}
			rebateID = &created.ID
		case plan.payment.Cash != nil:
			created, err := apptRepo.CreateSale(ctx, &models.Sale{
				ID:          uuid.New(),
				PriceCash:   plan.payment.Cash.Sale.PriceCash,
				Salesperson: plan.payment.Cash.Sale.Salesperson,
			})
			if err != nil {
				return err
			}
			saleID = &created.ID
		}

		appointment, err := apptRepo.Create(ctx, &models.Appointment{
			ID:                     uuid.New(),
			CustomerID:             customer.ID,
			AddressID:              installAddressID,
			VehicleID:              vehicleID,
			InsuranceAppointmentID: snapshotID,
			RebateID:               rebateID,
			SaleID:                 saleID,
			InstallationDate:       plan.date,
			InstallationTime:       plan.slot,
			LocationType:           plan.location,
			ReplacementType:        plan.payment.replacementType(),
			Status:                 enums.AppointmentStatusScheduled,
			TechName:               in.Appointment.TechName,
			ServiceAdvisor:         in.Appointment.ServiceAdvisor,
			Observations:           in.Appointment.Observations,
		})
		if err != nil {
			return err
		}
		appointmentID = appointment.ID

		job, err := apptRepo.CreateJob(ctx, in.GlassTypes.toModel(appointment.ID))
		if err != nil {
			return err
		}
		if in.Extras != nil {
			if _, err := apptRepo.CreateExtras(ctx, in.Extras.toModel(job.ID)); err != nil {
				return err
			}
		}

		return apptRepo.RecordAudit(ctx, &models.AppointmentAudit{
			ID:            uuid.New(),
			AppointmentID: appointment.ID,
			Action:        auditActionCreated,
			Actor:         actor,
		})
	})
	if err != nil {
		return nil, db.Classify(err)
	}

	ctx = s.logg.WithAppointmentID(ctx, appointmentID.String())
	s.logg.Info(ctx, "appointment created")

	detail, err := s.repo.FindDetail(ctx, appointmentID)
	if err != nil {
		return nil, db.Classify(err)
	}
	return detail, nil
}

// Detail returns the joined aggregate view.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, db.Classify(err)
	}
	return detail, nil
}

// List returns appointments matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Appointment, error) {
	out, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}

// Update applies a reschedule, status transition, or staff/notes edit. Dates
// and slots go through the same checks as creation, and status changes follow
// the scheduled -> completed|canceled lifecycle.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput, actor string) (*models.Appointment, error) {
	fields := map[string]any{}

	if in.InstallationDate != nil {
		date, err := s.normalizeInstallationDate(*in.InstallationDate)
		if err != nil {
			return nil, err
		}
		fields["installation_date"] = date
	}
	if in.InstallationTime != nil {
		slot, err := enums.ParseInstallationTime(*in.InstallationTime)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid installation time slot")
		}
		fields["installation_time"] = slot
	}
	if in.TechName != nil {
		fields["tech_name"] = *in.TechName
	}
	if in.ServiceAdvisor != nil {
		fields["service_advisor"] = *in.ServiceAdvisor
	}
	if in.Observations != nil {
		fields["observations"] = *in.Observations
	}

	var nextStatus *enums.AppointmentStatus
	if in.Status != nil {
		status, err := enums.ParseAppointmentStatus(*in.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid appointment status")
		}
		nextStatus = &status
	}

	if len(fields) == 0 && nextStatus == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No fields to update")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		apptRepo := s.repo.WithTx(tx)

		appointment, err := apptRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if nextStatus != nil {
			if !appointment.Status.CanTransitionTo(*nextStatus) {
				return pkgerrors.New(pkgerrors.CodeConflict,
					"cannot move a "+appointment.Status.String()+" appointment to "+nextStatus.String())
			}
			fields["status"] = *nextStatus
		}

		if err := apptRepo.Update(ctx, id, fields); err != nil {
			return err
		}

		return apptRepo.RecordAudit(ctx, &models.AppointmentAudit{
			ID:            uuid.New(),
			AppointmentID: id,
			Action:        auditActionUpdated,
			Actor:         actor,
		})
	})
	if err != nil {
		return nil, db.Classify(err)
	}

	return s.Detail(ctx, id)
}

// Delete removes the aggregate with an explicit child ordering: extras, then
// the job row, then the appointment itself, then the rebate/sale/insurance
// rows the appointment orphaned. The audit trail is the one child left to the
// database-level cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		apptRepo := s.repo.WithTx(tx)

		appointment, err := apptRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		job, err := apptRepo.FindJob(ctx, id)
		if err != nil {
			return err
		}
		if job != nil {
			if err := apptRepo.DeleteExtras(ctx, job.ID); err != nil {
				return err
			}
			if err := apptRepo.DeleteJob(ctx, id); err != nil {
				return err
			}
		}

		if err := apptRepo.Delete(ctx, id); err != nil {
			return err
		}

		// The orphan cleanups are independent of each other; collect every
		// failure so the rollback reports all of them at once.
		var cleanupErr error
		if appointment.RebateID != nil {
			cleanupErr = multierr.Append(cleanupErr, apptRepo.DeleteRebate(ctx, *appointment.RebateID))
		}
		if appointment.SaleID != nil {
			cleanupErr = multierr.Append(cleanupErr, apptRepo.DeleteSale(ctx, *appointment.SaleID))
		}
		if appointment.InsuranceAppointmentID != nil {
			cleanupErr = multierr.Append(cleanupErr, apptRepo.DeleteSnapshot(ctx, *appointment.InsuranceAppointmentID))
		}
		return cleanupErr
	})
	if err != nil {
		return db.Classify(err)
	}

	ctx = s.logg.WithAppointmentID(ctx, id.String())
	s.logg.Info(ctx, "appointment deleted")
	return nil
}

// Slots returns the fixed installation-time slot set.
func (s *Service) Slots() []enums.InstallationTime {
	return enums.InstallationTimes()
}

// validateCreate rejects every malformed payload before the transaction
// opens. Nothing is written when it errors.
func (s *Service) validateCreate(in CreateInput) (createPlan, error) {
	var plan createPlan

	if in.Customer.ID == uuid.Nil {
		return plan, pkgerrors.New(pkgerrors.CodeValidation, "Customer id is required")
	}
	if in.Appointment.TechName == "" {
		return plan, pkgerrors.New(pkgerrors.CodeValidation, "Tech name is required")
	}
	if in.Appointment.ServiceAdvisor == "" {
		return plan, pkgerrors.New(pkgerrors.CodeValidation, "Service advisor is required")
	}
	if in.Vehicle.VIN == "" {
		return plan, pkgerrors.New(pkgerrors.CodeValidation, "Vehicle VIN is required")
	}
	if in.Vehicle.PartNumber == "" {
		return plan, pkgerrors.New(pkgerrors.CodeValidation, "Vehicle part number is required")
	}
	if !in.GlassTypes.Any() {
		return plan, pkgerrors.New(pkgerrors.CodeValidation, "At least one glass type must be selected")
	}

	slot, err := enums.ParseInstallationTime(in.Appointment.InstallationTime)
	if err != nil {
		return plan, pkgerrors.New(pkgerrors.CodeValidation, "Invalid installation time slot")
	}

	location := enums.LocationTypeHome
	if in.Appointment.LocationType != "" {
		location, err = enums.ParseLocationType(in.Appointment.LocationType)
		if err != nil {
			return plan, pkgerrors.New(pkgerrors.CodeValidation, "Invalid location type")
		}
	}
	if location != enums.LocationTypeHome && in.AlternateAddress == nil {
		return plan, pkgerrors.New(pkgerrors.CodeValidation,
			"An alternate installation address is required for "+location.String()+" installations")
	}

	date, err := s.normalizeInstallationDate(in.Appointment.InstallationDate)
	if err != nil {
		return plan, err
	}

	payment, err := resolvePaymentPlan(in)
	if err != nil {
		return plan, err
	}

	plan.payment = payment
	plan.slot = slot
	plan.location = location
	plan.date = date
	return plan, nil
}

// normalizeInstallationDate truncates to a calendar day in the shop's
// timezone and refuses anything before today.
func (s *Service) normalizeInstallationDate(value time.Time) (time.Time, error) {
	if value.IsZero() {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "Installation date is required")
	}

	day := time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, s.loc)
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	if day.Before(today) {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "Installation date cannot be in the past")
	}
	return day, nil
}

// resolvePaymentPlan turns the optional insurance/rebate/sale blocks into the
// tagged union the transaction runs on. Exactly one arm comes back set.
func resolvePaymentPlan(in CreateInput) (paymentPlan, error) {
	replacement, err := enums.ParseReplacementType(in.Appointment.ReplacementType)
	if err != nil {
		return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid replacement type")
	}

	switch replacement {
	case enums.ReplacementTypeInsurance:
		if in.Sale != nil {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Sale information should not be provided when using insurance")
		}
		if in.Insurance == nil {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Insurance information is required for insurance appointments")
		}
		if in.Insurance.GeneralInsuranceID == uuid.Nil || in.Insurance.PolicyNumber == "" || in.Insurance.DateOfLoss.IsZero() {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Insurance carrier, policy number, and date of loss are required")
		}
		// A pointer keeps an omitted deductible distinguishable from a real $0.
		if in.Insurance.GlassDeductible == nil {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Glass deductible is required for insurance appointments")
		}
		if in.Insurance.GlassDeductible.IsNegative() {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Glass deductible cannot be negative")
		}
		if in.Rebate != nil && in.Rebate.Cash == nil && in.Rebate.Check == nil {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Rebate must include a cash or check amount")
		}
		return paymentPlan{Insurance: &insurancePath{Insurance: *in.Insurance, Rebate: in.Rebate}}, nil

	default:
		if in.Insurance != nil || in.Rebate != nil {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Insurance information should not be provided for out-of-pocket appointments")
		}
		if in.Sale == nil {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Sale information is required for out-of-pocket appointments")
		}
		if !in.Sale.PriceCash.IsPositive() {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Sale price must be greater than zero")
		}
		if in.Sale.Salesperson == "" {
			return paymentPlan{}, pkgerrors.New(pkgerrors.CodeValidation,
				"Salesperson is required")
		}
		return paymentPlan{Cash: &cashPath{Sale: *in.Sale}}, nil
	}
}

// resolveHomeAddress updates the customer's existing address in place or
// inserts a new one and links it.
func resolveHomeAddress(
	ctx context.Context,
	addrRepo *addresses.Repository,
	custRepo *customers.Repository,
	customer *models.Customer,
	input *AddressInput,
) (uuid.UUID, error) {
	if customer.AddressID != nil {
		if input != nil {
			if err := addrRepo.Update(ctx, *customer.AddressID, input.fields()); err != nil {
				return uuid.Nil, err
			}
		}
		return *customer.AddressID, nil
	}

	if input == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "Customer address is required")
	}

	created, err := addrRepo.Create(ctx, input.toModel())
	if err != nil {
		return uuid.Nil, err
	}
	if err := custRepo.LinkAddress(ctx, customer.ID, created.ID); err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

// resolveVehicle updates the referenced vehicle when the payload asks for it,
// otherwise inserts a fresh one for the customer.
func resolveVehicle(
	ctx context.Context,
	vehRepo *vehicles.Repository,
	customerID uuid.UUID,
	input VehicleInput,
) (uuid.UUID, error) {
	if input.ID != nil && input.UpdateExisting {
		if err := vehRepo.Update(ctx, *input.ID, input.fields()); err != nil {
			return uuid.Nil, err
		}
		return *input.ID, nil
	}

	created, err := vehRepo.Create(ctx, input.toModel(customerID))
	if err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

// resolveInsurance optionally upserts the customer's persistent policy
// record, then always inserts a fresh per-appointment snapshot.
func resolveInsurance(
	ctx context.Context,
	insRepo *insurance.Repository,
	custRepo *customers.Repository,
	customer *models.Customer,
	input InsuranceInput,
) (*uuid.UUID, error) {
	if input.UpdateCustomerInsurance {
		existing, err := insRepo.FindCustomerInsurance(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			record, err := insRepo.CreateCustomerInsurance(ctx, &models.CustomerInsurance{
				ID:                 uuid.New(),
				CustomerID:         customer.ID,
				GeneralInsuranceID: input.GeneralInsuranceID,
				PolicyNumber:       input.PolicyNumber,
			})
			if err != nil {
				return nil, err
			}
			if err := custRepo.LinkInsurance(ctx, customer.ID, record.ID); err != nil {
				return nil, err
			}
		} else {
			err := insRepo.UpdateCustomerInsurance(ctx, existing.ID, map[string]any{
				"general_insurance_id": input.GeneralInsuranceID,
				"policy_number":        input.PolicyNumber,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	snapshot, err := insRepo.CreateSnapshot(ctx, &models.InsuranceAppointment{
		ID:                 uuid.New(),
		GeneralInsuranceID: input.GeneralInsuranceID,
		PolicyNumber:       input.PolicyNumber,
		DateOfLoss:         input.DateOfLoss,
		GlassDeductible:    *input.GlassDeductible,
		Safelite:           input.Safelite,
	})
	if err != nil {
		return nil, err
	}
	return &snapshot.ID, nil
}
