package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquez/autoglass-backend/internal/addresses"
	"github.com/dmarquez/autoglass-backend/internal/vehicles"
	"github.com/dmarquez/autoglass-backend/pkg/db"
	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
	"github.com/dmarquez/autoglass-backend/pkg/pagination"
)

// TxRunner opens a transaction and runs fn inside it, rolling back when fn
// errors.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns customer registration, search, edits, and the guarded delete.
type Service struct {
	tx        TxRunner
	repo      *Repository
	addresses *addresses.Repository
	vehicles  *vehicles.Repository
	logg      *logger.Logger
}

// NewService wires the customer service with its collaborator repos.
func NewService(
	tx TxRunner,
	repo *Repository,
	addressesRepo *addresses.Repository,
	vehiclesRepo *vehicles.Repository,
	logg *logger.Logger,
) *Service {
	return &Service{
		tx:        tx,
		repo:      repo,
		addresses: addressesRepo,
		vehicles:  vehiclesRepo,
		logg:      logg,
	}
}

// Create registers a customer and, when supplied, their home address in one
// transaction. A duplicate phone surfaces as a duplicate-value error.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Customer, error) {
	var customerID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		custRepo := s.repo.WithTx(tx)
		addrRepo := s.addresses.WithTx(tx)

		customer, err := custRepo.Create(ctx, in.toModel())
		if err != nil {
			return err
		}
		customerID = customer.ID

		if in.Address == nil {
			return nil
		}
		address, err := addrRepo.Create(ctx, in.Address.toModel())
		if err != nil {
			return err
		}
		return custRepo.LinkAddress(ctx, customer.ID, address.ID)
	})
	if err != nil {
		return nil, db.Classify(err)
	}

	return s.Get(ctx, customerID)
}

// Get loads a customer with their address and insurance.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err)
	}
	return customer, nil
}

// Search lists customers matching the free-text query.
func (s *Service) Search(ctx context.Context, query string, page pagination.Params) ([]models.Customer, error) {
	out, err := s.repo.Search(ctx, query, page)
	if err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}

// Update applies contact edits and returns the refreshed record.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Customer, error) {
	fields := in.fields()
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No fields to update")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, db.Classify(err)
	}
	if err := s.repo.UpdateContact(ctx, id, fields); err != nil {
		return nil, db.Classify(err)
	}
	return s.Get(ctx, id)
}

// Delete removes a customer, refusing while appointments still reference
// them.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return db.Classify(err)
	}

	count, err := s.repo.CountAppointments(ctx, id)
	if err != nil {
		return db.Classify(err)
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict,
			"customer has existing appointments and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return db.Classify(err)
	}
	s.logg.Info(s.logg.WithField(ctx, "customer_id", id.String()), "customer deleted")
	return nil
}

// Vehicles lists the customer's vehicles.
func (s *Service) Vehicles(ctx context.Context, id uuid.UUID) ([]models.Vehicle, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, db.Classify(err)
	}
	out, err := s.vehicles.ListByCustomer(ctx, id)
	if err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}
