package insurance

import (
	"context"

	"github.com/dmarquez/autoglass-backend/pkg/db"
	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
)

// Service exposes the carrier lookup table to the API. Policy records and
// snapshots are written exclusively through the appointment flow.
type Service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// ListCarriers returns all carriers ordered by name.
func (s *Service) ListCarriers(ctx context.Context) ([]models.GeneralInsurance, error) {
	carriers, err := s.repo.ListCarriers(ctx)
	if err != nil {
		return nil, db.Classify(err)
	}
	return carriers, nil
}

// CreateCarrier adds a carrier. Names are unique; a repeat surfaces as a
// duplicate-value error.
func (s *Service) CreateCarrier(ctx context.Context, in CarrierInput) (*models.GeneralInsurance, error) {
	carrier, err := s.repo.CreateCarrier(ctx, in.toModel())
	if err != nil {
		// Matched by message as well as SQLSTATE, so the sqlite-backed tests
		// see the same duplicate error the postgres deployment produces.
		if db.IsUniqueViolation(err, "general_insurance") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "carrier name already exists")
		}
		return nil, db.Classify(err)
	}

	s.logg.Info(s.logg.WithField(ctx, "carrier_id", carrier.ID.String()), "insurance.carrier.created")
	return carrier, nil
}
