package insurance

import (
	"context"
	"errors"

	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes carrier lookups, the customer's persistent policy
// record, and per-appointment snapshots.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an insurance repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListCarriers returns the carrier lookup table ordered by name.
func (r *Repository) ListCarriers(ctx context.Context) ([]models.GeneralInsurance, error) {
	var out []models.GeneralInsurance
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCarrier inserts a new carrier row.
func (r *Repository) CreateCarrier(ctx context.Context, carrier *models.GeneralInsurance) (*models.GeneralInsurance, error) {
	if err := r.db.WithContext(ctx).Create(carrier).Error; err != nil {
		return nil, err
	}
	return carrier, nil
}

// FindCustomerInsurance returns the customer's policy record or nil when the
// customer has none yet.
func (r *Repository) FindCustomerInsurance(ctx context.Context, customerID uuid.UUID) (*models.CustomerInsurance, error) {
	var record models.CustomerInsurance
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateCustomerInsurance inserts the customer's persistent policy record.
func (r *Repository) CreateCustomerInsurance(ctx context.Context, record *models.CustomerInsurance) (*models.CustomerInsurance, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateCustomerInsurance overwrites the carrier/policy fields in place.
func (r *Repository) UpdateCustomerInsurance(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.CustomerInsurance{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// CreateSnapshot inserts a fresh per-appointment insurance snapshot. Prior
// snapshots are never touched.
func (r *Repository) CreateSnapshot(ctx context.Context, snapshot *models.InsuranceAppointment) (*models.InsuranceAppointment, error) {
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, err
	}
	return snapshot, nil
}
