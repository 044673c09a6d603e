package customers

import (
	"context"
	"strings"

	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	"github.com/dmarquez/autoglass-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes customer persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new customer and returns the persisted model.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// FindByID loads a customer with their address and insurance preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Preload("Address").
		Preload("Insurance").
		Preload("Insurance.Carrier").
		First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Search lists customers filtered by a free-text query over name and phone.
func (r *Repository) Search(ctx context.Context, query string, page pagination.Params) ([]models.Customer, error) {
	page = pagination.Normalize(page)

	q := r.db.WithContext(ctx).Model(&models.Customer{}).Preload("Address")
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ?",
			like, like, like,
		)
	}

	var out []models.Customer
	if err := q.
		Order("last_name ASC, first_name ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateContact overwrites the provided contact fields in place.
func (r *Repository) UpdateContact(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// LinkAddress points the customer at the given home address row.
func (r *Repository) LinkAddress(ctx context.Context, id, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumn("address_id", addressID).Error
}

// LinkInsurance points the customer at their persistent insurance record.
func (r *Repository) LinkInsurance(ctx context.Context, id, insuranceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumn("insurance_id", insuranceID).Error
}

// CountAppointments reports how many appointments reference the customer.
func (r *Repository) CountAppointments(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("customer_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes the customer row. Callers must refuse the delete while
// appointments still reference it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id).Error
}
