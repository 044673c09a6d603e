package appointments

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	"github.com/dmarquez/autoglass-backend/pkg/pagination"
)

// Repository exposes appointment aggregate persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an appointments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the aggregate appointment row.
func (r *Repository) Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return nil, err
	}
	return appointment, nil
}

// CreateJob inserts the glass-type row owned by the appointment.
func (r *Repository) CreateJob(ctx context.Context, job *models.AppointmentJob) (*models.AppointmentJob, error) {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// CreateExtras inserts the feature-flag row owned by the job.
func (r *Repository) CreateExtras(ctx context.Context, extras *models.JobExtras) (*models.JobExtras, error) {
	if err := r.db.WithContext(ctx).Create(extras).Error; err != nil {
		return nil, err
	}
	return extras, nil
}

// CreateRebate inserts a rebate row for an insurance-funded job.
func (r *Repository) CreateRebate(ctx context.Context, rebate *models.Rebate) (*models.Rebate, error) {
	if err := r.db.WithContext(ctx).Create(rebate).Error; err != nil {
		return nil, err
	}
	return rebate, nil
}

// CreateSale inserts a sale row for an out-of-pocket job.
func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// RecordAudit appends a row to the appointment audit trail.
func (r *Repository) RecordAudit(ctx context.Context, audit *models.AppointmentAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

// FindByID loads the bare appointment row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

// FindDetail loads the fully joined aggregate view used by the detail and
// print endpoints.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Address").
		Preload("Vehicle").
		Preload("Insurance").
		Preload("Insurance.Carrier").
		Preload("Rebate").
		Preload("Sale").
		Preload("Job").
		Preload("Job.Extras").
		First(&appointment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

// List returns appointments matching the filters, newest installation first.
// The free-text query searches customer name, phone, and vehicle VIN.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Appointment, error) {
	page = pagination.Normalize(page)

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Preload("Customer").
		Preload("Vehicle")

	if filters.From != nil {
		q = q.Where("appointments.installation_date >= ?", *filters.From)
	}
	if filters.To != nil {
		q = q.Where("appointments.installation_date <= ?", *filters.To)
	}
	if filters.Status != nil {
		q = q.Where("appointments.status = ?", *filters.Status)
	}
	if filters.ReplacementType != nil {
		q = q.Where("appointments.replacement_type = ?", *filters.ReplacementType)
	}
	if filters.Query != "" {
		like := "%" + strings.ToLower(filters.Query) + "%"
		q = q.
			Joins("JOIN customers ON customers.id = appointments.customer_id").
			Joins("JOIN vehicles ON vehicles.id = appointments.vehicle_id").
			Where(
				"LOWER(customers.first_name) LIKE ? OR LOWER(customers.last_name) LIKE ? OR customers.phone LIKE ? OR LOWER(vehicles.vin) LIKE ?",
				like, like, like, like,
			)
	}

	var out []models.Appointment
	if err := q.
		Order("appointments.installation_date DESC, appointments.created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the provided appointment fields in place.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// FindJob returns the appointment's job row or nil when none exists.
func (r *Repository) FindJob(ctx context.Context, appointmentID uuid.UUID) (*models.AppointmentJob, error) {
	var job models.AppointmentJob
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteExtras removes the feature-flag row attached to the job.
func (r *Repository) DeleteExtras(ctx context.Context, jobID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.JobExtras{}, "appointment_job_id = ?", jobID).Error
}

// DeleteJob removes the glass-type row attached to the appointment.
func (r *Repository) DeleteJob(ctx context.Context, appointmentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.AppointmentJob{}, "appointment_id = ?", appointmentID).Error
}

// Delete removes the aggregate appointment row. The audit trail goes with it
// through the database-level cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id).Error
}

// DeleteRebate removes a rebate row orphaned by an appointment delete.
func (r *Repository) DeleteRebate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Rebate{}, "id = ?", id).Error
}

// DeleteSale removes a sale row orphaned by an appointment delete.
func (r *Repository) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Sale{}, "id = ?", id).Error
}

// DeleteSnapshot removes an insurance snapshot orphaned by an appointment
// delete.
func (r *Repository) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.InsuranceAppointment{}, "id = ?", id).Error
}
