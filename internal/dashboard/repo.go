package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmarquez/autoglass-backend/pkg/db/models"
)

// Repository runs the aggregate queries behind the dashboard summary.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a dashboard repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type countRow struct {
	Key   string
	Count int64
}

// CountBetween counts appointments whose installation date falls in the
// inclusive range [from, to], matching the appointment list filter.
func (r *Repository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("installation_date >= ? AND installation_date <= ?", from, to).
		Count(&count).Error
	return count, err
}

// CountByStatus groups appointments in the range by status.
func (r *Repository) CountByStatus(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	return r.countGrouped(ctx, "status", from, to)
}

// CountByReplacementType groups appointments in the range by payment path.
func (r *Repository) CountByReplacementType(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	return r.countGrouped(ctx, "replacement_type", from, to)
}

func (r *Repository) countGrouped(ctx context.Context, column string, from, to time.Time) (map[string]int64, error) {
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select(column+" AS key, COUNT(*) AS count").
		Where("installation_date >= ? AND installation_date <= ?", from, to).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

// SumCashRevenue totals sale prices for appointments in the range.
func (r *Repository) SumCashRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("COALESCE(SUM(sales.price_cash), 0)").
		Joins("JOIN sales ON sales.id = appointments.sale_id").
		Where("appointments.installation_date >= ? AND appointments.installation_date <= ?", from, to).
		Scan(&total).Error
	return total, err
}

// SumRebates totals cash and check rebate amounts for appointments in the
// range.
func (r *Repository) SumRebates(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("COALESCE(SUM(COALESCE(rebates.cash, 0) + COALESCE(rebates.check_amount, 0)), 0)").
		Joins("JOIN rebates ON rebates.id = appointments.rebate_id").
		Where("appointments.installation_date >= ? AND appointments.installation_date <= ?", from, to).
		Scan(&total).Error
	return total, err
}
