package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	"github.com/dmarquez/autoglass-backend/pkg/enums"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
)

// Tuesday.
var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE sales (
  id TEXT PRIMARY KEY,
  price_cash NUMERIC NOT NULL,
  salesperson TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE rebates (
  id TEXT PRIMARY KEY,
  cash NUMERIC,
  check_amount NUMERIC,
  observations TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE appointments (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  address_id TEXT NOT NULL,
  vehicle_id TEXT NOT NULL,
  insurance_appointment_id TEXT,
  rebate_id TEXT,
  sale_id TEXT,
  installation_date DATE NOT NULL,
  installation_time TEXT NOT NULL,
  location_type TEXT NOT NULL DEFAULT 'home',
  replacement_type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'scheduled',
  tech_name TEXT NOT NULL,
  service_advisor TEXT NOT NULL,
  observations TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	svc := NewService(NewRepository(db), time.UTC)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedAppointment(t *testing.T, db *gorm.DB, date time.Time, status enums.AppointmentStatus, sale *models.Sale, rebate *models.Rebate) {
	t.Helper()

	appointment := &models.Appointment{
		ID:               uuid.New(),
		CustomerID:       uuid.New(),
		AddressID:        uuid.New(),
		VehicleID:        uuid.New(),
		InstallationDate: date,
		InstallationTime: enums.InstallationTime8To12,
		LocationType:     enums.LocationTypeHome,
		ReplacementType:  enums.ReplacementTypeInsurance,
		Status:           status,
		TechName:         "Luis",
		ServiceAdvisor:   "Dana",
	}
	if sale != nil {
		require.NoError(t, db.Create(sale).Error)
		appointment.SaleID = &sale.ID
		appointment.ReplacementType = enums.ReplacementTypeOutOfPocket
	}
	if rebate != nil {
		require.NoError(t, db.Create(rebate).Error)
		appointment.RebateID = &rebate.ID
	}
	require.NoError(t, db.Create(appointment).Error)
}

func TestSummaryCountsAndTotals(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := newTestService(t, db)

	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	sale := &models.Sale{ID: uuid.New(), PriceCash: decimal.NewFromFloat(450.00), Salesperson: "Jane"}
	cash := decimal.NewFromInt(50)
	check := decimal.NewFromInt(25)
	rebate := &models.Rebate{ID: uuid.New(), Cash: &cash, Check: &check}

	seedAppointment(t, db, today, enums.AppointmentStatusScheduled, sale, nil)
	seedAppointment(t, db, today, enums.AppointmentStatusCompleted, nil, rebate)
	// Same week, not today.
	seedAppointment(t, db, today.AddDate(0, 0, 2), enums.AppointmentStatusScheduled, nil, nil)
	// Outside the default month range.
	seedAppointment(t, db, today.AddDate(0, -2, 0), enums.AppointmentStatusCanceled, nil, nil)

	summary, err := svc.Summary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.AppointmentsToday)
	assert.EqualValues(t, 3, summary.AppointmentsWeek)
	assert.EqualValues(t, 2, summary.ByStatus["scheduled"])
	assert.EqualValues(t, 1, summary.ByStatus["completed"])
	assert.Zero(t, summary.ByStatus["canceled"])
	assert.EqualValues(t, 1, summary.ByReplacementType["out_of_pocket"])
	assert.EqualValues(t, 2, summary.ByReplacementType["insurance"])
	assert.True(t, summary.CashRevenue.Equal(decimal.NewFromFloat(450.00)), summary.CashRevenue.String())
	assert.True(t, summary.RebateTotal.Equal(decimal.NewFromInt(75)), summary.RebateTotal.String())
}

func TestSummaryIncludesRangeEndDate(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := newTestService(t, db)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	seedAppointment(t, db, to, enums.AppointmentStatusScheduled, nil, nil)
	// One day past the range end.
	seedAppointment(t, db, to.AddDate(0, 0, 1), enums.AppointmentStatusScheduled, nil, nil)

	summary, err := svc.Summary(context.Background(), from, to)
	require.NoError(t, err)

	assert.EqualValues(t, 1, summary.ByStatus["scheduled"])
	assert.EqualValues(t, 1, summary.ByReplacementType["insurance"])
}

func TestSummaryWeekEndsOnSunday(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := newTestService(t, db)

	// testNow is Tuesday Sep 1; its week runs Monday Aug 31 through Sunday Sep 6.
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	seedAppointment(t, db, sunday, enums.AppointmentStatusScheduled, nil, nil)
	seedAppointment(t, db, sunday.AddDate(0, 0, 1), enums.AppointmentStatusScheduled, nil, nil)

	summary, err := svc.Summary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.EqualValues(t, 1, summary.AppointmentsWeek)
	assert.Zero(t, summary.AppointmentsToday)
}

func TestSummaryEmptyRange(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := newTestService(t, db)

	summary, err := svc.Summary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Zero(t, summary.AppointmentsToday)
	assert.True(t, summary.CashRevenue.IsZero())
	assert.True(t, summary.RebateTotal.IsZero())
}

func TestSummaryRejectsInvertedRange(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := newTestService(t, db)

	from := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -5)

	_, err := svc.Summary(context.Background(), from, to)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
