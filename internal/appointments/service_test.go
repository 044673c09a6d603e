package appointments

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmarquez/autoglass-backend/internal/addresses"
	"github.com/dmarquez/autoglass-backend/internal/customers"
	"github.com/dmarquez/autoglass-backend/internal/insurance"
	"github.com/dmarquez/autoglass-backend/internal/vehicles"
	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	"github.com/dmarquez/autoglass-backend/pkg/enums"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func setupAppointmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// The foreign_keys pragma is per connection, so pin the pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	schema := []string{
		`CREATE TABLE addresses (
  id TEXT PRIMARY KEY,
  street TEXT NOT NULL,
  unit TEXT,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE general_insurance (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE customer_insurance (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  general_insurance_id TEXT NOT NULL REFERENCES general_insurance(id),
  policy_number TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE customers (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  secondary_phone TEXT,
  email TEXT,
  address_id TEXT REFERENCES addresses(id),
  insurance_id TEXT REFERENCES customer_insurance(id),
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE vehicles (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES customers(id),
  year INTEGER NOT NULL,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  color TEXT,
  vin TEXT NOT NULL UNIQUE,
  part_number TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE insurance_appointments (
  id TEXT PRIMARY KEY,
  general_insurance_id TEXT NOT NULL REFERENCES general_insurance(id),
  policy_number TEXT NOT NULL,
  date_of_loss DATE NOT NULL,
  glass_deductible NUMERIC NOT NULL,
  safelite INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE rebates (
  id TEXT PRIMARY KEY,
  cash NUMERIC,
  check_amount NUMERIC,
  observations TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE sales (
  id TEXT PRIMARY KEY,
  price_cash NUMERIC NOT NULL,
  salesperson TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE appointments (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES customers(id),
  address_id TEXT NOT NULL REFERENCES addresses(id),
  vehicle_id TEXT NOT NULL REFERENCES vehicles(id),
  insurance_appointment_id TEXT REFERENCES insurance_appointments(id),
  rebate_id TEXT REFERENCES rebates(id),
  sale_id TEXT REFERENCES sales(id),
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
		`CREATE TABLE appointment_jobs (
  id TEXT PRIMARY KEY,
  appointment_id TEXT NOT NULL UNIQUE REFERENCES appointments(id),
  windshield INTEGER NOT NULL DEFAULT 0,
  door_glass INTEGER NOT NULL DEFAULT 0,
  back_glass INTEGER NOT NULL DEFAULT 0,
  quarter_glass INTEGER NOT NULL DEFAULT 0,
  vent_glass INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE job_extras (
  id TEXT PRIMARY KEY,
  appointment_job_id TEXT NOT NULL UNIQUE REFERENCES appointment_jobs(id),
  hud INTEGER NOT NULL DEFAULT 0,
  heated INTEGER NOT NULL DEFAULT 0,
  antenna INTEGER NOT NULL DEFAULT 0,
  rain_sensor INTEGER NOT NULL DEFAULT 0,
  lane_departure INTEGER NOT NULL DEFAULT 0,
  windshield_camera INTEGER NOT NULL DEFAULT 0,
  tint_strip INTEGER NOT NULL DEFAULT 0,
  tint INTEGER NOT NULL DEFAULT 0,
  molding_black INTEGER NOT NULL DEFAULT 0,
  molding_chrome INTEGER NOT NULL DEFAULT 0,
  vin_etch INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE appointment_audit (
  id TEXT PRIMARY KEY,
  appointment_id TEXT NOT NULL REFERENCES appointments(id) ON DELETE CASCADE,
  action TEXT NOT NULL,
  actor TEXT NOT NULL,
  recorded_at DATETIME
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc := NewService(
		testTxRunner{db: db},
		customers.NewRepository(db),
		addresses.NewRepository(db),
		vehicles.NewRepository(db),
		insurance.NewRepository(db),
		NewRepository(db),
		logg,
		time.UTC,
	)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		ID:        uuid.New(),
		FirstName: "Maria",
		LastName:  "Lopez",
		Phone:     "602-555-" + uuid.NewString()[:4],
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedCarrier(t *testing.T, db *gorm.DB) *models.GeneralInsurance {
	t.Helper()

	carrier := &models.GeneralInsurance{
		ID:   uuid.New(),
		Name: "Carrier " + uuid.NewString()[:8],
	}
	require.NoError(t, db.Create(carrier).Error)
	return carrier
}

func baseInput(customerID uuid.UUID) CreateInput {
	return CreateInput{
		Customer: CustomerInput{ID: customerID},
		Address: &AddressInput{
			Street:     "412 W Camelback Rd",
			City:       "Phoenix",
			State:      "AZ",
			PostalCode: "85013",
		},
		Vehicle: VehicleInput{
			Year:       2021,
			Make:       "Toyota",
			Model:      "Camry",
			VIN:        "VIN-" + uuid.NewString(),
			PartNumber: "FW03383",
		},
		Appointment: AppointmentInput{
			InstallationDate: testNow.AddDate(0, 0, 1),
			InstallationTime: "8-12",
			ReplacementType:  "out_of_pocket",
			TechName:         "Luis",
			ServiceAdvisor:   "Dana",
		},
		Sale: &SaleInput{
			PriceCash:   decimal.NewFromFloat(450.00),
			Salesperson: "Jane",
		},
		GlassTypes: GlassTypesInput{Windshield: true},
	}
}

func insuranceInput(customerID, carrierID uuid.UUID) CreateInput {
	in := baseInput(customerID)
	in.Sale = nil
	in.Appointment.ReplacementType = "insurance"
	deductible := decimal.NewFromInt(100)
	in.Insurance = &InsuranceInput{
		GeneralInsuranceID: carrierID,
		PolicyNumber:       "POL-88412",
		DateOfLoss:         testNow.AddDate(0, 0, -10),
		GlassDeductible:    &deductible,
	}
	cash := decimal.NewFromInt(50)
	in.Rebate = &RebateInput{Cash: &cash}
	return in
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func TestCreateCompleteInsurancePath(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)
	carrier := seedCarrier(t, db)

	detail, err := svc.CreateComplete(context.Background(), insuranceInput(customer.ID, carrier.ID), "tester")
	require.NoError(t, err)

	assert.Equal(t, enums.ReplacementTypeInsurance, detail.ReplacementType)
	require.NotNil(t, detail.Insurance)
	assert.Equal(t, "POL-88412", detail.Insurance.PolicyNumber)
	assert.True(t, detail.Insurance.GlassDeductible.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, detail.Rebate)
	require.NotNil(t, detail.Rebate.Cash)
	assert.True(t, detail.Rebate.Cash.Equal(decimal.NewFromInt(50)))
	assert.Nil(t, detail.SaleID)

	assert.EqualValues(t, 1, countRows(t, db, &models.InsuranceAppointment{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Sale{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.AppointmentAudit{}))
}

func TestCreateCompleteCashPath(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)

	detail, err := svc.CreateComplete(context.Background(), baseInput(customer.ID), "tester")
	require.NoError(t, err)

	assert.Equal(t, enums.ReplacementTypeOutOfPocket, detail.ReplacementType)
	require.NotNil(t, detail.Sale)
	assert.True(t, detail.Sale.PriceCash.Equal(decimal.NewFromFloat(450.00)))
	assert.Equal(t, "Jane", detail.Sale.Salesperson)
	assert.Nil(t, detail.InsuranceAppointmentID)

	assert.EqualValues(t, 1, countRows(t, db, &models.Sale{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.InsuranceAppointment{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Rebate{}))
}

func TestCreateCompleteRejectsSaleOnInsurancePath(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)
	carrier := seedCarrier(t, db)

	in := insuranceInput(customer.ID, carrier.ID)
	in.Sale = &SaleInput{PriceCash: decimal.NewFromInt(200), Salesperson: "Jane"}

	_, err := svc.CreateComplete(context.Background(), in, "tester")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Sale information should not be provided when using insurance", typed.Message())
	assert.EqualValues(t, 0, countRows(t, db, &models.Appointment{}))
}

func TestCreateCompleteRejectsInvalidSlot(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)

	in := baseInput(customer.ID)
	in.Appointment.InstallationTime = "noon"

	_, err := svc.CreateComplete(context.Background(), in, "tester")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "Invalid installation time slot", typed.Message())
	assert.EqualValues(t, 0, countRows(t, db, &models.Appointment{}))
}

func TestCreateCompleteRejectsBeforeAnyWrite(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)
	carrier := seedCarrier(t, db)

	cases := map[string]func(in *CreateInput){
		"no glass types": func(in *CreateInput) {
			in.GlassTypes = GlassTypesInput{}
		},
		"past installation date": func(in *CreateInput) {
			in.Appointment.InstallationDate = testNow.AddDate(0, 0, -1)
		},
		"missing sale block": func(in *CreateInput) {
			in.Sale = nil
		},
		"missing part number": func(in *CreateInput) {
			in.Vehicle.PartNumber = ""
		},
		"missing glass deductible": func(in *CreateInput) {
			*in = insuranceInput(customer.ID, carrier.ID)
			in.Insurance.GlassDeductible = nil
		},
		"negative glass deductible": func(in *CreateInput) {
			*in = insuranceInput(customer.ID, carrier.ID)
			negative := decimal.NewFromInt(-25)
			in.Insurance.GlassDeductible = &negative
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := baseInput(customer.ID)
			mutate(&in)

			_, err := svc.CreateComplete(context.Background(), in, "tester")
			require.Error(t, err)

			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

			assert.EqualValues(t, 0, countRows(t, db, &models.Appointment{}))
			assert.EqualValues(t, 0, countRows(t, db, &models.Vehicle{}))
			assert.EqualValues(t, 0, countRows(t, db, &models.Address{}))
		})
	}
}

func TestCreateCompleteRollsBackOnLateFailure(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)

	// The audit insert is the last write of the transaction. Dropping the
	// table makes it fail after every earlier step has succeeded.
	require.NoError(t, db.Exec("DROP TABLE appointment_audit").Error)

	in := baseInput(customer.ID)
	first := "Updated"
	in.Customer.FirstName = &first

	_, err := svc.CreateComplete(context.Background(), in, "tester")
	require.Error(t, err)

	assert.EqualValues(t, 0, countRows(t, db, &models.Appointment{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.AppointmentJob{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Sale{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Vehicle{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Address{}))

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", customer.ID).Error)
	assert.Equal(t, "Maria", reloaded.FirstName)
	assert.Nil(t, reloaded.AddressID)
}

func TestCreateCompleteDoubleSubmitCreatesTwo(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)

	vehicle := &models.Vehicle{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		Year:       2019,
		Make:       "Honda",
		Model:      "Civic",
		VIN:        "VIN-" + uuid.NewString(),
		PartNumber: "FW02000",
	}
	require.NoError(t, db.Create(vehicle).Error)

	in := baseInput(customer.ID)
	in.Vehicle.ID = &vehicle.ID
	in.Vehicle.UpdateExisting = true
	in.Vehicle.VIN = vehicle.VIN

	first, err := svc.CreateComplete(context.Background(), in, "tester")
	require.NoError(t, err)
	second, err := svc.CreateComplete(context.Background(), in, "tester")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.EqualValues(t, 2, countRows(t, db, &models.Appointment{}))
}

func TestCreateCompleteAlternateAddressWins(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)

	in := baseInput(customer.ID)
	in.Appointment.LocationType = "work"
	in.AlternateAddress = &AddressInput{
		Street:     "100 N Office Park",
		City:       "Tempe",
		State:      "AZ",
		PostalCode: "85281",
	}

	detail, err := svc.CreateComplete(context.Background(), in, "tester")
	require.NoError(t, err)

	require.NotNil(t, detail.Address)
	assert.Equal(t, "100 N Office Park", detail.Address.Street)
	assert.Equal(t, enums.LocationTypeWork, detail.LocationType)

	// The home address still landed on the customer record.
	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", customer.ID).Error)
	require.NotNil(t, reloaded.AddressID)
	assert.NotEqual(t, detail.AddressID, *reloaded.AddressID)
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)

	created, err := svc.CreateComplete(context.Background(), baseInput(customer.ID), "tester")
	require.NoError(t, err)

	completed := "completed"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Status: &completed}, "tester")
	require.NoError(t, err)
	assert.Equal(t, enums.AppointmentStatusCompleted, updated.Status)

	scheduled := "scheduled"
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{Status: &scheduled}, "tester")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateRevalidatesSchedule(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)

	created, err := svc.CreateComplete(context.Background(), baseInput(customer.ID), "tester")
	require.NoError(t, err)

	past := testNow.AddDate(0, 0, -3)
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{InstallationDate: &past}, "tester")
	require.Error(t, err)

	badSlot := "noon"
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{InstallationTime: &badSlot}, "tester")
	require.Error(t, err)

	goodSlot := "2-4"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{InstallationTime: &goodSlot}, "tester")
	require.NoError(t, err)
	assert.Equal(t, enums.InstallationTime2To4, updated.InstallationTime)
}

func TestDeleteCascadesChildren(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)
	customer := seedCustomer(t, db)
	carrier := seedCarrier(t, db)

	in := insuranceInput(customer.ID, carrier.ID)
	in.Extras = &ExtrasInput{RainSensor: true, Tint: true}

	created, err := svc.CreateComplete(context.Background(), in, "tester")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	assert.EqualValues(t, 0, countRows(t, db, &models.Appointment{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.AppointmentJob{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.JobExtras{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Rebate{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.InsuranceAppointment{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.AppointmentAudit{}))

	// The customer, their address, and the vehicle survive the delete.
	assert.EqualValues(t, 1, countRows(t, db, &models.Customer{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.Address{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.Vehicle{}))
}

func TestDeleteMissingAppointment(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	svc := newTestService(t, db)

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
