package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmarquez/autoglass-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration validation failed: %v", err)
	}
}

func TestAuditMigrationCascades(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_appointment_audit.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no appointment audit migration found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE appointment_audit",
		"REFERENCES appointments (id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS appointment_audit",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInitialSchemaCoversAggregates(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_initial_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no initial schema migration found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	tables := []string{
		"CREATE TABLE users",
		"CREATE TABLE addresses",
		"CREATE TABLE general_insurance",
		"CREATE TABLE customers",
		"CREATE TABLE customer_insurance",
		"CREATE TABLE vehicles",
		"CREATE TABLE insurance_appointments",
		"CREATE TABLE rebates",
		"CREATE TABLE sales",
		"CREATE TABLE appointments",
		"CREATE TABLE appointment_jobs",
		"CREATE TABLE job_extras",
	}
	for _, table := range tables {
		if !strings.Contains(content, table) {
			t.Errorf("missing %q", table)
		}
	}
}
