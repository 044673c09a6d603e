package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres SQLSTATE classes surfaced to clients as distinct categories.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgUndefinedColumn     = "42703"
)

// Classify translates a raw persistence error into the typed taxonomy the
// controllers surface. Unique violations name the offending constraint,
// foreign-key violations collapse into a generic "referenced data not found"
// so clients never learn table names, and anything unrecognized stays an
// internal error.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "record not found")
	}

	code, constraint, column := pgErrorFacts(err)
	switch code {
	case pgUniqueViolation:
		msg := "duplicate value"
		if field := fieldFromConstraint(constraint); field != "" {
			msg = field + " already exists"
		}
		return pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, msg).
			WithDetails(map[string]any{"constraint": constraint})
	case pgForeignKeyViolation:
		return pkgerrors.Wrap(pkgerrors.CodeReference, err, "referenced data not found")
	case pgNotNullViolation:
		msg := "missing required field"
		if column != "" {
			msg = column + " is required"
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg)
	case pgUndefinedColumn:
		return pkgerrors.Wrap(pkgerrors.CodeSchema, err, "unexpected field")
	}

	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "database error")
}

func pgErrorFacts(err error) (code, constraint, column string) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, pgxErr.ColumnName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, pqErr.Column
	}
	return "", "", ""
}

// fieldFromConstraint recovers the column from conventional constraint names
// such as vehicles_vin_key or uni_vehicles_vin.
func fieldFromConstraint(constraint string) string {
	c := strings.TrimSuffix(constraint, "_key")
	c = strings.TrimSuffix(c, "_idx")
	c = strings.TrimPrefix(c, "uni_")
	c = strings.TrimPrefix(c, "idx_")
	parts := strings.Split(c, "_")
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], "_")
}

// IsUniqueViolation reports whether err is a unique-constraint violation
// touching constraintName (or any unique violation when the name is empty).
// Postgres errors are matched by SQLSTATE; other drivers fall back to the
// unique-violation text in the message, which keeps the check meaningful on
// the sqlite driver the tests run against.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if code, constraint, _ := pgErrorFacts(err); code != "" {
		if code != pgUniqueViolation {
			return false
		}
		if constraintName == "" {
			return true
		}
		return strings.Contains(constraint, constraintName) || strings.Contains(err.Error(), constraintName)
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return constraintName == "" || strings.Contains(msg, constraintName)
}
