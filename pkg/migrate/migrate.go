package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where the schema migrations for this service live.
const DefaultDir = "pkg/migrate/migrations"

const dialect = "postgres"

// Run executes a goose command (up, down, status) against the given database.
func Run(ctx context.Context, sqlDB *sql.DB, dir string, command string, args ...string) error {
	if sqlDB == nil {
		return fmt.Errorf("no database handle")
	}
	if dir == "" {
		return fmt.Errorf("no migrations directory")
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, sqlDB, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema to exactly targetVersion, running up-to
// or down-to depending on where the database currently sits.
func MigrateToVersion(ctx context.Context, sqlDB *sql.DB, dir string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("no target version")
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	want, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("version %q is not a YYYYMMDDHHMMSS timestamp: %w", targetVersion, err)
	}

	have, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("current db version: %w", err)
	}
	if have == want {
		return nil
	}

	if have < want {
		if err := goose.UpToContext(ctx, sqlDB, dir, want); err != nil {
			return fmt.Errorf("goose up-to %d: %w", want, err)
		}
		return nil
	}
	if err := goose.DownToContext(ctx, sqlDB, dir, want); err != nil {
		return fmt.Errorf("goose down-to %d: %w", want, err)
	}
	return nil
}
