package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationNameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks that every SQL migration in dir has a well-formed
// timestamped filename, a unique version, and both goose direction markers.
// Run it in CI before anything touches a real database.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("no migrations directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir %q: %w", dir, err)
	}

	byVersion := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		parts := migrationNameRe.FindStringSubmatch(name)
		if parts == nil {
			return fmt.Errorf("migration %q does not match YYYYMMDDHHMMSS_name.sql", name)
		}
		if other, dup := byVersion[parts[1]]; dup {
			return fmt.Errorf("version %s used by both %q and %q", parts[1], other, name)
		}
		byVersion[parts[1]] = name

		if err := checkMarkers(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func checkMarkers(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %q: %w", path, err)
	}
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(string(data), marker) {
			return fmt.Errorf("migration %q missing %q marker", filepath.Base(path), marker)
		}
	}
	return nil
}
