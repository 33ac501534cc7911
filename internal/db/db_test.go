package db

import (
	"path/filepath"
	"testing"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenAndMigrateCreatesSchema(t *testing.T) {
	t.Parallel()

	database, err := OpenAndMigrate(filepath.Join(t.TempDir(), "nested", "tracker.sqlite"))
	if err != nil {
		t.Fatalf("open and migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	for _, table := range []string{"companies", "contacts", "applications", "application_contacts"} {
		var name string
		err := database.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
			table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	status, err := GetMigrationStatus(database)
	if err != nil {
		t.Fatalf("migration status: %v", err)
	}
	if status.Pending || status.Dirty {
		t.Fatalf("status = %+v, want clean and up to date", status)
	}
	if status.CurrentVersion != status.LatestVersion || status.LatestVersion == 0 {
		t.Fatalf("current = %d, latest = %d", status.CurrentVersion, status.LatestVersion)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracker.sqlite")
	database, err := OpenAndMigrate(path)
	if err != nil {
		t.Fatalf("open and migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := RunMigrations(database); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
}

func TestFreshDatabaseReportsPendingMigrations(t *testing.T) {
	t.Parallel()

	database, err := Open(filepath.Join(t.TempDir(), "tracker.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	status, err := GetMigrationStatus(database)
	if err != nil {
		t.Fatalf("migration status: %v", err)
	}
	if status.CurrentVersion != 0 || !status.Pending {
		t.Fatalf("status = %+v, want version 0 with pending migrations", status)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	t.Parallel()

	database, err := OpenAndMigrate(filepath.Join(t.TempDir(), "tracker.sqlite"))
	if err != nil {
		t.Fatalf("open and migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	_, err = database.Exec(
		"INSERT INTO applications (company_id, role, applied_date) VALUES (?, ?, ?)",
		999, "Engineer", "2024-01-15",
	)
	if err == nil {
		t.Fatal("expected foreign key violation for unknown company")
	}
}
