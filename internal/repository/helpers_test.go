package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/emilianohg/jobtracker/internal/db"
	"github.com/emilianohg/jobtracker/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "tracker.sqlite"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func strPtr(s string) *string { return &s }

func mustCreateCompany(t *testing.T, database *sql.DB, name string) *models.Company {
	t.Helper()

	company, err := NewCompanyRepo(database).Create(context.Background(), name, nil, nil)
	if err != nil {
		t.Fatalf("create company %s: %v", name, err)
	}
	return company
}

func mustCreateContact(t *testing.T, database *sql.DB, companyID *int64, name string) *models.Contact {
	t.Helper()

	contact, err := NewContactRepo(database).Create(context.Background(), ContactInput{
		CompanyID: companyID,
		Name:      name,
	})
	if err != nil {
		t.Fatalf("create contact %s: %v", name, err)
	}
	return contact
}

func mustCreateApplication(t *testing.T, database *sql.DB, in models.ApplicationInput) *models.Application {
	t.Helper()

	app, err := NewApplicationRepo(database).Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create application %s: %v", in.Role, err)
	}
	return app
}

func countRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
