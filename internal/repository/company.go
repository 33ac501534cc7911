package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emilianohg/jobtracker/internal/apperr"
	"github.com/emilianohg/jobtracker/internal/models"
)

type CompanyRepo struct {
	db *sql.DB
}

func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

func (r *CompanyRepo) Create(ctx context.Context, name string, website, industry *string) (*models.Company, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO companies (name, website, industry) VALUES (?, ?, ?)",
		name, website, industry,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Wrap(apperr.KindConstraintViolation, fmt.Sprintf("company %q already exists", name), err)
		}
		return nil, classify("create company", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, classify("create company", err)
	}

	return r.GetByID(ctx, id)
}

func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	var c models.Company
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, website, industry, created_at FROM companies WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Name, &c.Website, &c.Industry, timeColumn{&c.CreatedAt})

	if err == sql.ErrNoRows {
		return nil, notFound("company", id)
	}
	if err != nil {
		return nil, classify("get company", err)
	}
	return &c, nil
}

// GetAll returns every company ordered by name.
func (r *CompanyRepo) GetAll(ctx context.Context) ([]models.Company, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, website, industry, created_at FROM companies ORDER BY name, id",
	)
	if err != nil {
		return nil, classify("list companies", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, timeColumn{&c.CreatedAt}); err != nil {
			return nil, classify("list companies", err)
		}
		companies = append(companies, c)
	}
	return companies, classify("list companies", rows.Err())
}

// Delete removes a company. Its contacts, applications and their
// association rows go with it through ON DELETE CASCADE.
func (r *CompanyRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id)
	if err != nil {
		return classify("delete company", err)
	}
	return expectAffected(result, "company", id)
}

type CompanyWithStats struct {
	models.Company
	ApplicationCount int
	ContactCount     int
}

func (r *CompanyRepo) GetAllWithStats(ctx context.Context) ([]CompanyWithStats, error) {
	query := `
		SELECT
			c.id, c.name, c.website, c.industry, c.created_at,
			COUNT(DISTINCT a.id) as application_count,
			COUNT(DISTINCT ct.id) as contact_count
		FROM companies c
		LEFT JOIN applications a ON a.company_id = c.id
		LEFT JOIN contacts ct ON ct.company_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify("list companies with stats", err)
	}
	defer rows.Close()

	var companies []CompanyWithStats
	for rows.Next() {
		var c CompanyWithStats
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Website, &c.Industry, timeColumn{&c.CreatedAt},
			&c.ApplicationCount, &c.ContactCount,
		); err != nil {
			return nil, classify("list companies with stats", err)
		}
		companies = append(companies, c)
	}
	return companies, classify("list companies with stats", rows.Err())
}
