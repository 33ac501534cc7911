package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/emilianohg/jobtracker/internal/apperr"
	"github.com/emilianohg/jobtracker/internal/models"
)

type ApplicationRepo struct {
	db *sql.DB
}

func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

const applicationColumns = `
	SELECT
		a.id, a.company_id, a.role, a.status, a.applied_date,
		a.notes, a.salary_range, a.location, a.job_url,
		a.created_at, a.updated_at,
		c.name, c.website, c.industry,
		GROUP_CONCAT(ct.name) AS contact_names
	FROM applications a
	JOIN companies c ON a.company_id = c.id
	LEFT JOIN application_contacts ac ON a.id = ac.application_id
	LEFT JOIN contacts ct ON ac.contact_id = ct.id
`

// List returns applications joined with their company and linked contact
// names, newest applied_date first. Filters are ANDed; nil ones are
// ignored.
func (r *ApplicationRepo) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		where = append(where, "a.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.CompanyID != nil {
		where = append(where, "a.company_id = ?")
		args = append(args, *filter.CompanyID)
	}
	if filter.StartDate != nil {
		where = append(where, "a.applied_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		where = append(where, "a.applied_date <= ?")
		args = append(args, *filter.EndDate)
	}

	query := applicationColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY a.id ORDER BY a.applied_date DESC, a.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list applications", err)
	}
	defer rows.Close()

	applications := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, classify("list applications", err)
		}
		applications = append(applications, *a)
	}
	return applications, classify("list applications", rows.Err())
}

// GetByID returns one application with its joined fields and the ids of
// its linked contacts.
func (r *ApplicationRepo) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	row := r.db.QueryRowContext(ctx, applicationColumns+" WHERE a.id = ? GROUP BY a.id", id)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, notFound("application", id)
	}
	if err != nil {
		return nil, classify("get application", err)
	}

	a.ContactIDs, err = r.ContactIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ContactIDs returns the ids of contacts linked to an application.
func (r *ApplicationRepo) ContactIDs(ctx context.Context, applicationID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT contact_id FROM application_contacts WHERE application_id = ? ORDER BY contact_id",
		applicationID,
	)
	if err != nil {
		return nil, classify("list application contacts", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, classify("list application contacts", err)
		}
		ids = append(ids, id)
	}
	return ids, classify("list application contacts", rows.Err())
}

// Create inserts the application and links its contacts in one
// transaction; either both land or neither does.
func (r *ApplicationRepo) Create(ctx context.Context, in models.ApplicationInput) (*models.Application, error) {
	if in.Status == "" {
		in.Status = models.StatusApplied
	}

	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO applications (company_id, role, status, applied_date, notes, salary_range, location, job_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, in.CompanyID, in.Role, in.Status, in.AppliedDate, in.Notes, in.SalaryRange, in.Location, in.JobURL)
		if err != nil {
			return applicationWriteError(err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return err
		}

		return linkContacts(ctx, tx, id, in.ContactIDs)
	})
	if err != nil {
		return nil, classify("create application", err)
	}

	return r.GetByID(ctx, id)
}

// Update overwrites every mutable field, bumps updated_at and replaces the
// contact set, all in one transaction.
func (r *ApplicationRepo) Update(ctx context.Context, id int64, in models.ApplicationInput) (*models.Application, error) {
	if in.Status == "" {
		in.Status = models.StatusApplied
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE applications
			SET company_id = ?, role = ?, status = ?, applied_date = ?, notes = ?,
			    salary_range = ?, location = ?, job_url = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, in.CompanyID, in.Role, in.Status, in.AppliedDate, in.Notes, in.SalaryRange, in.Location, in.JobURL, id)
		if err != nil {
			return applicationWriteError(err)
		}
		if err := expectAffected(result, "application", id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM application_contacts WHERE application_id = ?", id); err != nil {
			return err
		}
		return linkContacts(ctx, tx, id, in.ContactIDs)
	})
	if err != nil {
		return nil, classify("update application", err)
	}

	return r.GetByID(ctx, id)
}

// AdvanceStatus moves an application to the status after its stored one,
// reading and writing inside one transaction. Contacts are left untouched.
func (r *ApplicationRepo) AdvanceStatus(ctx context.Context, id int64) (models.Status, error) {
	var next models.Status
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, "SELECT status FROM applications WHERE id = ?", id).Scan(&current)
		if err == sql.ErrNoRows {
			return notFound("application", id)
		}
		if err != nil {
			return err
		}

		next = models.Status(current).Next()
		_, err = tx.ExecContext(ctx,
			"UPDATE applications SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			next, id,
		)
		return err
	})
	if err != nil {
		return "", classify("advance application status", err)
	}
	return next, nil
}

// Delete removes an application; its association rows cascade.
func (r *ApplicationRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM applications WHERE id = ?", id)
	if err != nil {
		return classify("delete application", err)
	}
	return expectAffected(result, "application", id)
}

func (r *ApplicationRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func linkContacts(ctx context.Context, tx *sql.Tx, applicationID int64, contactIDs []int64) error {
	if len(contactIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO application_contacts (application_id, contact_id) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, contactID := range contactIDs {
		if _, err := stmt.ExecContext(ctx, applicationID, contactID); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Wrap(apperr.KindConstraintViolation, fmt.Sprintf("contact %d does not exist", contactID), err)
			}
			if isUniqueViolation(err) {
				return apperr.Wrap(apperr.KindConstraintViolation, fmt.Sprintf("contact %d linked twice", contactID), err)
			}
			return err
		}
	}
	return nil
}

func applicationWriteError(err error) error {
	if isForeignKeyViolation(err) {
		return apperr.Wrap(apperr.KindConstraintViolation, "application references an unknown company", err)
	}
	return err
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	var status string

	if err := row.Scan(
		&a.ID, &a.CompanyID, &a.Role, &status, dateColumn{&a.AppliedDate},
		&a.Notes, &a.SalaryRange, &a.Location, &a.JobURL,
		timeColumn{&a.CreatedAt}, timeColumn{&a.UpdatedAt},
		&a.CompanyName, &a.CompanyWebsite, &a.CompanyIndustry,
		&a.ContactNames,
	); err != nil {
		return nil, err
	}

	a.Status = models.Status(status)
	return &a, nil
}
