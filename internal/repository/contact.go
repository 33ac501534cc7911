package repository

import (
	"context"
	"database/sql"

	"github.com/emilianohg/jobtracker/internal/apperr"
	"github.com/emilianohg/jobtracker/internal/models"
)

type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// ContactInput holds the fields of a new contact.
type ContactInput struct {
	CompanyID *int64
	Name      string
	Email     *string
	Phone     *string
	Position  *string
	LinkedIn  *string
}

func (r *ContactRepo) Create(ctx context.Context, in ContactInput) (*models.Contact, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (company_id, name, email, phone, position, linkedin)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.CompanyID, in.Name, in.Email, in.Phone, in.Position, in.LinkedIn)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.Wrap(apperr.KindConstraintViolation, "contact references an unknown company", err)
		}
		return nil, classify("create contact", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, classify("create contact", err)
	}

	return r.GetByID(ctx, id)
}

const contactColumns = `
	SELECT c.id, c.company_id, c.name, c.email, c.phone, c.position, c.linkedin,
	       c.created_at, co.name
	FROM contacts c
	LEFT JOIN companies co ON c.company_id = co.id
`

func (r *ContactRepo) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	row := r.db.QueryRowContext(ctx, contactColumns+" WHERE c.id = ?", id)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, notFound("contact", id)
	}
	if err != nil {
		return nil, classify("get contact", err)
	}
	return c, nil
}

// List returns contacts ordered by name, restricted to one company when
// companyID is set.
func (r *ContactRepo) List(ctx context.Context, companyID *int64) ([]models.Contact, error) {
	query := contactColumns
	var args []any
	if companyID != nil {
		query += " WHERE c.company_id = ?"
		args = append(args, *companyID)
	}
	query += " ORDER BY c.name, c.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list contacts", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, classify("list contacts", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, classify("list contacts", rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var c models.Contact
	var companyID sql.NullInt64

	if err := row.Scan(
		&c.ID, &companyID, &c.Name, &c.Email, &c.Phone, &c.Position, &c.LinkedIn,
		timeColumn{&c.CreatedAt}, &c.CompanyName,
	); err != nil {
		return nil, err
	}

	if companyID.Valid {
		c.CompanyID = &companyID.Int64
	}
	return &c, nil
}
