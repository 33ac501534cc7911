// Package service validates tracker input before it reaches storage. The
// HTTP API, the terminal dashboard and the CLI all go through Tracker.
package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/emilianohg/jobtracker/internal/apperr"
	"github.com/emilianohg/jobtracker/internal/models"
	"github.com/emilianohg/jobtracker/internal/repository"
)

type Tracker struct {
	companies    *repository.CompanyRepo
	contacts     *repository.ContactRepo
	applications *repository.ApplicationRepo
	stats        *repository.StatsRepo
	db           *sql.DB
}

func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{
		companies:    repository.NewCompanyRepo(db),
		contacts:     repository.NewContactRepo(db),
		applications: repository.NewApplicationRepo(db),
		stats:        repository.NewStatsRepo(db),
		db:           db,
	}
}

// Ping reports whether the store is reachable.
func (t *Tracker) Ping(ctx context.Context) error {
	if err := t.db.PingContext(ctx); err != nil {
		return apperr.Wrap(apperr.KindStorageUnavailable, "ping database", err)
	}
	return nil
}

// CreateCompanyRequest is the payload for a new company.
type CreateCompanyRequest struct {
	Name     string  `json:"name" validate:"required"`
	Website  *string `json:"website"`
	Industry *string `json:"industry"`
}

func (t *Tracker) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return t.companies.GetAll(ctx)
}

func (t *Tracker) ListCompaniesWithStats(ctx context.Context) ([]repository.CompanyWithStats, error) {
	return t.companies.GetAllWithStats(ctx)
}

func (t *Tracker) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*models.Company, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := check(req); err != nil {
		return nil, err
	}
	return t.companies.Create(ctx, req.Name, trimOptional(req.Website), trimOptional(req.Industry))
}

func (t *Tracker) DeleteCompany(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("company id must be positive")
	}
	return t.companies.Delete(ctx, id)
}

// CreateContactRequest is the payload for a new contact.
type CreateContactRequest struct {
	CompanyID *int64  `json:"company_id" validate:"omitempty,gt=0"`
	Name      string  `json:"name" validate:"required"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Position  *string `json:"position"`
	LinkedIn  *string `json:"linkedin"`
}

func (t *Tracker) ListContacts(ctx context.Context, companyID *int64) ([]models.Contact, error) {
	if companyID != nil && *companyID <= 0 {
		return nil, invalid("company_id must be positive")
	}
	return t.contacts.List(ctx, companyID)
}

func (t *Tracker) CreateContact(ctx context.Context, req CreateContactRequest) (*models.Contact, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := check(req); err != nil {
		return nil, err
	}
	return t.contacts.Create(ctx, repository.ContactInput{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Email:     trimOptional(req.Email),
		Phone:     trimOptional(req.Phone),
		Position:  trimOptional(req.Position),
		LinkedIn:  trimOptional(req.LinkedIn),
	})
}

// ApplicationRequest is the payload for creating or replacing an
// application.
type ApplicationRequest struct {
	CompanyID   int64   `json:"company_id" validate:"required,gt=0"`
	Role        string  `json:"role" validate:"required"`
	Status      string  `json:"status" validate:"omitempty,oneof=applied interview offer rejected accepted withdrawn"`
	AppliedDate string  `json:"applied_date" validate:"required,datetime=2006-01-02"`
	Notes       *string `json:"notes"`
	SalaryRange *string `json:"salary_range"`
	Location    *string `json:"location"`
	JobURL      *string `json:"job_url"`
	ContactIDs  []int64 `json:"contact_ids" validate:"dive,gt=0"`
}

// ListApplicationsRequest carries raw query filters; empty strings mean
// no constraint.
type ListApplicationsRequest struct {
	Status    string `form:"status" validate:"omitempty,oneof=applied interview offer rejected accepted withdrawn"`
	CompanyID *int64 `form:"company_id" validate:"omitempty,gt=0"`
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (t *Tracker) ListApplications(ctx context.Context, req ListApplicationsRequest) ([]models.Application, error) {
	filter, err := req.filter()
	if err != nil {
		return nil, err
	}
	return t.applications.List(ctx, filter)
}

func (t *Tracker) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	if id <= 0 {
		return nil, invalid("application id must be positive")
	}
	return t.applications.GetByID(ctx, id)
}

func (t *Tracker) CreateApplication(ctx context.Context, req ApplicationRequest) (*models.Application, error) {
	in, err := req.input()
	if err != nil {
		return nil, err
	}
	return t.applications.Create(ctx, in)
}

func (t *Tracker) UpdateApplication(ctx context.Context, id int64, req ApplicationRequest) (*models.Application, error) {
	if id <= 0 {
		return nil, invalid("application id must be positive")
	}
	in, err := req.input()
	if err != nil {
		return nil, err
	}
	return t.applications.Update(ctx, id, in)
}

// AdvanceApplicationStatus moves an application from its stored status to
// the next one in pipeline order and returns the new status.
func (t *Tracker) AdvanceApplicationStatus(ctx context.Context, id int64) (models.Status, error) {
	if id <= 0 {
		return "", invalid("application id must be positive")
	}
	return t.applications.AdvanceStatus(ctx, id)
}

func (t *Tracker) DeleteApplication(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("application id must be positive")
	}
	return t.applications.Delete(ctx, id)
}

func (t *Tracker) Overview(ctx context.Context) (*models.Overview, error) {
	return t.stats.Overview(ctx)
}

func (r ApplicationRequest) input() (models.ApplicationInput, error) {
	r.Role = strings.TrimSpace(r.Role)
	r.Status = normalizeStatus(r.Status)
	if r.Status == "" {
		r.Status = string(models.StatusApplied)
	}
	r.AppliedDate = strings.TrimSpace(r.AppliedDate)
	if err := check(r); err != nil {
		return models.ApplicationInput{}, err
	}

	return models.ApplicationInput{
		CompanyID:   r.CompanyID,
		Role:        r.Role,
		Status:      models.Status(r.Status),
		AppliedDate: r.AppliedDate,
		Notes:       trimOptional(r.Notes),
		SalaryRange: trimOptional(r.SalaryRange),
		Location:    trimOptional(r.Location),
		JobURL:      trimOptional(r.JobURL),
		ContactIDs:  uniqueIDs(r.ContactIDs),
	}, nil
}

func (r ListApplicationsRequest) filter() (models.ApplicationFilter, error) {
	var filter models.ApplicationFilter

	r.Status = normalizeStatus(r.Status)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	if err := check(r); err != nil {
		return filter, err
	}
	// Both dates are zero-padded YYYY-MM-DD, so string order is date order.
	if r.StartDate != "" && r.EndDate != "" && r.StartDate > r.EndDate {
		return filter, invalid("start_date must not be after end_date")
	}

	if r.Status != "" {
		status := models.Status(r.Status)
		filter.Status = &status
	}
	filter.CompanyID = r.CompanyID
	if r.StartDate != "" {
		filter.StartDate = &r.StartDate
	}
	if r.EndDate != "" {
		filter.EndDate = &r.EndDate
	}

	return filter, nil
}

// normalizeStatus makes status input case and whitespace insensitive.
func normalizeStatus(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func invalid(message string) error {
	return apperr.New(apperr.KindValidation, message)
}
