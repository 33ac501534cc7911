package models

import "time"

// DateLayout is the on-disk and wire format of applied_date.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
	StatusAccepted  Status = "accepted"
	StatusWithdrawn Status = "withdrawn"
)

// Statuses lists every valid status in pipeline order.
var Statuses = []Status{
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusRejected,
	StatusAccepted,
	StatusWithdrawn,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Converted reports whether the status counts towards the conversion rate.
func (s Status) Converted() bool {
	return s == StatusInterview || s == StatusOffer || s == StatusAccepted
}

// Next returns the status following s, wrapping around at the end.
func (s Status) Next() Status {
	for i, v := range Statuses {
		if v == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusApplied
}

type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Website   *string   `json:"website"`
	Industry  *string   `json:"industry"`
	CreatedAt time.Time `json:"created_at"`
}

type Contact struct {
	ID        int64     `json:"id"`
	CompanyID *int64    `json:"company_id"` // nullable for orphans
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Position  *string   `json:"position"`
	LinkedIn  *string   `json:"linkedin"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields
	CompanyName *string `json:"company_name"`
}

type Application struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Role        string    `json:"role"`
	Status      Status    `json:"status"`
	AppliedDate string    `json:"applied_date"`
	Notes       *string   `json:"notes"`
	SalaryRange *string   `json:"salary_range"`
	Location    *string   `json:"location"`
	JobURL      *string   `json:"job_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined fields
	CompanyName     string  `json:"company_name"`
	CompanyWebsite  *string `json:"company_website"`
	CompanyIndustry *string `json:"company_industry"`
	ContactNames    *string `json:"contact_names"`
	ContactIDs      []int64 `json:"contact_ids,omitempty"`
}

// ApplicationInput carries every mutable field of an application together
// with the full set of contacts it should be linked to.
type ApplicationInput struct {
	CompanyID   int64
	Role        string
	Status      Status
	AppliedDate string
	Notes       *string
	SalaryRange *string
	Location    *string
	JobURL      *string
	ContactIDs  []int64
}

// ApplicationFilter narrows ListApplications. Nil fields impose no constraint.
type ApplicationFilter struct {
	Status    *Status
	CompanyID *int64
	StartDate *string
	EndDate   *string
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

type WeekCount struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

type CompanyCount struct {
	Name             string `json:"name"`
	ApplicationCount int    `json:"application_count"`
}

type Overview struct {
	Total               int            `json:"total"`
	ByStatus            []StatusCount  `json:"byStatus"`
	ConversionRate      float64        `json:"conversionRate"`
	ApplicationsPerWeek []WeekCount    `json:"applicationsPerWeek"`
	TopCompanies        []CompanyCount `json:"topCompanies"`
}
