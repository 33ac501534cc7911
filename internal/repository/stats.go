package repository

import (
	"context"
	"database/sql"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/emilianohg/jobtracker/internal/models"
)

const (
	weeksInOverview        = 12
	topCompaniesInOverview = 10
)

type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Overview computes the five dashboard aggregates concurrently. If any
// query fails the whole report fails.
func (r *StatsRepo) Overview(ctx context.Context) (*models.Overview, error) {
	var overview models.Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := r.Total(ctx)
		overview.Total = total
		return err
	})
	g.Go(func() error {
		byStatus, err := r.ByStatus(ctx)
		overview.ByStatus = byStatus
		return err
	})
	g.Go(func() error {
		rate, err := r.ConversionRate(ctx)
		overview.ConversionRate = rate
		return err
	})
	g.Go(func() error {
		weeks, err := r.ApplicationsPerWeek(ctx)
		overview.ApplicationsPerWeek = weeks
		return err
	})
	g.Go(func() error {
		top, err := r.TopCompanies(ctx)
		overview.TopCompanies = top
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (r *StatsRepo) Total(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM applications").Scan(&total)
	return total, classify("count applications", err)
}

func (r *StatsRepo) ByStatus(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) AS count
		FROM applications
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		return nil, classify("count applications by status", err)
	}
	defer rows.Close()

	counts := []models.StatusCount{}
	for rows.Next() {
		var sc models.StatusCount
		var status string
		if err := rows.Scan(&status, &sc.Count); err != nil {
			return nil, classify("count applications by status", err)
		}
		sc.Status = models.Status(status)
		counts = append(counts, sc)
	}
	return counts, classify("count applications by status", rows.Err())
}

// ConversionRate is the percentage of applications whose status counts as
// converted, rounded to two decimals. An empty table yields 0.
func (r *StatsRepo) ConversionRate(ctx context.Context) (float64, error) {
	var converted []any
	for _, s := range models.Statuses {
		if s.Converted() {
			converted = append(converted, string(s))
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(converted)), ", ")

	var rate float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(
			ROUND(
				CAST(SUM(CASE WHEN status IN (`+placeholders+`) THEN 1 ELSE 0 END) AS REAL)
					* 100.0 / NULLIF(COUNT(*), 0),
				2
			),
			0.0
		)
		FROM applications
	`, converted...).Scan(&rate)
	return rate, classify("compute conversion rate", err)
}

// ApplicationsPerWeek buckets applied_date by year and week of year
// (weeks start on Monday) and returns the most recent buckets first.
func (r *StatsRepo) ApplicationsPerWeek(ctx context.Context) ([]models.WeekCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT strftime('%Y-W%W', applied_date) AS week, COUNT(*) AS count
		FROM applications
		GROUP BY week
		ORDER BY week DESC
		LIMIT ?
	`, weeksInOverview)
	if err != nil {
		return nil, classify("count applications per week", err)
	}
	defer rows.Close()

	weeks := []models.WeekCount{}
	for rows.Next() {
		var wc models.WeekCount
		var week sql.NullString
		if err := rows.Scan(&week, &wc.Count); err != nil {
			return nil, classify("count applications per week", err)
		}
		wc.Week = week.String
		weeks = append(weeks, wc)
	}
	return weeks, classify("count applications per week", rows.Err())
}

// TopCompanies ranks companies with at least one application by count,
// breaking ties by name.
func (r *StatsRepo) TopCompanies(ctx context.Context) ([]models.CompanyCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, COUNT(a.id) AS application_count
		FROM companies c
		JOIN applications a ON c.id = a.company_id
		GROUP BY c.id, c.name
		ORDER BY application_count DESC, c.name ASC
		LIMIT ?
	`, topCompaniesInOverview)
	if err != nil {
		return nil, classify("rank companies", err)
	}
	defer rows.Close()

	companies := []models.CompanyCount{}
	for rows.Next() {
		var cc models.CompanyCount
		if err := rows.Scan(&cc.Name, &cc.ApplicationCount); err != nil {
			return nil, classify("rank companies", err)
		}
		companies = append(companies, cc)
	}
	return companies, classify("rank companies", rows.Err())
}
