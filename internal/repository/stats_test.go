package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/emilianohg/jobtracker/internal/models"
)

func TestOverviewEmptyDatabase(t *testing.T) {
	t.Parallel()

	overview, err := NewStatsRepo(openTestDB(t)).Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Total != 0 {
		t.Fatalf("total = %d, want 0", overview.Total)
	}
	if overview.ConversionRate != 0 {
		t.Fatalf("conversion rate = %v, want 0", overview.ConversionRate)
	}
	if overview.ByStatus == nil || overview.ApplicationsPerWeek == nil || overview.TopCompanies == nil {
		t.Fatalf("overview = %+v, want empty slices rather than nil", overview)
	}
}

func TestOverviewTwoCompanyScenario(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	acme := mustCreateCompany(t, database, "Acme")
	globex := mustCreateCompany(t, database, "Globex")
	mustCreateApplication(t, database, models.ApplicationInput{
		CompanyID: acme.ID, Role: "Engineer", Status: models.StatusApplied, AppliedDate: "2024-01-08",
	})
	mustCreateApplication(t, database, models.ApplicationInput{
		CompanyID: globex.ID, Role: "PM", Status: models.StatusOffer, AppliedDate: "2024-01-16",
	})

	overview, err := NewStatsRepo(database).Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Total != 2 {
		t.Fatalf("total = %d, want 2", overview.Total)
	}

	wantByStatus := []models.StatusCount{
		{Status: models.StatusApplied, Count: 1},
		{Status: models.StatusOffer, Count: 1},
	}
	if len(overview.ByStatus) != len(wantByStatus) {
		t.Fatalf("by status = %+v", overview.ByStatus)
	}
	for i, want := range wantByStatus {
		if overview.ByStatus[i] != want {
			t.Fatalf("by status[%d] = %+v, want %+v", i, overview.ByStatus[i], want)
		}
	}

	if overview.ConversionRate != 50.0 {
		t.Fatalf("conversion rate = %v, want 50", overview.ConversionRate)
	}

	wantTop := []models.CompanyCount{
		{Name: "Acme", ApplicationCount: 1},
		{Name: "Globex", ApplicationCount: 1},
	}
	if len(overview.TopCompanies) != len(wantTop) {
		t.Fatalf("top companies = %+v", overview.TopCompanies)
	}
	for i, want := range wantTop {
		if overview.TopCompanies[i] != want {
			t.Fatalf("top companies[%d] = %+v, want %+v", i, overview.TopCompanies[i], want)
		}
	}

	wantWeeks := []models.WeekCount{
		{Week: "2024-W03", Count: 1},
		{Week: "2024-W02", Count: 1},
	}
	if len(overview.ApplicationsPerWeek) != len(wantWeeks) {
		t.Fatalf("weeks = %+v", overview.ApplicationsPerWeek)
	}
	for i, want := range wantWeeks {
		if overview.ApplicationsPerWeek[i] != want {
			t.Fatalf("weeks[%d] = %+v, want %+v", i, overview.ApplicationsPerWeek[i], want)
		}
	}
}

func TestConversionRateRoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	acme := mustCreateCompany(t, database, "Acme")
	for i, status := range []models.Status{models.StatusInterview, models.StatusRejected, models.StatusWithdrawn} {
		mustCreateApplication(t, database, models.ApplicationInput{
			CompanyID: acme.ID, Role: fmt.Sprintf("Role %d", i), Status: status, AppliedDate: "2024-01-08",
		})
	}

	rate, err := NewStatsRepo(database).ConversionRate(context.Background())
	if err != nil {
		t.Fatalf("conversion rate: %v", err)
	}
	if rate != 33.33 {
		t.Fatalf("rate = %v, want 33.33", rate)
	}
}

func TestTopCompaniesBreaksTiesByName(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	zeta := mustCreateCompany(t, database, "Zeta")
	alpha := mustCreateCompany(t, database, "Alpha")
	busy := mustCreateCompany(t, database, "Busy")
	mustCreateCompany(t, database, "Idle")

	for _, id := range []int64{zeta.ID, alpha.ID, busy.ID, busy.ID} {
		mustCreateApplication(t, database, models.ApplicationInput{
			CompanyID: id, Role: "Engineer", AppliedDate: "2024-01-08",
		})
	}

	top, err := NewStatsRepo(database).TopCompanies(context.Background())
	if err != nil {
		t.Fatalf("top companies: %v", err)
	}
	want := []string{"Busy", "Alpha", "Zeta"}
	if len(top) != len(want) {
		t.Fatalf("top = %+v, want %v (Idle excluded)", top, want)
	}
	for i, name := range want {
		if top[i].Name != name {
			t.Fatalf("top[%d] = %q, want %q", i, top[i].Name, name)
		}
	}
}

func TestApplicationsPerWeekKeepsTwelveNewestBuckets(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	acme := mustCreateCompany(t, database, "Acme")
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		mustCreateApplication(t, database, models.ApplicationInput{
			CompanyID:   acme.ID,
			Role:        fmt.Sprintf("Role %d", i),
			AppliedDate: start.AddDate(0, 0, 7*i).Format(models.DateLayout),
		})
	}

	weeks, err := NewStatsRepo(database).ApplicationsPerWeek(context.Background())
	if err != nil {
		t.Fatalf("applications per week: %v", err)
	}
	if len(weeks) != weeksInOverview {
		t.Fatalf("len = %d, want %d", len(weeks), weeksInOverview)
	}
	for i := 1; i < len(weeks); i++ {
		if weeks[i-1].Week <= weeks[i].Week {
			t.Fatalf("weeks not descending: %q then %q", weeks[i-1].Week, weeks[i].Week)
		}
	}
	if weeks[0].Week != "2024-W15" {
		t.Fatalf("newest week = %q, want 2024-W15", weeks[0].Week)
	}
}
