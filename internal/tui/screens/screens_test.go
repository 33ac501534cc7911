package screens

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/jobtracker/internal/db"
	"github.com/emilianohg/jobtracker/internal/models"
	"github.com/emilianohg/jobtracker/internal/service"
)

func newTestTracker(t *testing.T) *service.Tracker {
	t.Helper()

	database, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "tui.sqlite"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return service.NewTracker(database)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and feeds its message back into update.
func drain(t *testing.T, cmd tea.Cmd, update func(tea.Msg) tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a reload command, got nil")
	}
	update(cmd())
}

func TestCompaniesAddAndDelete(t *testing.T) {
	t.Parallel()

	c := NewCompanies(newTestTracker(t))
	drain(t, c.Init(), c.Update)
	if !strings.Contains(c.View(), "No companies yet.") {
		t.Fatalf("view = %q, want empty state", c.View())
	}

	c.Update(key("a"))
	c.Update(key("Acme"))
	drain(t, c.Update(key("enter")), c.Update)

	if len(c.companies) != 1 || c.companies[0].Name != "Acme" {
		t.Fatalf("companies = %+v, want Acme", c.companies)
	}
	if view := c.View(); !strings.Contains(view, "Acme (0 applications, 0 contacts)") {
		t.Fatalf("view = %q, want Acme listed with counts", view)
	}

	c.Update(key("d"))
	if !strings.Contains(c.View(), "Delete company 'Acme'?") {
		t.Fatalf("view = %q, want delete confirmation", c.View())
	}
	drain(t, c.Update(key("y")), c.Update)
	if len(c.companies) != 0 {
		t.Fatalf("companies = %+v, want none after delete", c.companies)
	}
}

func TestCompaniesDuplicateShowsError(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker(t)
	if _, err := tracker.CreateCompany(context.Background(), service.CreateCompanyRequest{Name: "Acme"}); err != nil {
		t.Fatalf("create company: %v", err)
	}

	c := NewCompanies(tracker)
	drain(t, c.Init(), c.Update)
	c.Update(key("a"))
	c.Update(key("Acme"))
	if cmd := c.Update(key("enter")); cmd != nil {
		t.Fatalf("duplicate create returned reload command")
	}
	if !strings.Contains(c.View(), "already exists") {
		t.Fatalf("view = %q, want duplicate error", c.View())
	}
}

func TestApplicationsAddCycleAndFilter(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker(t)
	company, err := tracker.CreateCompany(context.Background(), service.CreateCompanyRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create company: %v", err)
	}

	a := NewApplications(tracker)
	a.now = func() time.Time { return time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC) }
	a.SetCompanyFilter(&company.ID)
	drain(t, a.Init(), a.Update)

	a.Update(key("a"))
	a.Update(key("Engineer"))
	drain(t, a.Update(key("enter")), a.Update)

	if len(a.applications) != 1 {
		t.Fatalf("applications = %+v, want one", a.applications)
	}
	app := a.applications[0]
	if app.Role != "Engineer" || app.AppliedDate != "2024-01-08" || app.Status != models.StatusApplied {
		t.Fatalf("application = %+v", app)
	}

	drain(t, a.Update(key("s")), a.Update)
	if got := a.applications[0].Status; got != models.StatusInterview {
		t.Fatalf("status after advance = %q, want interview", got)
	}

	drain(t, a.Update(key("f")), a.Update)
	if *a.statusFilter != models.StatusApplied || len(a.applications) != 0 {
		t.Fatalf("filter %v gave %d applications, want applied and 0", *a.statusFilter, len(a.applications))
	}
	drain(t, a.Update(key("f")), a.Update)
	if *a.statusFilter != models.StatusInterview || len(a.applications) != 1 {
		t.Fatalf("filter %v gave %d applications, want interview and 1", *a.statusFilter, len(a.applications))
	}

	a.Update(key("d"))
	drain(t, a.Update(key("y")), a.Update)
	if len(a.applications) != 0 {
		t.Fatalf("applications = %+v, want none after delete", a.applications)
	}
}

func TestApplicationsAddNeedsCompany(t *testing.T) {
	t.Parallel()

	a := NewApplications(newTestTracker(t))
	drain(t, a.Init(), a.Update)

	a.Update(key("a"))
	if a.mode != applicationsModeList {
		t.Fatalf("mode = %v, want list without a company filter", a.mode)
	}
	if !strings.Contains(a.View(), "pick a company first") {
		t.Fatalf("view = %q, want hint", a.View())
	}
}

func TestNextStatusFilterWrapsToAll(t *testing.T) {
	t.Parallel()

	var filter *models.Status
	for _, want := range models.Statuses {
		filter = nextStatusFilter(filter)
		if filter == nil || *filter != want {
			t.Fatalf("filter = %v, want %q", filter, want)
		}
	}
	if filter = nextStatusFilter(filter); filter != nil {
		t.Fatalf("filter = %q, want nil after the last status", *filter)
	}
}

func TestDashboardView(t *testing.T) {
	t.Parallel()

	d := NewDashboard(nil)
	d.Update(dashboardDataMsg{overview: &models.Overview{
		Total: 2,
		ByStatus: []models.StatusCount{
			{Status: models.StatusApplied, Count: 1},
			{Status: models.StatusOffer, Count: 1},
		},
		ConversionRate:      50,
		ApplicationsPerWeek: []models.WeekCount{{Week: "2024-W03", Count: 1}, {Week: "2024-W02", Count: 1}},
		TopCompanies:        []models.CompanyCount{{Name: "Acme", ApplicationCount: 1}, {Name: "Globex", ApplicationCount: 1}},
	}})

	view := d.View()
	for _, want := range []string{"Total applications: 2", "50.00%", "2024-W03", "Globex - 1 applications"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBar(t *testing.T) {
	t.Parallel()

	cases := []struct {
		count, peak, want int
	}{
		{0, 10, 0},
		{10, 10, maxBarWidth},
		{5, 10, maxBarWidth / 2},
		{1, 1000, 1},
	}
	for _, tc := range cases {
		if got := len([]rune(bar(tc.count, tc.peak))); got != tc.want {
			t.Fatalf("bar(%d, %d) width = %d, want %d", tc.count, tc.peak, got, tc.want)
		}
	}
}
