package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/jobtracker/internal/models"
	"github.com/emilianohg/jobtracker/internal/service"
)

type applicationsMode int

const (
	applicationsModeList applicationsMode = iota
	applicationsModeAdd
	applicationsModeDelete
)

type Applications struct {
	tracker *service.Tracker
	width   int
	height  int

	applications  []models.Application
	companyFilter *int64
	statusFilter  *models.Status
	cursor        int
	mode          applicationsMode
	input         textinput.Model
	loading       bool
	err           error
	message       string

	// now is swapped in tests to pin the applied date of new entries.
	now func() time.Time
}

func NewApplications(tracker *service.Tracker) *Applications {
	ti := textinput.New()
	ti.Placeholder = "Role"
	ti.CharLimit = 120
	ti.Width = 40

	return &Applications{
		tracker: tracker,
		input:   ti,
		now:     time.Now,
	}
}

func (a *Applications) SetSize(width, height int) {
	a.width = width
	a.height = height
}

func (a *Applications) SetCompanyFilter(companyID *int64) {
	a.companyFilter = companyID
}

type applicationsDataMsg struct {
	applications []models.Application
	err          error
}

func (a *Applications) Init() tea.Cmd {
	a.loading = true
	a.mode = applicationsModeList
	a.message = ""
	return a.loadData
}

func (a *Applications) loadData() tea.Msg {
	req := service.ListApplicationsRequest{CompanyID: a.companyFilter}
	if a.statusFilter != nil {
		req.Status = string(*a.statusFilter)
	}
	applications, err := a.tracker.ListApplications(context.Background(), req)
	return applicationsDataMsg{applications: applications, err: err}
}

func (a *Applications) Update(msg tea.Msg) tea.Cmd {
	if a.mode == applicationsModeAdd {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				return a.submitInput()
			case "esc":
				a.mode = applicationsModeList
				a.input.Blur()
				return nil
			}
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case applicationsDataMsg:
		a.loading = false
		a.err = msg.err
		a.applications = msg.applications
		if a.cursor >= len(a.applications) {
			a.cursor = max(0, len(a.applications)-1)
		}
		return nil

	case RefreshMsg:
		return a.Init()

	case tea.KeyMsg:
		if a.mode == applicationsModeDelete {
			return a.handleDeleteKey(msg)
		}
		return a.handleListKey(msg)
	}

	return nil
}

func (a *Applications) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.applications)-1 {
			a.cursor++
		}
	case "f":
		a.statusFilter = nextStatusFilter(a.statusFilter)
		a.cursor = 0
		return a.loadData
	case "s":
		if len(a.applications) == 0 {
			return nil
		}
		app := a.applications[a.cursor]
		next, err := a.tracker.AdvanceApplicationStatus(context.Background(), app.ID)
		if err != nil {
			a.err = err
			return nil
		}
		a.message = fmt.Sprintf("%s at %s is now %s", app.Role, app.CompanyName, next)
		return a.loadData
	case "a":
		if a.companyFilter == nil {
			a.message = ""
			a.err = fmt.Errorf("pick a company first to add an application")
			return nil
		}
		a.mode = applicationsModeAdd
		a.err = nil
		a.message = ""
		a.input.SetValue("")
		return a.input.Focus()
	case "d":
		if len(a.applications) > 0 {
			a.mode = applicationsModeDelete
		}
	case "q", "esc":
		if a.companyFilter != nil {
			return Navigate("companies")
		}
		return Navigate("dashboard")
	}
	return nil
}

func (a *Applications) submitInput() tea.Cmd {
	role := strings.TrimSpace(a.input.Value())
	a.mode = applicationsModeList
	a.input.Blur()
	if role == "" {
		return nil
	}

	_, err := a.tracker.CreateApplication(context.Background(), service.ApplicationRequest{
		CompanyID:   *a.companyFilter,
		Role:        role,
		AppliedDate: a.now().Format(models.DateLayout),
	})
	if err != nil {
		a.err = err
		return nil
	}
	a.message = fmt.Sprintf("Added application: %s", role)
	return a.loadData
}

func (a *Applications) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		app := a.applications[a.cursor]
		a.mode = applicationsModeList
		if err := a.tracker.DeleteApplication(context.Background(), app.ID); err != nil {
			a.err = err
			return nil
		}
		a.message = fmt.Sprintf("Deleted application: %s at %s", app.Role, app.CompanyName)
		return a.loadData

	case "n", "N", "esc":
		a.mode = applicationsModeList
	}
	return nil
}

// nextStatusFilter walks all statuses, then back to no filter.
func nextStatusFilter(current *models.Status) *models.Status {
	if current == nil {
		s := models.Statuses[0]
		return &s
	}
	for i, s := range models.Statuses {
		if s == *current && i+1 < len(models.Statuses) {
			next := models.Statuses[i+1]
			return &next
		}
	}
	return nil
}

func (a *Applications) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("APPLICATIONS"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(a.filterLabel()))
	b.WriteString("\n\n")

	if a.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if a.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", a.err)))
		b.WriteString("\n\n")
	}

	if a.message != "" {
		b.WriteString(SuccessStyle.Render(a.message))
		b.WriteString("\n\n")
	}

	if a.mode == applicationsModeAdd {
		b.WriteString("Role applied for (dated today):\n")
		b.WriteString(a.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()
	}

	if a.mode == applicationsModeDelete && len(a.applications) > 0 {
		app := a.applications[a.cursor]
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete application '%s' at %s? (y/n)",
			app.Role,
			app.CompanyName,
		)))
		b.WriteString("\n")
		return b.String()
	}

	if len(a.applications) == 0 {
		b.WriteString(DimStyle.Render("No applications match."))
		b.WriteString("\n\n")
	} else {
		for i, app := range a.applications {
			cursor := "  "
			style := NormalStyle
			if i == a.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			line := fmt.Sprintf("%s%s  %s at %s", cursor, app.AppliedDate, app.Role, app.CompanyName)
			b.WriteString(style.Render(line))
			b.WriteString("  ")
			b.WriteString(StatusStyle(app.Status).Render(string(app.Status)))
			if app.ContactNames != nil {
				b.WriteString(DimStyle.Render("  (" + *app.ContactNames + ")"))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[a] Add  [s] Next status  [f] Filter status  [d] Delete  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (a *Applications) filterLabel() string {
	status := "all statuses"
	if a.statusFilter != nil {
		status = string(*a.statusFilter)
	}
	if a.companyFilter != nil && len(a.applications) > 0 {
		return fmt.Sprintf("%s, %s", a.applications[0].CompanyName, status)
	}
	return status
}
