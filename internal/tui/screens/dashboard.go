package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/jobtracker/internal/models"
	"github.com/emilianohg/jobtracker/internal/service"
)

const maxBarWidth = 30

type Dashboard struct {
	tracker *service.Tracker
	width   int
	height  int

	overview *models.Overview
	loading  bool
	err      error
}

func NewDashboard(tracker *service.Tracker) *Dashboard {
	return &Dashboard{
		tracker: tracker,
		loading: true,
	}
}

func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type dashboardDataMsg struct {
	overview *models.Overview
	err      error
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *Dashboard) loadData() tea.Msg {
	overview, err := d.tracker.Overview(context.Background())
	return dashboardDataMsg{overview: overview, err: err}
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loading = false
		d.err = msg.err
		d.overview = msg.overview
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			return Navigate("companies")
		case "a":
			return Navigate("applications")
		case "r":
			return d.Init()
		}
	}

	return nil
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("JOB TRACKER"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Application pipeline overview"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n")
		return b.String()
	}

	o := d.overview
	statsContent := fmt.Sprintf(
		"Total applications: %d\nConversion rate: %s",
		o.Total,
		d.formatRate(o.ConversionRate),
	)
	b.WriteString(BoxStyle.Render(statsContent))
	b.WriteString("\n\n")

	if o.Total == 0 {
		b.WriteString(DimStyle.Render("No applications yet. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(SubtitleStyle.Render("By status"))
		b.WriteString("\n")
		peak := 0
		for _, sc := range o.ByStatus {
			peak = max(peak, sc.Count)
		}
		for _, sc := range o.ByStatus {
			b.WriteString(fmt.Sprintf("  %-10s %s %d\n",
				string(sc.Status),
				StatusStyle(sc.Status).Render(bar(sc.Count, peak)),
				sc.Count,
			))
		}
		b.WriteString("\n")

		b.WriteString(SubtitleStyle.Render("Recent weeks"))
		b.WriteString("\n")
		for _, wc := range o.ApplicationsPerWeek {
			b.WriteString(fmt.Sprintf("  %s  %d\n", wc.Week, wc.Count))
		}
		b.WriteString("\n")

		b.WriteString(SubtitleStyle.Render("Top companies"))
		b.WriteString("\n")
		for _, cc := range o.TopCompanies {
			b.WriteString(fmt.Sprintf("  %s - %d applications\n", NormalStyle.Render(cc.Name), cc.ApplicationCount))
		}
	}

	help := "[a] Applications  [c] Companies  [r] Refresh  [q] Quit"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (d *Dashboard) formatRate(rate float64) string {
	s := fmt.Sprintf("%.2f%%", rate)
	if rate == 0 {
		return DimStyle.Render(s)
	}
	return SuccessStyle.Render(s)
}

// bar renders count as a run of blocks scaled against peak.
func bar(count, peak int) string {
	if peak <= 0 || count <= 0 {
		return ""
	}
	width := count * maxBarWidth / peak
	if width == 0 {
		width = 1
	}
	return strings.Repeat("█", width)
}
