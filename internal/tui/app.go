package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/jobtracker/internal/service"
	"github.com/emilianohg/jobtracker/internal/tui/screens"
)

type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenCompanies
	ScreenApplications
)

type App struct {
	tracker       *service.Tracker
	currentScreen Screen
	width         int
	height        int

	// Screen models
	dashboard    *screens.Dashboard
	companies    *screens.Companies
	applications *screens.Applications
}

func NewApp(tracker *service.Tracker) *App {
	return &App{
		tracker:       tracker,
		currentScreen: ScreenDashboard,
		dashboard:     screens.NewDashboard(tracker),
		companies:     screens.NewCompanies(tracker),
		applications:  screens.NewApplications(tracker),
	}
}

func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.currentScreen == ScreenDashboard {
				return a, tea.Quit
			}
			// Let individual screens handle 'q' for going back
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.companies.SetSize(msg.Width, msg.Height)
		a.applications.SetSize(msg.Width, msg.Height)

	case screens.NavigateMsg:
		return a.handleNavigation(msg)
	}

	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenDashboard:
		cmd = a.dashboard.Update(msg)
	case ScreenCompanies:
		cmd = a.companies.Update(msg)
	case ScreenApplications:
		cmd = a.applications.Update(msg)
	}

	return a, cmd
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	switch msg.Screen {
	case "dashboard":
		a.currentScreen = ScreenDashboard
		return a, a.dashboard.Init()
	case "companies":
		a.currentScreen = ScreenCompanies
		return a, a.companies.Init()
	case "applications":
		a.currentScreen = ScreenApplications
		a.applications.SetCompanyFilter(msg.CompanyID)
		return a, a.applications.Init()
	}
	return a, nil
}

func (a *App) View() string {
	var content string

	switch a.currentScreen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenCompanies:
		content = a.companies.View()
	case ScreenApplications:
		content = a.applications.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(content)
}

func Run(tracker *service.Tracker) error {
	app := NewApp(tracker)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
