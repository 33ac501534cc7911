package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/jobtracker/internal/repository"
	"github.com/emilianohg/jobtracker/internal/service"
)

type companiesMode int

const (
	companiesModeList companiesMode = iota
	companiesModeAdd
	companiesModeDelete
)

type Companies struct {
	tracker *service.Tracker
	width   int
	height  int

	companies []repository.CompanyWithStats
	cursor    int
	mode      companiesMode
	input     textinput.Model
	loading   bool
	err       error
	message   string
}

func NewCompanies(tracker *service.Tracker) *Companies {
	ti := textinput.New()
	ti.Placeholder = "Company name"
	ti.CharLimit = 100
	ti.Width = 40

	return &Companies{
		tracker: tracker,
		input:   ti,
	}
}

func (c *Companies) SetSize(width, height int) {
	c.width = width
	c.height = height
}

type companiesDataMsg struct {
	companies []repository.CompanyWithStats
	err       error
}

func (c *Companies) Init() tea.Cmd {
	c.loading = true
	c.mode = companiesModeList
	c.message = ""
	return c.loadData
}

func (c *Companies) loadData() tea.Msg {
	companies, err := c.tracker.ListCompaniesWithStats(context.Background())
	return companiesDataMsg{companies: companies, err: err}
}

func (c *Companies) Update(msg tea.Msg) tea.Cmd {
	// In input mode, pass messages to text input first
	if c.mode == companiesModeAdd {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				return c.submitInput()
			case "esc":
				c.mode = companiesModeList
				c.input.Blur()
				return nil
			}
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case companiesDataMsg:
		c.loading = false
		c.err = msg.err
		c.companies = msg.companies
		if c.cursor >= len(c.companies) {
			c.cursor = max(0, len(c.companies)-1)
		}
		return nil

	case RefreshMsg:
		return c.Init()

	case tea.KeyMsg:
		if c.mode == companiesModeDelete {
			return c.handleDeleteKey(msg)
		}
		return c.handleListKey(msg)
	}

	return nil
}

func (c *Companies) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.companies)-1 {
			c.cursor++
		}
	case "a":
		c.mode = companiesModeAdd
		c.message = ""
		c.input.SetValue("")
		return c.input.Focus()
	case "d":
		if len(c.companies) > 0 {
			c.mode = companiesModeDelete
		}
	case "enter":
		if len(c.companies) > 0 {
			return NavigateWithCompany("applications", c.companies[c.cursor].ID)
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (c *Companies) submitInput() tea.Cmd {
	name := strings.TrimSpace(c.input.Value())
	c.mode = companiesModeList
	c.input.Blur()
	if name == "" {
		return nil
	}

	if _, err := c.tracker.CreateCompany(context.Background(), service.CreateCompanyRequest{Name: name}); err != nil {
		c.err = err
		return nil
	}
	c.message = fmt.Sprintf("Created company: %s", name)
	return c.loadData
}

func (c *Companies) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		company := c.companies[c.cursor]
		c.mode = companiesModeList
		if err := c.tracker.DeleteCompany(context.Background(), company.ID); err != nil {
			c.err = err
			return nil
		}
		c.message = fmt.Sprintf("Deleted company: %s", company.Name)
		return c.loadData

	case "n", "N", "esc":
		c.mode = companiesModeList
	}
	return nil
}

func (c *Companies) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("COMPANIES"))
	b.WriteString("\n\n")

	if c.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if c.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", c.err)))
		b.WriteString("\n\n")
	}

	if c.message != "" {
		b.WriteString(SuccessStyle.Render(c.message))
		b.WriteString("\n\n")
	}

	if c.mode == companiesModeAdd {
		b.WriteString("New company name:\n")
		b.WriteString(c.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()
	}

	if c.mode == companiesModeDelete && len(c.companies) > 0 {
		company := c.companies[c.cursor]
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete company '%s'? This also deletes its %d applications and %d contacts. (y/n)",
			company.Name,
			company.ApplicationCount,
			company.ContactCount,
		)))
		b.WriteString("\n")
		return b.String()
	}

	if len(c.companies) == 0 {
		b.WriteString(DimStyle.Render("No companies yet."))
		b.WriteString("\n\n")
	} else {
		for i, company := range c.companies {
			cursor := "  "
			style := NormalStyle
			if i == c.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			line := fmt.Sprintf("%s%s (%d applications, %d contacts)",
				cursor,
				company.Name,
				company.ApplicationCount,
				company.ContactCount,
			)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[a] Add  [d] Delete  [enter] View applications  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
