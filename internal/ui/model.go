package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/surf-lamp/internal/forecast"
)

// AppState represents the current state of the board
type AppState int

const (
	StateLoading AppState = iota // Fetching and rating the forecast
	StateDisplay                 // Showing the rated slots
	StateError                   // Last fetch failed
)

// chromeHeight is the number of lines the header and help take around the table
const chromeHeight = 10

// Model represents the board's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	evaluator Evaluator
	report    *forecast.Report
	fetchedAt time.Time

	spinner spinner.Model
	table   table.Model
}

// NewModel creates a board that rates forecasts with evaluator
func NewModel(evaluator Evaluator) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	return Model{
		state:     StateLoading,
		evaluator: evaluator,
		spinner:   s,
		table:     t,
	}
}

func columns() []table.Column {
	return []table.Column{
		{Title: "Time", Width: 16},
		{Title: "Height", Width: 7},
		{Title: "Period", Width: 7},
		{Title: "Swell", Width: 6},
		{Title: "Wind", Width: 9},
		{Title: "From", Width: 5},
		{Title: "Quality", Width: 8},
		{Title: "Rating", Width: 9},
	}
}

// Init starts the first fetch
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchReport(m.evaluator))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := msg.Height - chromeHeight; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case reportFetchedMsg:
		if msg.report.Err != nil {
			m.err = msg.report.Err
			m.state = StateError
			return m, nil
		}
		m.report = &msg.report
		m.fetchedAt = time.Now()
		m.table.SetRows(slotRows(msg.report.Slots))
		m.table.GotoTop()
		m.err = nil
		m.state = StateDisplay
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			if m.state == StateLoading {
				return m, nil
			}
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, fetchReport(m.evaluator))
		}
	}

	switch m.state {
	case StateLoading:
		m.spinner, cmd = m.spinner.Update(msg)
	case StateDisplay:
		m.table, cmd = m.table.Update(msg)
	}

	return m, cmd
}

// slotRows formats every rated slot as a table row
func slotRows(slots []forecast.RatedForecast) []table.Row {
	rows := make([]table.Row, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, table.Row{
			s.Time.Format("Mon 02 Jan 15:04"),
			fmt.Sprintf("%.2fm", s.WaveHeight),
			fmt.Sprintf("%.1fs", s.WavePeriod),
			fmt.Sprintf("%.0f°", s.WaveDirection),
			fmt.Sprintf("%.1fm/s", s.WindSpeed),
			fmt.Sprintf("%.0f°", s.WindDirection),
			fmt.Sprintf("%.2f", s.WindQuality),
			strings.ToUpper(s.Rating.String()),
		})
	}
	return rows
}

// View renders the UI
func (m Model) View() string {
	switch m.state {
	case StateLoading:
		return m.viewLoading()
	case StateDisplay:
		return m.viewDisplay()
	case StateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewLoading() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		titleStyle.Render("🏄 Surf Board"),
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), mutedStyle.Render("Fetching forecast...")),
	)
}

func (m Model) viewError() string {
	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		errorStyle.Render("✗ Forecast unavailable"),
		"",
		errorMsg,
		"",
		helpStyle.Render("R: Retry • Q: Quit"),
	)
}

func (m Model) viewDisplay() string {
	if m.report == nil {
		return "No forecast loaded"
	}
	r := m.report

	overall := ratingStyle(r.Rating).Render(strings.ToUpper(r.Rating.String()))
	header := fmt.Sprintf("%s %s", labelStyle.Render("Best:"), overall)
	if r.Best != nil {
		header += mutedStyle.Render(fmt.Sprintf("  at %s", r.Best.Time.Format("Mon 02 Jan 15:04")))
	}

	subtitle := mutedStyle.Render(fmt.Sprintf("%d hourly slots from %s • updated %s",
		len(r.Slots),
		r.Start.Format("Mon 02 Jan 15:04"),
		m.fetchedAt.Format("15:04:05"),
	))

	sections := []string{
		titleStyle.Render("🏄 Surf Board"),
		subtitle,
		"",
		valueStyle.Render(header),
		"",
		boardStyle.Render(m.table.View()),
		helpStyle.Render("↑/↓: Scroll • R: Refresh • Q: Quit"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
