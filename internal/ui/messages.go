package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/surf-lamp/internal/forecast"
)

// fetchTimeout bounds a board refresh
const fetchTimeout = 30 * time.Second

// Evaluator produces a rated forecast window
type Evaluator interface {
	Run(ctx context.Context) forecast.Report
}

// reportFetchedMsg is sent when an evaluation completes
type reportFetchedMsg struct {
	report forecast.Report
}

// fetchReport evaluates the forecast in the background
func fetchReport(evaluator Evaluator) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		return reportFetchedMsg{report: evaluator.Run(ctx)}
	}
}
