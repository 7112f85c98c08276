package tui

import (
	"time"

	"artexport/types"

	tea "github.com/charmbracelet/bubbletea"
)

// pollInterval is how often the view re-reads controller state during a run
const pollInterval = 200 * time.Millisecond

// waitForOutcome blocks on the run's outcome channel
func waitForOutcome(done <-chan types.Outcome) tea.Cmd {
	return func() tea.Msg {
		return RunFinishedMsg{Outcome: <-done}
	}
}

// tickCmd creates a command that ticks for polling
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
