package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		m = m.sync()
		if m.Busy {
			return m, tickCmd()
		}
		return m, nil
	case RunFinishedMsg:
		m = m.sync()
		m.LastOutcome = msg.Outcome
		return m, nil
	case RunRejectedMsg:
		return m.sync(), nil
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "enter", " ":
		// The button is disabled while busy
		if m.Busy {
			return m, nil
		}
		done, err := m.controller.Start(m.ctx)
		if err != nil {
			return m, func() tea.Msg { return RunRejectedMsg{Err: err} }
		}
		m = m.sync()
		return m, tea.Batch(waitForOutcome(done), tickCmd())
	}
	return m, nil
}
