package tui

import (
	"context"

	"artexport/types"

	tea "github.com/charmbracelet/bubbletea"
)

// maxVisibleLogs bounds the activity shown under the button
const maxVisibleLogs = 5

// Controller is the workflow surface the TUI drives
type Controller interface {
	Start(ctx context.Context) (<-chan types.Outcome, error)
	Status() types.StatusResponse
}

// Model is the TUI state, synced from the controller
type Model struct {
	controller Controller
	ctx        context.Context

	Busy         bool
	ErrorMessage string
	LastOutcome  types.Outcome
	Logs         []types.LogEntry
}

// NewModel creates a new TUI model. ctx bounds every run started from the UI.
func NewModel(ctx context.Context, controller Controller) Model {
	m := Model{
		controller: controller,
		ctx:        ctx,
	}
	return m.sync()
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return nil
}

// sync copies the controller's status into the model
func (m Model) sync() Model {
	status := m.controller.Status()
	m.Busy = status.Busy
	m.ErrorMessage = status.ErrorMessage
	m.LastOutcome = status.LastOutcome
	m.Logs = status.Logs
	if len(m.Logs) > maxVisibleLogs {
		m.Logs = m.Logs[len(m.Logs)-maxVisibleLogs:]
	}
	return m
}
