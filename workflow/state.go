package workflow

import (
	"sync"
	"time"

	"artexport/config"
	"artexport/types"
)

// stateManager holds the workflow state with thread-safe access.
// busy and errorMessage are the only fields the presentation layer reacts to.
type stateManager struct {
	mu sync.RWMutex

	busy         bool
	errorMessage string

	lastOutcome types.Outcome
	lastTitle   string
	runs        int

	// Logs (ring buffer)
	logs    []types.LogEntry
	maxLogs int

	now func() time.Time
}

func newStateManager(now func() time.Time) *stateManager {
	return &stateManager{
		logs:    make([]types.LogEntry, 0),
		maxLogs: config.MaxLogEntries,
		now:     now,
	}
}

// begin enters the busy state and clears the error message.
// It returns false without touching state when a run is already in progress.
func (m *stateManager) begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.busy {
		return false
	}
	m.busy = true
	m.errorMessage = ""
	m.lastOutcome = types.OutcomeNone
	m.lastTitle = ""
	m.runs++
	return true
}

// finish leaves the busy state. Calling it more than once is harmless.
func (m *stateManager) finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
}

// setError sets the user-facing error message
func (m *stateManager) setError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorMessage = msg
	m.appendLog("Error: " + msg)
}

// record stores how the current run ended
func (m *stateManager) record(outcome types.Outcome, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOutcome = outcome
	m.lastTitle = title
}

// addLog adds a log entry (thread-safe)
func (m *stateManager) addLog(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLog(message)
}

// appendLog must be called with the lock held
func (m *stateManager) appendLog(message string) {
	m.logs = append(m.logs, types.LogEntry{
		Timestamp: m.now(),
		Message:   message,
	})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}

// snapshot returns a copy of the observable state
func (m *stateManager) snapshot() types.WorkflowState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return types.WorkflowState{Busy: m.busy, ErrorMessage: m.errorMessage}
}

// status returns the full status including recent activity
func (m *stateManager) status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return types.StatusResponse{
		WorkflowState: types.WorkflowState{Busy: m.busy, ErrorMessage: m.errorMessage},
		LastOutcome:   m.lastOutcome,
		LastTitle:     m.lastTitle,
		Runs:          m.runs,
		Logs:          append([]types.LogEntry{}, m.logs...), // Copy slice
	}
}
