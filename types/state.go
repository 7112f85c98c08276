package types

import "time"

// Outcome records which branch a workflow run ended on
type Outcome string

const (
	OutcomeNone         Outcome = ""
	OutcomeBusy         Outcome = "busy"
	OutcomeAbandoned    Outcome = "abandoned"
	OutcomeMultiPage    Outcome = "multi_page"
	OutcomeUploadFailed Outcome = "upload_failed"
	OutcomeNavigated    Outcome = "navigated"
)

// WorkflowState is the observable state of the export-upload workflow
type WorkflowState struct {
	Busy         bool   `json:"busy"`
	ErrorMessage string `json:"error_message"`
}

// LogEntry represents a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// StatusResponse is the JSON response for GET /api/status
type StatusResponse struct {
	WorkflowState
	LastOutcome Outcome    `json:"last_outcome,omitempty"`
	LastTitle   string     `json:"last_title,omitempty"`
	Runs        int        `json:"runs"`
	Logs        []LogEntry `json:"logs"`
}
