package tui

import (
	"time"

	"artexport/types"
)

// RunFinishedMsg is sent when a workflow run has ended
type RunFinishedMsg struct {
	Outcome types.Outcome
}

// RunRejectedMsg is sent when the controller refused to start a run
type RunRejectedMsg struct {
	Err error
}

// TickMsg is sent periodically while a run is in progress
type TickMsg struct {
	Time time.Time
}
