package types

// ExportStatus is the outcome tag reported by a design-export capability
type ExportStatus string

const (
	// ExportCompleted is the only status that carries exported blobs
	ExportCompleted ExportStatus = "completed"
	// ExportAborted covers a cancelled dialog or an unusable selection
	ExportAborted ExportStatus = "aborted"
)

// ExportRequest constrains what the export capability may produce
type ExportRequest struct {
	AcceptedFileTypes []string `json:"acceptedFileTypes"`
}

// ExportedBlob describes one exported artifact as returned by the export capability
type ExportedBlob struct {
	URL string `json:"url"`
}

// ExportResult is the tagged outcome of an export request
type ExportResult struct {
	Status      ExportStatus   `json:"status"`
	ExportBlobs []ExportedBlob `json:"exportBlobs,omitempty"`
	Title       string         `json:"title,omitempty"`
}

// Completed reports whether the result is actionable (completed with at least one blob)
func (r *ExportResult) Completed() bool {
	return r != nil && r.Status == ExportCompleted && len(r.ExportBlobs) > 0
}
