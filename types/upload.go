package types

import "time"

// ExportedFile is a single file entry sent to the upload endpoint
type ExportedFile struct {
	URL      string `json:"url" binding:"required"`
	MimeType string `json:"mimeType" binding:"required"`
}

// UploadPayload is the JSON body POSTed to the upload endpoint
type UploadPayload struct {
	Title string         `json:"title" binding:"required"`
	Files []ExportedFile `json:"files" binding:"required,min=1,dive"`
}

// UploadRecord is an upload accepted and stored by the receiver
type UploadRecord struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Files      []ExportedFile `json:"files"`
	ReceivedAt time.Time      `json:"received_at"`
}

// UploadEvent is published after an upload has been accepted
type UploadEvent struct {
	ID          string         `json:"id"`
	Source      string         `json:"source"`
	Title       string         `json:"title"`
	Files       []ExportedFile `json:"files"`
	FollowUpURL string         `json:"followup_url,omitempty"`
	UploadedAt  time.Time      `json:"uploaded_at"`
}
