package models

import (
	"time"

	"github.com/google/uuid"
)

// CaseDocument is an uploaded judgment or order sent for summarization
type CaseDocument struct {
	ID          uuid.UUID `json:"id"`
	CNRNumber   string    `json:"cnr_number,omitempty"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	Summary     *string   `json:"summary,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
