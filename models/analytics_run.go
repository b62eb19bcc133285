package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsRunStatus represents the status of an analytics rebuild
type AnalyticsRunStatus string

const (
	RunStatusPending    AnalyticsRunStatus = "pending"
	RunStatusInProgress AnalyticsRunStatus = "in_progress"
	RunStatusCompleted  AnalyticsRunStatus = "completed"
	RunStatusFailed     AnalyticsRunStatus = "failed"
)

// AnalyticsRun tracks one rebuild of the case_insights table
type AnalyticsRun struct {
	ID           uuid.UUID          `json:"id"`
	Status       AnalyticsRunStatus `json:"status"`
	TriggeredBy  string             `json:"triggered_by"`
	Processed    int                `json:"processed"`
	ErrorMessage *string            `json:"error_message,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
}
