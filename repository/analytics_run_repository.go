package repository

import (
	"context"
	"fmt"
	"time"

	"nyayamitra-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsRunRepository handles database operations for analytics runs
type AnalyticsRunRepository struct {
	db *pgxpool.Pool
}

// NewAnalyticsRunRepository creates a new analytics run repository
func NewAnalyticsRunRepository(db *pgxpool.Pool) *AnalyticsRunRepository {
	return &AnalyticsRunRepository{db: db}
}

// Create inserts a pending run
func (r *AnalyticsRunRepository) Create(ctx context.Context, run *models.AnalyticsRun) error {
	query := `
		INSERT INTO analytics_runs (status, triggered_by)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, run.Status, run.TriggeredBy).
		Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create analytics run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by ID
func (r *AnalyticsRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalyticsRun, error) {
	run := &models.AnalyticsRun{}
	query := `
		SELECT id, status, triggered_by, processed, error_message,
			created_at, updated_at, completed_at
		FROM analytics_runs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.Status,
		&run.TriggeredBy,
		&run.Processed,
		&run.ErrorMessage,
		&run.CreatedAt,
		&run.UpdatedAt,
		&run.CompletedAt,
	)
	if err != nil {
		return nil, notFound(err, "analytics run "+id.String())
	}
	return run, nil
}

// Start marks a run as in progress
func (r *AnalyticsRunRepository) Start(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE analytics_runs SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.RunStatusInProgress)
	return err
}

// UpdateProgress records how many cases have been processed so far
func (r *AnalyticsRunRepository) UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error {
	query := `
		UPDATE analytics_runs SET
			processed = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, processed)
	return err
}

// Complete marks a run as completed
func (r *AnalyticsRunRepository) Complete(ctx context.Context, id uuid.UUID, processed int) error {
	now := time.Now()
	query := `
		UPDATE analytics_runs SET
			status = $2,
			processed = $3,
			completed_at = $4,
			updated_at = $4
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.RunStatusCompleted, processed, now)
	return err
}

// Fail marks a run as failed
func (r *AnalyticsRunRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE analytics_runs SET
			status = $2,
			error_message = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.RunStatusFailed, errorMessage)
	return err
}
