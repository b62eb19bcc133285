package repository

import (
	"context"
	"fmt"

	"nyayamitra-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseDocumentRepository handles database operations for uploaded documents
type CaseDocumentRepository struct {
	db *pgxpool.Pool
}

// NewCaseDocumentRepository creates a new case document repository
func NewCaseDocumentRepository(db *pgxpool.Pool) *CaseDocumentRepository {
	return &CaseDocumentRepository{db: db}
}

// Create inserts a document record. doc.ID is used when set.
func (r *CaseDocumentRepository) Create(ctx context.Context, doc *models.CaseDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	query := `
		INSERT INTO case_documents (
			id, cnr_number, uploaded_by, filename, mime_type, size, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.ID,
		doc.CNRNumber,
		doc.UploadedBy,
		doc.Filename,
		doc.MimeType,
		doc.Size,
		doc.StoragePath,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("create case document: %w", err)
	}
	return nil
}

// GetByID retrieves a document by ID
func (r *CaseDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CaseDocument, error) {
	doc := &models.CaseDocument{}
	query := `
		SELECT id, cnr_number, uploaded_by, filename, mime_type, size,
			storage_path, summary, created_at
		FROM case_documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.CNRNumber,
		&doc.UploadedBy,
		&doc.Filename,
		&doc.MimeType,
		&doc.Size,
		&doc.StoragePath,
		&doc.Summary,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "case document "+id.String())
	}
	return doc, nil
}

// SetSummary stores the summarizer output for a document
func (r *CaseDocumentRepository) SetSummary(ctx context.Context, id uuid.UUID, summary string) error {
	_, err := r.db.Exec(ctx, `UPDATE case_documents SET summary = $2 WHERE id = $1`, id, summary)
	if err != nil {
		return fmt.Errorf("set document summary: %w", err)
	}
	return nil
}
