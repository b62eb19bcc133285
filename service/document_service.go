package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"nyayamitra-backend/integrations"
	"nyayamitra-backend/models"
	"nyayamitra-backend/repository"
	"nyayamitra-backend/storage"

	"github.com/google/uuid"
)

// RejectionNotice replaces the summary when the summarizer refuses a document.
const RejectionNotice = "NOTICE: This specific document contains insufficient text for a deep AI summary. Please ensure the PDF is not a low-quality scan and contains at least 200 words of legal content."

// DocumentService archives uploaded judgments and forwards them to the
// summarizer
type DocumentService struct {
	summarizer Summarizer
	docs       DocumentStore
	store      storage.Store
	logger     *slog.Logger
}

// DocumentServiceOption is a functional option for DocumentService
type DocumentServiceOption func(*DocumentService)

// DocumentWithSummarizer sets the summarization client
func DocumentWithSummarizer(s Summarizer) DocumentServiceOption {
	return func(d *DocumentService) {
		d.summarizer = s
	}
}

// DocumentWithRecords sets the document metadata store
func DocumentWithRecords(docs DocumentStore) DocumentServiceOption {
	return func(d *DocumentService) {
		d.docs = docs
	}
}

// DocumentWithStorage sets the object store uploads are archived in
func DocumentWithStorage(store storage.Store) DocumentServiceOption {
	return func(d *DocumentService) {
		d.store = store
	}
}

// DocumentWithLogger sets the logger
func DocumentWithLogger(l *slog.Logger) DocumentServiceOption {
	return func(d *DocumentService) {
		d.logger = l
	}
}

// NewDocumentService creates a new document service
func NewDocumentService(opts ...DocumentServiceOption) *DocumentService {
	d := &DocumentService{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SummarizeRequest is an uploaded document
type SummarizeRequest struct {
	Filename    string
	ContentType string
	Data        io.Reader
	CNRNumber   string
	UploadedBy  string
}

// SummarizeResult carries the summarizer payload. Rejected is set when the
// summarizer refused the document and Payload holds the notice instead.
type SummarizeResult struct {
	DocumentID uuid.UUID
	Payload    map[string]any
	Rejected   bool
}

// Summarize archives the document when storage is configured and returns
// the summarizer's response. Archiving failures are logged and do not
// affect the summary.
func (d *DocumentService) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	if d.summarizer == nil {
		return nil, ErrMissingDependencies
	}
	if req.Data == nil || req.Filename == "" {
		return nil, fmt.Errorf("%w: no file uploaded", ErrInvalidInput)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = storage.ContentType(req.Filename)
	}

	data, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	result := &SummarizeResult{}
	if doc := d.archive(ctx, req, contentType, data); doc != nil {
		result.DocumentID = doc.ID
	}

	payload, err := d.summarizer.Summarize(ctx, req.Filename, contentType, bytes.NewReader(data))
	var rejected *integrations.RejectedError
	switch {
	case errors.As(err, &rejected):
		d.logger.Info("summarizer rejected document", "filename", req.Filename, "reason", rejected.Reason)
		result.Rejected = true
		result.Payload = map[string]any{"summary": RejectionNotice}
		return result, nil
	case err != nil:
		d.logger.Error("summarizer failed", "filename", req.Filename, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSummarizerFailed, err)
	}

	result.Payload = payload
	if result.DocumentID != uuid.Nil {
		if encoded, err := json.Marshal(payload); err == nil {
			if err := d.docs.SetSummary(ctx, result.DocumentID, string(encoded)); err != nil {
				d.logger.Warn("store document summary", "document", result.DocumentID, "error", err)
			}
		}
	}
	return result, nil
}

func (d *DocumentService) archive(ctx context.Context, req SummarizeRequest, contentType string, data []byte) *models.CaseDocument {
	if d.store == nil || d.docs == nil {
		return nil
	}
	doc := &models.CaseDocument{
		ID:         uuid.New(),
		CNRNumber:  req.CNRNumber,
		UploadedBy: req.UploadedBy,
		Filename:   req.Filename,
		MimeType:   contentType,
		Size:       int64(len(data)),
	}
	path, err := d.store.Put(ctx, storage.NamespaceDocuments, doc.ID, req.Filename, bytes.NewReader(data))
	if err != nil {
		d.logger.Warn("archive document", "filename", req.Filename, "error", err)
		return nil
	}
	doc.StoragePath = path
	if err := d.docs.Create(ctx, doc); err != nil {
		d.logger.Warn("record document", "filename", req.Filename, "error", err)
		if rmErr := d.store.Remove(ctx, path); rmErr != nil {
			d.logger.Warn("remove orphaned document", "path", path, "error", rmErr)
		}
		return nil
	}
	return doc
}

// Document returns a stored document record
func (d *DocumentService) Document(ctx context.Context, id uuid.UUID) (*models.CaseDocument, error) {
	if d.docs == nil {
		return nil, ErrMissingDependencies
	}
	doc, err := d.docs.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}

// Open returns a document record with a reader over its archived bytes.
// The caller closes the reader.
func (d *DocumentService) Open(ctx context.Context, id uuid.UUID) (*models.CaseDocument, io.ReadCloser, error) {
	if d.store == nil {
		return nil, nil, ErrMissingDependencies
	}
	doc, err := d.Document(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := d.store.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document: %w", err)
	}
	return doc, rc, nil
}
