package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"nyayamitra-backend/integrations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summarizeRequest() SummarizeRequest {
	return SummarizeRequest{
		Filename:   "order.pdf",
		Data:       strings.NewReader("%PDF-1.4 judgment text"),
		CNRNumber:  "MHPU010012342019",
		UploadedBy: "A. Sharma",
	}
}

func TestDocumentService_SummarizeArchives(t *testing.T) {
	summarizer := &fakeSummarizer{payload: map[string]any{"summary": "Appeal dismissed."}}
	docs := &fakeDocs{}
	objects := &fakeObjects{}
	svc := NewDocumentService(
		DocumentWithSummarizer(summarizer),
		DocumentWithRecords(docs),
		DocumentWithStorage(objects),
	)

	got, err := svc.Summarize(context.Background(), summarizeRequest())
	require.NoError(t, err)

	assert.False(t, got.Rejected)
	assert.Equal(t, "Appeal dismissed.", got.Payload["summary"])
	assert.Equal(t, "%PDF-1.4 judgment text", string(summarizer.got))

	require.NotEqual(t, uuid.Nil, got.DocumentID)
	doc := docs.docs[got.DocumentID]
	require.NotNil(t, doc)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.Equal(t, int64(len("%PDF-1.4 judgment text")), doc.Size)
	assert.Contains(t, objects.objects, doc.StoragePath)

	var stored map[string]any
	require.NoError(t, json.Unmarshal([]byte(docs.summaries[got.DocumentID]), &stored))
	assert.Equal(t, "Appeal dismissed.", stored["summary"])
}

func TestDocumentService_Rejected(t *testing.T) {
	summarizer := &fakeSummarizer{err: &integrations.RejectedError{Reason: "too short"}}
	svc := NewDocumentService(DocumentWithSummarizer(summarizer))

	got, err := svc.Summarize(context.Background(), summarizeRequest())
	require.NoError(t, err)
	assert.True(t, got.Rejected)
	assert.Equal(t, RejectionNotice, got.Payload["summary"])
}

func TestDocumentService_SummarizerDown(t *testing.T) {
	summarizer := &fakeSummarizer{err: fmt.Errorf("%w: status 503", integrations.ErrUpstream)}
	svc := NewDocumentService(DocumentWithSummarizer(summarizer))

	_, err := svc.Summarize(context.Background(), summarizeRequest())
	assert.ErrorIs(t, err, ErrSummarizerFailed)
}

func TestDocumentService_StorageFailureDoesNotBlockSummary(t *testing.T) {
	summarizer := &fakeSummarizer{payload: map[string]any{"summary": "ok"}}
	docs := &fakeDocs{}
	svc := NewDocumentService(
		DocumentWithSummarizer(summarizer),
		DocumentWithRecords(docs),
		DocumentWithStorage(&fakeObjects{putErr: errBoom}),
	)

	got, err := svc.Summarize(context.Background(), summarizeRequest())
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got.DocumentID)
	assert.Equal(t, "ok", got.Payload["summary"])
	assert.Empty(t, docs.docs)
}

func TestDocumentService_RecordFailureRemovesObject(t *testing.T) {
	objects := &fakeObjects{}
	svc := NewDocumentService(
		DocumentWithSummarizer(&fakeSummarizer{payload: map[string]any{}}),
		DocumentWithRecords(&fakeDocs{createErr: errBoom}),
		DocumentWithStorage(objects),
	)

	_, err := svc.Summarize(context.Background(), summarizeRequest())
	require.NoError(t, err)
	assert.Empty(t, objects.objects)
}

func TestDocumentService_InvalidInput(t *testing.T) {
	svc := NewDocumentService(DocumentWithSummarizer(&fakeSummarizer{}))

	_, err := svc.Summarize(context.Background(), SummarizeRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewDocumentService().Summarize(context.Background(), summarizeRequest())
	assert.ErrorIs(t, err, ErrMissingDependencies)
}

func TestDocumentService_OpenArchived(t *testing.T) {
	docs := &fakeDocs{}
	objects := &fakeObjects{}
	svc := NewDocumentService(
		DocumentWithSummarizer(&fakeSummarizer{payload: map[string]any{"summary": "ok"}}),
		DocumentWithRecords(docs),
		DocumentWithStorage(objects),
	)
	res, err := svc.Summarize(context.Background(), summarizeRequest())
	require.NoError(t, err)

	doc, rc, err := svc.Open(context.Background(), res.DocumentID)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "order.pdf", doc.Filename)

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 judgment text", string(body))
}

func TestDocumentService_DocumentNotFound(t *testing.T) {
	svc := NewDocumentService(DocumentWithRecords(&fakeDocs{}), DocumentWithStorage(&fakeObjects{}))

	_, err := svc.Document(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, _, err = svc.Open(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
