package service

import "errors"

var (
	ErrCaseNotFound        = errors.New("case not found")
	ErrJudgeNotFound       = errors.New("judge not found")
	ErrReminderNotFound    = errors.New("reminder not found")
	ErrRunNotFound         = errors.New("analytics run not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrSummarizerFailed    = errors.New("summarizer unavailable")
	ErrRunCreationFailed   = errors.New("failed to create analytics run")
	ErrMissingDependencies = errors.New("service dependency not set")
)
