package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"nyayamitra-backend/integrations"
	"nyayamitra-backend/service"
	"nyayamitra-backend/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

// documentIDHeader names the archived copy of a summarized upload.
const documentIDHeader = "X-Document-ID"

// LawyerHandler handles HTTP requests for the lawyer workspace
type LawyerHandler struct {
	caseService     *service.CaseService
	assistService   *service.AssistService
	documentService *service.DocumentService
	court           CourtServices
	sessions        *session.Manager
}

// NewLawyerHandler creates a new lawyer handler
func NewLawyerHandler(
	caseService *service.CaseService,
	assistService *service.AssistService,
	documentService *service.DocumentService,
	court CourtServices,
	sessions *session.Manager,
) *LawyerHandler {
	return &LawyerHandler{
		caseService:     caseService,
		assistService:   assistService,
		documentService: documentService,
		court:           court,
		sessions:        sessions,
	}
}

// LawyerLoginRequest represents the lawyer login form
type LawyerLoginRequest struct {
	LawyerName string `json:"lawyerName" form:"lawyerName"`
}

// Login handles POST /login
func (h *LawyerHandler) Login(c *gin.Context) {
	var req LawyerLoginRequest
	_ = c.ShouldBind(&req)
	name := strings.TrimSpace(req.LawyerName)
	if name == "" {
		respondError(c, http.StatusBadRequest, "INVALID_LAWYER", "Please enter a valid Advocate Name")
		return
	}

	if _, err := h.sessions.Create(c.Writer, session.RoleLawyer, name); err != nil {
		respondServiceError(c, err, "Login failed")
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"lawyerName": name,
		"redirect":   "/lawyer/dashboard/" + url.PathEscape(name),
	})
}

// Dashboard handles GET /lawyer/dashboard/:lawyerName
func (h *LawyerHandler) Dashboard(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 1
	}
	result, err := h.caseService.Dashboard(c.Request.Context(), service.DashboardRequest{
		Lawyer: c.Param("lawyerName"),
		Search: c.Query("search"),
		Page:   page,
	})
	if err != nil {
		respondServiceError(c, err, "Dashboard Load Error")
		return
	}
	respondData(c, http.StatusOK, result)
}

// CaseDetails handles GET /lawyer/case-details/:cnr
func (h *LawyerHandler) CaseDetails(c *gin.Context) {
	details, err := h.caseService.Details(c.Request.Context(), c.Param("cnr"))
	if err != nil {
		respondServiceError(c, err, "Failed to load case")
		return
	}
	respondData(c, http.StatusOK, details)
}

// UpsertCaseRequest represents a case registered from the lawyer workspace
type UpsertCaseRequest struct {
	CNRNumber       string      `json:"cnrNumber" binding:"required"`
	CaseNumber      string      `json:"caseNumber"`
	ClientNames     string      `json:"clientNames"`
	CourtName       string      `json:"courtName"`
	CourtState      string      `json:"courtState"`
	LegacyState     string      `json:"courtSate"`
	Stage           string      `json:"newCaseStatus"`
	UnderActs       stringList  `json:"underActs"`
	UnderSections   stringList  `json:"underSections"`
	NextHearingDate string      `json:"nextHearingDate"`
	CaseAge         looseString `json:"caseAge"`
}

// UpsertCase handles POST /lawyer/upsert-case/:lawyerName
func (h *LawyerHandler) UpsertCase(c *gin.Context) {
	var req UpsertCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	next, err := parseRequestDate(req.NextHearingDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}
	state := req.CourtState
	if state == "" {
		state = req.LegacyState
	}

	rec, err := h.caseService.Upsert(c.Request.Context(), service.UpsertCaseRequest{
		Lawyer:          c.Param("lawyerName"),
		CNRNumber:       req.CNRNumber,
		CaseNumber:      req.CaseNumber,
		ClientNames:     req.ClientNames,
		CourtName:       req.CourtName,
		CourtState:      state,
		Stage:           req.Stage,
		UnderActs:       req.UnderActs,
		UnderSections:   req.UnderSections,
		NextHearingDate: next,
		CaseAge:         string(req.CaseAge),
	})
	if err != nil {
		respondServiceError(c, err, "Failed to save case")
		return
	}
	respondData(c, http.StatusOK, rec)
}

// DeleteCase handles DELETE /lawyer/delete-case/:cnr
func (h *LawyerHandler) DeleteCase(c *gin.Context) {
	n, err := h.caseService.Delete(c.Request.Context(), c.Param("cnr"))
	if err != nil {
		respondServiceError(c, err, "Failed to delete case")
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"deleted": n,
		"message": fmt.Sprintf("Deleted %d records.", n),
	})
}

// UpdateNoteRequest represents a private note update
type UpdateNoteRequest struct {
	CNRNumber string `json:"cnrNumber" binding:"required"`
	Note      string `json:"note"`
}

// UpdateNote handles POST /lawyer/update-note
func (h *LawyerHandler) UpdateNote(c *gin.Context) {
	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	err := h.caseService.UpdateNote(c.Request.Context(), req.CNRNumber, req.Note)
	if errors.Is(err, service.ErrCaseNotFound) {
		respondError(c, http.StatusNotFound, "CASE_NOT_FOUND", "CNR not found in database.")
		return
	}
	if err != nil {
		respondServiceError(c, err, "Failed to update note")
		return
	}
	respondData(c, http.StatusOK, gin.H{"cnrNumber": req.CNRNumber})
}

// AddReminderRequest represents a new reminder
type AddReminderRequest struct {
	CNRNumber string `json:"cnrNumber" binding:"required"`
	Text      string `json:"text" binding:"required"`
	Date      string `json:"date" binding:"required"`
}

// AddReminder handles POST /lawyer/add-reminder
func (h *LawyerHandler) AddReminder(c *gin.Context) {
	var req AddReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	at, err := parseRequestDate(req.Date)
	if err != nil || at == nil {
		respondError(c, http.StatusBadRequest, "INVALID_DATE", "Invalid reminder date")
		return
	}

	reminders, err := h.caseService.AddReminder(c.Request.Context(), req.CNRNumber, req.Text, *at)
	if err != nil {
		respondServiceError(c, err, "Failed to save reminder")
		return
	}
	respondData(c, http.StatusOK, gin.H{"reminders": reminders})
}

// ToggleReminderRequest represents a reminder completion change
type ToggleReminderRequest struct {
	CNRNumber  string `json:"cnrNumber" binding:"required"`
	ReminderID string `json:"reminderId" binding:"required"`
	Completed  bool   `json:"completed"`
}

// ToggleReminder handles POST /lawyer/toggle-reminder
func (h *LawyerHandler) ToggleReminder(c *gin.Context) {
	var req ToggleReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	id, err := uuid.Parse(req.ReminderID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REMINDER_ID", "Invalid reminderId format")
		return
	}
	if err := h.caseService.ToggleReminder(c.Request.Context(), req.CNRNumber, id, req.Completed); err != nil {
		respondServiceError(c, err, "Failed to update reminder")
		return
	}
	respondData(c, http.StatusOK, gin.H{"reminderId": id, "completed": req.Completed})
}

// AIBrief handles GET /lawyer/ai-brief/:cnr
func (h *LawyerHandler) AIBrief(c *gin.Context) {
	brief, err := h.caseService.Brief(c.Request.Context(), c.Param("cnr"))
	if err != nil {
		respondServiceError(c, err, "AI Analysis Failed")
		return
	}
	respondData(c, http.StatusOK, brief)
}

// StatsCharts handles GET /lawyer/stats-charts/:lawyerName
func (h *LawyerHandler) StatsCharts(c *gin.Context) {
	charts, err := h.caseService.Charts(c.Request.Context(), c.Param("lawyerName"))
	if err != nil {
		respondServiceError(c, err, "Failed to build charts")
		return
	}
	respondData(c, http.StatusOK, charts)
}

// AppearanceDates handles GET /lawyer/my-appearance-dates
func (h *LawyerHandler) AppearanceDates(c *gin.Context) {
	dates, err := h.caseService.AppearanceDates(c.Request.Context(), c.Query("lawyerName"))
	if err != nil {
		respondServiceError(c, err, "Failed to load appearance dates")
		return
	}
	respondData(c, http.StatusOK, dates)
}

// FetchCauseList handles GET /lawyer/fetch-cause-list
func (h *LawyerHandler) FetchCauseList(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		respondError(c, http.StatusBadRequest, "MISSING_DATE", "Date is required")
		return
	}
	data, err := h.court.CauseList(c.Request.Context(), date)
	if err != nil {
		log.Printf("Cause list fetch failed: %v", err)
		respondError(c, http.StatusInternalServerError, "UPSTREAM_ERROR", "API unreachable")
		return
	}
	if lawyer := c.Query("lawyerName"); lawyer != "" {
		integrations.PrioritizeByBench(data, lawyer)
	}
	respondData(c, http.StatusOK, data)
}

// LegalIntelligenceRequest represents a mapper or strategy query
type LegalIntelligenceRequest struct {
	CNRNumber  string `json:"cnrNumber"`
	IPCSection string `json:"ipcSection"`
	Mode       string `json:"mode"`
}

// LegalIntelligence handles POST /lawyer/legal-intelligence
func (h *LawyerHandler) LegalIntelligence(c *gin.Context) {
	var req LegalIntelligenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = service.ModeStrategy
	}

	result, err := h.assistService.LegalIntelligence(c.Request.Context(), service.IntelRequest{
		CNRNumber:  req.CNRNumber,
		IPCSection: req.IPCSection,
		Mode:       req.Mode,
	})
	if errors.Is(err, service.ErrCaseNotFound) {
		respondError(c, http.StatusNotFound, "CASE_NOT_FOUND", "CNR not found")
		return
	}
	if err != nil {
		respondServiceError(c, err, "Legal intelligence unavailable")
		return
	}
	respondPlain(c, http.StatusOK, result)
}

// SummarizeCase handles POST /lawyer/summarize-case
func (h *LawyerHandler) SummarizeCase(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "No file uploaded")
		return
	}
	if fileHeader.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", maxUploadSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	var uploadedBy string
	if s, err := h.sessions.Resolve(c.Request); err == nil {
		uploadedBy = s.Name
	}

	result, err := h.documentService.Summarize(c.Request.Context(), service.SummarizeRequest{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        file,
		CNRNumber:   c.PostForm("cnrNumber"),
		UploadedBy:  uploadedBy,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, "MISSING_FILE", "No file uploaded")
			return
		}
		respondError(c, http.StatusInternalServerError, "SUMMARIZER_ERROR", "AI Service is currently warming up.")
		return
	}
	if result.DocumentID != uuid.Nil {
		c.Header(documentIDHeader, result.DocumentID.String())
	}
	respondData(c, http.StatusOK, result.Payload)
}
