package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CourtHandler proxies the notes and cause-list services
type CourtHandler struct {
	court CourtServices
}

// NewCourtHandler creates a new court handler
func NewCourtHandler(court CourtServices) *CourtHandler {
	return &CourtHandler{court: court}
}

// SaveNoteRequest represents a note sent to the notes service
type SaveNoteRequest struct {
	CNR  string `json:"cnr"`
	Note string `json:"note"`
}

// SaveNote handles POST /api/save-note
func (h *CourtHandler) SaveNote(c *gin.Context) {
	var req SaveNoteRequest
	_ = c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.CNR) == "" || strings.TrimSpace(req.Note) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "CNR and note required")
		return
	}

	data, err := h.court.SaveNote(c.Request.Context(), req.CNR, req.Note)
	if err != nil {
		log.Printf("Save note failed for %s: %v", req.CNR, err)
		respondError(c, http.StatusInternalServerError, "UPSTREAM_ERROR", "Failed to save note")
		return
	}
	respondData(c, http.StatusOK, data)
}

// GetNotes handles GET /api/get-notes
func (h *CourtHandler) GetNotes(c *gin.Context) {
	cnr := c.Query("cnr")
	if cnr == "" {
		respondError(c, http.StatusBadRequest, "MISSING_CNR", "CNR is required")
		return
	}

	data, err := h.court.GetNotes(c.Request.Context(), cnr)
	if err != nil {
		log.Printf("Get notes failed for %s: %v", cnr, err)
		respondError(c, http.StatusInternalServerError, "UPSTREAM_ERROR", "Failed to fetch notes")
		return
	}
	respondData(c, http.StatusOK, data)
}

// CauseList handles GET /api/cause-list
func (h *CourtHandler) CauseList(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		respondError(c, http.StatusBadRequest, "MISSING_DATE", "Date is required")
		return
	}

	data, err := h.court.CauseList(c.Request.Context(), date)
	if err != nil {
		log.Printf("Cause list fetch failed: %v", err)
		respondError(c, http.StatusInternalServerError, "UPSTREAM_ERROR", "Failed to fetch cause list")
		return
	}
	respondData(c, http.StatusOK, data)
}
