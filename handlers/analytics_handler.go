package handlers

import (
	"context"
	"log"
	"net/http"

	"nyayamitra-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalyticsHandler handles HTTP requests for derived case insights
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RebuildRequest represents an admin rebuild trigger
type RebuildRequest struct {
	TriggeredBy string `json:"triggered_by"`
}

// Rebuild handles POST /api/admin/analytics/rebuild
func (h *AnalyticsHandler) Rebuild(c *gin.Context) {
	var req RebuildRequest
	_ = c.ShouldBindJSON(&req)
	if req.TriggeredBy == "" {
		req.TriggeredBy = "admin"
	}

	run, err := h.analyticsService.CreateRun(c.Request.Context(), req.TriggeredBy)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RUN_CREATION_FAILED", err.Error())
		return
	}

	// Process in background
	go func() {
		bgCtx := context.Background()
		if err := h.analyticsService.ProcessRun(bgCtx, run.ID); err != nil {
			log.Printf("Error processing analytics run %s: %v", run.ID, err)
		}
	}()

	respondData(c, http.StatusAccepted, gin.H{
		"run_id": run.ID,
		"status": run.Status,
	})
}

// GetRun handles GET /api/admin/analytics/runs/:id
func (h *AnalyticsHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid run ID format")
		return
	}

	run, err := h.analyticsService.GetRun(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load run")
		return
	}
	respondData(c, http.StatusOK, run)
}

// Insight handles GET /api/insights/:cnr
func (h *AnalyticsHandler) Insight(c *gin.Context) {
	insight, err := h.analyticsService.Insight(c.Request.Context(), c.Param("cnr"))
	if err != nil {
		respondServiceError(c, err, "Failed to load insight")
		return
	}
	respondData(c, http.StatusOK, insight)
}
