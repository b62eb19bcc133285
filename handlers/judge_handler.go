package handlers

import (
	"errors"
	"log"
	"net/http"

	"nyayamitra-backend/repository"
	"nyayamitra-backend/service"
	"nyayamitra-backend/session"

	"github.com/gin-gonic/gin"
)

// JudgeHandler handles HTTP requests for the judge dashboard
type JudgeHandler struct {
	judgeService *service.JudgeService
	court        CourtServices
	sessions     *session.Manager
}

// NewJudgeHandler creates a new judge handler
func NewJudgeHandler(judgeService *service.JudgeService, court CourtServices, sessions *session.Manager) *JudgeHandler {
	return &JudgeHandler{
		judgeService: judgeService,
		court:        court,
		sessions:     sessions,
	}
}

// JudgeLoginRequest represents the judge login form
type JudgeLoginRequest struct {
	JudgeName string `json:"judgeName" form:"judgeName"`
}

// Login handles POST /judges/login
func (h *JudgeHandler) Login(c *gin.Context) {
	var req JudgeLoginRequest
	_ = c.ShouldBind(&req)

	judge, err := h.judgeService.Login(c.Request.Context(), req.JudgeName)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, "INVALID_JUDGE", "Judge name required")
			return
		}
		respondServiceError(c, err, "Login failed")
		return
	}

	if _, err := h.sessions.Create(c.Writer, session.RoleJudge, judge); err != nil {
		respondServiceError(c, err, "Login failed")
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"judgeName": judge,
		"redirect":  "/judges",
	})
}

// Logout handles GET /judges/logout
func (h *JudgeHandler) Logout(c *gin.Context) {
	h.sessions.Destroy(c.Writer, c.Request)
	respondData(c, http.StatusOK, gin.H{"redirect": "/judges/login"})
}

// Dashboard handles GET /judges
func (h *JudgeHandler) Dashboard(c *gin.Context) {
	judge := currentSession(c).Name
	dashboard, err := h.judgeService.Dashboard(c.Request.Context(), judge, c.Query("cnr"))
	if err != nil {
		respondServiceError(c, err, "Server Error")
		return
	}
	respondData(c, http.StatusOK, dashboard)
}

// DashboardCounts handles GET /judges/dashboard-counts and
// GET /judges/analytics-data
func (h *JudgeHandler) DashboardCounts(c *gin.Context) {
	counts, err := h.judgeService.Counts(c.Request.Context(), currentSession(c).Name)
	if err != nil {
		respondServiceError(c, err, "Failed to load counts")
		return
	}
	respondData(c, http.StatusOK, counts)
}

// PriorityData handles GET /judges/priority-data
func (h *JudgeHandler) PriorityData(c *gin.Context) {
	priority, err := h.judgeService.Priority(c.Request.Context(), currentSession(c).Name)
	if err != nil {
		respondServiceError(c, err, "Failed to load priority data")
		return
	}
	respondData(c, http.StatusOK, priority)
}

// AnalyticsLive handles GET /judges/analytics-live
func (h *JudgeHandler) AnalyticsLive(c *gin.Context) {
	live, err := h.judgeService.Analytics(c.Request.Context(), currentSession(c).Name)
	if err != nil {
		respondServiceError(c, err, "Analytics fetch failed")
		return
	}
	respondData(c, http.StatusOK, live)
}

// CaseList returns a handler for one of the judge list pages.
func (h *JudgeHandler) CaseList(filter repository.JudgeCaseFilter) gin.HandlerFunc {
	return func(c *gin.Context) {
		judge := currentSession(c).Name
		cases, err := h.judgeService.Cases(c.Request.Context(), judge, filter)
		if err != nil {
			respondServiceError(c, err, "Failed to load cases")
			return
		}
		respondData(c, http.StatusOK, gin.H{
			"judgeName": judge,
			"cases":     cases,
		})
	}
}

// DelayedCases handles GET /judges/delayed-cases
func (h *JudgeHandler) DelayedCases(c *gin.Context) {
	cases, err := h.judgeService.DelayedCases(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load delayed cases")
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"judgeName": currentSession(c).Name,
		"cases":     cases,
	})
}

// SmartScheduleRequest represents a scheduling query
type SmartScheduleRequest struct {
	CNRNumber    string `json:"cnr_number"`
	SelectedDate string `json:"selectedDate"`
}

// SmartSchedule handles POST /judges/smart-schedule
func (h *JudgeHandler) SmartSchedule(c *gin.Context) {
	var req SmartScheduleRequest
	_ = c.ShouldBindJSON(&req)
	if req.CNRNumber == "" {
		respondError(c, http.StatusBadRequest, "MISSING_CNR", "CNR number is required")
		return
	}

	data, err := h.court.SmartSchedule(c.Request.Context(), req.CNRNumber, req.SelectedDate)
	if err != nil {
		log.Printf("Smart schedule failed for %s: %v", req.CNRNumber, err)
		respondError(c, http.StatusInternalServerError, "UPSTREAM_ERROR", "Smart scheduling service failed")
		return
	}
	respondData(c, http.StatusOK, data)
}
