package handlers

import (
	"net/http"

	"nyayamitra-backend/service"

	"github.com/gin-gonic/gin"
)

// CitizenHandler serves the public case lookup
type CitizenHandler struct {
	caseService *service.CaseService
}

// NewCitizenHandler creates a new citizen handler
func NewCitizenHandler(caseService *service.CaseService) *CitizenHandler {
	return &CitizenHandler{caseService: caseService}
}

// CaseLookup handles GET /user/case-lookup/:cnr
func (h *CitizenHandler) CaseLookup(c *gin.Context) {
	result, err := h.caseService.Lookup(c.Request.Context(), c.Param("cnr"))
	if err != nil {
		respondServiceError(c, err, "Failed to look up case")
		return
	}
	respondPlain(c, http.StatusOK, result)
}

// HomeStats handles GET /api/stats/home
func (h *CitizenHandler) HomeStats(c *gin.Context) {
	stats, err := h.caseService.HomeStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load stats")
		return
	}
	respondData(c, http.StatusOK, stats)
}
