package handlers

import (
	"net/http"

	"nyayamitra-backend/service"

	"github.com/gin-gonic/gin"
)

// AssistHandler serves the Nyaya-AI chat
type AssistHandler struct {
	assistService *service.AssistService
}

// NewAssistHandler creates a new assist handler
func NewAssistHandler(assistService *service.AssistService) *AssistHandler {
	return &AssistHandler{assistService: assistService}
}

// AskRequest represents a free-text legal question
type AskRequest struct {
	Query string `json:"query"`
}

// AskNyaya handles POST /ai/ask-nyaya. It always answers.
func (h *AssistHandler) AskNyaya(c *gin.Context) {
	var req AskRequest
	_ = c.ShouldBindJSON(&req)
	respondPlain(c, http.StatusOK, h.assistService.Ask(c.Request.Context(), req.Query))
}
