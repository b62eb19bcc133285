package handlers

import (
	"errors"
	"log"
	"net/http"

	"nyayamitra-backend/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondPlain writes data as the whole body. Used by the public routes
// whose clients read the payload fields at the top level.
func respondPlain(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondServiceError maps service sentinels onto statuses. Anything
// unrecognized is logged and reported with the generic message.
func respondServiceError(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, service.ErrCaseNotFound):
		respondError(c, http.StatusNotFound, "CASE_NOT_FOUND", "Case not found")
	case errors.Is(err, service.ErrJudgeNotFound):
		respondError(c, http.StatusNotFound, "JUDGE_NOT_FOUND", "Judge not found in database")
	case errors.Is(err, service.ErrReminderNotFound):
		respondError(c, http.StatusNotFound, "REMINDER_NOT_FOUND", "Reminder not found")
	case errors.Is(err, service.ErrRunNotFound):
		respondError(c, http.StatusNotFound, "RUN_NOT_FOUND", "Analytics run not found")
	case errors.Is(err, service.ErrDocumentNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", generic)
	}
}
