package handlers

import (
	"net/http"

	"nyayamitra-backend/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionKey     = "session"
	adminKeyHeader = "X-Admin-Key"
)

// RequireRole rejects requests without a session of the given role and
// stores the session on the context.
func RequireRole(sessions *session.Manager, role session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessions.Resolve(c.Request)
		if err != nil || s.Role != role {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
			c.Abort()
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

func currentSession(c *gin.Context) session.Session {
	v, _ := c.Get(sessionKey)
	s, _ := v.(session.Session)
	return s
}

// RequireAdminKey checks the X-Admin-Key header against a bcrypt hash. An
// empty hash disables the admin routes.
func RequireAdminKey(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(adminKeyHeader)
		if keyHash == "" || key == "" ||
			bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid admin key")
			c.Abort()
			return
		}
		c.Next()
	}
}
