package handler

import (
	"net/http"

	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SessionState reports whether the session subscription is up
type SessionState interface {
	Loading() bool
	Tracked() int
}

// Health answers 200 once the session subscription is established and 503
// while it is still loading
func Health(service string, sessions SessionState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions.Loading() {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "Session subscription not ready")
			return
		}
		utils.SuccessResponse(c, gin.H{
			"status":          "healthy",
			"service":         service,
			"active_sessions": sessions.Tracked(),
		})
	}
}
