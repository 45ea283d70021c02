package handler

import (
	"blood-bank-dashboard/internal/dashboard"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	views  *dashboard.Registry
	logger *zap.Logger
}

func NewDashboardHandler(views *dashboard.Registry, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{views: views, logger: logger}
}

// Home returns the landing page panels
func (h *DashboardHandler) Home(c *gin.Context) {
	utils.SuccessResponse(c, h.views.Home(c.Request.Context(), userID(c)))
}

// Refresh reloads one panel on demand
func (h *DashboardHandler) Refresh(c *gin.Context) {
	panel := c.Param("panel")
	if err := h.views.Refresh(c.Request.Context(), userID(c), panel); err != nil {
		respondError(c, h.logger, err, "Failed to refresh "+panel)
		return
	}
	utils.MessageResponse(c, "Refreshed "+panel)
}
