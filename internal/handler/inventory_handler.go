package handler

import (
	"context"
	"strconv"

	"blood-bank-dashboard/internal/dashboard"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InventoryQueries are the filtered reads that bypass the cached view
type InventoryQueries interface {
	GetInventoryByType(ctx context.Context, bloodType string) ([]models.BloodInventory, error)
	GetInventoryByLocation(ctx context.Context, location string) ([]models.BloodInventory, error)
	GetInventoryHistory(ctx context.Context, bloodType string, days int) ([]models.InventoryHistory, error)
}

type InventoryHandler struct {
	views   *dashboard.Registry
	queries InventoryQueries
	logger  *zap.Logger
}

func NewInventoryHandler(views *dashboard.Registry, queries InventoryQueries, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{views: views, queries: queries, logger: logger}
}

// List returns the inventory panel, or a filtered list when blood_type or
// location is given
func (h *InventoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if bloodType := c.Query("blood_type"); bloodType != "" {
		items, err := h.queries.GetInventoryByType(ctx, bloodType)
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch inventory")
			return
		}
		utils.SuccessResponse(c, gin.H{"items": items})
		return
	}

	if location := c.Query("location"); location != "" {
		items, err := h.queries.GetInventoryByLocation(ctx, location)
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch inventory")
			return
		}
		utils.SuccessResponse(c, gin.H{"items": items})
		return
	}

	utils.SuccessResponse(c, h.views.Inventory(ctx, userID(c)).Snapshot())
}

func (h *InventoryHandler) Update(c *gin.Context) {
	var patch models.InventoryPatch
	if !bindJSON(c, &patch) {
		return
	}

	ctx := c.Request.Context()
	item, err := h.views.Inventory(ctx, userID(c)).UpdateItem(ctx, c.Param("id"), patch, userID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to update inventory")
		return
	}
	utils.SuccessResponse(c, item)
}

// History returns inventory_history points for the last ?days (default 30)
func (h *InventoryHandler) History(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))

	history, err := h.queries.GetInventoryHistory(c.Request.Context(), c.Query("blood_type"), days)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch inventory history")
		return
	}
	utils.SuccessResponse(c, gin.H{"history": history})
}
