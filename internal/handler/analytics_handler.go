package handler

import (
	"context"

	"blood-bank-dashboard/internal/dashboard"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/service"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TrendQueries serve the filtered trend charts, which are not cached
type TrendQueries interface {
	GetDonationTrends(ctx context.Context, r service.TimeRange, donationType string) ([]models.DonationTrend, error)
	GetRequestTrends(ctx context.Context, r service.TimeRange, status string) ([]models.RequestTrend, error)
}

type AnalyticsHandler struct {
	views   *dashboard.Registry
	queries TrendQueries
	logger  *zap.Logger
}

func NewAnalyticsHandler(views *dashboard.Registry, queries TrendQueries, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{views: views, queries: queries, logger: logger}
}

// Get returns every analytics dataset for ?range (week, month, quarter, year)
func (h *AnalyticsHandler) Get(c *gin.Context) {
	r := service.ParseTimeRange(c.Query("range"))
	utils.SuccessResponse(c, h.views.Analytics(c.Request.Context(), userID(c), r).Snapshot())
}

func (h *AnalyticsHandler) DonationTrends(c *gin.Context) {
	r := service.ParseTimeRange(c.Query("range"))
	trends, err := h.queries.GetDonationTrends(c.Request.Context(), r, filterValue(c.Query("type")))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch donation trends")
		return
	}
	utils.SuccessResponse(c, gin.H{"range": r, "trends": trends})
}

func (h *AnalyticsHandler) RequestTrends(c *gin.Context) {
	r := service.ParseTimeRange(c.Query("range"))
	trends, err := h.queries.GetRequestTrends(c.Request.Context(), r, filterValue(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch request trends")
		return
	}
	utils.SuccessResponse(c, gin.H{"range": r, "trends": trends})
}

func filterValue(s string) string {
	if s == dashboard.FilterAll {
		return ""
	}
	return s
}
