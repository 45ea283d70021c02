package handler

import (
	"context"
	"net/http"

	"blood-bank-dashboard/internal/dashboard"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/validation"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RequestQueries interface {
	GetRequestsByHospital(ctx context.Context, hospital string) ([]models.BloodRequest, error)
}

type RequestHandler struct {
	views   *dashboard.Registry
	queries RequestQueries
	logger  *zap.Logger
}

func NewRequestHandler(views *dashboard.Registry, queries RequestQueries, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{views: views, queries: queries, logger: logger}
}

type decisionBody struct {
	Notes *string `json:"notes"`
}

// List returns the requests panel for ?status, or the requests of ?hospital
func (h *RequestHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if hospital := c.Query("hospital"); hospital != "" {
		items, err := h.queries.GetRequestsByHospital(ctx, hospital)
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch requests")
			return
		}
		utils.SuccessResponse(c, gin.H{"items": items})
		return
	}

	status := models.RequestStatus(c.Query("status"))
	switch status {
	case "", models.RequestPending, models.RequestApproved, models.RequestRejected, models.RequestUrgent:
	default:
		utils.ValidationErrorResponse(c, map[string]string{"status": "Unknown request status"})
		return
	}

	utils.SuccessResponse(c, h.views.Requests(ctx, userID(c), status).Snapshot())
}

func (h *RequestHandler) view(c *gin.Context) *dashboard.RequestsView {
	return h.views.OpenRequests(c.Request.Context(), userID(c))
}

func (h *RequestHandler) Create(c *gin.Context) {
	var form validation.RequestForm
	if !bindJSON(c, &form) {
		return
	}

	req, err := h.view(c).Create(c.Request.Context(), userID(c), form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create request")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": req})
}

func (h *RequestHandler) Update(c *gin.Context) {
	var patch models.RequestPatch
	if !bindJSON(c, &patch) {
		return
	}

	req, err := h.view(c).Update(c.Request.Context(), c.Param("id"), patch, userID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to update request")
		return
	}
	utils.SuccessResponse(c, req)
}

func (h *RequestHandler) Approve(c *gin.Context) {
	var body decisionBody
	_ = c.ShouldBindJSON(&body)

	req, err := h.view(c).Approve(c.Request.Context(), c.Param("id"), userID(c), body.Notes)
	if err != nil {
		respondError(c, h.logger, err, "Failed to approve request")
		return
	}
	utils.SuccessResponse(c, req)
}

func (h *RequestHandler) Reject(c *gin.Context) {
	var body decisionBody
	_ = c.ShouldBindJSON(&body)

	req, err := h.view(c).Reject(c.Request.Context(), c.Param("id"), userID(c), body.Notes)
	if err != nil {
		respondError(c, h.logger, err, "Failed to reject request")
		return
	}
	utils.SuccessResponse(c, req)
}

func (h *RequestHandler) MarkUrgent(c *gin.Context) {
	req, err := h.view(c).MarkUrgent(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to mark request urgent")
		return
	}
	utils.SuccessResponse(c, req)
}
