package handler

import (
	"fmt"
	"net/http"

	"blood-bank-dashboard/internal/dashboard"
	"blood-bank-dashboard/internal/export"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/validation"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DonorHandler serves the donor profile, donation history and appointment
// panels. Routes are guarded so donors only reach their own :id.
type DonorHandler struct {
	views  *dashboard.Registry
	logger *zap.Logger
}

func NewDonorHandler(views *dashboard.Registry, logger *zap.Logger) *DonorHandler {
	return &DonorHandler{views: views, logger: logger}
}

func (h *DonorHandler) GetDonor(c *gin.Context) {
	snap := h.views.Donor(c.Request.Context(), userID(c), c.Param("id")).Snapshot()
	if snap.Profile == nil && snap.Error != "" {
		utils.ErrorResponse(c, http.StatusNotFound, "Donor not found")
		return
	}
	utils.SuccessResponse(c, snap)
}

func (h *DonorHandler) UpdateDonor(c *gin.Context) {
	var patch models.DonorPatch
	if !bindJSON(c, &patch) {
		return
	}

	ctx := c.Request.Context()
	donor, err := h.views.Donor(ctx, userID(c), c.Param("id")).UpdateProfile(ctx, patch)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update donor profile")
		return
	}
	utils.SuccessResponse(c, donor)
}

func (h *DonorHandler) GetMedicalInfo(c *gin.Context) {
	snap := h.views.Donor(c.Request.Context(), userID(c), c.Param("id")).Snapshot()
	utils.SuccessResponse(c, gin.H{"medical_info": snap.MedicalInfo})
}

func (h *DonorHandler) UpdateMedicalInfo(c *gin.Context) {
	var patch models.MedicalInfoPatch
	if !bindJSON(c, &patch) {
		return
	}

	ctx := c.Request.Context()
	info, err := h.views.Donor(ctx, userID(c), c.Param("id")).UpdateMedicalInfo(ctx, patch)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update medical info")
		return
	}
	utils.SuccessResponse(c, info)
}

// Donations returns the donation history filtered by ?search, ?type and ?status
func (h *DonorHandler) Donations(c *gin.Context) {
	view := h.views.Donations(c.Request.Context(), userID(c), c.Param("id"))
	utils.SuccessResponse(c, view.Filter(dashboard.DonationFilter{
		Search: c.Query("search"),
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}))
}

// ExportDonations downloads the filtered donation history as a spreadsheet
func (h *DonorHandler) ExportDonations(c *gin.Context) {
	donorID := c.Param("id")
	view := h.views.Donations(c.Request.Context(), userID(c), donorID)
	snap := view.Filter(dashboard.DonationFilter{
		Search: c.Query("search"),
		Type:   c.Query("type"),
		Status: c.Query("status"),
	})
	if snap.Error != "" && len(snap.Items) == 0 {
		utils.ErrorResponse(c, http.StatusBadGateway, "Donation history unavailable")
		return
	}

	data, err := export.DonationHistory(snap.Items)
	if err != nil {
		respondError(c, h.logger, err, "Failed to export donation history")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="donations-%s.xlsx"`, donorID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *DonorHandler) Appointments(c *gin.Context) {
	utils.SuccessResponse(c, h.views.Appointments(c.Request.Context(), userID(c), c.Param("id")).Snapshot())
}

func (h *DonorHandler) ScheduleAppointment(c *gin.Context) {
	var form validation.AppointmentForm
	if !bindJSON(c, &form) {
		return
	}

	ctx := c.Request.Context()
	appt, err := h.views.Appointments(ctx, userID(c), c.Param("id")).Schedule(ctx, form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to schedule appointment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": appt})
}

// UpdateAppointment expects CheckAppointmentAccess to have resolved donorID
func (h *DonorHandler) UpdateAppointment(c *gin.Context) {
	var patch models.AppointmentPatch
	if !bindJSON(c, &patch) {
		return
	}

	ctx := c.Request.Context()
	appt, err := h.views.Appointments(ctx, userID(c), c.GetString("donorID")).Update(ctx, c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update appointment")
		return
	}
	utils.SuccessResponse(c, appt)
}

func (h *DonorHandler) CancelAppointment(c *gin.Context) {
	ctx := c.Request.Context()
	appt, err := h.views.Appointments(ctx, userID(c), c.GetString("donorID")).Cancel(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to cancel appointment")
		return
	}
	utils.SuccessResponse(c, appt)
}
