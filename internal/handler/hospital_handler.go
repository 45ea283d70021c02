package handler

import (
	"context"

	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HospitalService interface {
	GetAllHospitals(ctx context.Context) ([]models.Hospital, error)
	GetHospitalByID(ctx context.Context, id string) (*models.Hospital, error)
}

// HospitalHandler serves the hospital picker of the request form
type HospitalHandler struct {
	hospitalService HospitalService
	logger          *zap.Logger
}

func NewHospitalHandler(hospitalService HospitalService, logger *zap.Logger) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
		logger:          logger,
	}
}

func (h *HospitalHandler) GetAllHospitals(c *gin.Context) {
	hospitals, err := h.hospitalService.GetAllHospitals(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch hospitals")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

func (h *HospitalHandler) GetHospital(c *gin.Context) {
	hospital, err := h.hospitalService.GetHospitalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch hospital")
		return
	}

	utils.SuccessResponse(c, hospital)
}
