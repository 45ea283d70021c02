package handler

import (
	"errors"
	"net/http"

	"blood-bank-dashboard/internal/dashboard"
	"blood-bank-dashboard/internal/repository"
	"blood-bank-dashboard/internal/service"
	"blood-bank-dashboard/internal/session"
	"blood-bank-dashboard/internal/validation"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps domain errors onto HTTP statuses. Anything unrecognised
// is logged and reported as fallback with a 500.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		utils.ValidationErrorResponse(c, fields)
	case errors.Is(err, repository.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, service.ErrAccessDenied):
		utils.ErrorResponse(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenExpired):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrResetTokenInvalid):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, dashboard.ErrUnknownPanel):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	default:
		logger.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
		utils.ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}

// bindJSON decodes the body into dst, answering 400 on malformed input
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}
