package middleware

import (
	"context"
	"errors"
	"net/http"

	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/repository"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentLookup resolves an appointment to find its donor
type AppointmentLookup interface {
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
}

// AccessControlMiddleware keeps donors inside their own records. Staff and
// admins may act on any donor.
type AccessControlMiddleware struct {
	appointments AppointmentLookup
}

func NewAccessControlMiddleware(appointments AppointmentLookup) *AccessControlMiddleware {
	return &AccessControlMiddleware{appointments: appointments}
}

// CheckDonorAccess verifies the donor in the :id path parameter is the caller
func (m *AccessControlMiddleware) CheckDonorAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
			c.Abort()
			return
		}

		if s.HasRole(models.RoleAdmin, models.RoleStaff) {
			c.Next()
			return
		}

		// donor rows share the id of their user
		if c.Param("id") != s.UserID {
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied: you can only access your own donor record")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CheckAppointmentAccess verifies the appointment in :id belongs to the caller
func (m *AccessControlMiddleware) CheckAppointmentAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
			c.Abort()
			return
		}

		appt, err := m.appointments.GetAppointment(c.Request.Context(), c.Param("id"))
		if errors.Is(err, repository.ErrNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Appointment not found")
			c.Abort()
			return
		}
		if err != nil {
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify access")
			c.Abort()
			return
		}

		if !s.HasRole(models.RoleAdmin, models.RoleStaff) && appt.DonorID != s.UserID {
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied: you can only manage your own appointments")
			c.Abort()
			return
		}

		c.Set("donorID", appt.DonorID)
		c.Next()
	}
}
