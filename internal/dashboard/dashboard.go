// Package dashboard holds the per-user views the HTTP layer renders. Each
// view keeps the last loaded data, a loading flag and the last error, and
// applies mutation results locally instead of reading the store again.
package dashboard

import (
	"context"

	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/service"
	"blood-bank-dashboard/internal/validation"
)

type InventoryService interface {
	GetInventory(ctx context.Context) ([]models.BloodInventory, error)
	UpdateInventory(ctx context.Context, id string, patch models.InventoryPatch, actorID string) (*models.BloodInventory, error)
}

type RequestService interface {
	GetRequests(ctx context.Context) ([]models.BloodRequest, error)
	GetRequestsByStatus(ctx context.Context, status models.RequestStatus) ([]models.BloodRequest, error)
	CreateRequest(ctx context.Context, requesterID string, form validation.RequestForm) (*models.BloodRequest, error)
	UpdateRequest(ctx context.Context, id string, patch models.RequestPatch, actorID string) (*models.BloodRequest, error)
	ApproveRequest(ctx context.Context, id, approverID string, notes *string) (*models.BloodRequest, error)
	RejectRequest(ctx context.Context, id, approverID string, notes *string) (*models.BloodRequest, error)
	MarkRequestUrgent(ctx context.Context, id, actorID string) (*models.BloodRequest, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, userID, id string) error
	ClearAllNotifications(ctx context.Context, userID string) error
}

type DonorService interface {
	GetDonorProfile(ctx context.Context, donorID string) (*models.Donor, error)
	UpdateDonorProfile(ctx context.Context, donorID string, patch models.DonorPatch) (*models.Donor, error)
	GetMedicalInfo(ctx context.Context, donorID string) (*models.MedicalInfo, error)
	UpdateMedicalInfo(ctx context.Context, donorID string, patch models.MedicalInfoPatch) (*models.MedicalInfo, error)
	GetDonationHistory(ctx context.Context, donorID string) ([]models.Donation, error)
	GetAppointments(ctx context.Context, donorID string) ([]models.Appointment, error)
	ScheduleAppointment(ctx context.Context, donorID string, form validation.AppointmentForm) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error)
	CancelAppointment(ctx context.Context, id string) (*models.Appointment, error)
}

type AnalyticsService interface {
	GetInventoryTrends(ctx context.Context, r service.TimeRange) ([]models.InventoryTrend, error)
	GetDonationTrends(ctx context.Context, r service.TimeRange, donationType string) ([]models.DonationTrend, error)
	GetRequestTrends(ctx context.Context, r service.TimeRange, status string) ([]models.RequestTrend, error)
	GetBloodTypeDistribution(ctx context.Context) ([]models.BloodTypeCount, error)
	GetHospitalRequestDistribution(ctx context.Context) ([]models.HospitalCount, error)
}

// Deps are shared by every view a Registry builds
type Deps struct {
	Group    *datasync.Group
	Observer datasync.Observer
}

func (d Deps) options(view, key string) []datasync.Option {
	var opts []datasync.Option
	if d.Group != nil {
		opts = append(opts, datasync.WithGroup(d.Group, key))
	}
	if d.Observer != nil {
		opts = append(opts, datasync.WithObserver(view, d.Observer))
	}
	return opts
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
