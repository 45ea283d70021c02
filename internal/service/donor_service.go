package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/repository"
	"blood-bank-dashboard/internal/validation"

	"go.uber.org/zap"
)

type DonorStore interface {
	GetDonorByID(ctx context.Context, id string) (*models.Donor, error)
	UpdateDonor(ctx context.Context, id string, cols map[string]interface{}) (*models.Donor, error)
	GetMedicalInfo(ctx context.Context, donorID string) (*models.MedicalInfo, error)
	MedicalInfoExists(ctx context.Context, donorID string) (bool, error)
	UpdateMedicalInfo(ctx context.Context, donorID string, cols map[string]interface{}) (*models.MedicalInfo, error)
	CreateMedicalInfo(ctx context.Context, info *models.MedicalInfo) error
	GetDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error)
	GetAppointmentsByDonor(ctx context.Context, donorID string) ([]models.Appointment, error)
	GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	UpdateAppointment(ctx context.Context, id string, cols map[string]interface{}) (*models.Appointment, error)
}

type DonorService struct {
	store  DonorStore
	logger *zap.Logger
}

func NewDonorService(store DonorStore, logger *zap.Logger) *DonorService {
	return &DonorService{store: store, logger: logger}
}

func (s *DonorService) GetDonorProfile(ctx context.Context, donorID string) (*models.Donor, error) {
	donor, err := s.store.GetDonorByID(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get donor profile: %w", err)
	}
	return donor, nil
}

func (s *DonorService) UpdateDonorProfile(ctx context.Context, donorID string, patch models.DonorPatch) (*models.Donor, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return s.GetDonorProfile(ctx, donorID)
	}
	donor, err := s.store.UpdateDonor(ctx, donorID, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to update donor profile: %w", err)
	}
	return donor, nil
}

// GetMedicalInfo returns nil without error when the donor has no medical info yet
func (s *DonorService) GetMedicalInfo(ctx context.Context, donorID string) (*models.MedicalInfo, error) {
	info, err := s.store.GetMedicalInfo(ctx, donorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medical info: %w", err)
	}
	return info, nil
}

// UpdateMedicalInfo updates the donor's medical info row, inserting it when absent
func (s *DonorService) UpdateMedicalInfo(ctx context.Context, donorID string, patch models.MedicalInfoPatch) (*models.MedicalInfo, error) {
	exists, err := s.store.MedicalInfoExists(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check medical info: %w", err)
	}

	if !exists {
		info := patch.Apply(donorID)
		if err := s.store.CreateMedicalInfo(ctx, info); err != nil {
			return nil, fmt.Errorf("failed to create medical info: %w", err)
		}
		return info, nil
	}

	cols := patch.Columns()
	if len(cols) == 0 {
		return s.GetMedicalInfo(ctx, donorID)
	}
	info, err := s.store.UpdateMedicalInfo(ctx, donorID, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to update medical info: %w", err)
	}
	return info, nil
}

func (s *DonorService) GetDonationHistory(ctx context.Context, donorID string) ([]models.Donation, error) {
	donations, err := s.store.GetDonationsByDonor(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation history: %w", err)
	}
	return donations, nil
}

func (s *DonorService) GetAppointments(ctx context.Context, donorID string) ([]models.Appointment, error) {
	appointments, err := s.store.GetAppointmentsByDonor(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments: %w", err)
	}
	return appointments, nil
}

func (s *DonorService) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appointment, err := s.store.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

// ScheduleAppointment books a new scheduled appointment for donorID
func (s *DonorService) ScheduleAppointment(ctx context.Context, donorID string, form validation.AppointmentForm) (*models.Appointment, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}
	appointment := &models.Appointment{
		DonorID:  donorID,
		Date:     form.Date.UTC(),
		Time:     form.Time,
		Location: form.Location,
		Status:   models.AppointmentScheduled,
		Type:     models.AppointmentType(form.Type),
	}
	if err := s.store.CreateAppointment(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to schedule appointment: %w", err)
	}
	s.logger.Info("appointment scheduled",
		zap.String("donor_id", donorID),
		zap.String("appointment_id", appointment.ID),
		zap.Time("date", appointment.Date),
	)
	return appointment, nil
}

func (s *DonorService) UpdateAppointment(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error) {
	if patch.Date != nil && truncateDay(*patch.Date).Before(truncateDay(time.Now())) {
		return nil, validation.FieldErrors{"date": "Date must be today or later"}
	}
	cols := patch.Columns()
	if len(cols) == 0 {
		return s.GetAppointment(ctx, id)
	}
	appointment, err := s.store.UpdateAppointment(ctx, id, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

func (s *DonorService) CancelAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	status := models.AppointmentCancelled
	return s.UpdateAppointment(ctx, id, models.AppointmentPatch{Status: &status})
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
