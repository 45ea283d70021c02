package repository

import (
	"context"

	"blood-bank-dashboard/internal/models"

	"gorm.io/gorm"
)

type DonorRepository struct {
	db *gorm.DB
}

func NewDonorRepo(db *gorm.DB) *DonorRepository {
	return &DonorRepository{db: db}
}

// GetDonorByID retrieves a donor profile by id
func (r *DonorRepository) GetDonorByID(ctx context.Context, id string) (*models.Donor, error) {
	return findOne[models.Donor](ctx, r.db, "id", id)
}

// CreateDonor inserts a donor profile
func (r *DonorRepository) CreateDonor(ctx context.Context, donor *models.Donor) error {
	return r.db.WithContext(ctx).Create(donor).Error
}

// UpdateDonor applies cols and returns the updated profile
func (r *DonorRepository) UpdateDonor(ctx context.Context, id string, cols map[string]interface{}) (*models.Donor, error) {
	return updateReturning[models.Donor](ctx, r.db, "id", id, cols)
}

// GetMedicalInfo retrieves the medical info row of a donor
func (r *DonorRepository) GetMedicalInfo(ctx context.Context, donorID string) (*models.MedicalInfo, error) {
	return findOne[models.MedicalInfo](ctx, r.db, "donor_id", donorID)
}

// MedicalInfoExists reports whether a donor already has a medical info row
func (r *DonorRepository) MedicalInfoExists(ctx context.Context, donorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MedicalInfo{}).
		Where("donor_id = ?", donorID).
		Count(&count).Error
	return count > 0, err
}

// UpdateMedicalInfo applies cols to an existing medical info row
func (r *DonorRepository) UpdateMedicalInfo(ctx context.Context, donorID string, cols map[string]interface{}) (*models.MedicalInfo, error) {
	return updateReturning[models.MedicalInfo](ctx, r.db, "donor_id", donorID, cols)
}

// CreateMedicalInfo inserts a medical info row
func (r *DonorRepository) CreateMedicalInfo(ctx context.Context, info *models.MedicalInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

// GetDonationsByDonor retrieves donation history, newest first
func (r *DonorRepository) GetDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error) {
	var donations []models.Donation
	err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("date DESC").
		Find(&donations).Error
	return donations, err
}

// GetAppointmentsByDonor retrieves appointments, soonest first
func (r *DonorRepository) GetAppointmentsByDonor(ctx context.Context, donorID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("date ASC").
		Find(&appointments).Error
	return appointments, err
}

// GetAppointmentByID retrieves a single appointment
func (r *DonorRepository) GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	return findOne[models.Appointment](ctx, r.db, "id", id)
}

// CreateAppointment inserts an appointment
func (r *DonorRepository) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

// UpdateAppointment applies cols and returns the updated appointment
func (r *DonorRepository) UpdateAppointment(ctx context.Context, id string, cols map[string]interface{}) (*models.Appointment, error) {
	return updateReturning[models.Appointment](ctx, r.db, "id", id, cols)
}
