package repository

import (
	"context"
	"time"

	"blood-bank-dashboard/internal/models"

	"gorm.io/gorm"
)

// AnalyticsRepository reads chart data, mostly through stored procedures
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// GetInventoryTrends projects inventory history from start onwards
func (r *AnalyticsRepository) GetInventoryTrends(ctx context.Context, start time.Time) ([]models.InventoryTrend, error) {
	var trends []models.InventoryTrend
	err := r.db.WithContext(ctx).
		Model(&models.InventoryHistory{}).
		Select("blood_type, date, units, capacity").
		Where("date >= ?", start).
		Order("date ASC").
		Scan(&trends).Error
	return trends, err
}

// GetDonationTrends calls get_donation_trends; an empty donationType disables the filter
func (r *AnalyticsRepository) GetDonationTrends(ctx context.Context, start time.Time, donationType string) ([]models.DonationTrend, error) {
	var trends []models.DonationTrend
	var err error
	if donationType != "" {
		err = r.db.WithContext(ctx).
			Raw("SELECT * FROM get_donation_trends(?) WHERE donation_type = ?", start, donationType).
			Scan(&trends).Error
	} else {
		err = r.db.WithContext(ctx).
			Raw("SELECT * FROM get_donation_trends(?)", start).
			Scan(&trends).Error
	}
	return trends, err
}

// GetRequestTrends calls get_request_trends; an empty status disables the filter
func (r *AnalyticsRepository) GetRequestTrends(ctx context.Context, start time.Time, status string) ([]models.RequestTrend, error) {
	var trends []models.RequestTrend
	var err error
	if status != "" {
		err = r.db.WithContext(ctx).
			Raw("SELECT * FROM get_request_trends(?) WHERE status = ?", start, status).
			Scan(&trends).Error
	} else {
		err = r.db.WithContext(ctx).
			Raw("SELECT * FROM get_request_trends(?)", start).
			Scan(&trends).Error
	}
	return trends, err
}

// GetBloodTypeDistribution calls get_blood_type_distribution
func (r *AnalyticsRepository) GetBloodTypeDistribution(ctx context.Context) ([]models.BloodTypeCount, error) {
	var counts []models.BloodTypeCount
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_blood_type_distribution()").
		Scan(&counts).Error
	return counts, err
}

// GetHospitalRequestDistribution calls get_hospital_request_distribution
func (r *AnalyticsRepository) GetHospitalRequestDistribution(ctx context.Context) ([]models.HospitalCount, error) {
	var counts []models.HospitalCount
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_hospital_request_distribution()").
		Scan(&counts).Error
	return counts, err
}
