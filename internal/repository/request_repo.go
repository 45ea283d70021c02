package repository

import (
	"context"

	"blood-bank-dashboard/internal/models"

	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepo(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// GetRequests retrieves all blood requests, newest first
func (r *RequestRepository) GetRequests(ctx context.Context) ([]models.BloodRequest, error) {
	var requests []models.BloodRequest
	err := r.db.WithContext(ctx).Order("request_date DESC").Find(&requests).Error
	return requests, err
}

// GetRequestsByStatus retrieves requests with the given status, newest first
func (r *RequestRepository) GetRequestsByStatus(ctx context.Context, status models.RequestStatus) ([]models.BloodRequest, error) {
	var requests []models.BloodRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("request_date DESC").
		Find(&requests).Error
	return requests, err
}

// GetRequestsByHospital retrieves requests raised by one hospital, newest first
func (r *RequestRepository) GetRequestsByHospital(ctx context.Context, hospital string) ([]models.BloodRequest, error) {
	var requests []models.BloodRequest
	err := r.db.WithContext(ctx).
		Where("hospital = ?", hospital).
		Order("request_date DESC").
		Find(&requests).Error
	return requests, err
}

// GetRequestByID retrieves a single request
func (r *RequestRepository) GetRequestByID(ctx context.Context, id string) (*models.BloodRequest, error) {
	return findOne[models.BloodRequest](ctx, r.db, "id", id)
}

// CreateRequest inserts a request
func (r *RequestRepository) CreateRequest(ctx context.Context, request *models.BloodRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// UpdateRequest applies cols and returns the updated request
func (r *RequestRepository) UpdateRequest(ctx context.Context, id string, cols map[string]interface{}) (*models.BloodRequest, error) {
	return updateReturning[models.BloodRequest](ctx, r.db, "id", id, cols)
}
