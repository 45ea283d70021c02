package repository

import (
	"context"
	"time"

	"blood-bank-dashboard/internal/models"

	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetInventory retrieves every inventory row
func (r *InventoryRepository) GetInventory(ctx context.Context) ([]models.BloodInventory, error) {
	var items []models.BloodInventory
	err := r.db.WithContext(ctx).Order("blood_type ASC").Find(&items).Error
	return items, err
}

// GetInventoryByType retrieves inventory rows for one blood type
func (r *InventoryRepository) GetInventoryByType(ctx context.Context, bloodType string) ([]models.BloodInventory, error) {
	var items []models.BloodInventory
	err := r.db.WithContext(ctx).Where("blood_type = ?", bloodType).Find(&items).Error
	return items, err
}

// GetInventoryByLocation retrieves inventory rows held at one location
func (r *InventoryRepository) GetInventoryByLocation(ctx context.Context, location string) ([]models.BloodInventory, error) {
	var items []models.BloodInventory
	err := r.db.WithContext(ctx).Where("location = ?", location).Find(&items).Error
	return items, err
}

// GetInventoryByID retrieves a single inventory row
func (r *InventoryRepository) GetInventoryByID(ctx context.Context, id string) (*models.BloodInventory, error) {
	return findOne[models.BloodInventory](ctx, r.db, "id", id)
}

// UpdateInventory applies cols and returns the updated row
func (r *InventoryRepository) UpdateInventory(ctx context.Context, id string, cols map[string]interface{}) (*models.BloodInventory, error) {
	return updateReturning[models.BloodInventory](ctx, r.db, "id", id, cols)
}

// CreateHistory appends inventory history points
func (r *InventoryRepository) CreateHistory(ctx context.Context, points []models.InventoryHistory) error {
	if len(points) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&points).Error
}

// GetHistorySince retrieves history points from start onwards, oldest first.
// An empty bloodType matches every type.
func (r *InventoryRepository) GetHistorySince(ctx context.Context, start time.Time, bloodType string) ([]models.InventoryHistory, error) {
	var points []models.InventoryHistory
	query := r.db.WithContext(ctx).Where("date >= ?", start)
	if bloodType != "" {
		query = query.Where("blood_type = ?", bloodType)
	}
	err := query.Order("date ASC").Find(&points).Error
	return points, err
}
