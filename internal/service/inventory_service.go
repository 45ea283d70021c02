package service

import (
	"context"
	"fmt"
	"time"

	"blood-bank-dashboard/internal/display"
	"blood-bank-dashboard/internal/models"

	"go.uber.org/zap"
)

const defaultHistoryDays = 30

type InventoryStore interface {
	GetInventory(ctx context.Context) ([]models.BloodInventory, error)
	GetInventoryByType(ctx context.Context, bloodType string) ([]models.BloodInventory, error)
	GetInventoryByLocation(ctx context.Context, location string) ([]models.BloodInventory, error)
	GetInventoryByID(ctx context.Context, id string) (*models.BloodInventory, error)
	UpdateInventory(ctx context.Context, id string, cols map[string]interface{}) (*models.BloodInventory, error)
	CreateHistory(ctx context.Context, points []models.InventoryHistory) error
	GetHistorySince(ctx context.Context, start time.Time, bloodType string) ([]models.InventoryHistory, error)
}

type InventoryService struct {
	store    InventoryStore
	audit    Auditor
	notifier StaffNotifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewInventoryService(store InventoryStore, audit Auditor, notifier StaffNotifier, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		store:    store,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetInventory retrieves every inventory row
func (s *InventoryService) GetInventory(ctx context.Context) ([]models.BloodInventory, error) {
	items, err := s.store.GetInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return items, nil
}

func (s *InventoryService) GetInventoryByType(ctx context.Context, bloodType string) ([]models.BloodInventory, error) {
	items, err := s.store.GetInventoryByType(ctx, bloodType)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory for %s: %w", bloodType, err)
	}
	return items, nil
}

func (s *InventoryService) GetInventoryByLocation(ctx context.Context, location string) ([]models.BloodInventory, error) {
	items, err := s.store.GetInventoryByLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory at %s: %w", location, err)
	}
	return items, nil
}

// UpdateInventory applies patch, stamps last_updated and, unless the patch
// sets a status, recomputes it when units or capacity change. Staff are
// alerted when the row turns critical.
func (s *InventoryService) UpdateInventory(ctx context.Context, id string, patch models.InventoryPatch, actorID string) (*models.BloodInventory, error) {
	cols := patch.Columns()
	var previous models.InventoryStatus
	if patch.Status != nil || patch.Units != nil || patch.Capacity != nil {
		current, err := s.store.GetInventoryByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load inventory item: %w", err)
		}
		previous = current.Status
		if patch.Status == nil {
			cols["status"] = string(recomputeStatus(*current, patch))
		}
	}
	cols["last_updated"] = s.now()

	item, err := s.store.UpdateInventory(ctx, id, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}

	details := fmt.Sprintf("Updated %s inventory at %s: %d/%d units (%s)", item.BloodType, item.Location, item.Units, item.Capacity, item.Status)
	if err := s.audit.CreateAuditLog(ctx, &actorID, "inventory_update", details); err != nil {
		s.logger.Warn("failed to write audit log", zap.Error(err), zap.String("inventory_id", id))
	}

	if previous != "" && previous != models.InventoryCritical && item.Status == models.InventoryCritical && s.notifier != nil {
		alertCritical(ctx, s.notifier, s.logger, *item)
	}
	return item, nil
}

func recomputeStatus(current models.BloodInventory, patch models.InventoryPatch) models.InventoryStatus {
	units, capacity := current.Units, current.Capacity
	if patch.Units != nil {
		units = *patch.Units
	}
	if patch.Capacity != nil {
		capacity = *patch.Capacity
	}
	return display.InventoryStatus(units, capacity)
}

// GetInventoryHistory retrieves history points of the last days days, 30 when
// days is not positive. An empty bloodType covers every type.
func (s *InventoryService) GetInventoryHistory(ctx context.Context, bloodType string, days int) ([]models.InventoryHistory, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	start := s.now().AddDate(0, 0, -days)
	points, err := s.store.GetHistorySince(ctx, start, bloodType)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory history: %w", err)
	}
	return points, nil
}
