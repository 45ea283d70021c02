package service

import (
	"context"
	"fmt"
	"time"

	"blood-bank-dashboard/internal/display"
	"blood-bank-dashboard/internal/models"

	"go.uber.org/zap"
)

// StaffNotifier broadcasts a notification to staff roles
type StaffNotifier interface {
	NotifyRoles(ctx context.Context, template models.Notification, roles ...string) (int, error)
}

// CriticalGauge exposes how many inventory rows are critical
type CriticalGauge interface {
	SetCriticalStock(n int)
}

// WorkerService periodically snapshots inventory levels into history and
// keeps each row's status in line with its fill level. Rows it moves into
// critical alert staff; rows moved there through InventoryService have
// already alerted.
type WorkerService struct {
	inventory InventoryStore
	notifier  StaffNotifier
	gauge     CriticalGauge
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewWorkerService(inventory InventoryStore, notifier StaffNotifier, gauge CriticalGauge, interval time.Duration, logger *zap.Logger) *WorkerService {
	return &WorkerService{
		inventory: inventory,
		notifier:  notifier,
		gauge:     gauge,
		interval:  interval,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start runs snapshots until ctx is cancelled
func (w *WorkerService) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("inventory snapshot worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("inventory snapshot worker stopped")
			return
		case <-ticker.C:
			if err := w.Snapshot(ctx); err != nil {
				w.logger.Error("inventory snapshot failed", zap.Error(err))
			}
		}
	}
}

// Snapshot records one history point per inventory row
func (w *WorkerService) Snapshot(ctx context.Context) error {
	items, err := w.inventory.GetInventory(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch inventory: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	now := w.now()
	points := make([]models.InventoryHistory, 0, len(items))
	critical := 0

	for _, item := range items {
		status := display.InventoryStatus(item.Units, item.Capacity)
		if status == models.InventoryCritical {
			critical++
		}

		if status != item.Status {
			cols := map[string]interface{}{"status": string(status), "last_updated": now}
			if _, err := w.inventory.UpdateInventory(ctx, item.ID, cols); err != nil {
				w.logger.Error("failed to update inventory status",
					zap.Error(err),
					zap.String("inventory_id", item.ID),
				)
			} else if status == models.InventoryCritical {
				item.Status = status
				alertCritical(ctx, w.notifier, w.logger, item)
			}
		}

		points = append(points, models.InventoryHistory{
			BloodType: item.BloodType,
			Units:     item.Units,
			Capacity:  item.Capacity,
			Date:      now,
			Location:  item.Location,
		})
	}

	if w.gauge != nil {
		w.gauge.SetCriticalStock(critical)
	}

	if err := w.inventory.CreateHistory(ctx, points); err != nil {
		return fmt.Errorf("failed to store inventory history: %w", err)
	}

	w.logger.Debug("inventory snapshot stored",
		zap.Int("rows", len(points)),
		zap.Int("critical", critical),
	)
	return nil
}

// alertCritical tells every admin and staff user that item is critical
func alertCritical(ctx context.Context, notifier StaffNotifier, logger *zap.Logger, item models.BloodInventory) {
	actionURL := "/inventory"
	actionLabel := "View inventory"
	template := models.Notification{
		Title:       fmt.Sprintf("%s stock critical", item.BloodType),
		Message:     fmt.Sprintf("%s at %s is down to %d of %d units (%s).", item.BloodType, item.Location, item.Units, item.Capacity, display.FormatPercentage(display.Percentage(item.Units, item.Capacity))),
		Type:        models.NotificationInventory,
		Priority:    models.NotificationPriorityUrgent,
		ActionURL:   &actionURL,
		ActionLabel: &actionLabel,
	}
	sent, err := notifier.NotifyRoles(ctx, template, models.RoleAdmin, models.RoleStaff)
	if err != nil {
		logger.Error("failed to alert staff", zap.Error(err), zap.String("blood_type", item.BloodType))
		return
	}
	logger.Warn("inventory turned critical",
		zap.String("blood_type", item.BloodType),
		zap.String("location", item.Location),
		zap.Int("notified", sent),
	)
}
