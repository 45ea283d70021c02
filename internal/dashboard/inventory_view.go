package dashboard

import (
	"context"
	"time"

	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/display"
	"blood-bank-dashboard/internal/models"
)

type InventoryItem struct {
	models.BloodInventory
	Percentage string `json:"percentage"`
	Classes    string `json:"classes"`
}

type InventorySnapshot struct {
	Items         []InventoryItem `json:"items"`
	CriticalCount int             `json:"critical_count"`
	LowCount      int             `json:"low_count"`
	Loading       bool            `json:"loading"`
	Error         string          `json:"error,omitempty"`
}

type InventoryView struct {
	svc  InventoryService
	list *datasync.Collection[models.BloodInventory]
}

func NewInventoryView(svc InventoryService, deps Deps) *InventoryView {
	return &InventoryView{
		svc:  svc,
		list: datasync.NewCollection(svc.GetInventory, deps.options("inventory", datasync.Key("inventory", "all"))...),
	}
}

func (v *InventoryView) Load(ctx context.Context) error { return v.list.Load(ctx) }

func (v *InventoryView) Refresh(ctx context.Context) error { return v.list.Refresh(ctx) }

func (v *InventoryView) LoadedAt() time.Time { return v.list.LoadedAt() }

// UpdateItem saves patch and merges the stored row into the list
func (v *InventoryView) UpdateItem(ctx context.Context, id string, patch models.InventoryPatch, actorID string) (*models.BloodInventory, error) {
	item, err := v.svc.UpdateInventory(ctx, id, patch, actorID)
	if err != nil {
		return nil, err
	}
	v.list.Merge(*item)
	return item, nil
}

func (v *InventoryView) Snapshot() InventorySnapshot {
	state := v.list.Snapshot()
	snap := InventorySnapshot{
		Items:   make([]InventoryItem, 0, len(state.Data)),
		Loading: state.Loading,
		Error:   errString(state.Err),
	}
	for _, row := range state.Data {
		switch row.Status {
		case models.InventoryCritical:
			snap.CriticalCount++
		case models.InventoryLow:
			snap.LowCount++
		}
		snap.Items = append(snap.Items, InventoryItem{
			BloodInventory: row,
			Percentage:     display.FormatPercentage(display.Percentage(row.Units, row.Capacity)),
			Classes:        display.StatusClasses(row.Status),
		})
	}
	return snap
}
