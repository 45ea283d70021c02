package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryStatus string

const (
	InventoryCritical InventoryStatus = "critical"
	InventoryLow      InventoryStatus = "low"
	InventoryNormal   InventoryStatus = "normal"
	InventoryExcess   InventoryStatus = "excess"
)

// BloodInventory represents the blood_inventory table, one row per blood type and location
type BloodInventory struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	BloodType   string          `gorm:"size:3;not null;index" json:"blood_type"`
	Units       int             `gorm:"not null" json:"units"`
	Capacity    int             `gorm:"not null" json:"capacity"`
	Status      InventoryStatus `gorm:"size:20;not null" json:"status"`
	Location    string          `gorm:"size:255;index" json:"location"`
	LastUpdated time.Time       `json:"last_updated"`
}

func (BloodInventory) TableName() string {
	return "blood_inventory"
}

func (b BloodInventory) GetID() string { return b.ID }

// InventoryPatch is a partial inventory update from staff
type InventoryPatch struct {
	Units    *int             `json:"units" binding:"omitempty,gte=0"`
	Capacity *int             `json:"capacity" binding:"omitempty,gt=0"`
	Status   *InventoryStatus `json:"status" binding:"omitempty,oneof=critical low normal excess"`
	Location *string          `json:"location"`
}

func (p InventoryPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Units != nil {
		cols["units"] = *p.Units
	}
	if p.Capacity != nil {
		cols["capacity"] = *p.Capacity
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	return cols
}

// InventoryHistory represents one inventory_history point
type InventoryHistory struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BloodType string    `gorm:"size:3;not null;index" json:"blood_type"`
	Units     int       `gorm:"not null" json:"units"`
	Capacity  int       `json:"capacity"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Location  string    `gorm:"size:255" json:"location"`
}

func (InventoryHistory) TableName() string {
	return "inventory_history"
}

func (h *InventoryHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
