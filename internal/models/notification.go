package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationAppointment NotificationType = "appointment"
	NotificationInventory   NotificationType = "inventory"
	NotificationRequest     NotificationType = "request"
	NotificationEligibility NotificationType = "eligibility"
	NotificationSystem      NotificationType = "system"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

// Notification represents the notifications table
type Notification struct {
	ID          string               `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string               `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string               `gorm:"size:255;not null" json:"title"`
	Message     string               `gorm:"type:text" json:"message"`
	Timestamp   time.Time            `gorm:"not null;index" json:"timestamp"`
	Read        bool                 `gorm:"not null" json:"read"`
	Type        NotificationType     `gorm:"size:20;not null" json:"type"`
	Priority    NotificationPriority `gorm:"size:20;not null" json:"priority"`
	ActionURL   *string              `gorm:"size:255" json:"action_url,omitempty"`
	ActionLabel *string              `gorm:"size:100" json:"action_label,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n Notification) GetID() string { return n.ID }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	return nil
}
