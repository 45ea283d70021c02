package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
	RequestUrgent   RequestStatus = "urgent"
)

type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
)

// BloodRequest represents the blood_requests table
type BloodRequest struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	RequestDate time.Time       `gorm:"not null;index" json:"request_date"`
	Hospital    string          `gorm:"size:255;not null;index" json:"hospital"`
	HospitalID  *string         `gorm:"type:uuid" json:"hospital_id,omitempty"`
	BloodType   string          `gorm:"size:3;not null" json:"blood_type"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Status      RequestStatus   `gorm:"size:20;not null;index" json:"status"`
	Priority    RequestPriority `gorm:"size:20;not null" json:"priority"`
	RequesterID string          `gorm:"type:uuid;not null" json:"requester_id"`
	ApproverID  *string         `gorm:"type:uuid" json:"approver_id,omitempty"`
	Notes       *string         `gorm:"type:text" json:"notes,omitempty"`
}

func (BloodRequest) TableName() string {
	return "blood_requests"
}

func (r BloodRequest) GetID() string { return r.ID }

func (r *BloodRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RequestPatch is a partial blood request update
type RequestPatch struct {
	Hospital   *string          `json:"hospital"`
	BloodType  *string          `json:"blood_type" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Quantity   *int             `json:"quantity" binding:"omitempty,gte=1"`
	Status     *RequestStatus   `json:"status" binding:"omitempty,oneof=pending approved rejected urgent"`
	Priority   *RequestPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	ApproverID *string          `json:"approver_id"`
	Notes      *string          `json:"notes"`
}

func (p RequestPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Hospital != nil {
		cols["hospital"] = *p.Hospital
	}
	if p.BloodType != nil {
		cols["blood_type"] = *p.BloodType
	}
	if p.Quantity != nil {
		cols["quantity"] = *p.Quantity
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Priority != nil {
		cols["priority"] = string(*p.Priority)
	}
	if p.ApproverID != nil {
		cols["approver_id"] = *p.ApproverID
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	return cols
}
