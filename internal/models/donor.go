package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type EligibilityStatus string

const (
	EligibilityEligible   EligibilityStatus = "eligible"
	EligibilityIneligible EligibilityStatus = "ineligible"
	EligibilityPending    EligibilityStatus = "pending"
)

// Donor represents the donors table. The id equals the auth user id.
type Donor struct {
	ID                string            `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string            `gorm:"size:255;not null" json:"name"`
	Email             string            `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone             *string           `gorm:"size:50" json:"phone,omitempty"`
	DateOfBirth       *time.Time        `json:"date_of_birth,omitempty"`
	BloodType         *string           `gorm:"size:3" json:"blood_type,omitempty"`
	Address           *string           `gorm:"type:text" json:"address,omitempty"`
	RegistrationDate  time.Time         `gorm:"not null" json:"registration_date"`
	LastDonation      *time.Time        `json:"last_donation,omitempty"`
	TotalDonations    int               `json:"total_donations"`
	EligibilityStatus EligibilityStatus `gorm:"size:20;default:pending" json:"eligibility_status"`
	EligibilityReason *string           `gorm:"type:text" json:"eligibility_reason,omitempty"`
	NextEligibleDate  *time.Time        `json:"next_eligible_date,omitempty"`
}

func (Donor) TableName() string {
	return "donors"
}

func (d Donor) GetID() string { return d.ID }

// DonorPatch carries a partial donor profile update; nil fields are left untouched
type DonorPatch struct {
	Name              *string            `json:"name" binding:"omitempty,min=2"`
	Phone             *string            `json:"phone"`
	DateOfBirth       *time.Time         `json:"date_of_birth"`
	BloodType         *string            `json:"blood_type" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address           *string            `json:"address"`
	EligibilityStatus *EligibilityStatus `json:"eligibility_status" binding:"omitempty,oneof=eligible ineligible pending"`
	EligibilityReason *string            `json:"eligibility_reason"`
	NextEligibleDate  *time.Time         `json:"next_eligible_date"`
}

// Columns returns the column -> value map for the non-nil fields
func (p DonorPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}
	if p.DateOfBirth != nil {
		cols["date_of_birth"] = *p.DateOfBirth
	}
	if p.BloodType != nil {
		cols["blood_type"] = *p.BloodType
	}
	if p.Address != nil {
		cols["address"] = *p.Address
	}
	if p.EligibilityStatus != nil {
		cols["eligibility_status"] = string(*p.EligibilityStatus)
	}
	if p.EligibilityReason != nil {
		cols["eligibility_reason"] = *p.EligibilityReason
	}
	if p.NextEligibleDate != nil {
		cols["next_eligible_date"] = *p.NextEligibleDate
	}
	return cols
}

// MedicalInfo represents the medical_info table, at most one row per donor
type MedicalInfo struct {
	DonorID           string         `gorm:"type:uuid;primaryKey" json:"donor_id"`
	Weight            *float64       `json:"weight,omitempty"`
	Height            *float64       `json:"height,omitempty"`
	Allergies         pq.StringArray `gorm:"type:text[]" json:"allergies,omitempty"`
	Medications       pq.StringArray `gorm:"type:text[]" json:"medications,omitempty"`
	MedicalConditions pq.StringArray `gorm:"type:text[]" json:"medical_conditions,omitempty"`
	LastHealthCheck   *time.Time     `json:"last_health_check,omitempty"`
	HemoglobinLevel   *float64       `json:"hemoglobin_level,omitempty"`
	BloodPressure     *string        `gorm:"size:20" json:"blood_pressure,omitempty"`
	Pulse             *int           `json:"pulse,omitempty"`
}

func (MedicalInfo) TableName() string {
	return "medical_info"
}

type MedicalInfoPatch struct {
	Weight            *float64   `json:"weight" binding:"omitempty,gt=0"`
	Height            *float64   `json:"height" binding:"omitempty,gt=0"`
	Allergies         []string   `json:"allergies"`
	Medications       []string   `json:"medications"`
	MedicalConditions []string   `json:"medical_conditions"`
	LastHealthCheck   *time.Time `json:"last_health_check"`
	HemoglobinLevel   *float64   `json:"hemoglobin_level" binding:"omitempty,gt=0"`
	BloodPressure     *string    `json:"blood_pressure"`
	Pulse             *int       `json:"pulse" binding:"omitempty,gt=0"`
}

func (p MedicalInfoPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Weight != nil {
		cols["weight"] = *p.Weight
	}
	if p.Height != nil {
		cols["height"] = *p.Height
	}
	if p.Allergies != nil {
		cols["allergies"] = pq.StringArray(p.Allergies)
	}
	if p.Medications != nil {
		cols["medications"] = pq.StringArray(p.Medications)
	}
	if p.MedicalConditions != nil {
		cols["medical_conditions"] = pq.StringArray(p.MedicalConditions)
	}
	if p.LastHealthCheck != nil {
		cols["last_health_check"] = *p.LastHealthCheck
	}
	if p.HemoglobinLevel != nil {
		cols["hemoglobin_level"] = *p.HemoglobinLevel
	}
	if p.BloodPressure != nil {
		cols["blood_pressure"] = *p.BloodPressure
	}
	if p.Pulse != nil {
		cols["pulse"] = *p.Pulse
	}
	return cols
}

// Apply builds a new medical_info row for donorID from the patch
func (p MedicalInfoPatch) Apply(donorID string) *MedicalInfo {
	info := &MedicalInfo{
		DonorID:         donorID,
		Weight:          p.Weight,
		Height:          p.Height,
		LastHealthCheck: p.LastHealthCheck,
		HemoglobinLevel: p.HemoglobinLevel,
		BloodPressure:   p.BloodPressure,
		Pulse:           p.Pulse,
	}
	if p.Allergies != nil {
		info.Allergies = pq.StringArray(p.Allergies)
	}
	if p.Medications != nil {
		info.Medications = pq.StringArray(p.Medications)
	}
	if p.MedicalConditions != nil {
		info.MedicalConditions = pq.StringArray(p.MedicalConditions)
	}
	return info
}

type DonationType string

const (
	DonationWholeBlood     DonationType = "whole blood"
	DonationPlasma         DonationType = "plasma"
	DonationPlatelets      DonationType = "platelets"
	DonationDoubleRedCells DonationType = "double red cells"
)

type DonationStatus string

const (
	DonationCompleted DonationStatus = "completed"
	DonationDeferred  DonationStatus = "deferred"
	DonationCancelled DonationStatus = "cancelled"
)

// Donation represents the donations table
type Donation struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	DonorID      string         `gorm:"type:uuid;not null;index" json:"donor_id"`
	Date         time.Time      `gorm:"not null" json:"date"`
	Location     string         `gorm:"size:255" json:"location"`
	DonationType DonationType   `gorm:"size:30;not null" json:"donation_type"`
	Status       DonationStatus `gorm:"size:20;not null" json:"status"`
	Hemoglobin   float64        `json:"hemoglobin"`
	Volume       int            `json:"volume"`
	Notes        *string        `gorm:"type:text" json:"notes,omitempty"`
}

func (Donation) TableName() string {
	return "donations"
}

func (d Donation) GetID() string { return d.ID }

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type AppointmentType string

const (
	AppointmentTypeDonation    AppointmentType = "donation"
	AppointmentTypeAppointment AppointmentType = "appointment"
	AppointmentTypeEligibility AppointmentType = "eligibility"
)

// Appointment represents the appointments table
type Appointment struct {
	ID       string            `gorm:"type:uuid;primaryKey" json:"id"`
	DonorID  string            `gorm:"type:uuid;not null;index" json:"donor_id"`
	Date     time.Time         `gorm:"not null" json:"date"`
	Time     string            `gorm:"size:20" json:"time"`
	Location string            `gorm:"size:255" json:"location"`
	Status   AppointmentStatus `gorm:"size:20;not null" json:"status"`
	Type     AppointmentType   `gorm:"size:20;not null" json:"type"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a Appointment) GetID() string { return a.ID }

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type AppointmentPatch struct {
	Date     *time.Time         `json:"date"`
	Time     *string            `json:"time"`
	Location *string            `json:"location"`
	Status   *AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	Type     *AppointmentType   `json:"type" binding:"omitempty,oneof=donation appointment eligibility"`
}

func (p AppointmentPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.Time != nil {
		cols["time"] = *p.Time
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Type != nil {
		cols["type"] = string(*p.Type)
	}
	return cols
}
