package models

import "time"

// InventoryTrend is one inventory_history point projected for charts
type InventoryTrend struct {
	BloodType string    `json:"blood_type"`
	Date      time.Time `json:"date"`
	Units     int       `json:"units"`
	Capacity  int       `json:"capacity"`
}

// DonationTrend is a row of get_donation_trends
type DonationTrend struct {
	Date         time.Time `json:"date"`
	Count        int       `json:"count"`
	DonationType *string   `json:"donation_type,omitempty"`
}

// RequestTrend is a row of get_request_trends
type RequestTrend struct {
	Date   time.Time `json:"date"`
	Count  int       `json:"count"`
	Status *string   `json:"status,omitempty"`
}

type BloodTypeCount struct {
	BloodType string `json:"blood_type"`
	Count     int    `json:"count"`
}

type HospitalCount struct {
	Hospital string `json:"hospital"`
	Count    int    `json:"count"`
}
