package dashboard

import (
	"context"
	"strings"
	"time"

	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/models"
)

// FilterAll disables a donation type or status filter
const FilterAll = "all"

type DonationStats struct {
	TotalDonations int        `json:"total_donations"`
	TotalVolume    int        `json:"total_volume"`
	LastDonation   *time.Time `json:"last_donation,omitempty"`
}

type DonationFilter struct {
	Search string
	Type   string
	Status string
}

type DonationHistorySnapshot struct {
	DonorID string            `json:"donor_id"`
	Items   []models.Donation `json:"items"`
	Stats   DonationStats     `json:"stats"`
	Loading bool              `json:"loading"`
	Error   string            `json:"error,omitempty"`
}

type DonationHistoryView struct {
	donorID string
	list    *datasync.Collection[models.Donation]
}

func NewDonationHistoryView(svc DonorService, donorID string, deps Deps) *DonationHistoryView {
	fetch := func(ctx context.Context) ([]models.Donation, error) {
		return svc.GetDonationHistory(ctx, donorID)
	}
	return &DonationHistoryView{
		donorID: donorID,
		list:    datasync.NewCollection(fetch, deps.options("donations", datasync.Key("donations", donorID))...),
	}
}

func (v *DonationHistoryView) DonorID() string { return v.donorID }

func (v *DonationHistoryView) Load(ctx context.Context) error { return v.list.Load(ctx) }

func (v *DonationHistoryView) Refresh(ctx context.Context) error { return v.list.Refresh(ctx) }

func (v *DonationHistoryView) LoadedAt() time.Time { return v.list.LoadedAt() }

// Items returns every loaded donation, unfiltered
func (v *DonationHistoryView) Items() []models.Donation { return v.list.Items() }

// Filter returns the donations matching f. Search matches the location or
// the id, case-insensitively. Stats always cover the whole history.
func (v *DonationHistoryView) Filter(f DonationFilter) DonationHistorySnapshot {
	state := v.list.Snapshot()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	items := []models.Donation{}
	for _, d := range state.Data {
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Location), search) &&
			!strings.Contains(strings.ToLower(d.ID), search) {
			continue
		}
		if active(f.Type) && string(d.DonationType) != f.Type {
			continue
		}
		if active(f.Status) && string(d.Status) != f.Status {
			continue
		}
		items = append(items, d)
	}
	return DonationHistorySnapshot{
		DonorID: v.donorID,
		Items:   items,
		Stats:   donationStats(state.Data),
		Loading: state.Loading,
		Error:   errString(state.Err),
	}
}

func (v *DonationHistoryView) Snapshot() DonationHistorySnapshot {
	return v.Filter(DonationFilter{})
}

func active(filter string) bool {
	return filter != "" && filter != FilterAll
}

func donationStats(donations []models.Donation) DonationStats {
	var stats DonationStats
	for i := range donations {
		d := donations[i]
		if d.Status == models.DonationCompleted {
			stats.TotalDonations++
			stats.TotalVolume += d.Volume
		}
		if stats.LastDonation == nil || d.Date.After(*stats.LastDonation) {
			date := d.Date
			stats.LastDonation = &date
		}
	}
	return stats
}
