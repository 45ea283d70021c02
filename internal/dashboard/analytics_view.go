package dashboard

import (
	"context"
	"sort"
	"time"

	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/display"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/service"
)

type AnalyticsData struct {
	InventoryTrends       []models.InventoryTrend `json:"inventory_trends"`
	DonationTrends        []models.DonationTrend  `json:"donation_trends"`
	RequestTrends         []models.RequestTrend   `json:"request_trends"`
	BloodTypeDistribution []models.BloodTypeCount `json:"blood_type_distribution"`
	HospitalRequests      []models.HospitalCount  `json:"hospital_requests"`
}

// AnalyticsTrends are the arrows shown next to each chart
type AnalyticsTrends struct {
	Inventory map[string]display.Trend `json:"inventory"`
	Donations display.Trend            `json:"donations"`
	Requests  display.Trend            `json:"requests"`
}

type AnalyticsSnapshot struct {
	Range   service.TimeRange `json:"range"`
	Data    AnalyticsData     `json:"data"`
	Trends  AnalyticsTrends   `json:"trends"`
	Loading bool              `json:"loading"`
	Error   string            `json:"error,omitempty"`
}

// AnalyticsView loads the five chart datasets of one time range together;
// any failing dataset fails the whole load.
type AnalyticsView struct {
	timeRange service.TimeRange
	res       *datasync.Resource[AnalyticsData]
}

func NewAnalyticsView(svc AnalyticsService, r service.TimeRange, deps Deps) *AnalyticsView {
	fetch := func(ctx context.Context) (AnalyticsData, error) {
		var data AnalyticsData
		var b datasync.Batch
		b.Go(datasync.Into(&data.InventoryTrends, func(ctx context.Context) ([]models.InventoryTrend, error) {
			return svc.GetInventoryTrends(ctx, r)
		}))
		b.Go(datasync.Into(&data.DonationTrends, func(ctx context.Context) ([]models.DonationTrend, error) {
			return svc.GetDonationTrends(ctx, r, "")
		}))
		b.Go(datasync.Into(&data.RequestTrends, func(ctx context.Context) ([]models.RequestTrend, error) {
			return svc.GetRequestTrends(ctx, r, "")
		}))
		b.Go(datasync.Into(&data.BloodTypeDistribution, svc.GetBloodTypeDistribution))
		b.Go(datasync.Into(&data.HospitalRequests, svc.GetHospitalRequestDistribution))
		if err := b.Run(ctx); err != nil {
			return AnalyticsData{}, err
		}
		return data, nil
	}
	return &AnalyticsView{
		timeRange: r,
		res:       datasync.NewResource(fetch, deps.options("analytics", datasync.Key("analytics", string(r)))...),
	}
}

func (v *AnalyticsView) Range() service.TimeRange { return v.timeRange }

func (v *AnalyticsView) Load(ctx context.Context) error { return v.res.Load(ctx) }

func (v *AnalyticsView) Refresh(ctx context.Context) error { return v.res.Refresh(ctx) }

func (v *AnalyticsView) LoadedAt() time.Time { return v.res.LoadedAt() }

func (v *AnalyticsView) Snapshot() AnalyticsSnapshot {
	state := v.res.Snapshot()
	return AnalyticsSnapshot{
		Range:   v.timeRange,
		Data:    state.Data,
		Trends:  summarizeTrends(state.Data),
		Loading: state.Loading,
		Error:   errString(state.Err),
	}
}

// summarizeTrends derives the inventory trend of each blood type and the
// trend of daily donation and request totals
func summarizeTrends(data AnalyticsData) AnalyticsTrends {
	byType := make(map[string][]models.InventoryTrend)
	for _, row := range data.InventoryTrends {
		byType[row.BloodType] = append(byType[row.BloodType], row)
	}
	inventory := make(map[string]display.Trend, len(byType))
	for bloodType, rows := range byType {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
		values := make([]float64, len(rows))
		for i, row := range rows {
			values[i] = float64(row.Units)
		}
		inventory[bloodType] = display.SeriesTrend(values)
	}

	donations := make(map[time.Time]int)
	for _, row := range data.DonationTrends {
		donations[row.Date] += row.Count
	}
	requests := make(map[time.Time]int)
	for _, row := range data.RequestTrends {
		requests[row.Date] += row.Count
	}

	return AnalyticsTrends{
		Inventory: inventory,
		Donations: display.SeriesTrend(dailySeries(donations)),
		Requests:  display.SeriesTrend(dailySeries(requests)),
	}
}

func dailySeries(totals map[time.Time]int) []float64 {
	days := make([]time.Time, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	values := make([]float64, len(days))
	for i, day := range days {
		values[i] = float64(totals[day])
	}
	return values
}
