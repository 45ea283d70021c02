package service

import (
	"context"
	"fmt"
	"time"

	"blood-bank-dashboard/internal/models"
)

// TimeRange selects how far back analytics look
type TimeRange string

const (
	RangeWeek    TimeRange = "week"
	RangeMonth   TimeRange = "month"
	RangeQuarter TimeRange = "quarter"
	RangeYear    TimeRange = "year"
)

// ParseTimeRange maps s to a TimeRange, defaulting to month
func ParseTimeRange(s string) TimeRange {
	switch TimeRange(s) {
	case RangeWeek, RangeQuarter, RangeYear:
		return TimeRange(s)
	default:
		return RangeMonth
	}
}

// Days returns the number of days the range covers
func (r TimeRange) Days() int {
	switch r {
	case RangeWeek:
		return 7
	case RangeQuarter:
		return 90
	case RangeYear:
		return 365
	default:
		return 30
	}
}

type AnalyticsStore interface {
	GetInventoryTrends(ctx context.Context, start time.Time) ([]models.InventoryTrend, error)
	GetDonationTrends(ctx context.Context, start time.Time, donationType string) ([]models.DonationTrend, error)
	GetRequestTrends(ctx context.Context, start time.Time, status string) ([]models.RequestTrend, error)
	GetBloodTypeDistribution(ctx context.Context) ([]models.BloodTypeCount, error)
	GetHospitalRequestDistribution(ctx context.Context) ([]models.HospitalCount, error)
}

type AnalyticsService struct {
	store AnalyticsStore
	now   func() time.Time
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *AnalyticsService) start(r TimeRange) time.Time {
	return s.now().AddDate(0, 0, -r.Days())
}

func (s *AnalyticsService) GetInventoryTrends(ctx context.Context, r TimeRange) ([]models.InventoryTrend, error) {
	trends, err := s.store.GetInventoryTrends(ctx, s.start(r))
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory trends: %w", err)
	}
	return trends, nil
}

// GetDonationTrends returns donation counts; an empty donationType covers all types
func (s *AnalyticsService) GetDonationTrends(ctx context.Context, r TimeRange, donationType string) ([]models.DonationTrend, error) {
	trends, err := s.store.GetDonationTrends(ctx, s.start(r), donationType)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation trends: %w", err)
	}
	return trends, nil
}

// GetRequestTrends returns request counts; an empty status covers all statuses
func (s *AnalyticsService) GetRequestTrends(ctx context.Context, r TimeRange, status string) ([]models.RequestTrend, error) {
	trends, err := s.store.GetRequestTrends(ctx, s.start(r), status)
	if err != nil {
		return nil, fmt.Errorf("failed to get request trends: %w", err)
	}
	return trends, nil
}

func (s *AnalyticsService) GetBloodTypeDistribution(ctx context.Context) ([]models.BloodTypeCount, error) {
	counts, err := s.store.GetBloodTypeDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get blood type distribution: %w", err)
	}
	return counts, nil
}

func (s *AnalyticsService) GetHospitalRequestDistribution(ctx context.Context) ([]models.HospitalCount, error) {
	counts, err := s.store.GetHospitalRequestDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital request distribution: %w", err)
	}
	return counts, nil
}
