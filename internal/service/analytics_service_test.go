package service

import (
	"context"
	"testing"
	"time"

	"blood-bank-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsStore struct {
	start        time.Time
	donationType string
	status       string
}

func (s *fakeAnalyticsStore) GetInventoryTrends(ctx context.Context, start time.Time) ([]models.InventoryTrend, error) {
	s.start = start
	return []models.InventoryTrend{{BloodType: "A+", Units: 3}}, nil
}

func (s *fakeAnalyticsStore) GetDonationTrends(ctx context.Context, start time.Time, donationType string) ([]models.DonationTrend, error) {
	s.start, s.donationType = start, donationType
	return nil, nil
}

func (s *fakeAnalyticsStore) GetRequestTrends(ctx context.Context, start time.Time, status string) ([]models.RequestTrend, error) {
	s.start, s.status = start, status
	return nil, nil
}

func (s *fakeAnalyticsStore) GetBloodTypeDistribution(ctx context.Context) ([]models.BloodTypeCount, error) {
	return []models.BloodTypeCount{{BloodType: "O+", Count: 3}}, nil
}

func (s *fakeAnalyticsStore) GetHospitalRequestDistribution(ctx context.Context) ([]models.HospitalCount, error) {
	return []models.HospitalCount{{Hospital: "General", Count: 2}}, nil
}

func TestParseTimeRange(t *testing.T) {
	assert.Equal(t, RangeWeek, ParseTimeRange("week"))
	assert.Equal(t, RangeYear, ParseTimeRange("year"))
	assert.Equal(t, RangeMonth, ParseTimeRange(""))
	assert.Equal(t, RangeMonth, ParseTimeRange("decade"))
}

func TestTimeRange_Days(t *testing.T) {
	assert.Equal(t, 7, RangeWeek.Days())
	assert.Equal(t, 30, RangeMonth.Days())
	assert.Equal(t, 90, RangeQuarter.Days())
	assert.Equal(t, 365, RangeYear.Days())
}

func TestAnalyticsService_RangeStart(t *testing.T) {
	store := &fakeAnalyticsStore{}
	svc := NewAnalyticsService(store)
	svc.now = fixedNow

	_, err := svc.GetDonationTrends(context.Background(), RangeWeek, "plasma")
	require.NoError(t, err)
	assert.Equal(t, fixedNow().AddDate(0, 0, -7), store.start)
	assert.Equal(t, "plasma", store.donationType)

	_, err = svc.GetRequestTrends(context.Background(), RangeQuarter, "")
	require.NoError(t, err)
	assert.Equal(t, fixedNow().AddDate(0, 0, -90), store.start)
	assert.Empty(t, store.status)
}
