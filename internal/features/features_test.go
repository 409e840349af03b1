package features

import (
	"context"
	"testing"
	"time"

	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

func ridesWithVibrations(base time.Time, vibs ...float64) []models.Ride {
	// Most recent first, matching the store's end_time desc ordering.
	rides := make([]models.Ride, len(vibs))
	for i := range vibs {
		v := vibs[i]
		rides[i] = models.Ride{
			RideID:       int64(i + 1),
			BikeID:       1,
			EndTime:      base.Add(-time.Duration(i) * time.Hour),
			DistanceKM:   1,
			AvgVibration: &v,
		}
	}
	return rides
}

func TestAvgVibrationRecent_WindowExcludesOlderRides(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Ten recent rides with vibrations 1..10 and an eleventh, older,
	// ride with a huge reading that must not count.
	rides := ridesWithVibrations(base, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 100)

	got := AvgVibrationRecent(rides, RecentRideWindow)
	if got != 5.5 {
		t.Errorf("expected 5.5, got %f", got)
	}
}

func TestAvgVibrationRecent_NoRides(t *testing.T) {
	if got := AvgVibrationRecent(nil, RecentRideWindow); got != 0 {
		t.Errorf("expected 0 for no rides, got %f", got)
	}
}

func TestAvgVibrationRecent_MissingReadingsExcluded(t *testing.T) {
	base := time.Now()
	rides := ridesWithVibrations(base, 2, 4)
	// A ride without a sensor reading sits between them; it must not
	// drag the average down as a zero.
	rides = append(rides, models.Ride{BikeID: 1, EndTime: base.Add(-30 * time.Minute), DistanceKM: 1})

	if got := AvgVibrationRecent(rides, RecentRideWindow); got != 3 {
		t.Errorf("expected 3, got %f", got)
	}
}

func TestAvgVibrationRecent_AllReadingsMissing(t *testing.T) {
	rides := []models.Ride{
		{BikeID: 1, EndTime: time.Now()},
		{BikeID: 1, EndTime: time.Now().Add(-time.Hour)},
	}
	if got := AvgVibrationRecent(rides, RecentRideWindow); got != 0 {
		t.Errorf("expected 0 when every reading is missing, got %f", got)
	}
}

func TestDaysSinceLastService(t *testing.T) {
	ref := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		latest   *time.Time
		expected int
	}{
		{"no history", nil, NoServiceSentinel},
		{"forty days ago", timePtr(ref.AddDate(0, 0, -40)), 40},
		{"same day", timePtr(ref.Add(-2 * time.Hour)), 0},
		{"future date clamps to zero", timePtr(ref.AddDate(0, 0, 7)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysSinceLastService(tt.latest, ref); got != tt.expected {
				t.Errorf("DaysSinceLastService = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestKMSinceLastService(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	serviced := base.AddDate(0, 0, -10)

	rides := []models.Ride{
		{BikeID: 1, EndTime: base, DistanceKM: 5},
		{BikeID: 1, EndTime: base.AddDate(0, 0, -5), DistanceKM: 3},
		{BikeID: 1, EndTime: base.AddDate(0, 0, -20), DistanceKM: 100}, // before service
	}

	if got := KMSinceLastService(rides, &serviced, 108); got != 8 {
		t.Errorf("expected 8 km since service, got %f", got)
	}

	// No replacement on record: every ride counts.
	if got := KMSinceLastService(rides, nil, 108); got != 108 {
		t.Errorf("expected 108 km with no service history, got %f", got)
	}

	// All rides predate the replacement: fall back to the total.
	old := base.AddDate(0, 0, 1)
	if got := KMSinceLastService(rides, &old, 108); got != 108 {
		t.Errorf("expected fallback to total_km, got %f", got)
	}
}

func TestTotalKM_CounterFallsBackToRideSum(t *testing.T) {
	rides := []models.Ride{
		{BikeID: 1, DistanceKM: 2},
		{BikeID: 1, DistanceKM: 3.5},
	}

	if got := TotalKM(models.Bike{TotalDistanceKM: 120}, rides); got != 120 {
		t.Errorf("expected counter value 120, got %f", got)
	}
	if got := TotalKM(models.Bike{}, rides); got != 5.5 {
		t.Errorf("expected ride sum 5.5, got %f", got)
	}
}

func TestFeatureVector_Row(t *testing.T) {
	v := FeatureVector{
		BikeID:               7,
		TotalKM:              100,
		KMSinceLastService:   40,
		DaysSinceLastService: 12,
		AvgVibrationRecent:   0.6,
	}
	row := v.Row()
	want := []float64{100, 40, 12, 0.6}
	if len(row) != len(want) {
		t.Fatalf("expected %d features, got %d", len(want), len(row))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("feature %d = %f, want %f", i, row[i], want[i])
		}
	}
}

// mockHistoryStore serves canned history for aggregator tests.
type mockHistoryStore struct {
	rides       map[int64][]models.Ride
	maintenance map[int64][]models.MaintenanceRecord
}

func (m *mockHistoryStore) ListBikes(ctx context.Context) ([]models.Bike, error) { return nil, nil }
func (m *mockHistoryStore) ListActiveBikes(ctx context.Context) ([]models.Bike, error) {
	return nil, nil
}
func (m *mockHistoryStore) FindBikeByID(ctx context.Context, bikeID int64) (*models.Bike, error) {
	return nil, nil
}
func (m *mockHistoryStore) InsertBike(ctx context.Context, bike models.Bike) error { return nil }
func (m *mockHistoryStore) InsertRide(ctx context.Context, ride models.Ride) (int64, error) {
	return 0, nil
}
func (m *mockHistoryStore) InsertMaintenance(ctx context.Context, record models.MaintenanceRecord) (int64, error) {
	return 0, nil
}

func (m *mockHistoryStore) RidesForBike(ctx context.Context, bikeID int64, limit int64) ([]models.Ride, error) {
	return m.rides[bikeID], nil
}

func (m *mockHistoryStore) LatestMaintenance(ctx context.Context, bikeID int64, actionFilter string) (*models.MaintenanceRecord, error) {
	var latest *models.MaintenanceRecord
	for i := range m.maintenance[bikeID] {
		rec := m.maintenance[bikeID][i]
		if actionFilter != "" && rec.Action != actionFilter {
			continue
		}
		if latest == nil || rec.MaintenanceDate.After(latest.MaintenanceDate) {
			latest = &rec
		}
	}
	return latest, nil
}

func TestAggregator_VectorFor_NoHistory(t *testing.T) {
	agg := NewAggregator(&mockHistoryStore{})
	ref := time.Now()

	v, err := agg.VectorFor(context.Background(), models.Bike{BikeID: 42}, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.BikeID != 42 {
		t.Errorf("bike_id = %d, want 42", v.BikeID)
	}
	if v.TotalKM != 0 || v.KMSinceLastService != 0 || v.AvgVibrationRecent != 0 {
		t.Errorf("expected all-zero features, got %+v", v)
	}
	if v.DaysSinceLastService != NoServiceSentinel {
		t.Errorf("days_since_last_service = %d, want sentinel %d", v.DaysSinceLastService, NoServiceSentinel)
	}
}

func TestAggregator_VectorFor_MixedActions(t *testing.T) {
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	replaced := ref.AddDate(0, 0, -30)
	inspected := ref.AddDate(0, 0, -5)

	store := &mockHistoryStore{
		rides: map[int64][]models.Ride{
			1: {
				{BikeID: 1, EndTime: ref.AddDate(0, 0, -1), DistanceKM: 10},
				{BikeID: 1, EndTime: ref.AddDate(0, 0, -40), DistanceKM: 50},
			},
		},
		maintenance: map[int64][]models.MaintenanceRecord{
			1: {
				{BikeID: 1, MaintenanceDate: replaced, Action: models.ActionReplaced, Component: "chain"},
				{BikeID: 1, MaintenanceDate: inspected, Action: models.ActionInspected, Component: "brake"},
			},
		},
	}

	agg := NewAggregator(store)
	v, err := agg.VectorFor(context.Background(), models.Bike{BikeID: 1, TotalDistanceKM: 60}, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// km resets only on the replacement; days track the inspection.
	if v.KMSinceLastService != 10 {
		t.Errorf("km_since_last_service = %f, want 10", v.KMSinceLastService)
	}
	if v.DaysSinceLastService != 5 {
		t.Errorf("days_since_last_service = %d, want 5", v.DaysSinceLastService)
	}
	if v.TotalKM != 60 {
		t.Errorf("total_km = %f, want 60", v.TotalKM)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
