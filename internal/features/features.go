// Package features turns a bike's ride and maintenance history into
// the fixed feature vector consumed by the risk assessors. All
// aggregations are total: missing history resolves to sentinel or zero
// values, never to an error.
package features

import (
	"context"
	"time"

	"github.com/ukydev/bike-fleet-maintenance/internal/db"
	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// NoServiceSentinel is the days_since_last_service value reported for
// a bike with no maintenance history at all.
const NoServiceSentinel = 999

// RecentRideWindow is how many of the most recent rides feed the
// vibration average.
const RecentRideWindow = 10

// FeatureVector is the per-bike input to the risk assessors.
type FeatureVector struct {
	BikeID               int64   `json:"bike_id"`
	TotalKM              float64 `json:"total_km"`
	KMSinceLastService   float64 `json:"km_since_last_service"`
	DaysSinceLastService int     `json:"days_since_last_service"`
	AvgVibrationRecent   float64 `json:"avg_vibration_last_10_rides"`
}

// Row returns the vector in the feature order the classifier artifact
// was trained against: total_km, km_since_last_service,
// days_since_last_service, avg_vibration_last_10_rides. Changing this
// order breaks compatibility with every existing artifact.
func (v FeatureVector) Row() []float64 {
	return []float64{
		v.TotalKM,
		v.KMSinceLastService,
		float64(v.DaysSinceLastService),
		v.AvgVibrationRecent,
	}
}

// TotalKM returns the bike's accumulated distance. The denormalized
// counter on the bike is authoritative; when it is unset the ride
// distances are summed instead.
func TotalKM(bike models.Bike, rides []models.Ride) float64 {
	if bike.TotalDistanceKM > 0 {
		return bike.TotalDistanceKM
	}
	var sum float64
	for _, r := range rides {
		sum += r.DistanceKM
	}
	return sum
}

// KMSinceLastService sums the distance of rides ended strictly after
// the most recent part replacement. lastReplaced is nil when the bike
// has never had a part replaced, in which case every ride counts. If
// no ride qualifies the total distance is reported instead, matching
// the convention that an unserviced bike carries its full mileage as
// wear.
func KMSinceLastService(rides []models.Ride, lastReplaced *time.Time, totalKM float64) float64 {
	var sum float64
	var counted bool
	for _, r := range rides {
		if lastReplaced != nil && !r.EndTime.After(*lastReplaced) {
			continue
		}
		sum += r.DistanceKM
		counted = true
	}
	if !counted {
		return totalKM
	}
	return sum
}

// DaysSinceLastService returns whole days between the reference time
// and the latest maintenance date of any action. No maintenance
// history yields NoServiceSentinel. A maintenance date after the
// reference time clamps to 0 rather than going negative.
func DaysSinceLastService(latest *time.Time, ref time.Time) int {
	if latest == nil {
		return NoServiceSentinel
	}
	days := int(ref.Sub(*latest).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// AvgVibrationRecent averages the vibration readings of the most
// recent rides (rides must already be ordered by end_time descending,
// as the history store returns them). Rides without a reading are
// excluded from both numerator and denominator. A bike with no usable
// readings reports 0.
func AvgVibrationRecent(rides []models.Ride, window int) float64 {
	if window > len(rides) {
		window = len(rides)
	}
	var sum float64
	var n int
	for _, r := range rides[:window] {
		if r.AvgVibration == nil {
			continue
		}
		sum += *r.AvgVibration
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Aggregator computes feature vectors from a history store.
type Aggregator struct {
	store db.HistoryStore
}

// NewAggregator creates a feature aggregator over the given store.
func NewAggregator(store db.HistoryStore) *Aggregator {
	return &Aggregator{store: store}
}

// VectorFor computes the feature vector for one bike as of ref.
//
// Two different recency conventions are deliberate:
// km_since_last_service only resets on a "replaced" action (an
// inspection does not undo wear), while days_since_last_service uses
// the latest maintenance of any action (any shop visit refreshes
// recency). The model artifact is trained against exactly these
// definitions.
func (a *Aggregator) VectorFor(ctx context.Context, bike models.Bike, ref time.Time) (FeatureVector, error) {
	rides, err := a.store.RidesForBike(ctx, bike.BikeID, 0)
	if err != nil {
		return FeatureVector{}, err
	}

	lastReplaced, err := a.store.LatestMaintenance(ctx, bike.BikeID, models.ActionReplaced)
	if err != nil {
		return FeatureVector{}, err
	}
	lastAny, err := a.store.LatestMaintenance(ctx, bike.BikeID, "")
	if err != nil {
		return FeatureVector{}, err
	}

	var replacedAt, anyAt *time.Time
	if lastReplaced != nil {
		replacedAt = &lastReplaced.MaintenanceDate
	}
	if lastAny != nil {
		anyAt = &lastAny.MaintenanceDate
	}

	total := TotalKM(bike, rides)
	return FeatureVector{
		BikeID:               bike.BikeID,
		TotalKM:              total,
		KMSinceLastService:   KMSinceLastService(rides, replacedAt, total),
		DaysSinceLastService: DaysSinceLastService(anyAt, ref),
		AvgVibrationRecent:   AvgVibrationRecent(rides, RecentRideWindow),
	}, nil
}
