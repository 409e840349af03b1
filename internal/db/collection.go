package db

import (
	"context"

	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// HistoryStore defines the read and write surface over bike usage
// history. The scoring engine only uses the read side
// (ListActiveBikes, RidesForBike, LatestMaintenance); the handlers and
// the MQTT ingester use the write side. Implementations are expected
// to keep Bike.TotalDistanceKM in sync when rides are appended.
type HistoryStore interface {
	// ListBikes returns every bike in the fleet.
	ListBikes(ctx context.Context) ([]models.Bike, error)
	// ListActiveBikes returns bikes with status "active".
	ListActiveBikes(ctx context.Context) ([]models.Bike, error)
	// FindBikeByID returns the bike with the given fleet number, or
	// ErrBikeNotFound.
	FindBikeByID(ctx context.Context, bikeID int64) (*models.Bike, error)
	// RidesForBike returns a bike's rides ordered by end_time
	// descending. A limit of 0 means no limit.
	RidesForBike(ctx context.Context, bikeID int64, limit int64) ([]models.Ride, error)
	// LatestMaintenance returns the most recent maintenance record for
	// a bike, optionally filtered by action. A bike with no matching
	// history yields (nil, nil), not an error.
	LatestMaintenance(ctx context.Context, bikeID int64, actionFilter string) (*models.MaintenanceRecord, error)

	// InsertBike registers a bike on fleet intake.
	InsertBike(ctx context.Context, bike models.Bike) error
	// InsertRide appends a ride, assigns its ride_id, and bumps the
	// owning bike's total distance counter.
	InsertRide(ctx context.Context, ride models.Ride) (int64, error)
	// InsertMaintenance appends a maintenance record, assigns its
	// record_id, and refreshes the bike's last_serviced_date.
	InsertMaintenance(ctx context.Context, record models.MaintenanceRecord) (int64, error)
}
