package handlers

import (
	"context"
	"errors"
	"sort"

	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// fakeStore is an in-memory HistoryStore for handler tests.
type fakeStore struct {
	bikes       map[int64]*models.Bike
	rides       map[int64][]models.Ride
	maintenance map[int64][]models.MaintenanceRecord

	nextRideID   int64
	nextRecordID int64

	insertRideErr error
	listErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bikes:       make(map[int64]*models.Bike),
		rides:       make(map[int64][]models.Ride),
		maintenance: make(map[int64][]models.MaintenanceRecord),
	}
}

func (f *fakeStore) ListBikes(ctx context.Context) ([]models.Bike, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var bikes []models.Bike
	for _, b := range f.bikes {
		bikes = append(bikes, *b)
	}
	sort.Slice(bikes, func(i, j int) bool { return bikes[i].BikeID < bikes[j].BikeID })
	return bikes, nil
}

func (f *fakeStore) ListActiveBikes(ctx context.Context) ([]models.Bike, error) {
	all, err := f.ListBikes(ctx)
	if err != nil {
		return nil, err
	}
	var active []models.Bike
	for _, b := range all {
		if b.Status == models.StatusActive {
			active = append(active, b)
		}
	}
	return active, nil
}

func (f *fakeStore) FindBikeByID(ctx context.Context, bikeID int64) (*models.Bike, error) {
	bike, ok := f.bikes[bikeID]
	if !ok {
		return nil, errors.New("bike not found")
	}
	return bike, nil
}

func (f *fakeStore) RidesForBike(ctx context.Context, bikeID int64, limit int64) ([]models.Ride, error) {
	rides := append([]models.Ride(nil), f.rides[bikeID]...)
	sort.Slice(rides, func(i, j int) bool { return rides[i].EndTime.After(rides[j].EndTime) })
	if limit > 0 && int64(len(rides)) > limit {
		rides = rides[:limit]
	}
	return rides, nil
}

func (f *fakeStore) LatestMaintenance(ctx context.Context, bikeID int64, actionFilter string) (*models.MaintenanceRecord, error) {
	var latest *models.MaintenanceRecord
	for i := range f.maintenance[bikeID] {
		rec := f.maintenance[bikeID][i]
		if actionFilter != "" && rec.Action != actionFilter {
			continue
		}
		if latest == nil || rec.MaintenanceDate.After(latest.MaintenanceDate) {
			latest = &rec
		}
	}
	return latest, nil
}

func (f *fakeStore) InsertBike(ctx context.Context, bike models.Bike) error {
	f.bikes[bike.BikeID] = &bike
	return nil
}

func (f *fakeStore) InsertRide(ctx context.Context, ride models.Ride) (int64, error) {
	if f.insertRideErr != nil {
		return 0, f.insertRideErr
	}
	f.nextRideID++
	ride.RideID = f.nextRideID
	f.rides[ride.BikeID] = append(f.rides[ride.BikeID], ride)
	if bike, ok := f.bikes[ride.BikeID]; ok {
		bike.TotalDistanceKM += ride.DistanceKM
	}
	return ride.RideID, nil
}

func (f *fakeStore) InsertMaintenance(ctx context.Context, record models.MaintenanceRecord) (int64, error) {
	f.nextRecordID++
	record.RecordID = f.nextRecordID
	f.maintenance[record.BikeID] = append(f.maintenance[record.BikeID], record)
	if bike, ok := f.bikes[record.BikeID]; ok {
		d := record.MaintenanceDate
		bike.LastServicedDate = &d
	}
	return record.RecordID, nil
}
