package handlers

import (
	"errors"

	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

var (
	errBikeIDRequired   = errors.New("bike_id is required")
	errEndBeforeStart   = errors.New("end_time must not be before start_time")
	errNegativeDistance = errors.New("distance_km must not be negative")
	errNegativeReading  = errors.New("avg_vibration must not be negative")
	errInvalidAction    = errors.New("action must be one of replaced, inspected, adjusted")
	errComponentNeeded  = errors.New("component is required")
)

// ValidateRideRequest enforces the ride preconditions the scoring core
// assumes: end after start, non-negative distance and vibration.
func ValidateRideRequest(req models.RideRequest) error {
	if req.BikeID <= 0 {
		return errBikeIDRequired
	}
	if req.EndTime.Before(req.StartTime) {
		return errEndBeforeStart
	}
	if req.DistanceKM < 0 {
		return errNegativeDistance
	}
	if req.AvgVibration != nil && *req.AvgVibration < 0 {
		return errNegativeReading
	}
	return nil
}

// ValidateMaintenanceRequest enforces maintenance record preconditions.
func ValidateMaintenanceRequest(req models.MaintenanceRequest) error {
	if req.BikeID <= 0 {
		return errBikeIDRequired
	}
	if req.Component == "" {
		return errComponentNeeded
	}
	switch req.Action {
	case models.ActionReplaced, models.ActionInspected, models.ActionAdjusted:
		return nil
	default:
		return errInvalidAction
	}
}
