package models

import "time"

// Ride represents a single completed ride on a bike. Rides are
// append-only: once logged they are never updated or deleted.
// AvgVibration is nil when the bike's sensor produced no reading for
// the ride; a nil reading is distinct from a reading of zero.
type Ride struct {
	RideID           int64     `bson:"ride_id" json:"ride_id"`
	BikeID           int64     `bson:"bike_id" json:"bike_id"`
	StartTime        time.Time `bson:"start_time" json:"start_time"`
	EndTime          time.Time `bson:"end_time" json:"end_time"`
	StartLocation    Location  `bson:"start_location" json:"start_location"`
	EndLocation      Location  `bson:"end_location" json:"end_location"`
	DistanceKM       float64   `bson:"distance_km" json:"distance_km"`
	AvgVibration     *float64  `bson:"avg_vibration,omitempty" json:"avg_vibration,omitempty"`
	WeatherCondition string    `bson:"weather_condition" json:"weather_condition"` // "clear", "rain", ...
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// RideRequest is the payload accepted when logging a ride, over HTTP
// or from a dock controller via MQTT.
type RideRequest struct {
	BikeID           int64     `json:"bike_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	StartLocation    Location  `json:"start_location"`
	EndLocation      Location  `json:"end_location"`
	DistanceKM       float64   `json:"distance_km"`
	AvgVibration     *float64  `json:"avg_vibration,omitempty"`
	WeatherCondition string    `json:"weather_condition"`
}
