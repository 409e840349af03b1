package models

import "time"

// Maintenance actions. A "replaced" action resets component wear; the
// other actions record a shop visit without a part swap.
const (
	ActionReplaced  = "replaced"
	ActionInspected = "inspected"
	ActionAdjusted  = "adjusted"
)

// MaintenanceRecord represents a single service event on a bike.
// Append-only, like rides. AssociatedRideID optionally points at the
// ride that triggered the service.
type MaintenanceRecord struct {
	RecordID         int64     `bson:"record_id" json:"record_id"`
	BikeID           int64     `bson:"bike_id" json:"bike_id"`
	MaintenanceDate  time.Time `bson:"maintenance_date" json:"maintenance_date"`
	Component        string    `bson:"component" json:"component"` // "brake", "chain", "tire", ...
	Action           string    `bson:"action" json:"action"`
	AssociatedRideID *int64    `bson:"associated_ride_id,omitempty" json:"associated_ride_id,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// MaintenanceRequest is the payload accepted when recording a service event.
type MaintenanceRequest struct {
	BikeID           int64     `json:"bike_id"`
	MaintenanceDate  time.Time `json:"maintenance_date"`
	Component        string    `json:"component"`
	Action           string    `json:"action"`
	AssociatedRideID *int64    `json:"associated_ride_id,omitempty"`
}
