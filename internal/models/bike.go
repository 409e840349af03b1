package models

import "time"

// BikeStatus represents a bike's lifecycle state in the fleet.
type BikeStatus string

const (
	StatusActive      BikeStatus = "active"
	StatusMaintenance BikeStatus = "maintenance"
	StatusRetired     BikeStatus = "retired"
)

// Bike represents a fleet bike. BikeID is the operator-assigned fleet
// number, not the Mongo document id. TotalDistanceKM is a denormalized
// counter bumped on every logged ride; it never decreases.
type Bike struct {
	BikeID           int64      `bson:"bike_id" json:"bike_id"`
	Status           BikeStatus `bson:"status" json:"status"`
	PurchasedDate    time.Time  `bson:"purchased_date" json:"purchased_date"`
	LastServicedDate *time.Time `bson:"last_serviced_date,omitempty" json:"last_serviced_date,omitempty"`
	TotalDistanceKM  float64    `bson:"total_distance_km" json:"total_distance_km"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

// IsValidBikeStatus checks if a bike status is valid
func IsValidBikeStatus(status BikeStatus) bool {
	switch status {
	case StatusActive, StatusMaintenance, StatusRetired:
		return true
	default:
		return false
	}
}
