package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bike-fleet-maintenance/internal/db"
	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// RideHandler handles ride logging requests
type RideHandler struct {
	store db.HistoryStore
}

// NewRideHandler creates a new ride handler
func NewRideHandler(store db.HistoryStore) *RideHandler {
	return &RideHandler{store: store}
}

// ServeHTTP logs a completed ride. Validation happens here at the
// ingestion boundary so the scoring path downstream can stay total:
// a ride that reaches the store is well-formed.
func (h *RideHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req models.RideRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := ValidateRideRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.FindBikeByID(r.Context(), req.BikeID); err != nil {
		http.Error(w, "Bike not found", http.StatusNotFound)
		return
	}

	ride := models.Ride{
		BikeID:           req.BikeID,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		StartLocation:    req.StartLocation,
		EndLocation:      req.EndLocation,
		DistanceKM:       req.DistanceKM,
		AvgVibration:     req.AvgVibration,
		WeatherCondition: req.WeatherCondition,
	}

	rideID, err := h.store.InsertRide(r.Context(), ride)
	if err != nil {
		log.WithError(err).WithField("bike_id", req.BikeID).Error("failed to log ride")
		http.Error(w, "Failed to log ride", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Ride logged successfully",
		"ride_id": rideID,
	})
}
