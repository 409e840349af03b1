package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bike-fleet-maintenance/internal/db"
	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// MaintenanceHandler handles service record requests
type MaintenanceHandler struct {
	store db.HistoryStore
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(store db.HistoryStore) *MaintenanceHandler {
	return &MaintenanceHandler{store: store}
}

func (h *MaintenanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req models.MaintenanceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := ValidateMaintenanceRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.FindBikeByID(r.Context(), req.BikeID); err != nil {
		http.Error(w, "Bike not found", http.StatusNotFound)
		return
	}

	record := models.MaintenanceRecord{
		BikeID:           req.BikeID,
		MaintenanceDate:  req.MaintenanceDate,
		Component:        req.Component,
		Action:           req.Action,
		AssociatedRideID: req.AssociatedRideID,
	}

	recordID, err := h.store.InsertMaintenance(r.Context(), record)
	if err != nil {
		log.WithError(err).WithField("bike_id", req.BikeID).Error("failed to record maintenance")
		http.Error(w, "Failed to record maintenance", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":   "Maintenance recorded successfully",
		"record_id": recordID,
	})
}
