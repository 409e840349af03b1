package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bike-fleet-maintenance/internal/db"
	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// BikeHandler handles fleet inventory requests
type BikeHandler struct {
	store db.HistoryStore
}

// NewBikeHandler creates a new bike handler
func NewBikeHandler(store db.HistoryStore) *BikeHandler {
	return &BikeHandler{store: store}
}

func (h *BikeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BikeHandler) list(w http.ResponseWriter, r *http.Request) {
	bikes, err := h.store.ListBikes(r.Context())
	if err != nil {
		log.WithError(err).Error("failed to list bikes")
		http.Error(w, "Failed to list bikes", http.StatusInternalServerError)
		return
	}
	if bikes == nil {
		bikes = []models.Bike{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bikes)
}

func (h *BikeHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var bike models.Bike
	if err := json.Unmarshal(body, &bike); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if bike.BikeID <= 0 {
		http.Error(w, "bike_id is required", http.StatusBadRequest)
		return
	}
	if bike.Status == "" {
		bike.Status = models.StatusActive
	}
	if !models.IsValidBikeStatus(bike.Status) {
		http.Error(w, "Invalid bike status", http.StatusBadRequest)
		return
	}
	if _, err := h.store.FindBikeByID(r.Context(), bike.BikeID); err == nil {
		http.Error(w, "Bike already exists", http.StatusConflict)
		return
	}
	if bike.PurchasedDate.IsZero() {
		bike.PurchasedDate = time.Now()
	}

	if err := h.store.InsertBike(r.Context(), bike); err != nil {
		log.WithError(err).WithField("bike_id", bike.BikeID).Error("failed to create bike")
		http.Error(w, "Failed to create bike", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(bike)
}
