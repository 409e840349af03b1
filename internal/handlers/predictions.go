package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bike-fleet-maintenance/internal/db"
	"github.com/ukydev/bike-fleet-maintenance/internal/risk"
)

// PredictionHandler runs the risk scoring engine over the active fleet.
type PredictionHandler struct {
	store  db.HistoryStore
	engine *risk.Engine
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(store db.HistoryStore, engine *risk.Engine) *PredictionHandler {
	return &PredictionHandler{store: store, engine: engine}
}

// ServeHTTP returns a ranked risk assessment for every active bike.
// When no classifier artifact is loaded the response carries
// heuristic-shaped assessments with strategy "heuristic" and a 200
// status: model absence is a deployment condition, not a request
// failure.
func (h *PredictionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	bikes, err := h.store.ListActiveBikes(r.Context())
	if err != nil {
		log.WithError(err).Error("failed to list active bikes")
		http.Error(w, "Failed to list active bikes", http.StatusInternalServerError)
		return
	}

	result, err := h.engine.Score(r.Context(), bikes, time.Now())
	if err != nil {
		log.WithError(err).Error("scoring failed")
		http.Error(w, "Scoring failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HealthHandler reports process liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
