package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for round connections
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
	}
}

// HandleRoundConnection handles WebSocket connections for a specific round
func (h *WebSocketHandler) HandleRoundConnection(w http.ResponseWriter, r *http.Request) {
	roundIDStr := r.URL.Query().Get("round_id")
	if roundIDStr == "" {
		http.Error(w, "round_id is required", http.StatusBadRequest)
		return
	}

	roundID, err := uuid.Parse(roundIDStr)
	if err != nil {
		http.Error(w, "invalid round_id format", http.StatusBadRequest)
		return
	}

	// Identity comes from the same header the HTTP API uses. In production
	// this would come from a JWT or session.
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		userID = r.URL.Query().Get("user_id")
	}
	if userID == "" {
		// Spectators may watch a round without identifying themselves
		userID = "anonymous"
	}

	if err := h.connectionManager.UpgradeConnection(w, r, userID, roundID); err != nil {
		log.Error().
			Err(err).
			Str("round_id", roundID.String()).
			Str("user_id", userID).
			Msg("failed to upgrade WebSocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	stats := h.connectionManager.GetConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/round", h.HandleRoundConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
