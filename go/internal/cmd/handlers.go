package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/apperr"
	"github.com/goosetap/goosetap/go/internal/rounds"
	"github.com/goosetap/goosetap/go/internal/users"
	"github.com/rs/zerolog/log"
)

// apiHandler exposes the game over JSON HTTP. Identity comes from the
// X-User-ID header; a real deployment would put an auth gateway in front.
type apiHandler struct {
	services *Services
	config   *Config
}

func newAPIHandler(services *Services, config *Config) *apiHandler {
	return &apiHandler{services: services, config: config}
}

func (h *apiHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users", h.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", h.handleGetUser)
	mux.HandleFunc("GET /api/users/by-username/{username}", h.handleGetUserByUsername)
	mux.HandleFunc("POST /api/rounds", h.handleCreateRound)
	mux.HandleFunc("GET /api/rounds", h.handleListRounds)
	mux.HandleFunc("GET /api/rounds/{id}", h.handleGetRound)
	mux.HandleFunc("GET /api/rounds/{id}/winner", h.handleGetWinner)
	mux.HandleFunc("POST /api/rounds/{id}/tap", h.handleTap)
}

func (h *apiHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req users.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.services.Users.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *apiHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.services.Users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *apiHandler) handleGetUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.Users.GetUserByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *apiHandler) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	// Timing defaults come from the game config; the body may override.
	req := rounds.CreateRoundRequest{
		CooldownSeconds: h.config.Game.CooldownSeconds,
		DurationSeconds: h.config.Game.RoundDurationSeconds,
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	user, err := h.services.Users.GetUser(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}

	round, err := h.services.Rounds.CreateRound(r.Context(), user, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, round)
}

func (h *apiHandler) handleListRounds(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.services.Rounds.ListRounds(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (h *apiHandler) handleGetRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid round id")
		return
	}

	// The caller is optional here; without one the view simply has no
	// personal participation section.
	var callerID uuid.UUID
	if header := r.Header.Get("X-User-ID"); header != "" {
		if callerID, err = uuid.Parse(header); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid X-User-ID header")
			return
		}
	}

	details, err := h.services.Rounds.GetRoundDetails(r.Context(), roundID, callerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *apiHandler) handleGetWinner(w http.ResponseWriter, r *http.Request) {
	roundID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid round id")
		return
	}

	winner, err := h.services.Rounds.GetWinner(r.Context(), roundID)
	if err != nil {
		writeError(w, err)
		return
	}
	if winner == nil {
		writeJSON(w, http.StatusOK, map[string]any{"winner": nil})
		return
	}

	writeJSON(w, http.StatusOK, winner)
}

func (h *apiHandler) handleTap(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	roundID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid round id")
		return
	}

	result, err := h.services.Tap.ExecuteTap(r.Context(), caller, roundID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// authenticate resolves the caller's user ID from the X-User-ID header.
func (h *apiHandler) authenticate(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	header := r.Header.Get("X-User-ID")
	if header == "" {
		writeJSONError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(header)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid X-User-ID header")
		return uuid.Nil, false
	}

	return id, true
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		writeJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrInvalidState):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("unhandled API error")
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
