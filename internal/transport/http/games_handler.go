package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"guess-the-flag/internal/app"
)

// GamesHandler exposes the game use cases as JSON endpoints. Every response
// carries the full snapshot so a stateless renderer can redraw from it.
type GamesHandler struct {
	service *app.GameService
	log     *zap.Logger
}

func NewGamesHandler(service *app.GameService, log *zap.Logger) *GamesHandler {
	return &GamesHandler{service: service, log: log}
}

type createRequest struct {
	Catalog string `json:"catalog"`
}

type guessRequest struct {
	Option *int `json:"option"`
}

func (h *GamesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	// an empty body starts a game on the default catalog
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid json"})
		return
	}
	snap, err := h.service.Start(r.Context(), req.Catalog)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Get(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *GamesHandler) Guess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Option == nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid guess payload"})
		return
	}
	snap, err := h.service.Guess(r.Context(), chi.URLParam(r, "gameID"), *req.Option)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *GamesHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Acknowledge(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *GamesHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.service.End(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GamesHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("game request failed", zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Error: err.Error()})
}
