package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"guess-the-flag/internal/app"
	"guess-the-flag/internal/domain"
)

// NewRouter wires health, JSON game endpoints and the websocket renderer.
func NewRouter(service *app.GameService, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	games := NewGamesHandler(service, log)
	ws := NewWSHandler(service, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)
	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", games.Create)
		r.Get("/{gameID}", games.Get)
		r.Delete("/{gameID}", games.End)
		r.Post("/{gameID}/guess", games.Guess)
		r.Post("/{gameID}/acknowledge", games.Acknowledge)
	})
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())))
		})
	}
}

type errorPayload struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound), errors.Is(err, domain.ErrCatalogNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOptionOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFeedbackPending), errors.Is(err, domain.ErrNothingToAcknowledge):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCatalogTooSmall):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
