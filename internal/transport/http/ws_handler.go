package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"guess-the-flag/internal/app"
	"guess-the-flag/internal/domain"
)

// WSHandler drives one game per connection: each tap and each dismissal
// arrives as a message and is answered with the redrawn snapshot.
type WSHandler struct {
	service  *app.GameService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type guessPayload struct {
	Option *int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and plays a game over the socket. An existing
// game can be attached with ?gameId=, otherwise one is started from ?catalog=.
// A game started here ends when the socket closes; an attached game is left
// to the store's TTL so the renderer can reconnect and resume it.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	catalogID := r.URL.Query().Get("catalog")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	attached := gameID != ""
	var snap domain.Snapshot
	if attached {
		snap, err = h.service.Get(ctx, gameID)
	} else {
		snap, err = h.service.Start(ctx, catalogID)
	}
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Error: err.Error()}})
		return
	}
	gameID = snap.GameID
	if !attached {
		defer func() {
			endCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.service.End(endCtx, gameID); err != nil {
				h.log.Warn("end game", zap.String("game_id", gameID), zap.Error(err))
			}
		}()
	}

	if err := conn.WriteJSON(outboundMessage[domain.Snapshot]{Type: "state", Payload: snap}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		var reply any
		switch inbound.Type {
		case "guess":
			var payload guessPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Option == nil {
				reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Error: "invalid guess payload"}}
				break
			}
			reply = h.stateOrError(h.service.Guess(ctx, gameID, *payload.Option))
		case "acknowledge":
			reply = h.stateOrError(h.service.Acknowledge(ctx, gameID))
		default:
			reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Error: "unsupported message type"}}
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.log.Debug("ws write error", zap.String("game_id", gameID), zap.Error(err))
			return
		}
	}
}

func (h *WSHandler) stateOrError(snap domain.Snapshot, err error) any {
	if err != nil {
		return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Error: err.Error()}}
	}
	return outboundMessage[domain.Snapshot]{Type: "state", Payload: snap}
}
