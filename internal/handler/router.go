package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/nightroad/server/internal/session"
	"github.com/nightroad/server/internal/store"
	"github.com/nightroad/server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	game *GameHandler
}

// NewRouter creates a new message router. scores may be nil when the
// leaderboard is disabled.
func NewRouter(sm *session.Manager, scores store.Store) *Router {
	return &Router{
		game: NewGameHandler(sm, scores),
	}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	case ws.TypeJoin:
		r.game.HandleJoin(cm.Client, msg)
	case ws.TypeStartGame:
		r.game.HandleStart(cm.Client, msg)
	case ws.TypePlayerMove:
		r.game.HandlePlayerMove(cm.Client, msg)
	case ws.TypeFlashlightToggle:
		r.game.HandleFlashlightToggle(cm.Client, msg)
	case ws.TypeRestart:
		r.game.HandleRestart(cm.Client, msg)
	case ws.TypeGetLeaderboard:
		r.game.HandleGetLeaderboard(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.game.HandleDisconnect(client)
}
