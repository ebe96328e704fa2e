package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/nightroad/server/internal/session"
	"github.com/nightroad/server/internal/sim"
	"github.com/nightroad/server/internal/store"
	"github.com/nightroad/server/internal/ws"
)

const leaderboardLimit = 20

// GameHandler handles session lifecycle and in-game messages.
type GameHandler struct {
	sm     *session.Manager
	scores store.Store
}

// NewGameHandler creates a new game handler.
func NewGameHandler(sm *session.Manager, scores store.Store) *GameHandler {
	return &GameHandler{sm: sm, scores: scores}
}

type joinRequest struct {
	Nickname string `json:"nickname"`
}

type joinResponse struct {
	SessionID  string  `json:"session_id"`
	RoadSeed   int64   `json:"road_seed"`
	RoadLength float64 `json:"road_length"`
}

// HandleJoin creates a session for the client.
func (h *GameHandler) HandleJoin(client *ws.Client, msg ws.Message) {
	var req joinRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Nickname == "" {
		client.SendMessage(ws.NewErrorMessage("nickname is required"))
		return
	}

	s := h.sm.Create(req.Nickname, client)
	resp, _ := ws.NewMessage(ws.TypeJoined, joinResponse{
		SessionID:  s.ID,
		RoadSeed:   s.RoadSeed,
		RoadLength: s.RoadLength(),
	})
	client.SendMessage(resp)
}

// HandleStart begins the run.
func (h *GameHandler) HandleStart(client *ws.Client, _ ws.Message) {
	s := h.sm.Get(client.ID)
	if s == nil {
		client.SendMessage(ws.NewErrorMessage("join first"))
		return
	}
	if !s.Start() {
		client.SendMessage(ws.NewErrorMessage("already playing"))
	}
}

type playerMoveRequest struct {
	Pos    sim.Vec3 `json:"pos"`
	Facing sim.Vec3 `json:"facing"`
}

// HandlePlayerMove updates the player's reported pose.
func (h *GameHandler) HandlePlayerMove(client *ws.Client, msg ws.Message) {
	var req playerMoveRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid move data"))
		return
	}
	if !finite(req.Pos) || !finite(req.Facing) {
		client.SendMessage(ws.NewErrorMessage("position out of bounds"))
		return
	}

	s := h.sm.Get(client.ID)
	if s == nil || s.State() != session.StatePlaying {
		return
	}
	s.SetPlayerPose(req.Pos, req.Facing)
	slog.Debug("player moved", "session", s.ID, "x", req.Pos.X, "z", req.Pos.Z)
}

// HandleFlashlightToggle flips the flashlight.
func (h *GameHandler) HandleFlashlightToggle(client *ws.Client, _ ws.Message) {
	s := h.sm.Get(client.ID)
	if s == nil {
		return
	}
	on := s.ToggleFlashlight()
	slog.Debug("flashlight toggled", "session", s.ID, "on", on)
}

// HandleRestart resets the session for another run on the same road.
func (h *GameHandler) HandleRestart(client *ws.Client, _ ws.Message) {
	s := h.sm.Get(client.ID)
	if s == nil {
		client.SendMessage(ws.NewErrorMessage("join first"))
		return
	}
	s.Restart()
}

type leaderboardResponse struct {
	Entries []store.Entry `json:"entries"`
}

// HandleGetLeaderboard returns the top scores.
func (h *GameHandler) HandleGetLeaderboard(client *ws.Client, _ ws.Message) {
	if h.scores == nil {
		client.SendMessage(ws.NewErrorMessage("leaderboard disabled"))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := h.scores.TopScores(ctx, leaderboardLimit)
	if err != nil {
		slog.Error("leaderboard query failed", "error", err)
		client.SendMessage(ws.NewErrorMessage("leaderboard unavailable"))
		return
	}
	resp, _ := ws.NewMessage(ws.TypeLeaderboard, leaderboardResponse{Entries: entries})
	client.SendMessage(resp)
}

// HandleDisconnect tears down the client's session.
func (h *GameHandler) HandleDisconnect(client *ws.Client) {
	h.sm.Remove(client.ID)
}

func finite(v sim.Vec3) bool {
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
