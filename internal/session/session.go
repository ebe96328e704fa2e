package session

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nightroad/server/internal/level"
	"github.com/nightroad/server/internal/sim"
	"github.com/nightroad/server/internal/store"
	"github.com/nightroad/server/internal/ws"
)

type State int

const (
	StateWaiting State = iota
	StatePlaying
	StateEnded
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "waiting"
	}
}

// Game timing and scoring.
const (
	TickRate     = 20
	TickInterval = time.Second / TickRate
	MaxDeltaTime = 0.1 // seconds; bounds one step after a scheduler stall

	ScorePerRescue   = 100
	ScorePerNearMiss = 10

	// Endless-mode wave escalation.
	WaveInterval     = 45.0 // seconds
	WaveTrafficStep  = 0.15
	WaveCreatureStep = 0.10
	WaveDrainStep    = 0.10
)

// Session is one player's run down the night road. It owns the tick loop
// and the encounter simulation, and talks to exactly one client.
type Session struct {
	ID       string
	RoadSeed int64

	state  State
	road   *level.Road
	player *Player
	enc    *sim.Encounter
	client *ws.Client
	scores store.Store // may be nil when the leaderboard is disabled

	score      int
	rescues    int
	nearMisses int
	elapsed    float64
	wave       int

	stopCh chan struct{}
	mu     sync.RWMutex
}

// New creates a waiting session with a freshly generated road. The road
// seed is sent to the client so it can rebuild the same curve for
// rendering.
func New(nickname string, roadSeed int64, client *ws.Client, scores store.Store) *Session {
	road := level.NewWindingRoad(roadSeed)
	rng := rand.New(rand.NewSource(roadSeed))
	s := &Session{
		ID:       uuid.NewString(),
		RoadSeed: roadSeed,
		state:    StateWaiting,
		road:     road,
		player:   NewPlayer(nickname),
		enc:      sim.NewEncounter(road, rng),
		client:   client,
		scores:   scores,
	}
	// Drop the player on the starting shoulder.
	s.player.Pos = road.Point(0).Add(sim.Vec3{X: sim.ShoulderOffset})
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Score returns the current score.
func (s *Session) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// RoadLength returns the length of the session's road in meters.
func (s *Session) RoadLength() float64 {
	return s.road.Length()
}

// Player returns the session's player.
func (s *Session) Player() *Player {
	return s.player
}

// Encounter exposes the simulation for handlers (flashlight toggle).
func (s *Session) Encounter() *sim.Encounter {
	return s.enc
}

// SetPlayerPose updates the player's reported position and facing.
func (s *Session) SetPlayerPose(pos, facing sim.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.SetPose(pos, facing)
}

// ToggleFlashlight flips the flashlight and returns the new state.
func (s *Session) ToggleFlashlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Flashlight.Toggle()
}

// Start transitions to playing and launches the tick loop.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePlaying {
		return false
	}
	s.state = StatePlaying
	s.stopCh = make(chan struct{})
	go s.run(s.stopCh)
	slog.Info("session started", "session", s.ID, "player", s.player.Nickname)
	return true
}

// Stop halts the tick loop without a game-over broadcast (disconnects).
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halt()
	s.state = StateEnded
}

// halt closes the stop channel once. Caller must hold s.mu.
func (s *Session) halt() {
	if s.stopCh == nil {
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}

// Restart resets the simulation and score for a fresh run on the same road.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halt()
	s.enc.Reset()
	s.player.Pos = s.road.Point(0).Add(sim.Vec3{X: sim.ShoulderOffset})
	s.player.Facing = sim.Vec3{Z: 1}
	s.score = 0
	s.rescues = 0
	s.nearMisses = 0
	s.elapsed = 0
	s.wave = 0
	s.state = StateWaiting
	slog.Info("session restarted", "session", s.ID)
}

// run is the 20 Hz tick loop. Real elapsed time is measured and clamped so
// a stalled goroutine cannot produce a runaway simulation step.
func (s *Session) run(stopCh chan struct{}) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > MaxDeltaTime {
				dt = MaxDeltaTime
			}
			if s.tick(dt) {
				return
			}
		}
	}
}

// tick advances the simulation once and applies outcomes. Returns true
// when the run ended this tick.
func (s *Session) tick(dt float64) bool {
	s.mu.Lock()
	if s.state != StatePlaying {
		// Restart or Stop won the race with this tick.
		s.mu.Unlock()
		return true
	}

	s.elapsed += dt
	s.escalate()

	result := s.enc.Tick(dt, s.elapsed, s.player)

	if result.Rescued != nil {
		s.score += ScorePerRescue
		s.rescues++
		slog.Debug("newt rescued", "session", s.ID, "score", s.score)
	}
	if result.NearMiss {
		s.score += ScorePerNearMiss
		s.nearMisses++
	}

	state := s.snapshot(result)
	collided := result.Collided
	s.mu.Unlock()

	msg, _ := ws.NewMessage(ws.TypeGameState, state)
	s.client.SendMessage(msg)

	if collided {
		s.endRun(result.StealthCollision, result.CollisionVehicle)
		return true
	}
	return false
}

// escalate applies endless-mode wave ramps through the tunable setters.
// Caller must hold s.mu.
func (s *Session) escalate() {
	wave := int(s.elapsed / WaveInterval)
	if wave == s.wave {
		return
	}
	s.wave = wave
	w := float64(wave)
	s.enc.Traffic.SetDifficultyMultiplier(1 + w*WaveTrafficStep)
	s.enc.Creatures.SetSpeedMultiplier(1 + w*WaveCreatureStep)
	s.enc.Flashlight.SetExternalDrainMultiplier(1 + w*WaveDrainStep)
	slog.Info("wave escalated", "session", s.ID, "wave", wave)
}

// endRun stops the loop, broadcasts game over, and submits the score.
func (s *Session) endRun(stealth bool, vt sim.VehicleType) {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	s.state = StateEnded
	s.halt()

	cause := "vehicle"
	if stealth {
		cause = "stealth_vehicle"
	}
	over := gameOverMessage{
		Cause:        cause,
		VehicleType:  vt.String(),
		Score:        s.score,
		Rescues:      s.rescues,
		SurvivalTime: s.elapsed,
	}
	entry := &store.Entry{
		ID:              uuid.NewString(),
		Nickname:        s.player.Nickname,
		Score:           s.score,
		Rescues:         s.rescues,
		SurvivalSeconds: s.elapsed,
	}
	s.mu.Unlock()

	if s.scores != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		best, err := s.scores.BestScore(ctx, entry.Nickname)
		if err != nil {
			slog.Error("best score lookup failed", "session", s.ID, "error", err)
		} else {
			over.NewBest = best == nil || entry.Score > best.Score
		}
		if err := s.scores.SubmitScore(ctx, entry); err != nil {
			slog.Error("score submit failed", "session", s.ID, "error", err)
		}
	}

	msg, _ := ws.NewMessage(ws.TypeGameOver, over)
	s.client.SendMessage(msg)
	slog.Info("run ended", "session", s.ID, "cause", cause, "score", over.Score)
}
