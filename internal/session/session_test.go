package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightroad/server/internal/sim"
	"github.com/nightroad/server/internal/ws"
)

// mockClient creates a ws.Client with a buffered Send channel for testing.
func mockClient(id string) *ws.Client {
	return &ws.Client{
		ID:   id,
		Send: make(chan []byte, 256),
	}
}

// drainMessages reads all pending messages from a client's send channel.
func drainMessages(client *ws.Client) []ws.Message {
	var msgs []ws.Message
	for {
		select {
		case data := <-client.Send:
			var msg ws.Message
			if err := json.Unmarshal(data, &msg); err == nil {
				msgs = append(msgs, msg)
			}
		default:
			return msgs
		}
	}
}

// findMessageByType finds the first message of a given type.
func findMessageByType(msgs []ws.Message, msgType string) *ws.Message {
	for _, m := range msgs {
		if m.Type == msgType {
			return &m
		}
	}
	return nil
}

func setupTestSession() (*Session, *ws.Client) {
	c := mockClient("client1")
	s := New("tester", 42, c, nil)
	return s, c
}

func TestNew_StartsWaiting(t *testing.T) {
	s, _ := setupTestSession()
	assert.Equal(t, StateWaiting, s.State())
	assert.Equal(t, int64(42), s.RoadSeed)
	assert.Equal(t, "tester", s.Player().Nickname)
}

func TestStart_SetsState(t *testing.T) {
	s, _ := setupTestSession()
	require.True(t, s.Start())
	defer s.Stop()

	assert.Equal(t, StatePlaying, s.State())
	// A second start is rejected while playing.
	assert.False(t, s.Start())
}

// forcePlaying marks the session playing without launching the loop, so
// tests can step the tick by hand.
func forcePlaying(s *Session) {
	s.mu.Lock()
	s.state = StatePlaying
	s.mu.Unlock()
}

func TestTick_BroadcastsGameState(t *testing.T) {
	s, c := setupTestSession()
	forcePlaying(s)

	ended := s.tick(0.05)
	require.False(t, ended)

	msgs := drainMessages(c)
	stateMsg := findMessageByType(msgs, ws.TypeGameState)
	require.NotNil(t, stateMsg, "should receive game_state message")

	var state gameStateMessage
	require.NoError(t, json.Unmarshal(stateMsg.Data, &state))
	assert.InDelta(t, 0.05, state.Elapsed, 0.001)
	assert.True(t, state.LightOn)
	assert.LessOrEqual(t, state.Battery, sim.BatteryMax)
	assert.Greater(t, state.Battery, 0.0)
}

func TestTick_AccumulatesElapsedTime(t *testing.T) {
	s, c := setupTestSession()
	forcePlaying(s)

	for i := 0; i < 10; i++ {
		s.tick(0.05)
	}
	drainMessages(c)

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.InDelta(t, 0.5, s.elapsed, 0.001)
}

func TestEndRun_BroadcastsGameOver(t *testing.T) {
	s, c := setupTestSession()
	require.True(t, s.Start())

	s.endRun(true, sim.VehicleSemi)

	assert.Equal(t, StateEnded, s.State())
	msgs := drainMessages(c)
	overMsg := findMessageByType(msgs, ws.TypeGameOver)
	require.NotNil(t, overMsg, "should receive game_over message")

	var over gameOverMessage
	require.NoError(t, json.Unmarshal(overMsg.Data, &over))
	assert.Equal(t, "stealth_vehicle", over.Cause)
	assert.Equal(t, "semi", over.VehicleType)
}

func TestEndRun_OnlyOnce(t *testing.T) {
	s, c := setupTestSession()
	require.True(t, s.Start())

	s.endRun(false, sim.VehicleSedan)
	drainMessages(c)
	s.endRun(false, sim.VehicleSedan)

	assert.Nil(t, findMessageByType(drainMessages(c), ws.TypeGameOver))
}

func TestEscalate_RampsByWave(t *testing.T) {
	s, _ := setupTestSession()

	s.mu.Lock()
	s.elapsed = 2 * WaveInterval
	s.escalate()
	wave := s.wave
	s.mu.Unlock()

	assert.Equal(t, 2, wave)
}

func TestGameLoop_TicksOverTime(t *testing.T) {
	s, c := setupTestSession()
	require.True(t, s.Start())
	defer s.Stop()

	time.Sleep(3*TickInterval + 10*time.Millisecond)

	msgs := drainMessages(c)
	assert.NotNil(t, findMessageByType(msgs, ws.TypeGameState))
}

func TestRestart_ResetsRun(t *testing.T) {
	s, c := setupTestSession()
	require.True(t, s.Start())

	for i := 0; i < 20; i++ {
		s.tick(0.05)
	}
	drainMessages(c)

	s.Restart()

	assert.Equal(t, StateWaiting, s.State())
	assert.Equal(t, 0, s.Score())
	s.mu.RLock()
	assert.Equal(t, 0.0, s.elapsed)
	assert.Equal(t, sim.BatteryMax, s.enc.Flashlight.Battery)
	s.mu.RUnlock()
}

func TestRestart_PlayerReturnsToRoadStart(t *testing.T) {
	s, _ := setupTestSession()
	start := s.Player().Position()
	require.True(t, s.Start())

	s.SetPlayerPose(sim.Vec3{X: 12, Z: 140}, sim.Vec3{Z: 1})
	s.Restart()

	// The winding road's start is off-origin, so the reset must go
	// through the road, not a fixed offset.
	assert.Equal(t, s.road.Point(0).Add(sim.Vec3{X: sim.ShoulderOffset}), s.Player().Position())
	assert.Equal(t, start, s.Player().Position())
}

func TestTick_NoopUnlessPlaying(t *testing.T) {
	s, c := setupTestSession()

	// Waiting session: a stray tick must not advance or broadcast.
	assert.True(t, s.tick(0.05))
	assert.Empty(t, drainMessages(c))

	require.True(t, s.Start())
	s.Restart()
	drainMessages(c)

	// A tick racing the restart drops out without touching the fresh run.
	assert.True(t, s.tick(0.05))
	assert.Empty(t, drainMessages(c))
	s.mu.RLock()
	assert.Equal(t, 0.0, s.elapsed)
	s.mu.RUnlock()
}

func TestRoadLength(t *testing.T) {
	s, _ := setupTestSession()
	assert.Equal(t, s.road.Length(), s.RoadLength())
	assert.Greater(t, s.RoadLength(), 0.0)
}

func TestSetPlayerPose(t *testing.T) {
	s, _ := setupTestSession()

	pos := sim.Vec3{X: 4, Z: 100}
	facing := sim.Vec3{X: 1}
	s.SetPlayerPose(pos, facing)

	assert.Equal(t, pos, s.Player().Position())
	assert.InDelta(t, 1.0, s.Player().Forward().X, 0.001)
}

func TestToggleFlashlight(t *testing.T) {
	s, _ := setupTestSession()
	assert.False(t, s.ToggleFlashlight())
	assert.True(t, s.ToggleFlashlight())
}
