package session

import "github.com/nightroad/server/internal/sim"

// gameStateMessage is the per-tick snapshot broadcast to the client.
type gameStateMessage struct {
	Elapsed    float64         `json:"elapsed"`
	Wave       int             `json:"wave"`
	Score      int             `json:"score"`
	Rescues    int             `json:"rescues"`
	Battery    float64         `json:"battery"`
	LightOn    bool            `json:"light_on"`
	LowBattery bool            `json:"low_battery"`
	Vehicles   []vehicleEntry  `json:"vehicles"`
	Creatures  []creatureEntry `json:"creatures"`
	Events     tickEvents      `json:"events"`
}

type vehicleEntry struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Pos      sim.Vec3 `json:"pos"`
	Forward  sim.Vec3 `json:"forward"`
	Progress float64  `json:"progress"`
	Stealth  bool     `json:"stealth"`
}

type creatureEntry struct {
	ID    string   `json:"id"`
	Pos   sim.Vec3 `json:"pos"`
	State string   `json:"state"`
}

// tickEvents carries the one-shot cues the client renders as audio or
// camera flourishes.
type tickEvents struct {
	NearMiss        bool   `json:"near_miss,omitempty"`
	NearMissStealth bool   `json:"near_miss_stealth,omitempty"`
	Crushed         int    `json:"crushed,omitempty"`
	RescuedID       string `json:"rescued_id,omitempty"`
}

type gameOverMessage struct {
	Cause        string  `json:"cause"`
	VehicleType  string  `json:"vehicle_type"`
	Score        int     `json:"score"`
	Rescues      int     `json:"rescues"`
	SurvivalTime float64 `json:"survival_time"`
	NewBest      bool    `json:"new_best"`
}

// snapshot builds the broadcast state after a tick. Caller must hold s.mu.
func (s *Session) snapshot(result sim.TickResult) gameStateMessage {
	vehicles := s.enc.Traffic.Vehicles()
	creatures := s.enc.Creatures.All()

	msg := gameStateMessage{
		Elapsed:    s.elapsed,
		Wave:       s.wave,
		Score:      s.score,
		Rescues:    s.rescues,
		Battery:    s.enc.Flashlight.Battery,
		LightOn:    s.enc.Flashlight.On,
		LowBattery: s.enc.Flashlight.IsLowBattery(),
		Vehicles:   make([]vehicleEntry, 0, len(vehicles)),
		Creatures:  make([]creatureEntry, 0, len(creatures)),
		Events: tickEvents{
			NearMiss:        result.NearMiss,
			NearMissStealth: result.NearMissStealth,
			Crushed:         result.CrushedCount,
		},
	}
	if result.Rescued != nil {
		msg.Events.RescuedID = result.Rescued.ID
	}
	for _, v := range vehicles {
		msg.Vehicles = append(msg.Vehicles, vehicleEntry{
			ID:       v.ID,
			Type:     v.Type.String(),
			Pos:      v.Pos,
			Forward:  v.Forward,
			Progress: v.Progress,
			Stealth:  v.Stealth,
		})
	}
	for _, c := range creatures {
		msg.Creatures = append(msg.Creatures, creatureEntry{
			ID:    c.ID,
			Pos:   c.Pos,
			State: c.State.String(),
		})
	}
	return msg
}
