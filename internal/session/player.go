package session

import "github.com/nightroad/server/internal/sim"

// Player collision geometry.
const (
	PlayerHalfSize   = 0.5 // collision box half-extent, meters
	NearMissHalfSize = 2.0 // near-miss box half-extent, meters
)

// Player is the rescuer walking the road shoulder. Position and facing are
// client-reported (the HUD layer owns input); the server owns everything
// derived from them.
type Player struct {
	Nickname string   `json:"nickname"`
	Pos      sim.Vec3 `json:"pos"`
	Facing   sim.Vec3 `json:"facing"`
}

// NewPlayer creates a player at the road start, facing along the road.
func NewPlayer(nickname string) *Player {
	return &Player{
		Nickname: nickname,
		Facing:   sim.Vec3{Z: 1},
	}
}

// SetPose updates the reported position and facing. A zero facing vector
// is ignored so the flashlight cone never degenerates.
func (p *Player) SetPose(pos, facing sim.Vec3) {
	p.Pos = pos
	if f := facing.Normalized(); f.Length() > 0 {
		p.Facing = f
	}
}

// Position implements sim.PlayerProbe.
func (p *Player) Position() sim.Vec3 { return p.Pos }

// Forward implements sim.PlayerProbe.
func (p *Player) Forward() sim.Vec3 { return p.Facing }

// CollisionBox implements sim.PlayerProbe.
func (p *Player) CollisionBox() sim.AABB {
	return sim.AABBAround(p.Pos, PlayerHalfSize, PlayerHalfSize)
}

// NearMissBox implements sim.PlayerProbe. It strictly contains the
// collision box.
func (p *Player) NearMissBox() sim.AABB {
	return sim.AABBAround(p.Pos, NearMissHalfSize, NearMissHalfSize)
}
