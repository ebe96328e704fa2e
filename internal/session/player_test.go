package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nightroad/server/internal/sim"
)

func TestPlayer_Boxes(t *testing.T) {
	p := NewPlayer("tester")
	p.Pos = sim.Vec3{X: 10, Z: 20}

	col := p.CollisionBox()
	near := p.NearMissBox()

	assert.Equal(t, sim.AABB{MinX: 9.5, MaxX: 10.5, MinZ: 19.5, MaxZ: 20.5}, col)

	// The near-miss box strictly contains the collision box.
	assert.Less(t, near.MinX, col.MinX)
	assert.Greater(t, near.MaxX, col.MaxX)
	assert.Less(t, near.MinZ, col.MinZ)
	assert.Greater(t, near.MaxZ, col.MaxZ)
}

func TestPlayer_SetPose(t *testing.T) {
	p := NewPlayer("tester")

	p.SetPose(sim.Vec3{X: 1}, sim.Vec3{X: 3, Z: 4})
	assert.Equal(t, sim.Vec3{X: 1}, p.Pos)
	assert.InDelta(t, 1.0, p.Facing.Length(), 0.001, "facing is normalized")

	// A zero facing vector is ignored so the cone never degenerates.
	prev := p.Facing
	p.SetPose(sim.Vec3{X: 2}, sim.Vec3{})
	assert.Equal(t, prev, p.Facing)
}
