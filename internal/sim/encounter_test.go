package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probe is a fixed-pose PlayerProbe for coordinator tests.
type probe struct {
	pos     Vec3
	forward Vec3
}

func (p probe) Position() Vec3 { return p.pos }
func (p probe) Forward() Vec3  { return p.forward }

func (p probe) CollisionBox() AABB {
	return AABBAround(p.pos, 0.5, 0.5)
}

func (p probe) NearMissBox() AABB {
	return AABBAround(p.pos, 2, 2)
}

// awayProbe keeps the player far off the road so traffic queries stay quiet.
func awayProbe() probe {
	return probe{pos: Vec3{X: 100}, forward: Vec3{Z: 1}}
}

func newTestEncounter() *Encounter {
	return NewEncounter(straightPath{length: 280}, rand.New(rand.NewSource(1)))
}

func TestTick_AdvancesAllSimulations(t *testing.T) {
	e := newTestEncounter()

	elapsed := 0.0
	for i := 0; i < 200; i++ {
		elapsed += 0.05
		e.Tick(0.05, elapsed, awayProbe())
	}

	assert.Less(t, e.Flashlight.Battery, BatteryMax)
	assert.Greater(t, e.Traffic.VehicleCount(), 0)
	assert.Greater(t, e.Creatures.Count(), 0)
}

func TestTick_CrushRemovesCreatureBeforeReporting(t *testing.T) {
	e := newTestEncounter()
	// Parked semi mid-path; the straight test road puts it at Z=140.
	addVehicle(e.Traffic, &Vehicle{Type: VehicleSemi, Lane: 0, Direction: 1, Progress: 0.5, Speed: 0})
	v := e.Traffic.vehicles[0]

	c := addCreature(e.Creatures, "doomed")
	c.Pos = v.Pos
	c.Start = v.Pos.Sub(Vec3{X: 5})
	c.Target = v.Pos.Add(Vec3{X: 5})

	res := e.Tick(0.01, 0, awayProbe())

	assert.Equal(t, 1, res.CrushedCount)
	assert.Equal(t, 0, e.Creatures.Count(), "crushed creature is removed this tick")
	assert.Nil(t, res.Rescued, "a crushed creature cannot also be rescued")
}

func TestTick_ReportsCollision(t *testing.T) {
	e := newTestEncounter()
	addVehicle(e.Traffic, &Vehicle{Type: VehicleSedan, Lane: 0, Direction: 1, Progress: 0.5, Speed: 0, Stealth: true})
	v := e.Traffic.vehicles[0]

	// Stand right on the vehicle.
	res := e.Tick(0.01, 0, probe{pos: v.Pos, forward: Vec3{Z: 1}})

	assert.True(t, res.Collided)
	assert.True(t, res.StealthCollision)
	assert.Equal(t, VehicleSedan, res.CollisionVehicle)
}

func TestTick_ReportsNearMiss(t *testing.T) {
	e := newTestEncounter()
	addVehicle(e.Traffic, &Vehicle{Type: VehicleCompact, Lane: 0, Direction: 1, Progress: 0.5, Speed: 0})
	v := e.Traffic.vehicles[0]

	// Stand beside the vehicle: inside the near-miss box, clear of the
	// collision box.
	res := e.Tick(0.01, 0, probe{pos: v.Pos.Add(Vec3{X: 2}), forward: Vec3{Z: 1}})

	assert.False(t, res.Collided)
	assert.True(t, res.NearMiss)
}

func TestTick_RescuesIlluminatedCreature(t *testing.T) {
	e := newTestEncounter()
	e.Flashlight.Battery = 50

	c := addCreature(e.Creatures, "lucky")
	c.Pos = Vec3{X: 100, Z: 2}
	c.Start = Vec3{X: 95, Z: 2}
	c.Target = Vec3{X: 105, Z: 2}

	// Player 2m away, flashlight pointed straight at the newt.
	res := e.Tick(0.01, 0, probe{pos: Vec3{X: 100}, forward: Vec3{Z: 1}})

	require.NotNil(t, res.Rescued)
	assert.Equal(t, "lucky", res.Rescued.ID)
	assert.Equal(t, 0, e.Creatures.Count())
	assert.Greater(t, e.Flashlight.Battery, 50.0, "rescue recharges the battery")
}

func TestTick_NoRescueWithLightOff(t *testing.T) {
	e := newTestEncounter()
	e.Flashlight.On = false

	c := addCreature(e.Creatures, "unseen")
	c.Pos = Vec3{X: 100, Z: 2}
	c.Target = Vec3{X: 105, Z: 2}

	res := e.Tick(0.01, 0, probe{pos: Vec3{X: 100}, forward: Vec3{Z: 1}})

	assert.Nil(t, res.Rescued)
	assert.Equal(t, 1, e.Creatures.Count())
}

func TestTick_ZeroDeltaTimeIsSafe(t *testing.T) {
	e := newTestEncounter()
	addVehicle(e.Traffic, &Vehicle{Type: VehicleSedan, Lane: 3, Direction: -1, Progress: 0.5, Speed: 10})

	before := e.Traffic.vehicles[0].Progress
	e.Tick(0, 0, awayProbe())

	assert.Equal(t, before, e.Traffic.vehicles[0].Progress)
	assert.Equal(t, BatteryMax, e.Flashlight.Battery)
}

func TestEncounter_Reset(t *testing.T) {
	e := newTestEncounter()
	for i := 0; i < 200; i++ {
		e.Tick(0.05, float64(i)*0.05, awayProbe())
	}
	require.Greater(t, e.Traffic.VehicleCount(), 0)

	e.Reset()
	assert.Equal(t, 0, e.Traffic.VehicleCount())
	assert.Equal(t, 0, e.Creatures.Count())
	assert.Equal(t, BatteryMax, e.Flashlight.Battery)
}
