package sim

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// CollisionResult reports a player-vehicle collision.
type CollisionResult struct {
	Collision bool
	Stealth   bool
	Type      VehicleType
}

// NearMissResult reports a close pass that did not collide.
type NearMissResult struct {
	Stealth bool
	Type    VehicleType
}

// Traffic owns the vehicle population: spawning, kinematics along the road
// path, and the collision/near-miss/crush queries. All randomness comes
// from the injected source so scenarios are reproducible.
type Traffic struct {
	path RoadPath
	rng  *rand.Rand

	vehicles []*Vehicle

	spawnTimer       float64
	nearMissCooldown float64
	difficulty       float64
}

// NewTraffic creates an empty traffic simulation over the given road.
func NewTraffic(path RoadPath, rng *rand.Rand) *Traffic {
	return &Traffic{
		path:       path,
		rng:        rng,
		difficulty: 1,
	}
}

// Update advances every vehicle and runs the spawn policy for one tick.
func (tr *Traffic) Update(dt, elapsed float64) {
	if dt <= 0 {
		return
	}
	if tr.nearMissCooldown > 0 {
		tr.nearMissCooldown -= dt
	}

	tr.advance(dt)

	tr.spawnTimer += dt
	if tr.spawnTimer >= tr.spawnInterval(elapsed) {
		tr.spawnTimer = 0
		if len(tr.vehicles) < MaxVehicles {
			tr.spawn(elapsed)
		}
	}
}

// advance moves each vehicle along the path and drops any that ran off
// either end. A degenerate path length freezes movement rather than
// producing NaN progress.
func (tr *Traffic) advance(dt float64) {
	length := tr.path.Length()
	kept := tr.vehicles[:0]
	for _, v := range tr.vehicles {
		if length > 1e-9 {
			v.Progress += v.Direction * v.Speed * dt / length
		}
		if v.Progress < 0 || v.Progress > 1 {
			continue
		}
		tr.pose(v)
		kept = append(kept, v)
	}
	// Zero the tail so removed vehicles do not linger in the backing array.
	for i := len(kept); i < len(tr.vehicles); i++ {
		tr.vehicles[i] = nil
	}
	tr.vehicles = kept
}

// pose samples the path at the vehicle's progress and applies the lane
// offset. This is the authoritative position used by every query.
func (tr *Traffic) pose(v *Vehicle) {
	t := Clamp(v.Progress, 0, 1)
	tangent := tr.path.Tangent(t)
	v.Pos = tr.path.Point(t).Add(RightOf(tangent).Scale(v.Lane))
	v.Forward = tangent.Scale(v.Direction).Normalized()
}

// spawnInterval shrinks as the session runs and with difficulty.
func (tr *Traffic) spawnInterval(elapsed float64) float64 {
	minutes := math.Max(0, elapsed) / 60
	return BaseSpawnInterval / (1 + minutes*SpawnRampFactor) / tr.difficulty
}

func (tr *Traffic) spawn(elapsed float64) {
	vt := tr.rollType()
	spec := vehicleSpecs[vt]

	lane := LaneOffset
	if tr.rng.Float64() < 0.5 {
		lane = -LaneOffset
	}
	// Opposite lanes travel opposite ways: the +lane side drives from the
	// far end of the path back toward the start.
	direction := -1.0
	progress := 1.0
	if lane < 0 {
		direction = 1.0
		progress = 0.0
	}

	v := &Vehicle{
		ID:        uuid.NewString(),
		Type:      vt,
		Lane:      lane,
		Direction: direction,
		Progress:  progress,
		Speed:     (spec.minSpeed + tr.rng.Float64()*(spec.maxSpeed-spec.minSpeed)) * tr.difficulty,
		Stealth:   tr.rng.Float64() < tr.stealthChance(elapsed),
	}
	tr.pose(v)
	tr.vehicles = append(tr.vehicles, v)
}

// rollType picks a vehicle type by the fixed category weights.
func (tr *Traffic) rollType() VehicleType {
	total := 0
	for _, spec := range vehicleSpecs {
		total += spec.weight
	}
	roll := tr.rng.Intn(total)
	for _, vt := range []VehicleType{
		VehicleCompact, VehicleSedan, VehicleSUV,
		VehiclePickup, VehicleSemi, VehicleMotorcycle,
	} {
		roll -= vehicleSpecs[vt].weight
		if roll < 0 {
			return vt
		}
	}
	return VehicleCompact
}

// stealthChance ramps after a grace period so early-game traffic is honest.
func (tr *Traffic) stealthChance(elapsed float64) float64 {
	minutes := math.Max(0, elapsed) / 60
	chance := BaseStealthChance + math.Max(0, minutes-StealthGraceMin)*StealthRampRate
	return Clamp(chance*tr.difficulty, 0, 1)
}

// Vehicles returns a read-only snapshot of the current vehicle list. The
// returned slice must not be mutated; it is rebuilt every call.
func (tr *Traffic) Vehicles() []*Vehicle {
	out := make([]*Vehicle, len(tr.vehicles))
	copy(out, tr.vehicles)
	return out
}

// VehicleCount returns the number of active vehicles.
func (tr *Traffic) VehicleCount() int {
	return len(tr.vehicles)
}

// CheckCollision tests the player's collision box against every vehicle.
func (tr *Traffic) CheckCollision(playerBox AABB) CollisionResult {
	for _, v := range tr.vehicles {
		if BoxesIntersect(v.Box(), playerBox) {
			return CollisionResult{Collision: true, Stealth: v.Stealth, Type: v.Type}
		}
	}
	return CollisionResult{}
}

// CheckNearMiss fires when a vehicle grazes the near-miss box without
// touching the collision box. Each vehicle fires at most once, and events
// are rate-limited by a shared cooldown. A vehicle that jumps straight
// from far to colliding in one tick never counts as a near miss.
func (tr *Traffic) CheckNearMiss(nearMissBox, collisionBox AABB) *NearMissResult {
	if tr.nearMissCooldown > 0 {
		return nil
	}
	for _, v := range tr.vehicles {
		if v.nearMissFired {
			continue
		}
		box := v.Box()
		if BoxesIntersect(box, nearMissBox) && !BoxesIntersect(box, collisionBox) {
			v.nearMissFired = true
			tr.nearMissCooldown = NearMissCooldown
			return &NearMissResult{Stealth: v.Stealth, Type: v.Type}
		}
	}
	return nil
}

// CheckCreatureCollisions returns every creature currently overlapped by a
// vehicle box. Each creature appears at most once.
func (tr *Traffic) CheckCreatureCollisions(creatures []*Creature) []*Creature {
	var crushed []*Creature
	for _, c := range creatures {
		box := AABBAround(c.Pos, CreatureHalfSize, CreatureHalfSize)
		for _, v := range tr.vehicles {
			if BoxesIntersect(v.Box(), box) {
				crushed = append(crushed, c)
				break
			}
		}
	}
	return crushed
}

// SetDifficultyMultiplier scales vehicle speed, spawn rate, and stealth
// chance; used by wave escalation.
func (tr *Traffic) SetDifficultyMultiplier(m float64) {
	if m <= 0 {
		m = 1
	}
	tr.difficulty = m
}

// Reset clears all vehicles and timers back to initial state.
func (tr *Traffic) Reset() {
	tr.vehicles = nil
	tr.spawnTimer = 0
	tr.nearMissCooldown = 0
	tr.difficulty = 1
}
