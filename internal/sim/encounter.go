package sim

import "math/rand"

// TickResult is the structured outcome of one coordinator tick, consumed
// by the session layer to drive scoring, death flow, and client cues.
type TickResult struct {
	Collided         bool
	StealthCollision bool
	CollisionVehicle VehicleType
	NearMiss         bool
	NearMissStealth  bool
	CrushedCount     int
	Rescued          *Creature
}

// Encounter glues the three simulations together. Tick order is fixed:
// flashlight, traffic, creatures (reading traffic's fresh snapshot), then
// crush before collision/near-miss so a creature crushed this tick is not
// double-reported, then rescue.
type Encounter struct {
	Flashlight *Flashlight
	Traffic    *Traffic
	Creatures  *Creatures
}

// NewEncounter wires the three simulations over one road and one random
// source.
func NewEncounter(path RoadPath, rng *rand.Rand) *Encounter {
	return &Encounter{
		Flashlight: NewFlashlight(),
		Traffic:    NewTraffic(path, rng),
		Creatures:  NewCreatures(path, rng),
	}
}

// Tick advances the whole simulation by dt seconds at the given elapsed
// session time and applies all cross-system effects.
func (e *Encounter) Tick(dt, elapsed float64, player PlayerProbe) TickResult {
	var res TickResult

	e.Flashlight.Update(dt, elapsed)
	e.Traffic.Update(dt, elapsed)
	e.Creatures.Update(dt, elapsed, e.Traffic.Vehicles())

	for _, c := range e.Traffic.CheckCreatureCollisions(e.Creatures.All()) {
		e.Creatures.Remove(c.ID)
		res.CrushedCount++
	}

	if col := e.Traffic.CheckCollision(player.CollisionBox()); col.Collision {
		res.Collided = true
		res.StealthCollision = col.Stealth
		res.CollisionVehicle = col.Type
	}

	if nm := e.Traffic.CheckNearMiss(player.NearMissBox(), player.CollisionBox()); nm != nil {
		res.NearMiss = true
		res.NearMissStealth = nm.Stealth
	}

	pos := player.Position()
	forward := player.Forward()
	lit := func(p Vec3) bool {
		return e.Flashlight.IsPointIlluminated(p, pos, forward)
	}
	if cand := e.Creatures.RescueCandidate(pos, lit); cand != nil {
		e.Creatures.Remove(cand.ID)
		e.Flashlight.Recharge(RescueRecharge)
		res.Rescued = cand
	}

	return res
}

// Reset restores all three simulations to initial state.
func (e *Encounter) Reset() {
	e.Flashlight.Reset()
	e.Traffic.Reset()
	e.Creatures.Reset()
}
