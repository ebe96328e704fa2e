package sim

import (
	"encoding/json"
	"math/rand"

	"github.com/google/uuid"
)

type CreatureState int

const (
	StateCrossing CreatureState = iota
	StateFrozen
	StateFleeing
)

func (s CreatureState) String() string {
	switch s {
	case StateFrozen:
		return "frozen"
	case StateFleeing:
		return "fleeing"
	default:
		return "crossing"
	}
}

// MarshalJSON serializes CreatureState as a string.
func (s CreatureState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Creature is a newt crossing the road, owned exclusively by Creatures.
// Every field is always present; FleeDirection is 0 except while fleeing.
type Creature struct {
	ID     string `json:"id"`
	Pos    Vec3   `json:"pos"`
	Start  Vec3   `json:"-"`
	Target Vec3   `json:"-"`

	// CrossDir is the unit crossing axis from start shoulder to target
	// shoulder, perpendicular to the road at the spawn point.
	CrossDir Vec3 `json:"-"`

	State         CreatureState `json:"state"`
	StateTimer    float64       `json:"-"`
	FleeDirection float64       `json:"-"` // ±1 along CrossDir, 0 unless fleeing

	BaseSpeed float64 `json:"-"`
	Speed     float64 `json:"-"`
}

// Creatures owns the creature population and the crossing/frozen/fleeing
// behavior machine. Threat checks read the vehicle snapshot passed into
// Update each tick; no vehicle references are retained.
type Creatures struct {
	path RoadPath
	rng  *rand.Rand

	creatures []*Creature

	spawnTimer float64
	speedMult  float64
}

// NewCreatures creates an empty creature simulation over the given road.
func NewCreatures(path RoadPath, rng *rand.Rand) *Creatures {
	return &Creatures{
		path:      path,
		rng:       rng,
		speedMult: 1,
	}
}

// Update runs spawning, the behavior machine, and movement for one tick.
// vehicles is the current tick's read-only traffic snapshot.
func (cs *Creatures) Update(dt, elapsed float64, vehicles []*Vehicle) {
	if dt <= 0 {
		return
	}

	cs.spawnTimer += dt
	if cs.spawnTimer >= CreatureSpawnEvery {
		cs.spawnTimer = 0
		if len(cs.creatures) < MaxCreatures {
			cs.spawn()
		}
	}

	kept := cs.creatures[:0]
	for _, c := range cs.creatures {
		cs.step(c, dt, vehicles)
		if c.arrived() {
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(cs.creatures); i++ {
		cs.creatures[i] = nil
	}
	cs.creatures = kept
}

// spawn places a creature on a random shoulder at a random point along the
// road, targeting the opposite shoulder.
func (cs *Creatures) spawn() {
	t := cs.rng.Float64()
	center := cs.path.Point(t)
	normal := RightOf(cs.path.Tangent(t))

	side := 1.0
	if cs.rng.Float64() < 0.5 {
		side = -1.0
	}
	start := center.Add(normal.Scale(side * ShoulderOffset))
	target := center.Add(normal.Scale(-side * ShoulderOffset))

	base := CreatureCrossSpeed * cs.speedMult
	cs.creatures = append(cs.creatures, &Creature{
		ID:        uuid.NewString(),
		Pos:       start,
		Start:     start,
		Target:    target,
		CrossDir:  target.Sub(start).Normalized(),
		State:     StateCrossing,
		BaseSpeed: base,
		Speed:     base,
	})
}

// step advances one creature: state transitions first, then movement, so
// a freshly frozen creature does not move on the tick it freezes.
func (cs *Creatures) step(c *Creature, dt float64, vehicles []*Vehicle) {
	switch c.State {
	case StateCrossing:
		if inHeadlights(c.Pos, vehicles) {
			c.State = StateFrozen
			c.Speed = 0
			c.StateTimer = 0
			break
		}
		if threat := nearestThreat(c.Pos, vehicles); threat != nil {
			c.State = StateFleeing
			c.StateTimer = 0
			c.Speed = c.BaseSpeed * FleeSpeedMultiplier
			c.FleeDirection = 1
			if c.Pos.Sub(threat.Pos).Dot(c.CrossDir) < 0 {
				c.FleeDirection = -1
			}
		}

	case StateFrozen:
		c.StateTimer += dt
		if c.StateTimer > MaxFreezeDuration || !inHeadlights(c.Pos, vehicles) {
			c.calm()
		}

	case StateFleeing:
		c.StateTimer += dt
		if c.StateTimer >= FleeDuration {
			c.calm()
		}
	}

	switch c.State {
	case StateCrossing:
		c.Pos = c.Pos.Add(c.CrossDir.Scale(c.Speed * dt))
	case StateFleeing:
		c.Pos = c.Pos.Add(c.CrossDir.Scale(c.FleeDirection * c.Speed * dt))
	}
}

// calm returns a creature to crossing at its original speed.
func (c *Creature) calm() {
	c.State = StateCrossing
	c.Speed = c.BaseSpeed
	c.StateTimer = 0
	c.FleeDirection = 0
}

// arrived reports whether the creature has reached or passed its target
// shoulder along the crossing axis.
func (c *Creature) arrived() bool {
	return c.Target.Sub(c.Pos).Dot(c.CrossDir) <= 0
}

// inHeadlights reports whether any non-stealth vehicle's beam covers the
// point this tick.
func inHeadlights(point Vec3, vehicles []*Vehicle) bool {
	for _, v := range vehicles {
		if v.HeadlightHit(point) {
			return true
		}
	}
	return false
}

// nearestThreat returns the closest vehicle within the threat radius, or
// nil. Stealth vehicles still count; newts feel the ground shake.
func nearestThreat(point Vec3, vehicles []*Vehicle) *Vehicle {
	var best *Vehicle
	bestDist := ThreatRadius
	for _, v := range vehicles {
		d := DistanceXZ(point, v.Pos)
		if d <= bestDist {
			best = v
			bestDist = d
		}
	}
	return best
}

// RescueCandidate returns the closest creature that is both inside the
// rescue radius of the player and illuminated, or nil. At most one
// creature is eligible per tick.
func (cs *Creatures) RescueCandidate(playerPos Vec3, lit func(Vec3) bool) *Creature {
	var best *Creature
	bestDist := RescueRadius
	for _, c := range cs.creatures {
		d := DistanceXZ(playerPos, c.Pos)
		if d <= bestDist && lit(c.Pos) {
			best = c
			bestDist = d
		}
	}
	return best
}

// All returns a read-only snapshot of the current creature list.
func (cs *Creatures) All() []*Creature {
	out := make([]*Creature, len(cs.creatures))
	copy(out, cs.creatures)
	return out
}

// Count returns the number of active creatures.
func (cs *Creatures) Count() int {
	return len(cs.creatures)
}

// Remove deletes a creature by ID. Used for crushes and rescues.
func (cs *Creatures) Remove(id string) {
	for i, c := range cs.creatures {
		if c.ID == id {
			cs.creatures = append(cs.creatures[:i], cs.creatures[i+1:]...)
			return
		}
	}
}

// SetSpeedMultiplier scales crossing speed for creatures spawned from now
// on; used by wave escalation.
func (cs *Creatures) SetSpeedMultiplier(m float64) {
	if m <= 0 {
		m = 1
	}
	cs.speedMult = m
}

// Reset clears all creatures and timers back to initial state.
func (cs *Creatures) Reset() {
	cs.creatures = nil
	cs.spawnTimer = 0
	cs.speedMult = 1
}
