package sim

// Flashlight
const (
	BatteryMax           = 100.0
	BaseDrainRate        = 2.0  // battery units per second at 1x multipliers
	DrainRampPerMinute   = 0.25 // drain multiplier grows linearly with session minutes
	LowBatteryThreshold  = 20.0
	ConeMaxDistance      = 15.0 // meters
	ConeHalfAngleRadians = 0.45 // ~26 degrees
	RescueRecharge       = 25.0 // battery restored per rescued newt
)

// Traffic spawning
const (
	LaneOffset        = 3.0  // meters from road center, both lanes
	BaseSpawnInterval = 3.0  // seconds between spawns at session start
	SpawnRampFactor   = 0.15 // per elapsed minute
	MaxVehicles       = 8
	BaseStealthChance = 0.05
	StealthRampRate   = 0.04 // per minute past the grace period
	StealthGraceMin   = 2.0  // minutes before stealth chance ramps
	NearMissCooldown  = 2.0  // seconds between near-miss events
)

// Vehicle headlights (drives the creature freeze reaction)
const (
	HeadlightRange  = 10.0 // meters ahead of the vehicle
	HeadlightSpread = 2.5  // meters to either side
)

// Creatures
const (
	CreatureCrossSpeed  = 1.2 // meters per second
	FleeSpeedMultiplier = 2.5
	MaxFreezeDuration   = 1.5 // seconds pinned in headlights
	FleeDuration        = 1.0 // seconds before calming down
	ThreatRadius        = 4.0 // any vehicle this close triggers fleeing
	RescueRadius        = 3.0 // player must be this close to rescue
	CreatureHalfSize    = 0.35
	ShoulderOffset      = 5.0 // spawn/target distance from road center
	CreatureSpawnEvery  = 4.0 // seconds
	MaxCreatures        = 6
)
