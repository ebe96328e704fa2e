package sim

// RoadPath is the parametric road curve the simulations position entities
// against. Implementations must accept any t; values outside [0,1] are
// clamped to the endpoints.
type RoadPath interface {
	// Point returns the world position at normalized progress t.
	Point(t float64) Vec3
	// Tangent returns the unit travel direction at normalized progress t.
	Tangent(t float64) Vec3
	// Length returns the total arc length of the curve in meters.
	Length() float64
}

// PlayerProbe exposes the player's current-tick geometry to the encounter
// coordinator. The session layer owns the concrete player.
type PlayerProbe interface {
	Position() Vec3
	Forward() Vec3
	CollisionBox() AABB
	NearMissBox() AABB
}
