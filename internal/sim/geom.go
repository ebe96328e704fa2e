package sim

import "math"

// Vec3 is a point or direction in world space. The road lies in the XZ
// plane; Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns a unit-length copy, or the zero vector unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// DistanceXZ is the distance between two points projected onto the road plane.
func DistanceXZ(a, b Vec3) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// RightOf returns the unit vector 90 degrees clockwise (viewed from above)
// from a forward direction in the XZ plane.
func RightOf(forward Vec3) Vec3 {
	return Vec3{X: -forward.Z, Z: forward.X}.Normalized()
}

// AABB is an axis-aligned box in the XZ plane.
type AABB struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

// AABBAround builds a box centered on a point with the given half-extents.
func AABBAround(center Vec3, halfX, halfZ float64) AABB {
	return AABB{
		MinX: center.X - halfX,
		MaxX: center.X + halfX,
		MinZ: center.Z - halfZ,
		MaxZ: center.Z + halfZ,
	}
}

// BoxesIntersect reports closed-interval AABB overlap: boxes that merely
// touch along an edge count as intersecting.
func BoxesIntersect(a, b AABB) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX &&
		a.MinZ <= b.MaxZ && a.MaxZ >= b.MinZ
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
