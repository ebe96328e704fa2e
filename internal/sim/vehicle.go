package sim

import "encoding/json"

type VehicleType int

const (
	VehicleCompact VehicleType = iota
	VehicleSedan
	VehicleSUV
	VehiclePickup
	VehicleSemi
	VehicleMotorcycle
)

func (t VehicleType) String() string {
	switch t {
	case VehicleCompact:
		return "compact"
	case VehicleSedan:
		return "sedan"
	case VehicleSUV:
		return "suv"
	case VehiclePickup:
		return "pickup"
	case VehicleSemi:
		return "semi"
	case VehicleMotorcycle:
		return "motorcycle"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes VehicleType as a string.
func (t VehicleType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON deserializes VehicleType from a string.
func (t *VehicleType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "sedan":
		*t = VehicleSedan
	case "suv":
		*t = VehicleSUV
	case "pickup":
		*t = VehiclePickup
	case "semi":
		*t = VehicleSemi
	case "motorcycle":
		*t = VehicleMotorcycle
	default:
		*t = VehicleCompact
	}
	return nil
}

// vehicleSpec is the per-type tuning row: spawn weight, base speed range,
// and bounding-box half-extents (width across the lane, length along it).
type vehicleSpec struct {
	weight     int
	minSpeed   float64
	maxSpeed   float64
	halfWidth  float64
	halfLength float64
}

var vehicleSpecs = map[VehicleType]vehicleSpec{
	VehicleCompact:    {weight: 30, minSpeed: 9, maxSpeed: 12, halfWidth: 0.80, halfLength: 1.8},
	VehicleSedan:      {weight: 20, minSpeed: 10, maxSpeed: 13, halfWidth: 0.90, halfLength: 2.2},
	VehicleSUV:        {weight: 20, minSpeed: 8, maxSpeed: 11, halfWidth: 1.00, halfLength: 2.4},
	VehiclePickup:     {weight: 15, minSpeed: 8, maxSpeed: 12, halfWidth: 1.05, halfLength: 2.6},
	VehicleSemi:       {weight: 7, minSpeed: 6, maxSpeed: 9, halfWidth: 1.30, halfLength: 6.0},
	VehicleMotorcycle: {weight: 8, minSpeed: 12, maxSpeed: 16, halfWidth: 0.40, halfLength: 1.0},
}

// Vehicle is a single car on the road, owned exclusively by Traffic.
type Vehicle struct {
	ID        string      `json:"id"`
	Type      VehicleType `json:"type"`
	Lane      float64     `json:"lane"`      // signed lateral offset
	Direction float64     `json:"direction"` // +1 or -1, derived from lane sign
	Progress  float64     `json:"progress"`  // normalized position along the path
	Speed     float64     `json:"speed"`     // meters per second
	Stealth   bool        `json:"stealth"`   // no headlights, no engine cue

	// Path-derived authoritative pose for this tick. Render smoothing is
	// a client concern; collision math always uses these.
	Pos     Vec3 `json:"pos"`
	Forward Vec3 `json:"forward"` // tangent times direction, unit length

	nearMissFired bool
}

// Box returns the vehicle's world-space bounding box. The per-type
// half-extents are laid out along the local travel frame, then widened
// into an axis-aligned box using the tangent components.
func (v *Vehicle) Box() AABB {
	spec := vehicleSpecs[v.Type]
	fx, fz := v.Forward.X, v.Forward.Z
	if fx < 0 {
		fx = -fx
	}
	if fz < 0 {
		fz = -fz
	}
	hx := fx*spec.halfLength + fz*spec.halfWidth
	hz := fz*spec.halfLength + fx*spec.halfWidth
	return AABBAround(v.Pos, hx, hz)
}

// HeadlightHit reports whether a point sits inside this vehicle's forward
// headlight beam. Stealth vehicles never illuminate anything.
func (v *Vehicle) HeadlightHit(point Vec3) bool {
	if v.Stealth {
		return false
	}
	rel := point.Sub(v.Pos)
	longitudinal := rel.Dot(v.Forward)
	if longitudinal <= 0 || longitudinal > HeadlightRange {
		return false
	}
	lateral := rel.Dot(RightOf(v.Forward))
	if lateral < 0 {
		lateral = -lateral
	}
	return lateral < HeadlightSpread
}
