package sim

import "math"

// Flashlight tracks the battery economy and answers the geometric question
// "is this point currently lit". There is no occlusion test; illumination
// is pure cone containment from the viewer.
type Flashlight struct {
	Battery float64 `json:"battery"`
	On      bool    `json:"on"`

	externalDrain float64
}

// NewFlashlight returns a flashlight with a full battery, switched on.
func NewFlashlight() *Flashlight {
	return &Flashlight{
		Battery:       BatteryMax,
		On:            true,
		externalDrain: 1,
	}
}

// Update drains the battery for one tick. The drain multiplier ramps
// linearly with elapsed session minutes so long runs get harder.
func (f *Flashlight) Update(dt, elapsed float64) {
	if !f.On || f.Battery <= 0 || dt <= 0 {
		return
	}
	ramp := 1 + math.Max(0, elapsed)/60*DrainRampPerMinute
	f.Battery -= BaseDrainRate * ramp * f.externalDrain * dt
	if f.Battery < 0 {
		f.Battery = 0
	}
}

// IsPointIlluminated reports whether point lies inside the flashlight cone
// from the viewer's position along its forward direction.
func (f *Flashlight) IsPointIlluminated(point, viewerPos, viewerForward Vec3) bool {
	if !f.On || f.Battery <= 0 {
		return false
	}
	to := point.Sub(viewerPos)
	dist := to.Length()
	if dist > ConeMaxDistance {
		return false
	}
	if dist < 1e-9 {
		return true
	}
	cos := to.Normalized().Dot(viewerForward.Normalized())
	return cos >= math.Cos(ConeHalfAngleRadians)
}

// Recharge adds charge, clamped to the battery cap.
func (f *Flashlight) Recharge(amount float64) {
	f.Battery = Clamp(f.Battery+amount, 0, BatteryMax)
}

// Toggle flips the switch and returns the new state.
func (f *Flashlight) Toggle() bool {
	f.On = !f.On
	return f.On
}

func (f *Flashlight) IsDead() bool {
	return f.Battery <= 0
}

func (f *Flashlight) IsLowBattery() bool {
	return f.Battery < LowBatteryThreshold
}

// SetExternalDrainMultiplier scales battery drain; used by wave escalation.
func (f *Flashlight) SetExternalDrainMultiplier(m float64) {
	if m <= 0 {
		m = 1
	}
	f.externalDrain = m
}

// Reset restores a full battery and switches the light on.
func (f *Flashlight) Reset() {
	f.Battery = BatteryMax
	f.On = true
	f.externalDrain = 1
}
