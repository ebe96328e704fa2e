// Package level builds the winding night road the simulations run on. It
// is the production implementation of the sim.RoadPath collaborator; the
// core never depends on this package directly.
package level

import (
	"math"
	"math/rand"

	"github.com/nightroad/server/internal/sim"
)

const (
	// RoadLength is the straight-line span of the generated road in meters.
	RoadLength = 280.0

	segments     = 128
	curveCount   = 3
	minCurveAmp  = 8.0
	maxCurveAmp  = 18.0
	minCurveFreq = 1.0
	maxCurveFreq = 2.5
)

// Road is a sampled polyline curve with arc-length parameterization.
// Point and Tangent clamp t to [0,1].
type Road struct {
	points []sim.Vec3
	cumLen []float64 // cumulative arc length up to each point
	total  float64
}

var _ sim.RoadPath = (*Road)(nil)

// NewWindingRoad generates a deterministic road from a seed: a forward
// march with layered sine curves for the winding shape. The same seed
// always yields the same road, so clients can rebuild it locally.
func NewWindingRoad(seed int64) *Road {
	rng := rand.New(rand.NewSource(seed))

	type curve struct {
		amp, freq, phase float64
	}
	curves := make([]curve, curveCount)
	for i := range curves {
		curves[i] = curve{
			amp:   minCurveAmp + rng.Float64()*(maxCurveAmp-minCurveAmp),
			freq:  minCurveFreq + rng.Float64()*(maxCurveFreq-minCurveFreq),
			phase: rng.Float64() * 2 * math.Pi,
		}
	}

	r := &Road{
		points: make([]sim.Vec3, segments+1),
		cumLen: make([]float64, segments+1),
	}
	for i := 0; i <= segments; i++ {
		u := float64(i) / segments
		x := 0.0
		for _, c := range curves {
			x += c.amp * math.Sin(u*c.freq*2*math.Pi+c.phase)
		}
		r.points[i] = sim.Vec3{X: x, Z: u * RoadLength}
	}
	for i := 1; i <= segments; i++ {
		r.cumLen[i] = r.cumLen[i-1] + r.points[i].Sub(r.points[i-1]).Length()
	}
	r.total = r.cumLen[segments]
	return r
}

// Point returns the world position at normalized progress t.
func (r *Road) Point(t float64) sim.Vec3 {
	i, frac := r.locate(t)
	return r.points[i].Add(r.points[i+1].Sub(r.points[i]).Scale(frac))
}

// Tangent returns the unit travel direction at normalized progress t.
func (r *Road) Tangent(t float64) sim.Vec3 {
	i, _ := r.locate(t)
	return r.points[i+1].Sub(r.points[i]).Normalized()
}

// Length returns the total arc length in meters.
func (r *Road) Length() float64 {
	return r.total
}

// locate maps normalized progress to a segment index and a fraction along
// it, by arc length so constant speed in t is constant speed in meters.
func (r *Road) locate(t float64) (int, float64) {
	t = sim.Clamp(t, 0, 1)
	target := t * r.total

	lo, hi := 0, segments
	for lo < hi-1 {
		mid := (lo + hi) / 2
		if r.cumLen[mid] <= target {
			lo = mid
		} else {
			hi = mid
		}
	}
	segLen := r.cumLen[lo+1] - r.cumLen[lo]
	if segLen < 1e-9 {
		return lo, 0
	}
	return lo, (target - r.cumLen[lo]) / segLen
}
