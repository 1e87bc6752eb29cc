package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/perception"
)

// Probe answers cone visibility queries against the scene: a target is
// visible when it is on a target layer, within the cone, and the segment
// from the eye to it crosses no occluder.
//
// A Probe owns query scratch, so give each concurrently ticking guard its
// own Probe (see Fork).
type Probe struct {
	grid      *SpatialGrid
	occluders *OccluderIndex

	targetMask   perception.LayerMask
	occluderMask perception.LayerMask
	viewHeight   float64

	scratch []Neighbor
	stats   ProbeStats
}

// ProbeStats counts work done by a probe.
type ProbeStats struct {
	Probes     int // ProbeCone calls
	Candidates int // targets inside the range sphere
	Traces     int // occlusion traces run
}

// NewProbe creates a probe over the given grid and occluder index.
func NewProbe(grid *SpatialGrid, occluders *OccluderIndex, targetMask, occluderMask perception.LayerMask, viewHeight float64) *Probe {
	return &Probe{
		grid:         grid,
		occluders:    occluders,
		targetMask:   targetMask,
		occluderMask: occluderMask,
		viewHeight:   viewHeight,
		scratch:      make([]Neighbor, 0, 8),
	}
}

// Fork returns a probe sharing the scene with independent scratch.
func (p *Probe) Fork() *Probe {
	return NewProbe(p.grid, p.occluders.View(), p.targetMask, p.occluderMask, p.viewHeight)
}

// Eye returns the trace origin for a guard standing at origin.
func (p *Probe) Eye(origin r3.Vec) r3.Vec {
	return r3.Vec{X: origin.X, Y: p.viewHeight, Z: origin.Z}
}

// ProbeCone implements perception.Prober. It stops at the first visible
// target.
func (p *Probe) ProbeCone(origin, forward r3.Vec, cone perception.Cone) bool {
	p.stats.Probes++
	if cone.Degenerate() {
		return false
	}

	p.scratch = p.grid.QueryRadiusInto(p.scratch[:0], origin, cone.Radius, p.targetMask)
	p.stats.Candidates += len(p.scratch)

	eye := p.Eye(origin)
	for _, n := range p.scratch {
		if !cone.InAngle(origin, forward, n.Pos) {
			continue
		}
		p.stats.Traces++
		if p.occluders.Blocked(eye, n.Pos, p.occluderMask) {
			continue
		}
		return true
	}
	return false
}

// Stats returns and resets the probe's counters.
func (p *Probe) Stats() ProbeStats {
	s := p.stats
	p.stats = ProbeStats{}
	return s
}
