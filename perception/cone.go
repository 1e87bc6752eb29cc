// Package perception implements the guard field-of-view controller: a
// narrow/long and a wide/short vision cone sharing one discovery
// accumulator, a wide-cone alert gate, a lose-track timer, and the
// Searching/Tracking state machine that turns cone hits into notifications.
//
// The package has no scene dependency. Geometry queries come in through a
// Prober and notifications leave through a Sink, so the state machine can be
// driven directly in tests with plain booleans.
package perception

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateEps is the horizontal length below which a direction is treated
// as having no heading.
const degenerateEps = 1e-9

// up is the world yaw axis.
var up = r3.Vec{Y: 1}

// Cone is a detection region anchored at the guard: everything within
// Radius whose horizontal bearing differs from the guard's forward direction
// by less than HalfAngleDeg.
type Cone struct {
	Radius       float64
	HalfAngleDeg float64
}

// Degenerate reports whether the cone can never contain anything.
func (c Cone) Degenerate() bool {
	return !(c.Radius > 0) || !(c.HalfAngleDeg > 0)
}

// InRange reports whether point lies within the cone radius of origin.
func (c Cone) InRange(origin, point r3.Vec) bool {
	return r3.Norm2(r3.Sub(point, origin)) <= c.Radius*c.Radius
}

// InAngle reports whether point lies strictly inside the cone's angular
// bounds as seen from origin facing forward. Only the horizontal (XZ)
// components take part. A zero-length forward vector or a point directly
// above or below origin is never inside.
func (c Cone) InAngle(origin, forward, point r3.Vec) bool {
	angle, ok := HorizontalAngleDeg(forward, r3.Sub(point, origin))
	if !ok {
		return false
	}
	return angle < c.HalfAngleDeg
}

// Contains combines InRange and InAngle. It does no occlusion testing.
func (c Cone) Contains(origin, forward, point r3.Vec) bool {
	if c.Degenerate() {
		return false
	}
	return c.InRange(origin, point) && c.InAngle(origin, forward, point)
}

// HorizontalAngleDeg returns the unsigned angle in degrees between a and b
// after projecting both onto the XZ plane. ok is false when either projected
// vector has no length.
func HorizontalAngleDeg(a, b r3.Vec) (deg float64, ok bool) {
	a.Y, b.Y = 0, 0
	na, nb := r3.Norm(a), r3.Norm(b)
	if na < degenerateEps || nb < degenerateEps {
		return 0, false
	}
	cos := r3.Dot(a, b) / (na * nb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}

// ConeEdges returns the two boundary rays of the cone, scaled to its radius,
// obtained by rotating forward about the yaw axis by -/+ HalfAngleDeg.
// Both are zero when forward has no horizontal length.
func ConeEdges(forward r3.Vec, c Cone) (left, right r3.Vec) {
	forward.Y = 0
	n := r3.Norm(forward)
	if n < degenerateEps {
		return r3.Vec{}, r3.Vec{}
	}
	dir := r3.Scale(c.Radius/n, forward)
	half := c.HalfAngleDeg * math.Pi / 180
	left = r3.NewRotation(-half, up).Rotate(dir)
	right = r3.NewRotation(half, up).Rotate(dir)
	return left, right
}

// ForwardFromYaw converts a yaw angle in degrees into a unit forward vector.
// Yaw 0 faces +Z and yaw 90 faces +X.
func ForwardFromYaw(yawDeg float64) r3.Vec {
	rad := yawDeg * math.Pi / 180
	return r3.Vec{X: math.Sin(rad), Z: math.Cos(rad)}
}
