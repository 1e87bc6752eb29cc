package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Angle helpers. Yaw is in degrees, 0 faces +Z, 90 faces +X.

// WrapDeg wraps an angle to (-180, 180].
func WrapDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// YawTo returns the yaw that faces from one point toward another on the
// ground plane.
func YawTo(from, to r3.Vec) float64 {
	return math.Atan2(to.X-from.X, to.Z-from.Z) * 180 / math.Pi
}

// TurnToward rotates cur toward want by at most maxStep degrees, taking the
// shorter way around.
func TurnToward(cur, want, maxStep float64) float64 {
	delta := WrapDeg(want - cur)
	if math.Abs(delta) <= maxStep {
		return WrapDeg(want)
	}
	if delta < 0 {
		return WrapDeg(cur - maxStep)
	}
	return WrapDeg(cur + maxStep)
}

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
