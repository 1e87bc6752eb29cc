// Package components defines ECS components for the sandbox.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/perception"
)

// Position is a world position in meters. Y is up.
type Position struct {
	X, Y, Z float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Facing is the horizontal heading of an entity.
type Facing struct {
	Yaw float64 // degrees, 0 faces +Z, 90 faces +X
}

// Forward returns the unit forward vector for the current yaw.
func (f Facing) Forward() r3.Vec {
	return perception.ForwardFromYaw(f.Yaw)
}

// Layer is the scene layer membership of an entity.
type Layer struct {
	Mask perception.LayerMask
}

// Guard marks an entity that runs a perception controller.
type Guard struct {
	ID   uint32
	Name string
}

// Sweep oscillates a guard's yaw around BaseYaw while it patrols.
type Sweep struct {
	BaseYaw float64 // degrees
	Arc     float64 // degrees either side of BaseYaw
	Rate    float64 // cycles per second
	Phase   float64 // radians
	Paused  bool
}

// Yaw returns the swept heading at the current phase.
func (s Sweep) Yaw() float64 {
	return s.BaseYaw + s.Arc*math.Sin(s.Phase)
}

// Advance moves the sweep phase forward by dt seconds unless paused.
func (s *Sweep) Advance(dt float64) {
	if s.Paused {
		return
	}
	s.Phase = math.Mod(s.Phase+2*math.Pi*s.Rate*dt, 2*math.Pi)
}

// Wanderer drives the target's free movement.
type Wanderer struct {
	Speed    float64 // meters per second
	TurnRate float64 // degrees per second
	Clock    float64 // noise time, seconds
}

// Box is the extent of an axis-aligned occluder.
type Box struct {
	Min, Max r3.Vec
}

// Center returns the center of the box.
func (b Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}
