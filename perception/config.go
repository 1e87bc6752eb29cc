package perception

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid perception config")

// LayerMask selects scene layers. Bit i set means layer i is included.
type LayerMask uint32

// Has reports whether m and other share at least one layer.
func (m LayerMask) Has(other LayerMask) bool {
	return m&other != 0
}

// Config holds the per-guard perception thresholds. It is fixed when the
// guard is built.
type Config struct {
	SmallView Cone // narrow, long range
	BigView   Cone // wide, short range

	// Seconds of detection needed to confirm the target through each cone.
	// Both draw on the same accumulator.
	SmallViewTimer float64
	BigViewTimer   float64

	StopTime       float64 // wide-cone delay before escalation
	LosePlayerTime float64 // seconds without detection before losing track
	ViewHeight     float64 // eye height used for occlusion traces

	TargetMask   LayerMask // what counts as the target
	OccluderMask LayerMask // what blocks line of sight
}

// Validate checks ranges. Zero-radius or zero-angle cones are allowed; they
// simply never detect.
func (c *Config) Validate() error {
	cones := []struct {
		name string
		cone Cone
	}{
		{"small_view", c.SmallView},
		{"big_view", c.BigView},
	}
	for _, nc := range cones {
		if !nonNegative(nc.cone.Radius) {
			return fmt.Errorf("%w: %s radius %v", ErrInvalidConfig, nc.name, nc.cone.Radius)
		}
		if !(nc.cone.HalfAngleDeg >= 0 && nc.cone.HalfAngleDeg <= 180) {
			return fmt.Errorf("%w: %s half angle %v outside [0,180]", ErrInvalidConfig, nc.name, nc.cone.HalfAngleDeg)
		}
	}

	timers := []struct {
		name string
		v    float64
	}{
		{"small_view_timer", c.SmallViewTimer},
		{"big_view_timer", c.BigViewTimer},
		{"stop_time", c.StopTime},
		{"lose_player_time", c.LosePlayerTime},
	}
	for _, t := range timers {
		if !nonNegative(t.v) {
			return fmt.Errorf("%w: %s %v", ErrInvalidConfig, t.name, t.v)
		}
	}

	if math.IsNaN(c.ViewHeight) || math.IsInf(c.ViewHeight, 0) {
		return fmt.Errorf("%w: view_height %v", ErrInvalidConfig, c.ViewHeight)
	}
	return nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
