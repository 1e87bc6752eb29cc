// Package audio turns perception notifications into voice cue requests for a
// guard and schedules the periodic idle chatter.
package audio

import (
	"math/rand"

	"github.com/pthm-cable/sentry/perception"
)

// Category tags a cue request. The player picks a concrete clip for it.
type Category string

const (
	Idle       Category = "idle"
	Alerted    Category = "alerted"
	Aware      Category = "aware"
	LostTarget Category = "lostTarget"
)

// Player plays a clip from the given category.
type Player interface {
	Play(c Category)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(Category)

// Play calls f(c).
func (f PlayerFunc) Play(c Category) { f(c) }

// IntervalSource yields the delay in seconds until the next idle cue.
type IntervalSource interface {
	Next() float64
}

// UniformInterval draws delays uniformly from [Min, Max).
type UniformInterval struct {
	Min, Max float64
	rng      *rand.Rand
}

// NewUniformInterval returns a source over [min, max). min and max are
// swapped if given in the wrong order.
func NewUniformInterval(min, max float64, rng *rand.Rand) *UniformInterval {
	if max < min {
		min, max = max, min
	}
	return &UniformInterval{Min: min, Max: max, rng: rng}
}

// Next returns the next delay.
func (u *UniformInterval) Next() float64 {
	return u.Min + u.rng.Float64()*(u.Max-u.Min)
}

// Cuer requests cues for one guard. It implements perception.Sink so it can
// sit directly on a controller's notification fan-out.
//
//	Escalated            -> alerted (at most once per cooldown window)
//	TargetFound          -> aware
//	TargetLost(!found)   -> lostTarget
//
// AlertStarted and TargetLost(found) are silent.
type Cuer struct {
	player Player
	idle   IntervalSource

	alertedCooldown float64
	cooldownLeft    float64
	idleLeft        float64
}

// NewCuer creates a cuer with its first idle delay already drawn.
func NewCuer(player Player, idle IntervalSource, alertedCooldown float64) *Cuer {
	c := &Cuer{
		player:          player,
		idle:            idle,
		alertedCooldown: alertedCooldown,
	}
	if idle != nil {
		c.idleLeft = idle.Next()
	}
	return c
}

// Notify maps n to a cue.
func (c *Cuer) Notify(n perception.Notification) {
	switch n.Kind {
	case perception.Escalated:
		if c.cooldownLeft <= 0 {
			c.play(Alerted)
			c.cooldownLeft = c.alertedCooldown
		}
	case perception.TargetFound:
		c.play(Aware)
	case perception.TargetLost:
		if !n.WasFound {
			c.play(LostTarget)
		}
	}
}

// Update advances the cue timers by dt. Idle chatter only runs while the
// guard is searching.
func (c *Cuer) Update(mode perception.Mode, dt float64) {
	if mode == perception.Searching && c.idle != nil {
		c.idleLeft -= dt
		if c.idleLeft <= 0 {
			c.play(Idle)
			c.idleLeft = c.idle.Next()
		}
	}
	if c.cooldownLeft > 0 {
		c.cooldownLeft -= dt
	}
}

// IdleLeft returns the seconds until the next idle cue.
func (c *Cuer) IdleLeft() float64 { return c.idleLeft }

func (c *Cuer) play(cat Category) {
	if c.player != nil {
		c.player.Play(cat)
	}
}
