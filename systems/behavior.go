package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/components"
	"github.com/pthm-cable/sentry/perception"
)

// Alertness is a guard's reaction level, driven by its perception
// notifications.
type Alertness uint8

const (
	// Patrolling guards sweep their heading.
	Patrolling Alertness = iota
	// Suspicious guards stop and hold their heading.
	Suspicious
	// Chasing guards turn to face the target.
	Chasing
)

func (a Alertness) String() string {
	switch a {
	case Patrolling:
		return "patrolling"
	case Suspicious:
		return "suspicious"
	case Chasing:
		return "chasing"
	default:
		return "unknown"
	}
}

// GuardBehavior is the per-guard consumer of perception notifications.
type GuardBehavior struct {
	Alertness Alertness
}

// Notify implements perception.Sink.
func (b *GuardBehavior) Notify(n perception.Notification) {
	switch n.Kind {
	case perception.Escalated:
		if b.Alertness == Patrolling {
			b.Alertness = Suspicious
		}
	case perception.TargetFound:
		b.Alertness = Chasing
	case perception.TargetLost:
		b.Alertness = Patrolling
	}
}

// BehaviorSystem steers guard headings from their alertness.
type BehaviorSystem struct {
	filter   *ecs.Filter4[components.Guard, components.Position, components.Facing, components.Sweep]
	guards   map[uint32]*GuardBehavior
	turnRate float64 // degrees per second
}

// NewBehaviorSystem creates a behavior system. turnRate bounds how fast a
// guard turns toward the target or back to its sweep.
func NewBehaviorSystem(w *ecs.World, turnRate float64) *BehaviorSystem {
	return &BehaviorSystem{
		filter:   ecs.NewFilter4[components.Guard, components.Position, components.Facing, components.Sweep](w),
		guards:   make(map[uint32]*GuardBehavior),
		turnRate: turnRate,
	}
}

// Behavior returns the behavior for a guard, creating it on first use.
func (s *BehaviorSystem) Behavior(id uint32) *GuardBehavior {
	b, ok := s.guards[id]
	if !ok {
		b = &GuardBehavior{}
		s.guards[id] = b
	}
	return b
}

// Alertness returns a guard's current alertness.
func (s *BehaviorSystem) Alertness(id uint32) Alertness {
	if b, ok := s.guards[id]; ok {
		return b.Alertness
	}
	return Patrolling
}

// Update advances sweeps and turns guards. target is the position chasing
// guards turn toward.
func (s *BehaviorSystem) Update(target r3.Vec, dt float64) {
	maxStep := s.turnRate * dt

	query := s.filter.Query()
	for query.Next() {
		guard, pos, facing, sweep := query.Get()

		switch s.Alertness(guard.ID) {
		case Patrolling:
			sweep.Paused = false
			sweep.Advance(dt)
			facing.Yaw = TurnToward(facing.Yaw, sweep.Yaw(), maxStep)
		case Suspicious:
			sweep.Paused = true
		case Chasing:
			sweep.Paused = true
			facing.Yaw = TurnToward(facing.Yaw, YawTo(pos.Vec(), target), maxStep)
		}
	}
}
