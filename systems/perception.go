package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sentry/components"
	"github.com/pthm-cable/sentry/perception"
)

// GuardPose is one guard's snapshot for the observe phase.
type GuardPose struct {
	ID         uint32
	Name       string
	Pose       perception.Pose
	Controller *perception.Controller
}

// Observer fills out[i] with the cone observation for poses[i]. It lets the
// caller spread probing across workers.
type Observer interface {
	ObserveAll(poses []GuardPose, out []perception.Observation)
}

// SequentialObserver probes guards one after another.
type SequentialObserver struct{}

// ObserveAll implements Observer.
func (SequentialObserver) ObserveAll(poses []GuardPose, out []perception.Observation) {
	for i := range poses {
		out[i] = poses[i].Controller.Observe(poses[i].Pose)
	}
}

// PerceptionSystem ticks every guard's perception controller. A tick runs
// in two phases: observe (read-only, may run in parallel) and apply
// (sequential, delivers notifications).
type PerceptionSystem struct {
	filter      *ecs.Filter3[components.Guard, components.Position, components.Facing]
	controllers map[uint32]*perception.Controller

	poses        []GuardPose
	observations []perception.Observation
}

// NewPerceptionSystem creates a perception system.
func NewPerceptionSystem(w *ecs.World) *PerceptionSystem {
	return &PerceptionSystem{
		filter:      ecs.NewFilter3[components.Guard, components.Position, components.Facing](w),
		controllers: make(map[uint32]*perception.Controller),
	}
}

// Register attaches a controller to the guard with the given ID.
func (s *PerceptionSystem) Register(id uint32, c *perception.Controller) {
	s.controllers[id] = c
}

// Controller returns the controller for a guard, or nil.
func (s *PerceptionSystem) Controller(id uint32) *perception.Controller {
	return s.controllers[id]
}

// Len returns the number of registered controllers.
func (s *PerceptionSystem) Len() int {
	return len(s.controllers)
}

// Poses returns the snapshot taken by the last Update.
func (s *PerceptionSystem) Poses() []GuardPose {
	return s.poses
}

// Update snapshots guard poses, observes through obs (sequentially when nil)
// and applies the results. Any guard without a ready controller aborts the
// tick before state changes, with an error wrapping
// perception.ErrMissingCollaborator.
func (s *PerceptionSystem) Update(dt float64, obs Observer) error {
	if err := s.snapshot(); err != nil {
		return err
	}

	if cap(s.observations) < len(s.poses) {
		s.observations = make([]perception.Observation, len(s.poses))
	}
	s.observations = s.observations[:len(s.poses)]

	if obs == nil {
		obs = SequentialObserver{}
	}
	obs.ObserveAll(s.poses, s.observations)

	for i := range s.poses {
		if _, err := s.poses[i].Controller.Apply(s.observations[i], dt); err != nil {
			return fmt.Errorf("guard %q: %w", s.poses[i].Name, err)
		}
	}
	return nil
}

func (s *PerceptionSystem) snapshot() error {
	s.poses = s.poses[:0]
	query := s.filter.Query()
	for query.Next() {
		guard, pos, facing := query.Get()
		c := s.controllers[guard.ID]
		if c == nil {
			query.Close()
			return fmt.Errorf("guard %q: %w: no controller", guard.Name, perception.ErrMissingCollaborator)
		}
		if err := c.Ready(); err != nil {
			query.Close()
			return fmt.Errorf("guard %q: %w", guard.Name, err)
		}
		s.poses = append(s.poses, GuardPose{
			ID:         guard.ID,
			Name:       guard.Name,
			Pose:       perception.Pose{Position: pos.Vec(), Forward: facing.Forward()},
			Controller: c,
		})
	}
	return nil
}
