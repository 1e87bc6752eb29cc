package perception

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrMissingCollaborator is returned by Tick when the controller has no way
// to probe the scene or nowhere to deliver notifications. Skipping the tick
// instead would let the timers drift from simulation time.
var ErrMissingCollaborator = errors.New("perception: missing collaborator")

// Prober answers whether the target is visible inside a cone.
type Prober interface {
	ProbeCone(origin, forward r3.Vec, cone Cone) bool
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(origin, forward r3.Vec, cone Cone) bool

// ProbeCone calls f.
func (f ProberFunc) ProbeCone(origin, forward r3.Vec, cone Cone) bool {
	return f(origin, forward, cone)
}

// Pose is the guard's position and facing for one tick.
type Pose struct {
	Position r3.Vec
	Forward  r3.Vec
}

// Controller owns one guard's perception state and drives it once per
// simulation tick. It is not safe for concurrent use.
type Controller struct {
	cfg    Config
	state  State
	prober Prober
	sink   Sink

	last Observation
	buf  []Notification
}

// NewController validates cfg and returns a controller in the initial
// Searching state. prober and sink may be nil here; Tick refuses to run
// without them.
func NewController(cfg Config, prober Prober, sink Sink) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:    cfg,
		state:  NewState(&cfg),
		prober: prober,
		sink:   sink,
		buf:    make([]Notification, 0, 4),
	}, nil
}

// Tick probes the cones from pose, advances the state machine by dt and
// delivers the resulting notifications to the sink. The returned slice is
// only valid until the next call.
func (c *Controller) Tick(pose Pose, dt float64) ([]Notification, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}
	return c.Apply(c.Observe(pose), dt)
}

// Ready returns an error wrapping ErrMissingCollaborator if the prober or
// the sink is missing.
func (c *Controller) Ready() error {
	if c.prober == nil {
		return fmt.Errorf("%w: no scene prober", ErrMissingCollaborator)
	}
	if c.sink == nil {
		return fmt.Errorf("%w: no notification sink", ErrMissingCollaborator)
	}
	return nil
}

// Observe probes the narrow cone and, only if that misses, the wide cone.
// Without a prober it sees nothing; Apply then reports the missing prober.
// Observe only reads controller state, so different controllers may
// observe concurrently against a shared scene.
func (c *Controller) Observe(pose Pose) Observation {
	var obs Observation
	if c.prober == nil {
		return obs
	}
	obs.Narrow = c.prober.ProbeCone(pose.Position, pose.Forward, c.cfg.SmallView)
	if !obs.Narrow {
		obs.Wide = c.prober.ProbeCone(pose.Position, pose.Forward, c.cfg.BigView)
	}
	return obs
}

// Apply advances the state machine with an observation gathered elsewhere
// (for example by a parallel probe phase) and notifies the sink. It leaves
// the state untouched and returns an error wrapping ErrMissingCollaborator
// if the controller is not Ready.
func (c *Controller) Apply(obs Observation, dt float64) ([]Notification, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}
	c.last = obs
	c.state, c.buf = StepInto(c.buf[:0], c.state, &c.cfg, obs, dt)
	for _, n := range c.buf {
		c.sink.Notify(n)
	}
	return c.buf, nil
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.state.Mode }

// VisualAlertActive reports the partial-detection presentation flag.
func (c *Controller) VisualAlertActive() bool { return c.state.VisualAlertActive }

// VisualSeenActive reports the tracking presentation flag.
func (c *Controller) VisualSeenActive() bool { return c.state.VisualSeenActive }

// LastObservation returns the cone results of the most recent tick.
func (c *Controller) LastObservation() Observation { return c.last }

// Config returns the controller's configuration.
func (c *Controller) Config() Config { return c.cfg }
