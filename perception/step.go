package perception

// Observation is the result of probing both cones for one tick. When Narrow
// is true the wide cone is not consulted and Wide is ignored.
type Observation struct {
	Narrow bool
	Wide   bool
}

// Any reports whether either cone saw the target.
func (o Observation) Any() bool {
	return o.Narrow || o.Wide
}

// Step advances s by dt seconds given this tick's observation and returns
// the new state together with the notifications raised, in emission order.
func Step(s State, cfg *Config, obs Observation, dt float64) (State, []Notification) {
	return StepInto(nil, s, cfg, obs, dt)
}

// StepInto is Step appending notifications to dst. Reuse dst across ticks to
// avoid allocations.
func StepInto(dst []Notification, s State, cfg *Config, obs Observation, dt float64) (State, []Notification) {
	switch s.Mode {
	case Tracking:
		return stepTracking(dst, s, cfg, obs, dt)
	default:
		return stepSearching(dst, s, cfg, obs, dt)
	}
}

func stepSearching(dst []Notification, s State, cfg *Config, obs Observation, dt float64) (State, []Notification) {
	switch {
	case obs.Narrow:
		return discover(dst, s, cfg.SmallViewTimer, dt)

	case obs.Wide:
		s.AlertGate -= dt
		if s.AlertGate <= 0 {
			s.AlertGate = 0
			if !s.AlertSignaled {
				s.AlertSignaled = true
				dst = append(dst, Notification{Kind: Escalated})
			}
		}
		return discover(dst, s, cfg.BigViewTimer, dt)

	default:
		if s.VisualAlertActive && s.AlertSignaled {
			dst = append(dst, Notification{Kind: TargetLost, WasFound: false})
		}
		s.AlertSignaled = false
		s.VisualAlertActive = false
		s.AlertGate = cfg.StopTime
		s.Discovery = 0
		return s, dst
	}
}

// discover feeds the shared accumulator. threshold is the confirmation time
// of the cone that hit this tick.
func discover(dst []Notification, s State, threshold, dt float64) (State, []Notification) {
	if !s.VisualAlertActive {
		s.VisualAlertActive = true
		dst = append(dst, Notification{Kind: AlertStarted})
	}

	s.Discovery += dt
	if s.Discovery >= threshold {
		dst = append(dst, Notification{Kind: TargetFound})
		s.Mode = Tracking
		s.VisualAlertActive = false
		s.VisualSeenActive = true
		s.Discovery = 0
		s.LoseTrack = 0
	}
	return s, dst
}

func stepTracking(dst []Notification, s State, cfg *Config, obs Observation, dt float64) (State, []Notification) {
	if obs.Any() {
		s.LoseTrack = 0
		return s, dst
	}

	s.LoseTrack += dt
	if s.LoseTrack >= cfg.LosePlayerTime {
		dst = append(dst, Notification{Kind: TargetLost, WasFound: true})
		s.VisualSeenActive = false
		s = s.resetSearching(cfg)
	}
	return s, dst
}
