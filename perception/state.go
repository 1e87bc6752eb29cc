package perception

import "fmt"

// Mode is the top-level perception state.
type Mode uint8

const (
	Searching Mode = iota // evaluating cones to confirm a target
	Tracking              // target confirmed, watching for loss
)

func (m Mode) String() string {
	switch m {
	case Searching:
		return "searching"
	case Tracking:
		return "tracking"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// State is the mutable perception state of one guard.
type State struct {
	Mode Mode

	// Discovery is the confirmation time shared by both cones. It only
	// returns to zero on a Searching tick where neither cone hits, or on the
	// transition to Tracking.
	Discovery float64

	// AlertGate counts down from StopTime while the wide cone alone sees the
	// target. It is re-armed whenever detection lapses.
	AlertGate float64

	// LoseTrack accumulates no-detection time while Tracking.
	LoseTrack float64

	// AlertSignaled is set once Escalated has fired for the current
	// detection episode.
	AlertSignaled bool

	// Presentation flags, read level-triggered by the viewer.
	VisualAlertActive bool // Searching with partial confidence
	VisualSeenActive  bool // Tracking
}

// NewState returns the initial state for cfg: Searching with the alert gate
// armed.
func NewState(cfg *Config) State {
	return State{
		Mode:      Searching,
		AlertGate: cfg.StopTime,
	}
}

// resetSearching puts every Searching field back to its initial value and
// switches to Searching.
func (s State) resetSearching(cfg *Config) State {
	s.Mode = Searching
	s.Discovery = 0
	s.AlertGate = cfg.StopTime
	s.AlertSignaled = false
	s.VisualAlertActive = false
	s.LoseTrack = 0
	return s
}
