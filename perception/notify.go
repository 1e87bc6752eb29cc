package perception

import "fmt"

// Kind identifies a perception notification.
type Kind uint8

const (
	AlertStarted Kind = iota // first hit after a no-hit tick
	TargetFound              // confirmation threshold reached
	TargetLost               // detection lapsed; see Notification.WasFound
	Escalated                // wide-cone detection survived the alert gate
)

func (k Kind) String() string {
	switch k {
	case AlertStarted:
		return "alert_started"
	case TargetFound:
		return "target_found"
	case TargetLost:
		return "target_lost"
	case Escalated:
		return "escalated"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Notification is one edge event emitted by the state machine.
type Notification struct {
	Kind Kind

	// WasFound is only meaningful for TargetLost: true when a confirmed
	// target was lost from Tracking, false when an escalated partial
	// detection lapsed while Searching.
	WasFound bool
}

func (n Notification) String() string {
	if n.Kind == TargetLost {
		return fmt.Sprintf("%s(was_found=%t)", n.Kind, n.WasFound)
	}
	return n.Kind.String()
}

// Sink receives notifications in the order they were emitted.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

// Notify calls f(n).
func (f SinkFunc) Notify(n Notification) { f(n) }

// Fanout delivers each notification to every sink in order. Nil entries are
// skipped.
type Fanout []Sink

// Notify forwards n.
func (fs Fanout) Notify(n Notification) {
	for _, s := range fs {
		if s != nil {
			s.Notify(n)
		}
	}
}

// Discard drops every notification.
var Discard Sink = SinkFunc(func(Notification) {})
