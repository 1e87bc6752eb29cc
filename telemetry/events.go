// Package telemetry records guard perception activity: an event log of
// notifications and cues, windowed statistics, and step timing.
package telemetry

import (
	"github.com/pthm-cable/sentry/perception"
)

// EventType identifies telemetry events.
type EventType string

const (
	EventNotification EventType = "notification"
	EventCue          EventType = "cue"
)

// Event is one row of events.csv.
type Event struct {
	RunID    string    `csv:"run_id"`
	Tick     int32     `csv:"tick"`
	SimTime  float64   `csv:"sim_time"`
	Type     EventType `csv:"type"`
	GuardID  uint32    `csv:"guard_id"`
	Guard    string    `csv:"guard"`
	Kind     string    `csv:"kind"`      // notification kind or cue category
	WasFound bool      `csv:"was_found"` // only meaningful for target_lost
}

// NewNotificationEvent creates an event for a perception notification.
func NewNotificationEvent(tick int32, simTime float64, guardID uint32, guard string, n perception.Notification) Event {
	return Event{
		Tick:     tick,
		SimTime:  simTime,
		Type:     EventNotification,
		GuardID:  guardID,
		Guard:    guard,
		Kind:     n.Kind.String(),
		WasFound: n.WasFound,
	}
}

// NewCueEvent creates an event for a played voice cue.
func NewCueEvent(tick int32, simTime float64, guardID uint32, guard, category string) Event {
	return Event{
		Tick:    tick,
		SimTime: simTime,
		Type:    EventCue,
		GuardID: guardID,
		Guard:   guard,
		Kind:    category,
	}
}
