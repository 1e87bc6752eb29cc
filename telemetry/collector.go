package telemetry

import "github.com/pthm-cable/sentry/perception"

// Collector accumulates notifications within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Per-guard timestamps, seconds of sim time
	runStart   map[uint32]float64
	trackStart map[uint32]float64

	// Counters for the current window
	alertsStarted  int
	escalations    int
	found          int
	lostAfterFind  int
	lostBeforeFind int
	cues           int
	detect         []float64
	track          []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		runStart:            make(map[uint32]float64),
		trackStart:          make(map[uint32]float64),
	}
}

// RecordNotification records one guard notification at simTime seconds.
func (c *Collector) RecordNotification(guardID uint32, n perception.Notification, simTime float64) {
	switch n.Kind {
	case perception.AlertStarted:
		c.alertsStarted++
		c.runStart[guardID] = simTime
	case perception.Escalated:
		c.escalations++
	case perception.TargetFound:
		c.found++
		if start, ok := c.runStart[guardID]; ok {
			c.detect = append(c.detect, simTime-start)
			delete(c.runStart, guardID)
		}
		c.trackStart[guardID] = simTime
	case perception.TargetLost:
		if n.WasFound {
			c.lostAfterFind++
			if start, ok := c.trackStart[guardID]; ok {
				c.track = append(c.track, simTime-start)
				delete(c.trackStart, guardID)
			}
		} else {
			c.lostBeforeFind++
		}
	}
}

// RecordCue records a played voice cue.
func (c *Collector) RecordCue() {
	c.cues++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// GuardCounts is the guard state census at window end.
type GuardCounts struct {
	Guards   int
	Tracking int
	Alerted  int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, counts GuardCounts) WindowStats {
	detectMean, detectP50, detectP90 := ComputeLatencyStats(c.detect)
	trackMean, trackStd := ComputeSpread(c.track)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Guards:   counts.Guards,
		Tracking: counts.Tracking,
		Alerted:  counts.Alerted,

		AlertsStarted:  c.alertsStarted,
		Escalations:    c.escalations,
		Found:          c.found,
		LostAfterFind:  c.lostAfterFind,
		LostBeforeFind: c.lostBeforeFind,
		Cues:           c.cues,

		DetectMean: detectMean,
		DetectP50:  detectP50,
		DetectP90:  detectP90,
		TrackMean:  trackMean,
		TrackStd:   trackStd,
	}

	// Reset for next window. Open runs carry over.
	c.windowStartTick = currentTick
	c.alertsStarted = 0
	c.escalations = 0
	c.found = 0
	c.lostAfterFind = 0
	c.lostBeforeFind = 0
	c.cues = 0
	c.detect = c.detect[:0]
	c.track = c.track[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
