package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/sentry/perception"
)

func TestComputeLatencyStats(t *testing.T) {
	tests := []struct {
		name           string
		values         []float64
		mean, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single", []float64{2.5}, 2.5, 2.5, 2.5},
		{"ten", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, 5.5, 5, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, p50, p90 := ComputeLatencyStats(tt.values)
			if math.Abs(mean-tt.mean) > 1e-9 || math.Abs(p50-tt.p50) > 1e-9 || math.Abs(p90-tt.p90) > 1e-9 {
				t.Errorf("got (%v, %v, %v), want (%v, %v, %v)", mean, p50, p90, tt.mean, tt.p50, tt.p90)
			}
		})
	}
}

func TestComputeLatencyStatsLeavesInputUnsorted(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeLatencyStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestComputeSpread(t *testing.T) {
	if m, s := ComputeSpread(nil); m != 0 || s != 0 {
		t.Errorf("empty = (%v, %v)", m, s)
	}
	if m, s := ComputeSpread([]float64{4}); m != 4 || s != 0 {
		t.Errorf("single = (%v, %v)", m, s)
	}
	m, s := ComputeSpread([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(m-5) > 1e-9 {
		t.Errorf("mean = %v, want 5", m)
	}
	// Sample standard deviation
	if math.Abs(s-2.138089935) > 1e-6 {
		t.Errorf("std = %v, want 2.138", s)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("WindowDurationTicks = %d, want 10", c.WindowDurationTicks())
	}

	note := func(k perception.Kind) perception.Notification { return perception.Notification{Kind: k} }

	// Guard 1: alert at 0.1, found at 0.6, lost after tracking until 2.6.
	c.RecordNotification(1, note(perception.AlertStarted), 0.1)
	c.RecordNotification(1, note(perception.TargetFound), 0.6)
	// Guard 2: alert, escalation, lost before being found.
	c.RecordNotification(2, note(perception.AlertStarted), 0.2)
	c.RecordNotification(2, note(perception.Escalated), 0.4)
	c.RecordNotification(2, perception.Notification{Kind: perception.TargetLost}, 0.5)
	c.RecordCue()

	if c.ShouldFlush(9) {
		t.Error("window should not flush before 10 ticks")
	}
	if !c.ShouldFlush(10) {
		t.Error("window should flush at 10 ticks")
	}

	stats := c.Flush(10, GuardCounts{Guards: 2, Tracking: 1})
	if stats.AlertsStarted != 2 || stats.Escalations != 1 || stats.Found != 1 ||
		stats.LostBeforeFind != 1 || stats.LostAfterFind != 0 || stats.Cues != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if math.Abs(stats.DetectMean-0.5) > 1e-9 {
		t.Errorf("DetectMean = %v, want 0.5", stats.DetectMean)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("SimTimeSec = %v, want 1", stats.SimTimeSec)
	}
	if stats.Guards != 2 || stats.Tracking != 1 {
		t.Errorf("census = %d/%d", stats.Guards, stats.Tracking)
	}

	// Tracking that started in the previous window still closes out.
	c.RecordNotification(1, perception.Notification{Kind: perception.TargetLost, WasFound: true}, 2.6)
	next := c.Flush(30, GuardCounts{Guards: 2})
	if next.WindowStartTick != 10 || next.LostAfterFind != 1 || next.AlertsStarted != 0 {
		t.Errorf("second window = %+v", next)
	}
	if math.Abs(next.TrackMean-2.0) > 1e-9 {
		t.Errorf("TrackMean = %v, want 2", next.TrackMean)
	}
}
