package game

import (
	"log/slog"

	"github.com/pthm-cable/sentry/audio"
	"github.com/pthm-cable/sentry/perception"
	"github.com/pthm-cable/sentry/telemetry"
)

// telemetrySink records a guard's notifications as events and window stats.
func (g *Game) telemetrySink(rt *guardRuntime) perception.Sink {
	return perception.SinkFunc(func(n perception.Notification) {
		now := g.SimTime()
		g.collector.RecordNotification(rt.id, n, now)
		g.pending = append(g.pending, telemetry.NewNotificationEvent(g.tick, now, rt.id, rt.name, n))
		slog.Debug("perception",
			"tick", g.tick,
			"guard", rt.name,
			"event", n.Kind.String(),
			"was_found", n.WasFound,
		)
	})
}

// cuePlayer returns the voice cue player for a guard. There is no audio
// backend; cues are logged, recorded and flashed over the guard.
func (g *Game) cuePlayer(rt *guardRuntime) audio.Player {
	return audio.PlayerFunc(func(c audio.Category) {
		rt.lastCue = c
		rt.lastCueTick = g.tick
		g.collector.RecordCue()
		g.pending = append(g.pending, telemetry.NewCueEvent(g.tick, g.SimTime(), rt.id, rt.name, string(c)))
		slog.Debug("cue", "tick", g.tick, "guard", rt.name, "category", string(c))
	})
}

// guardCounts takes the guard state census for a stats window.
func (g *Game) guardCounts() telemetry.GuardCounts {
	counts := telemetry.GuardCounts{Guards: len(g.guards)}
	for _, rt := range g.guards {
		c := g.perception.Controller(rt.id)
		if c.Mode() == perception.Tracking {
			counts.Tracking++
		} else if c.VisualAlertActive() {
			counts.Alerted++
		}
	}
	return counts
}

// flushEvents writes buffered events.
func (g *Game) flushEvents() {
	if len(g.pending) == 0 {
		return
	}
	if err := g.outputManager.WriteEvents(g.pending); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	g.pending = g.pending[:0]
}

// flushTelemetry writes the stats window when it is due.
func (g *Game) flushTelemetry() {
	g.flushEvents()

	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.guardCounts())
	perfStats := g.perfCollector.Stats()
	g.lastPerf = perfStats

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	if g.headless {
		g.logWorldState()
	}
}
