package game

import "log/slog"

// Unload stops the worker pool and closes run output. Safe to call once
// the main loop has exited, in either mode.
func (g *Game) Unload() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}

	g.flushEvents()
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}

// GuardSummary is a guard's state at the end of a run.
type GuardSummary struct {
	Name      string
	Mode      string
	Alertness string
	Alerted   bool
	Seen      bool
}

// Summary reports every guard's state in spawn order.
func (g *Game) Summary() []GuardSummary {
	out := make([]GuardSummary, 0, len(g.guards))
	for _, rt := range g.guards {
		c := g.perception.Controller(rt.id)
		out = append(out, GuardSummary{
			Name:      rt.name,
			Mode:      c.Mode().String(),
			Alertness: g.behavior.Alertness(rt.id).String(),
			Alerted:   c.VisualAlertActive(),
			Seen:      c.VisualSeenActive(),
		})
	}
	return out
}
