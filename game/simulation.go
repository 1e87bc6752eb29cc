package game

import (
	"github.com/pthm-cable/sentry/perception"
	"github.com/pthm-cable/sentry/systems"
	"github.com/pthm-cable/sentry/telemetry"
)

// simulationStep runs one fixed-rate tick.
func (g *Game) simulationStep() error {
	dt := g.cfg.Physics.DT
	pc := g.perfCollector

	pc.StartTick()

	pc.StartPhase(telemetry.PhaseWander)
	g.wander.Update(dt)

	pc.StartPhase(telemetry.PhaseIndex)
	g.index.Update()

	pc.StartPhase(telemetry.PhaseObserve)
	obs := phaseMarker{inner: g.observer, pc: pc}
	if err := g.perception.Update(dt, obs); err != nil {
		pc.EndTick()
		return err
	}

	pc.StartPhase(telemetry.PhaseBehavior)
	g.behavior.Update(g.posMap.Get(g.target).Vec(), dt)

	pc.StartPhase(telemetry.PhaseAudio)
	for _, rt := range g.guards {
		rt.cuer.Update(g.perception.Controller(rt.id).Mode(), dt)
	}

	g.tick++

	pc.StartPhase(telemetry.PhaseTelemetry)
	g.recordProbeStats()
	g.flushTelemetry()

	pc.EndTick()
	return nil
}

// phaseMarker switches the perf phase from observe to apply once every
// guard has been probed.
type phaseMarker struct {
	inner systems.Observer
	pc    *telemetry.PerfCollector
}

func (m phaseMarker) ObserveAll(poses []systems.GuardPose, out []perception.Observation) {
	if m.inner == nil {
		systems.SequentialObserver{}.ObserveAll(poses, out)
	} else {
		m.inner.ObserveAll(poses, out)
	}
	m.pc.StartPhase(telemetry.PhaseApply)
}

func (g *Game) recordProbeStats() {
	for _, rt := range g.guards {
		st := rt.probe.Stats()
		g.perfCollector.RecordProbes(st.Probes, st.Traces)
	}
}
