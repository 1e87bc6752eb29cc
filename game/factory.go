package game

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/audio"
	"github.com/pthm-cable/sentry/components"
	"github.com/pthm-cable/sentry/config"
	"github.com/pthm-cable/sentry/perception"
	"github.com/pthm-cable/sentry/systems"
)

func maskOf(m uint32) perception.LayerMask {
	return perception.LayerMask(m)
}

// perceptionConfig builds the per-guard thresholds from the sandbox config.
func perceptionConfig(cfg *config.Config) perception.Config {
	p := cfg.Perception
	return perception.Config{
		SmallView:      perception.Cone{Radius: p.SmallView.Radius, HalfAngleDeg: p.SmallView.HalfAngleDeg},
		BigView:        perception.Cone{Radius: p.BigView.Radius, HalfAngleDeg: p.BigView.HalfAngleDeg},
		SmallViewTimer: p.SmallViewTimer,
		BigViewTimer:   p.BigViewTimer,
		StopTime:       p.StopTime,
		LosePlayerTime: p.LosePlayerTime,
		ViewHeight:     p.ViewHeight,
		TargetMask:     maskOf(cfg.Derived.TargetMask),
		OccluderMask:   maskOf(cfg.Derived.OccluderMask),
	}
}

// buildOccluders creates occluder entities and indexes them.
func (g *Game) buildOccluders() error {
	for i, oc := range g.cfg.Occluders {
		m, err := g.cfg.Mask(oc.Layer)
		if err != nil {
			return fmt.Errorf("occluder %d: %w", i, err)
		}
		box := components.Box{
			Min: r3.Vec{X: oc.X, Y: oc.Y, Z: oc.Z},
			Max: r3.Vec{X: oc.X + oc.W, Y: oc.Y + oc.H, Z: oc.Z + oc.D},
		}
		layer := components.Layer{Mask: maskOf(m)}
		e := g.occluderMapper.NewEntity(&box, &layer)
		if _, err := g.occluders.Insert(e, box.Min, box.Max, layer.Mask); err != nil {
			return fmt.Errorf("occluder %d: %w", i, err)
		}
	}
	return nil
}

// buildTarget creates the wandering target.
func (g *Game) buildTarget() {
	t := g.cfg.Target
	m, _ := g.cfg.Mask(t.Layer) // checked by config.Validate
	g.target = g.targetMapper.NewEntity(
		&components.Position{X: t.StartX, Y: t.Height, Z: t.StartZ},
		&components.Facing{Yaw: g.rng.Float64()*360 - 180},
		&components.Wanderer{Speed: t.Speed, TurnRate: t.TurnRate},
		&components.Layer{Mask: maskOf(m)},
	)
}

// buildGuards creates guard entities with their perception controllers,
// probes, voice cues and behavior.
func (g *Game) buildGuards() error {
	pcfg := perceptionConfig(g.cfg)
	base := systems.NewProbe(g.grid, g.occluders, pcfg.TargetMask, pcfg.OccluderMask, pcfg.ViewHeight)

	for i, gc := range g.cfg.Guards {
		id := uint32(i + 1)
		e := g.guardMapper.NewEntity(
			&components.Guard{ID: id, Name: gc.Name},
			&components.Position{X: gc.X, Z: gc.Z},
			&components.Facing{Yaw: gc.Yaw},
			&components.Sweep{BaseYaw: gc.Yaw, Arc: gc.SweepArc, Rate: gc.SweepRate},
		)

		rt := &guardRuntime{entity: e, id: id, name: gc.Name, probe: base.Fork()}
		idle := audio.NewUniformInterval(g.cfg.Audio.IdleMin, g.cfg.Audio.IdleMax, g.rng)
		rt.cuer = audio.NewCuer(g.cuePlayer(rt), idle, g.cfg.Audio.AlertedCooldown)

		sink := perception.Fanout{
			g.telemetrySink(rt),
			g.behavior.Behavior(id),
			rt.cuer,
		}
		c, err := perception.NewController(pcfg, rt.probe, sink)
		if err != nil {
			return fmt.Errorf("guard %q: %w", gc.Name, err)
		}
		g.perception.Register(id, c)

		g.guards = append(g.guards, rt)
		g.byID[id] = rt
	}
	return nil
}
