package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sentry/ui"
)

// hoverRadius is the pick distance around a guard, in screen pixels.
const hoverRadius = 20.0

// guardAtMouse returns the guard under the mouse cursor, if any.
func (g *Game) guardAtMouse() *guardRuntime {
	mouse := rl.GetMousePosition()

	var closest *guardRuntime
	closestDist := float32(hoverRadius)
	for _, rt := range g.guards {
		p := g.toScreen(g.posMap.Get(rt.entity).Vec())
		dist := rl.Vector2Distance(mouse, p)
		if dist < closestDist {
			closestDist = dist
			closest = rt
		}
	}
	return closest
}

// drawGuardTooltip shows the hovered guard's timers next to the cursor.
func (g *Game) drawGuardTooltip() {
	rt := g.guardAtMouse()
	if rt == nil {
		return
	}
	c := g.perception.Controller(rt.id)
	s := c.State()
	cfg := c.Config()
	last := c.LastObservation()

	limit := cfg.SmallViewTimer
	if !last.Narrow && last.Wide {
		limit = cfg.BigViewTimer
	}

	mouse := rl.GetMousePosition()
	g.guardPanel.Draw(ui.GuardPanelData{
		ID:             rt.id,
		Name:           rt.name,
		Mode:           s.Mode.String(),
		Alertness:      g.behavior.Alertness(rt.id).String(),
		Color:          stateColor(c),
		Narrow:         last.Narrow,
		Wide:           last.Wide,
		Discovery:      s.Discovery,
		DiscoveryLimit: limit,
		AlertGate:      s.AlertGate,
		StopTime:       cfg.StopTime,
		LoseTrack:      s.LoseTrack,
		LoseLimit:      cfg.LosePlayerTime,
		IdleLeft:       rt.cuer.IdleLeft(),
	}, int32(mouse.X), int32(mouse.Y), int32(rl.GetScreenWidth()), int32(g.camera.ViewportH))
}
