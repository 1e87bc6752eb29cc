package game

import (
	"fmt"
	"math/bits"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/perception"
	"github.com/pthm-cable/sentry/ui"
)

// hudHeight is the status bar height below the world view, in pixels.
const hudHeight = 40

// cueFlashTicks is how long a played cue stays above its guard.
const cueFlashTicks = 90

var (
	colorBackground = rl.Color{R: 18, G: 22, B: 26, A: 255}
	colorGround     = rl.Color{R: 34, G: 40, B: 44, A: 255}
	colorGroundEdge = rl.Color{R: 70, G: 80, B: 88, A: 255}
	colorTarget     = rl.Color{R: 90, G: 200, B: 255, A: 255}
	colorGuard      = rl.Color{R: 230, G: 230, B: 230, A: 255}

	// Cone tint per perception state.
	colorCalm    = rl.Color{R: 80, G: 200, B: 120, A: 255}
	colorAlerted = rl.Color{R: 240, G: 200, B: 60, A: 255}
	colorTracked = rl.Color{R: 235, G: 70, B: 60, A: 255}

	// Occluder fill per layer bit; non-blocking layers are drawn translucent.
	layerPalette = []rl.Color{
		{R: 120, G: 120, B: 120, A: 255},
		{R: 90, G: 200, B: 255, A: 255},
		{R: 150, G: 150, B: 160, A: 255},
		{R: 150, G: 105, B: 60, A: 255},
		{R: 160, G: 220, B: 240, A: 255},
	}
)

// Draw renders the sandbox.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	g.drawGround()
	g.drawOccluders()
	if g.showCones {
		g.drawCones()
	}
	g.drawTarget()
	g.drawGuards()
	g.drawGuardTooltip()
	g.drawHUD()

	rl.EndDrawing()
}

func (g *Game) toScreen(p r3.Vec) rl.Vector2 {
	sx, sy := g.camera.WorldToScreen(float32(p.X), float32(p.Z))
	return rl.Vector2{X: sx, Y: sy}
}

func (g *Game) drawGround() {
	tl := g.toScreen(r3.Vec{X: 0, Z: g.cfg.World.Depth})
	br := g.toScreen(r3.Vec{X: g.cfg.World.Width, Z: 0})
	rect := rl.Rectangle{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
	rl.DrawRectangleRec(rect, colorGround)
	rl.DrawRectangleLinesEx(rect, 2, colorGroundEdge)
}

func layerColor(mask perception.LayerMask) rl.Color {
	if mask == 0 {
		return layerPalette[0]
	}
	i := bits.TrailingZeros32(uint32(mask))
	return layerPalette[i%len(layerPalette)]
}

func (g *Game) drawOccluders() {
	blocking := perception.LayerMask(g.cfg.Derived.OccluderMask)
	query := g.occluderFilter.Query()
	for query.Next() {
		box, layer := query.Get()
		tl := g.toScreen(r3.Vec{X: box.Min.X, Z: box.Max.Z})
		br := g.toScreen(r3.Vec{X: box.Max.X, Z: box.Min.Z})
		rect := rl.Rectangle{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}

		col := layerColor(layer.Mask)
		if !layer.Mask.Has(blocking) {
			col = rl.Fade(col, 0.35)
		}
		rl.DrawRectangleRec(rect, col)
		rl.DrawRectangleLinesEx(rect, 1, rl.Fade(rl.Black, 0.5))
	}
}

// stateColor picks the tint for a guard's current perception state.
func stateColor(c *perception.Controller) rl.Color {
	switch {
	case c.Mode() == perception.Tracking:
		return colorTracked
	case c.VisualAlertActive():
		return colorAlerted
	default:
		return colorCalm
	}
}

func (g *Game) drawCones() {
	for _, rt := range g.guards {
		c := g.perception.Controller(rt.id)
		pos := g.posMap.Get(rt.entity).Vec()
		facing := g.facingMap.Get(rt.entity)
		cfg := c.Config()
		col := stateColor(c)

		last := c.LastObservation()
		g.drawCone(pos, facing.Yaw, cfg.BigView, col, last.Wide)
		g.drawCone(pos, facing.Yaw, cfg.SmallView, col, last.Narrow)
	}
}

// drawCone draws a cone's ground footprint. Raylib angles run clockwise
// from screen +X, which is yaw-90 with +Z up the screen.
func (g *Game) drawCone(pos r3.Vec, yaw float64, cone perception.Cone, col rl.Color, hit bool) {
	if cone.Degenerate() {
		return
	}
	center := g.toScreen(pos)
	radius := float32(cone.Radius) * g.camera.Scale()
	start := float32(yaw - 90 - cone.HalfAngleDeg)
	end := float32(yaw - 90 + cone.HalfAngleDeg)

	alpha := float32(0.12)
	if hit {
		alpha = 0.3
	}
	rl.DrawCircleSector(center, radius, start, end, 32, rl.Fade(col, alpha))

	left, right := perception.ConeEdges(perception.ForwardFromYaw(yaw), cone)
	rl.DrawLineV(center, g.toScreen(pos.Add(left)), rl.Fade(col, 0.8))
	rl.DrawLineV(center, g.toScreen(pos.Add(right)), rl.Fade(col, 0.8))
}

func (g *Game) drawTarget() {
	pos := g.posMap.Get(g.target).Vec()
	facing := g.facingMap.Get(g.target)
	center := g.toScreen(pos)
	scale := g.camera.Scale()

	rl.DrawCircleV(center, 0.4*scale, colorTarget)
	nose := g.toScreen(pos.Add(r3.Scale(0.7, facing.Forward())))
	rl.DrawLineV(center, nose, colorTarget)
}

func (g *Game) drawGuards() {
	scale := g.camera.Scale()
	fontSize := int32(14)

	for _, rt := range g.guards {
		c := g.perception.Controller(rt.id)
		pos := g.posMap.Get(rt.entity).Vec()
		facing := g.facingMap.Get(rt.entity)
		center := g.toScreen(pos)

		rl.DrawCircleV(center, 0.5*scale, colorGuard)
		rl.DrawCircleLines(int32(center.X), int32(center.Y), 0.5*scale, stateColor(c))
		nose := g.toScreen(pos.Add(r3.Scale(0.9, facing.Forward())))
		rl.DrawLineV(center, nose, stateColor(c))

		// Eye flag: "?" while the wide cone is building, "!" once seen.
		flagY := int32(center.Y - 0.5*scale - 22)
		switch {
		case c.VisualSeenActive():
			rl.DrawText("!", int32(center.X)-3, flagY, 20, colorTracked)
		case c.VisualAlertActive():
			rl.DrawText("?", int32(center.X)-5, flagY, 20, colorAlerted)
		}

		if g.showLabels {
			label := fmt.Sprintf("%s %s/%s", rt.name, c.Mode(), g.behavior.Alertness(rt.id))
			w := rl.MeasureText(label, fontSize)
			rl.DrawText(label, int32(center.X)-w/2, int32(center.Y+0.5*scale)+4, fontSize, rl.LightGray)
		}

		if rt.lastCue != "" && g.tick-rt.lastCueTick < cueFlashTicks {
			cue := fmt.Sprintf("<%s>", rt.lastCue)
			w := rl.MeasureText(cue, fontSize)
			rl.DrawText(cue, int32(center.X)-w/2, flagY-fontSize-2, fontSize, rl.RayWhite)
		}
	}
}

func (g *Game) drawHUD() {
	counts := g.guardCounts()
	status := ""
	if g.err != nil {
		status = "STOPPED: " + g.err.Error()
	}
	g.hud.Draw(ui.HUDData{
		Tick:     g.tick,
		SimTime:  g.SimTime(),
		Speed:    g.stepsPerUpdate,
		FPS:      rl.GetFPS(),
		Paused:   g.paused,
		Status:   status,
		Guards:   counts.Guards,
		Alerted:  counts.Alerted,
		Tracking: counts.Tracking,
	}, int32(g.camera.ViewportH), int32(rl.GetScreenWidth()), hudHeight)

	if g.showPerf {
		g.perfPanel.Draw(g.lastPerf)
	}
}
