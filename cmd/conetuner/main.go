// Cone tuner - interactive editor for the two guard vision cones.
//
// Move the mouse over the preview to place a sample target; the readout
// shows which cone would see it (ignoring occlusion).
//
// Usage: go run ./cmd/conetuner [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sentry/camera"
	"github.com/pthm-cable/sentry/config"
	"github.com/pthm-cable/sentry/perception"
)

const (
	windowWidth  = 1000
	windowHeight = 620
	previewSize  = 560
	panelWidth   = windowWidth - previewSize - 30

	// Preview area in meters; the guard stands near the left edge facing +X.
	previewSpan = 40.0
	guardYaw    = 90.0
)

var guardPos = r3.Vec{X: 2, Z: previewSpan / 2}

// slider draws a labelled slider and returns the new value.
func slider(x, y *float32, label, fmtStr string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(*x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: *x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf("%.0f", lo), fmt.Sprintf("%.0f", hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(fmtStr, v), int32(*x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := config.Cfg().Perception
	params := defaults
	targetHeight := float32(config.Cfg().Target.Height)

	rl.InitWindow(windowWidth, windowHeight, "Cone Tuner")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cam := camera.New(previewSize, previewSize, previewSpan, previewSpan, previewSize/previewSpan)
	origin := rl.Vector2{X: 10, Y: 10}
	toScreen := func(p r3.Vec) rl.Vector2 {
		sx, sy := cam.WorldToScreen(float32(p.X), float32(p.Z))
		return rl.Vector2{X: origin.X + sx, Y: origin.Y + sy}
	}

	for !rl.WindowShouldClose() {
		small := perception.Cone{Radius: params.SmallView.Radius, HalfAngleDeg: params.SmallView.HalfAngleDeg}
		big := perception.Cone{Radius: params.BigView.Radius, HalfAngleDeg: params.BigView.HalfAngleDeg}
		forward := perception.ForwardFromYaw(guardYaw)

		// Sample target under the mouse
		mouse := rl.GetMousePosition()
		wx, wz := cam.ScreenToWorld(mouse.X-origin.X, mouse.Y-origin.Y)
		target := r3.Vec{X: float64(wx), Y: float64(targetHeight), Z: float64(wz)}
		inNarrow := small.Contains(guardPos, forward, target)
		inWide := !inNarrow && big.Contains(guardPos, forward, target)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawRectangle(int32(origin.X), int32(origin.Y), previewSize, previewSize, rl.Color{R: 34, G: 40, B: 44, A: 255})
		for m := 0.0; m <= previewSpan; m += 5 {
			a, b := toScreen(r3.Vec{X: m}), toScreen(r3.Vec{X: m, Z: previewSpan})
			rl.DrawLineV(a, b, rl.Color{R: 50, G: 58, B: 64, A: 255})
			a, b = toScreen(r3.Vec{Z: m}), toScreen(r3.Vec{X: previewSpan, Z: m})
			rl.DrawLineV(a, b, rl.Color{R: 50, G: 58, B: 64, A: 255})
		}

		center := toScreen(guardPos)
		drawCone := func(c perception.Cone, col rl.Color) {
			if c.Degenerate() {
				return
			}
			r := float32(c.Radius) * cam.Scale()
			rl.DrawCircleSector(center, r, float32(guardYaw-90-c.HalfAngleDeg), float32(guardYaw-90+c.HalfAngleDeg), 48, rl.Fade(col, 0.2))
			left, right := perception.ConeEdges(forward, c)
			rl.DrawLineV(center, toScreen(guardPos.Add(left)), col)
			rl.DrawLineV(center, toScreen(guardPos.Add(right)), col)
		}
		drawCone(big, rl.Orange)
		drawCone(small, rl.Red)
		rl.DrawCircleV(center, 6, rl.White)

		targetCol := rl.SkyBlue
		switch {
		case inNarrow:
			targetCol = rl.Red
		case inWide:
			targetCol = rl.Orange
		}
		rl.DrawCircleV(toScreen(target), 5, targetCol)
		rl.DrawRectangleLines(int32(origin.X), int32(origin.Y), previewSize, previewSize, rl.DarkGray)

		dist := r3.Norm(r3.Sub(target, guardPos))
		angle, _ := perception.HorizontalAngleDeg(forward, r3.Sub(target, guardPos))
		statsY := int32(previewSize + 20)
		rl.DrawText(fmt.Sprintf("Target: %.1fm at %.1f deg  narrow=%t wide=%t", dist, angle, inNarrow, inWide), 15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Vision Cones", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		params.SmallView.Radius = float64(slider(&panelX, &panelY, "Small view radius (m)", "%.1f", float32(params.SmallView.Radius), 0, 40))
		params.SmallView.HalfAngleDeg = float64(slider(&panelX, &panelY, "Small view half angle (deg)", "%.1f", float32(params.SmallView.HalfAngleDeg), 0, 90))
		params.BigView.Radius = float64(slider(&panelX, &panelY, "Big view radius (m)", "%.1f", float32(params.BigView.Radius), 0, 40))
		params.BigView.HalfAngleDeg = float64(slider(&panelX, &panelY, "Big view half angle (deg)", "%.1f", float32(params.BigView.HalfAngleDeg), 0, 90))
		params.ViewHeight = float64(slider(&panelX, &panelY, "View height (m)", "%.2f", float32(params.ViewHeight), 0, 3))
		targetHeight = slider(&panelX, &panelY, "Sample target height (m)", "%.2f", targetHeight, 0, 3)

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			targetHeight = float32(config.Cfg().Target.Height)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Print YAML") {
			out, err := yaml.Marshal(map[string]config.PerceptionConfig{"perception": params})
			if err != nil {
				slog.Error("failed to marshal perception config", "error", err)
			} else {
				fmt.Print(string(out))
			}
		}

		rl.EndDrawing()
	}
}
