package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sentry/telemetry"
)

// HUDData holds all the data needed to render the status bar.
type HUDData struct {
	Tick     int32
	SimTime  float64
	Speed    int
	FPS      int32
	Paused   bool
	Status   string // overrides the running/paused text when set
	Guards   int
	Alerted  int
	Tracking int
}

// Controls is the key legend shown on the status bar.
const Controls = "SPACE pause  N step  ,/. speed  C cones  L labels  P perf  arrows/wheel camera  HOME reset"

// HUD renders the status bar.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the status bar in the strip starting at top.
func (h *HUD) Draw(data HUDData, top, width, height int32) {
	rl.DrawRectangle(0, top, width, height, h.renderer.Theme.PanelBg)
	rl.DrawLine(0, top, width, top, h.renderer.Theme.PanelBorder)

	status := "Running"
	statusColor := rl.LightGray
	if data.Paused {
		status = "PAUSED"
		statusColor = rl.Yellow
	}
	if data.Status != "" {
		status = data.Status
		statusColor = rl.Red
	}

	line := fmt.Sprintf("Tick: %d | %.1fs | Speed: %dx | FPS: %d | Guards: %d  alerted %d  tracking %d",
		data.Tick, data.SimTime, data.Speed, data.FPS, data.Guards, data.Alerted, data.Tracking)
	rl.DrawText(line, 10, top+4, 14, rl.LightGray)
	w := rl.MeasureText(line, 14)
	rl.DrawText(status, 20+w, top+4, 14, statusColor)
	rl.DrawText(Controls, 10, top+22, 12, rl.Gray)
}

// PerfPanel renders the step phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders phase averages in execution order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	lines := int32(len(telemetry.Phases)) + 3
	p.renderer.DrawPanel(p.x, p.y, 260, lines*14+r.Theme.Padding*2+20)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Step Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  (%.0f ticks/s)",
		stats.AvgTick.Round(time.Microsecond), stats.TicksPerSecond), x, y, 12, rl.Yellow)
	y += 14

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct(phase)
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color)
		y += 14
	}

	rl.DrawText(fmt.Sprintf("probes %d  traces/probe %.2f", stats.Probes, stats.TracesPerProbe), x, y, 12, rl.Gray)
}
