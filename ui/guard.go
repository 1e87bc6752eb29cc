package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// GuardPanelData holds one guard's perception state for display.
type GuardPanelData struct {
	ID        uint32
	Name      string
	Mode      string
	Alertness string
	Color     rl.Color

	Narrow, Wide bool

	Discovery, DiscoveryLimit float64
	AlertGate, StopTime       float64
	LoseTrack, LoseLimit      float64
	IdleLeft                  float64
}

const guardPanelWidth = 250

// GuardPanel renders the hovered guard's timers next to the cursor.
type GuardPanel struct {
	renderer *Renderer
}

// NewGuardPanel creates a guard detail panel.
func NewGuardPanel() *GuardPanel {
	return &GuardPanel{renderer: NewRenderer()}
}

// Draw renders the panel near (mx, my), kept inside maxX x maxY.
func (p *GuardPanel) Draw(data GuardPanelData, mx, my, maxX, maxY int32) {
	r := p.renderer
	height := 7*r.Theme.LineHeight + 4*2 + r.Theme.Padding*2 + 4

	x, y := mx+16, my+16
	if x+guardPanelWidth > maxX {
		x = mx - guardPanelWidth - 8
	}
	if y+height > maxY {
		y = my - height - 8
	}
	r.DrawPanel(x, y, guardPanelWidth, height)

	x += r.Theme.Padding
	y += r.Theme.Padding
	inner := int32(guardPanelWidth) - r.Theme.Padding*2

	y = r.DrawSectionHeader(x, y, fmt.Sprintf("%s (#%d)", data.Name, data.ID), data.Color)
	y = r.DrawLabelValue(x, y, "State", data.Mode+" / "+data.Alertness)
	y = r.DrawLabelValue(x, y, "Cones", fmt.Sprintf("narrow=%t wide=%t", data.Narrow, data.Wide))
	y = r.DrawTimerBar(x, y, "Discovery", data.Discovery, data.DiscoveryLimit, inner)
	y = r.DrawTimerBar(x, y, "Alert gate", data.AlertGate, data.StopTime, inner)
	y = r.DrawTimerBar(x, y, "Lose track", data.LoseTrack, data.LoseLimit, inner)
	r.DrawLabelValue(x, y, "Idle cue", fmt.Sprintf("%.1fs", data.IdleLeft))
}
