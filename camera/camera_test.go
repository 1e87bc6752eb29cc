package camera

import (
	"math"
	"testing"
)

func newTestCamera() *Camera {
	// 60 x 36 m world at 20 px/m fills a 1200 x 720 viewport.
	return New(1200, 720, 60, 36, 20)
}

func TestNew(t *testing.T) {
	cam := newTestCamera()

	if cam.X != 30 || cam.Z != 18 {
		t.Errorf("expected camera at (30, 18), got (%f, %f)", cam.X, cam.Z)
	}
	if cam.Zoom != 1.0 || cam.Scale() != 20 {
		t.Errorf("expected zoom 1.0 at 20 px/m, got %f / %f", cam.Zoom, cam.Scale())
	}
}

func TestWorldToScreenOrientation(t *testing.T) {
	cam := newTestCamera()

	sx, sy := cam.WorldToScreen(30, 18)
	if math.Abs(float64(sx-600)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (600, 360), got (%f, %f)", sx, sy)
	}

	// +Z is up the screen.
	_, syNorth := cam.WorldToScreen(30, 28)
	if syNorth >= sy {
		t.Errorf("north should be above center: %f >= %f", syNorth, sy)
	}

	// World corners land on viewport corners at zoom 1.
	sx, sy = cam.WorldToScreen(0, 36)
	if math.Abs(float64(sx)) > 0.01 || math.Abs(float64(sy)) > 0.01 {
		t.Errorf("top-left corner maps to (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newTestCamera()
	cam.ZoomBy(1.7)
	cam.Pan(35, -12)

	testCases := []struct{ sx, sy float32 }{
		{600, 360},
		{100, 100},
		{1100, 650},
	}

	for _, tc := range testCases {
		wx, wz := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wz)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wz, sx, sy)
		}
	}
}

func TestPanClampsToWorld(t *testing.T) {
	cam := newTestCamera()

	cam.Pan(-100000, 0)
	if cam.X != 0 {
		t.Errorf("expected X clamped to 0, got %f", cam.X)
	}
	cam.Pan(0, -100000) // screen up is +Z
	if cam.Z != 36 {
		t.Errorf("expected Z clamped to 36, got %f", cam.Z)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to max %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to min %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.Reset()
	if cam.Zoom != 1 || cam.X != 30 || cam.Z != 18 {
		t.Errorf("Reset left camera at (%f, %f) zoom %f", cam.X, cam.Z, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(2) // view spans 15..45 x 9..27

	if !cam.IsVisible(30, 18, 0.5) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(5, 18, 0.5) {
		t.Error("far left should be culled at zoom 2")
	}
	if !cam.IsVisible(14, 18, 1.5) {
		t.Error("circle overlapping the left edge should be visible")
	}
}
