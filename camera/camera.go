// Package camera provides a top-down 2D camera over the bounded ground
// plane. World coordinates are meters on X and Z; +Z points up the screen.
package camera

// Camera controls the viewport into the sandbox.
type Camera struct {
	// Center of the view in world meters
	X, Z float32

	// Zoom multiplies the base scale (1.0 fits the world in the viewport)
	Zoom float32

	// Viewport dimensions in pixels
	ViewportW, ViewportH float32

	// World extent in meters
	WorldW, WorldD float32

	// Pixels per meter at zoom 1
	BaseScale float32

	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world. baseScale is the pixels per
// meter at zoom 1.
func New(viewportW, viewportH, worldW, worldD, baseScale float32) *Camera {
	return &Camera{
		X:         worldW / 2,
		Z:         worldD / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldD:    worldD,
		BaseScale: baseScale,
		MinZoom:   0.5,
		MaxZoom:   6.0,
	}
}

// Scale returns the current pixels per meter.
func (c *Camera) Scale() float32 {
	return c.BaseScale * c.Zoom
}

// WorldToScreen converts ground coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wz float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 - (wz-c.Z)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to ground coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wz float32) {
	s := c.Scale()
	wx = c.X + (sx-c.ViewportW/2)/s
	wz = c.Z - (sy-c.ViewportH/2)/s
	return wx, wz
}

// IsVisible returns true if a circle at (wx, wz) with the given radius in
// meters could be on screen.
func (c *Camera) IsVisible(wx, wz, radius float32) bool {
	minX, minZ, maxX, maxZ := c.VisibleWorldBounds()
	return wx+radius >= minX && wx-radius <= maxX && wz+radius >= minZ && wz-radius <= maxZ
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels. Screen down
// moves toward -Z.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X += dx / s
	c.Z -= dy / s
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Z = c.WorldD / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the ground-plane bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minZ, maxX, maxZ float32) {
	s := c.Scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)
	return c.X - halfW, c.Z - halfH, c.X + halfW, c.Z + halfH
}

// clampCenter keeps the center inside the world so the view never drifts
// off the plane entirely.
func (c *Camera) clampCenter() {
	c.X = clamp(c.X, 0, c.WorldW)
	c.Z = clamp(c.Z, 0, c.WorldD)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
