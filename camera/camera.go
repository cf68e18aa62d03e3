// Package camera provides binary angles for the controlled viewpoint and a
// top-down camera for the map view.
package camera

// Camera controls the map viewport. World Y grows upwards; screen Y grows
// downwards.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level in screen pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the origin with 1:1 zoom.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.01,
		MaxZoom:   16.0,
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 - (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y - (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// FitBounds centers the camera on a world rectangle and zooms so it fills the
// viewport with the given margin in pixels on each side.
func (c *Camera) FitBounds(minX, minY, maxX, maxY, margin float32) {
	c.X = (minX + maxX) / 2
	c.Y = (minY + maxY) / 2

	w := maxX - minX
	h := maxY - minY
	if w <= 0 || h <= 0 {
		c.Zoom = 1
		return
	}
	zx := (c.ViewportW - 2*margin) / w
	zy := (c.ViewportH - 2*margin) / h
	zoom := zx
	if zy < zoom {
		zoom = zy
	}
	c.SetZoom(zoom)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y -= dy / c.Zoom
}

// Follow centers the camera on a world point.
func (c *Camera) Follow(wx, wy float32) {
	c.X = wx
	c.Y = wy
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
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
