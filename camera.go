package medusa

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollTween is an in-flight ScrollTo, one tween per axis.
type scrollTween struct {
	x, y         *gween.Tween
	xDone, yDone bool
}

// tracking is the node a camera keeps centered, see Camera.Follow.
type tracking struct {
	node   *Node
	dx, dy float64
	lerp   float64
}

// Camera is a view into the scene. Its visible bounds are the root area that
// intersection detectors test elements against, so moving, zooming or
// rotating a camera is what makes elements enter and leave.
type Camera struct {
	// X and Y are the world-space point shown at the viewport center.
	X, Y float64
	// Zoom scales world to screen; 2 shows half as much of the world.
	Zoom float64
	// Rotation in radians, clockwise.
	Rotation float64
	// Viewport is the screen-space rectangle the camera covers.
	Viewport Rect

	follow *tracking
	scroll *scrollTween
	bounds *Rect

	view, inv [6]float64
	dirty     bool
}

// newCamera centers the camera on its viewport so world and screen
// coordinates coincide until it moves.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		X:        viewport.X + viewport.Width/2,
		Y:        viewport.Y + viewport.Height/2,
		Zoom:     1,
		Viewport: viewport,
		dirty:    true,
	}
}

// Follow keeps node (plus the offset) centered. Each update closes lerp of
// the remaining distance; 1 snaps. Disposed nodes are not followed.
func (c *Camera) Follow(node *Node, offsetX, offsetY, lerp float64) {
	c.follow = &tracking{node: node, dx: offsetX, dy: offsetY, lerp: lerp}
}

// Unfollow stops Follow.
func (c *Camera) Unfollow() {
	c.follow = nil
}

// SetPosition moves the camera center immediately.
func (c *Camera) SetPosition(x, y float64) {
	c.X, c.Y = x, y
	c.dirty = true
}

// ScrollTo tweens the camera center to (x, y) over duration seconds. A nil
// easeFn is linear.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scroll = &scrollTween{
		x: gween.New(float32(c.X), float32(x), duration, easeFn),
		y: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo is still running.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// SetBounds keeps the visible area inside bounds from the next update on.
func (c *Camera) SetBounds(bounds Rect) {
	c.bounds = &bounds
}

// ClearBounds removes the SetBounds limit.
func (c *Camera) ClearBounds() {
	c.bounds = nil
}

// Bounds returns the SetBounds limit, if any.
func (c *Camera) Bounds() (Rect, bool) {
	if c.bounds == nil {
		return Rect{}, false
	}
	return *c.bounds, true
}

// update runs follow, then scroll, then the bounds limit. Called once per
// Scene.Update before detection.
func (c *Camera) update(dt float32) {
	x, y, zoom, rot := c.X, c.Y, c.Zoom, c.Rotation

	c.stepFollow()
	c.stepScroll(dt)
	if c.bounds != nil {
		c.X = clampAxis(c.X, c.bounds.X, c.bounds.Width, c.Viewport.Width/(2*c.Zoom))
		c.Y = clampAxis(c.Y, c.bounds.Y, c.bounds.Height, c.Viewport.Height/(2*c.Zoom))
	}

	if c.X != x || c.Y != y || c.Zoom != zoom || c.Rotation != rot {
		c.dirty = true
	}
}

func (c *Camera) stepFollow() {
	f := c.follow
	if f == nil || f.node == nil || f.node.IsDisposed() {
		return
	}
	tx := f.node.worldTransform[4] + f.dx
	ty := f.node.worldTransform[5] + f.dy
	c.X += (tx - c.X) * f.lerp
	c.Y += (ty - c.Y) * f.lerp
}

func (c *Camera) stepScroll(dt float32) {
	s := c.scroll
	if s == nil {
		return
	}
	if !s.xDone {
		v, done := s.x.Update(dt)
		c.X, s.xDone = float64(v), done
	}
	if !s.yDone {
		v, done := s.y.Update(dt)
		c.Y, s.yDone = float64(v), done
	}
	if s.xDone && s.yDone {
		c.scroll = nil
	}
}

// clampAxis limits a center coordinate so [pos-half, pos+half] stays inside
// [lo, lo+size]. A range narrower than the view is centered on.
func clampAxis(pos, lo, size, half float64) float64 {
	if size < 2*half {
		return lo + size/2
	}
	return min(max(pos, lo+half), lo+size-half)
}

// viewMatrix returns the world-to-screen affine, recomputing it when dirty:
// translate by -(X, Y), rotate by -Rotation, scale by Zoom, then translate to
// the viewport center.
func (c *Camera) viewMatrix() [6]float64 {
	if !c.dirty {
		return c.view
	}
	c.dirty = false

	sin, cos := math.Sincos(-c.Rotation)
	z := c.Zoom
	rx := cos*-c.X - sin*-c.Y
	ry := sin*-c.X + cos*-c.Y

	c.view = [6]float64{
		z * cos, z * sin,
		-z * sin, z * cos,
		c.Viewport.X + c.Viewport.Width/2 + z*rx,
		c.Viewport.Y + c.Viewport.Height/2 + z*ry,
	}
	c.inv = invertAffine(c.view)
	return c.view
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.viewMatrix(), wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.viewMatrix()
	return transformPoint(c.inv, sx, sy)
}

// VisibleBounds returns the world-space AABB of the viewport. With rotation
// this is larger than the area actually shown.
func (c *Camera) VisibleBounds() Rect {
	vp := c.Viewport
	corners := [4][2]float64{
		{vp.X, vp.Y},
		{vp.X + vp.Width, vp.Y},
		{vp.X + vp.Width, vp.Y + vp.Height},
		{vp.X, vp.Y + vp.Height},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		x, y := c.ScreenToWorld(p[0], p[1])
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MarkDirty forces the view matrix to be recomputed, needed after setting
// Zoom, Rotation or Viewport directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}
