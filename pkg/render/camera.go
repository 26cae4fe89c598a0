package render

import (
	"math"
	"sync"

	"github.com/taigrr/orrery/pkg/math3d"
)

const (
	// PitchLimit keeps orbiting this many radians away from the poles, where
	// the eye-to-center vector would line up with the up vector.
	PitchLimit = 0.1

	// PanStep is the distance MoveCenter travels per call.
	PanStep = 0.1
)

// Camera is an orbit camera: an eye looking at a center point with a fixed
// up vector. Every mutation raises a change flag that CheckIfChanged
// consumes exactly once.
//
// Camera is safe for concurrent use; input handling may mutate it while the
// renderer reads matrices from another goroutine.
type Camera struct {
	mu      sync.Mutex
	eye     math3d.Vec3
	center  math3d.Vec3
	up      math3d.Vec3
	changed bool

	// Projection parameters
	fov    float64 // vertical field of view in radians
	aspect float64
	near   float64
	far    float64

	projMatrix math3d.Mat4
	projDirty  bool
}

// NewCamera creates a camera at eye looking at center. The change flag
// starts raised so the first frame always renders.
func NewCamera(eye, center, up math3d.Vec3) *Camera {
	return &Camera{
		eye:       eye,
		center:    center,
		up:        up,
		changed:   true,
		fov:       math.Pi / 3, // 60 degrees
		aspect:    4.0 / 3.0,
		near:      0.1,
		far:       1000,
		projDirty: true,
	}
}

// Eye returns the eye position.
func (c *Camera) Eye() math3d.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

// Center returns the point the camera looks at.
func (c *Camera) Center() math3d.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.center
}

// Up returns the up vector.
func (c *Camera) Up() math3d.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

// Set replaces eye, center and up at once.
func (c *Camera) Set(eye, center, up math3d.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye, c.center, c.up = eye, center, up
	c.changed = true
}

// Angles returns the spherical coordinates of the eye around the center:
// yaw = atan2(z, x), pitch = atan2(-y, |xz|) and the radius.
func (c *Camera) Angles() (yaw, pitch, radius float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sphericalAngles(c.eye.Sub(c.center))
}

func sphericalAngles(v math3d.Vec3) (yaw, pitch, radius float64) {
	radius = v.Len()
	yaw = math.Atan2(v.Z, v.X)
	pitch = math.Atan2(-v.Y, math.Hypot(v.X, v.Z))
	return yaw, pitch, radius
}

// Orbit rotates the eye around the center by the given yaw and pitch deltas
// (radians). The distance to the center is preserved, yaw wraps modulo 2π
// and pitch is clamped to PitchLimit short of either pole.
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	yaw, pitch, radius := sphericalAngles(c.eye.Sub(c.center))

	yaw = math.Mod(yaw+deltaYaw, 2*math.Pi)
	pitch = math.Max(-math.Pi/2+PitchLimit, math.Min(math.Pi/2-PitchLimit, pitch+deltaPitch))

	c.eye = c.center.Add(math3d.V3(
		radius*math.Cos(yaw)*math.Cos(pitch),
		-radius*math.Sin(pitch),
		radius*math.Sin(yaw)*math.Cos(pitch),
	))
	c.changed = true
}

// Zoom moves the eye delta units towards the center. There is no minimum
// distance: a delta larger than the current distance carries the eye through
// the center, after which the camera faces the other way.
func (c *Camera) Zoom(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := c.center.Sub(c.eye).Normalize()
	c.eye = c.eye.Add(dir.Scale(delta))
	c.changed = true
}

// MoveCenter pans: eye and center both move PanStep units along direction,
// so the view direction and distance are unchanged.
func (c *Camera) MoveCenter(direction math3d.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	step := direction.Normalize().Scale(PanStep)
	c.center = c.center.Add(step)
	c.eye = c.eye.Add(step)
	c.changed = true
}

// RotateAroundTarget places the eye on the horizontal circle of the given
// radius around the center at angle radians, keeping its height.
func (c *Camera) RotateAroundTarget(angle, distance float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.eye.X = c.center.X + distance*math.Cos(angle)
	c.eye.Z = c.center.Z + distance*math.Sin(angle)
	c.changed = true
}

// CheckIfChanged reports whether the camera moved since the last call and
// clears the flag. Only one consumer should poll it.
func (c *Camera) CheckIfChanged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := c.changed
	c.changed = false
	return changed
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.projDirty = true
}

// SetAspectRatio sets the width / height ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.far = far
	c.projDirty = true
}

// ViewMatrix returns the look-at view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return math3d.LookAt(c.eye, c.center, c.up)
}

// ProjectionMatrix returns the perspective projection, recomputed only after
// a projection parameter changed.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.fov, c.aspect, c.near, c.far)
		c.projDirty = false
	}
	return c.projMatrix
}
