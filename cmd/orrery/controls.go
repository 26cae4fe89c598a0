package main

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/scene"
)

// Impulse sizes for one key press.
const (
	orbitImpulse = 0.04 // radians per frame
	zoomImpulse  = 0.6  // world units per frame
)

// action is one input command, independent of the frontend that produced it.
type action int

const (
	actionNone action = iota
	actionQuit
	actionShipLeft
	actionShipRight
	actionShipUp
	actionShipDown
	actionShipForward
	actionShipBack
	actionOrbitLeft
	actionOrbitRight
	actionOrbitUp
	actionOrbitDown
	actionZoomIn
	actionZoomOut
	actionPanLeft
	actionPanRight
	actionPanUp
	actionPanDown
	actionToggleOrbits
	actionReset
)

// axis is one camera degree of freedom. Key presses add velocity; a
// critically damped spring pulls the velocity back to zero so motion eases
// out instead of stopping dead.
type axis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring state for Velocity
}

func newAxis(fps int) axis {
	return axis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// step returns this frame's motion and decays the velocity.
func (a *axis) step() float64 {
	v := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return v
}

// controls applies actions to the camera and the scene.
type controls struct {
	cam   *render.Camera
	scene *scene.Scene
	home  [3]math3d.Vec3 // eye, center, up to reset to
	fps   int

	yaw, pitch, zoom axis
}

func newControls(cam *render.Camera, sc *scene.Scene, fps int) *controls {
	return &controls{
		cam:   cam,
		scene: sc,
		home:  [3]math3d.Vec3{cam.Eye(), cam.Center(), cam.Up()},
		fps:   fps,
		yaw:   newAxis(fps),
		pitch: newAxis(fps),
		zoom:  newAxis(fps),
	}
}

// do applies a. It reports false for actionQuit.
func (c *controls) do(a action) bool {
	switch a {
	case actionQuit:
		return false
	case actionShipLeft:
		c.scene.MoveShip(math3d.V3(-1, 0, 0))
	case actionShipRight:
		c.scene.MoveShip(math3d.V3(1, 0, 0))
	case actionShipUp:
		c.scene.MoveShip(math3d.V3(0, 1, 0))
	case actionShipDown:
		c.scene.MoveShip(math3d.V3(0, -1, 0))
	case actionShipForward:
		c.scene.MoveShip(math3d.V3(0, 0, -1))
	case actionShipBack:
		c.scene.MoveShip(math3d.V3(0, 0, 1))
	case actionOrbitLeft:
		c.yaw.Velocity -= orbitImpulse
	case actionOrbitRight:
		c.yaw.Velocity += orbitImpulse
	// Camera.Orbit lowers the eye for positive pitch.
	case actionOrbitUp:
		c.pitch.Velocity -= orbitImpulse
	case actionOrbitDown:
		c.pitch.Velocity += orbitImpulse
	case actionZoomIn:
		c.zoom.Velocity += zoomImpulse
	case actionZoomOut:
		c.zoom.Velocity -= zoomImpulse
	case actionPanLeft:
		c.cam.MoveCenter(math3d.V3(-1, 0, 0))
	case actionPanRight:
		c.cam.MoveCenter(math3d.V3(1, 0, 0))
	case actionPanUp:
		c.cam.MoveCenter(math3d.V3(0, 0, -1))
	case actionPanDown:
		c.cam.MoveCenter(math3d.V3(0, 0, 1))
	case actionToggleOrbits:
		c.scene.SetOrbits(!c.scene.Orbits())
	case actionReset:
		c.cam.Set(c.home[0], c.home[1], c.home[2])
		c.yaw, c.pitch, c.zoom = newAxis(c.fps), newAxis(c.fps), newAxis(c.fps)
	}
	return true
}

// step moves the camera by the current velocities. Call once per frame.
func (c *controls) step() {
	yaw, pitch, zoom := c.yaw.step(), c.pitch.step(), c.zoom.step()
	if yaw != 0 || pitch != 0 {
		c.cam.Orbit(yaw, pitch)
	}
	if zoom != 0 {
		c.cam.Zoom(zoom)
	}
}

// keyActions maps terminal key names to actions.
var keyActions = []struct {
	keys []string
	act  action
}{
	{[]string{"escape", "ctrl+c", "q"}, actionQuit},
	{[]string{"left"}, actionShipLeft},
	{[]string{"right"}, actionShipRight},
	{[]string{"up"}, actionShipUp},
	{[]string{"down"}, actionShipDown},
	{[]string{","}, actionShipForward},
	{[]string{"."}, actionShipBack},
	{[]string{"a"}, actionOrbitLeft},
	{[]string{"d"}, actionOrbitRight},
	{[]string{"w"}, actionOrbitUp},
	{[]string{"s"}, actionOrbitDown},
	{[]string{"+", "="}, actionZoomIn},
	{[]string{"-", "_"}, actionZoomOut},
	{[]string{"j"}, actionPanLeft},
	{[]string{"l"}, actionPanRight},
	{[]string{"i"}, actionPanUp},
	{[]string{"k"}, actionPanDown},
	{[]string{"o"}, actionToggleOrbits},
	{[]string{"r"}, actionReset},
}

// matcher is satisfied by key events that can be compared to key names.
type matcher interface {
	MatchString(...string) bool
}

// keyAction returns the action bound to ev, or actionNone.
func keyAction(ev matcher) action {
	for _, k := range keyActions {
		if ev.MatchString(k.keys...) {
			return k.act
		}
	}
	return actionNone
}
