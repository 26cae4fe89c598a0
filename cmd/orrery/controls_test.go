package main

import (
	"io"
	"math"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/scene"
)

type fakeKey string

func (k fakeKey) MatchString(keys ...string) bool {
	return slices.Contains(keys, string(k))
}

func testWorld(t *testing.T, cfg config.Config) *world {
	t.Helper()
	cfg.Resolve(config.Flags{Width: 64, Height: 48, Workers: 2})
	w, err := newWorld(cfg, cfg.Width, cfg.Height, log.New(io.Discard))
	if err != nil {
		t.Fatalf("newWorld() error = %v", err)
	}
	return w
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  string
		want action
	}{
		{"escape", actionQuit},
		{"ctrl+c", actionQuit},
		{"left", actionShipLeft},
		{",", actionShipForward},
		{"w", actionOrbitUp},
		{"=", actionZoomIn},
		{"_", actionZoomOut},
		{"o", actionToggleOrbits},
		{"z", actionNone},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := keyAction(fakeKey(tt.key)); got != tt.want {
				t.Errorf("keyAction(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestAxisDecays(t *testing.T) {
	a := newAxis(60)
	a.Velocity = 1

	first := a.step()
	if first != 1 {
		t.Errorf("first step = %v, want 1", first)
	}
	for range 600 {
		a.step()
	}
	if math.Abs(a.Velocity) > 1e-3 {
		t.Errorf("velocity after 10s = %v, want ~0", a.Velocity)
	}
}

func TestControlsShip(t *testing.T) {
	w := testWorld(t, config.Config{})
	ctl := newControls(w.cam, w.scene, 60)
	start := w.scene.Snapshot().Ship.Position

	ctl.do(actionShipRight)
	ctl.do(actionShipUp)
	ctl.do(actionShipForward)

	got := w.scene.Snapshot().Ship.Position
	want := start.Add(math3d.V3(scene.ShipStep, scene.ShipStep, -scene.ShipStep))
	if got.Sub(want).Len() > 1e-9 {
		t.Errorf("ship at %v, want %v", got, want)
	}
}

func TestControlsOrbitAndReset(t *testing.T) {
	w := testWorld(t, config.Config{})
	ctl := newControls(w.cam, w.scene, 60)
	eye := w.cam.Eye()
	radius := eye.Sub(w.cam.Center()).Len()

	ctl.do(actionOrbitRight)
	for range 10 {
		ctl.step()
	}

	moved := w.cam.Eye()
	if moved.Sub(eye).Len() < 1e-6 {
		t.Fatal("camera did not orbit")
	}
	if r := moved.Sub(w.cam.Center()).Len(); math.Abs(r-radius) > 1e-9 {
		t.Errorf("orbit radius = %v, want %v", r, radius)
	}

	ctl.do(actionReset)
	if got := w.cam.Eye(); got != eye {
		t.Errorf("eye after reset = %v, want %v", got, eye)
	}
	if ctl.yaw.Velocity != 0 {
		t.Errorf("yaw velocity after reset = %v", ctl.yaw.Velocity)
	}
}

func TestControlsOrbitUpDown(t *testing.T) {
	tests := []struct {
		act    action
		higher bool
	}{
		{actionOrbitUp, true},
		{actionOrbitDown, false},
	}
	for _, tt := range tests {
		w := testWorld(t, config.Config{})
		ctl := newControls(w.cam, w.scene, 60)
		y := w.cam.Eye().Y

		ctl.do(tt.act)
		for range 5 {
			ctl.step()
		}

		got := w.cam.Eye().Y
		if tt.higher && got <= y {
			t.Errorf("action %d: eye y %v -> %v, want it to rise", tt.act, y, got)
		}
		if !tt.higher && got >= y {
			t.Errorf("action %d: eye y %v -> %v, want it to fall", tt.act, y, got)
		}
	}
}

func TestControlsZoom(t *testing.T) {
	w := testWorld(t, config.Config{})
	ctl := newControls(w.cam, w.scene, 60)
	before := w.cam.Eye().Sub(w.cam.Center()).Len()

	ctl.do(actionZoomIn)
	ctl.step()

	after := w.cam.Eye().Sub(w.cam.Center()).Len()
	if math.Abs(before-after-zoomImpulse) > 1e-9 {
		t.Errorf("distance %v -> %v, want a step of %v", before, after, zoomImpulse)
	}
}

func TestControlsToggleOrbitsAndQuit(t *testing.T) {
	w := testWorld(t, config.Config{})
	ctl := newControls(w.cam, w.scene, 60)

	if !ctl.do(actionToggleOrbits) || !w.scene.Orbits() {
		t.Error("orbits not toggled on")
	}
	if ctl.do(actionQuit) {
		t.Error("do(actionQuit) = true")
	}
}
