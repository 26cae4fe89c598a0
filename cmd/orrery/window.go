package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/taigrr/orrery/internal/config"
)

// heldKeys repeat every frame while down, like the ship controls of a game.
var heldKeys = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyArrowLeft, actionShipLeft},
	{ebiten.KeyArrowRight, actionShipRight},
	{ebiten.KeyArrowUp, actionShipUp},
	{ebiten.KeyArrowDown, actionShipDown},
	{ebiten.KeyComma, actionShipForward},
	{ebiten.KeyPeriod, actionShipBack},
	{ebiten.KeyA, actionOrbitLeft},
	{ebiten.KeyD, actionOrbitRight},
	{ebiten.KeyW, actionOrbitUp},
	{ebiten.KeyS, actionOrbitDown},
	{ebiten.KeyEqual, actionZoomIn},
	{ebiten.KeyMinus, actionZoomOut},
	{ebiten.KeyJ, actionPanLeft},
	{ebiten.KeyL, actionPanRight},
	{ebiten.KeyI, actionPanUp},
	{ebiten.KeyK, actionPanDown},
}

// pressedKeys fire once per press.
var pressedKeys = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyEscape, actionQuit},
	{ebiten.KeyQ, actionQuit},
	{ebiten.KeyO, actionToggleOrbits},
	{ebiten.KeyR, actionReset},
}

func (a *app) newWindowCmd() *cobra.Command {
	var scale int
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Render in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWindow(cmd.Context(), scale)
		},
	}
	cmd.Flags().IntVar(&a.flags.Width, "width", 0, "framebuffer width in pixels")
	cmd.Flags().IntVar(&a.flags.Height, "height", 0, "framebuffer height in pixels")
	cmd.Flags().IntVar(&scale, "scale", 1, "window pixels per framebuffer pixel")
	return cmd
}

// windowGame is the ebiten.Game that presents a world.
type windowGame struct {
	w       *world
	ctl     *controls
	reloads <-chan config.Config
	flags   config.Flags

	img *ebiten.Image
	pix []byte
}

func (g *windowGame) Update() error {
	select {
	case cfg := <-g.reloads:
		g.w.reload(cfg, g.flags)
	default:
	}

	for _, k := range pressedKeys {
		if inpututil.IsKeyJustPressed(k.key) && !g.ctl.do(k.act) {
			return ebiten.Termination
		}
	}
	for _, k := range heldKeys {
		if ebiten.IsKeyPressed(k.key) {
			g.ctl.do(k.act)
		}
	}

	g.ctl.step()
	g.w.render()
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	fb := g.w.fb
	if g.img == nil {
		g.img = ebiten.NewImage(fb.Width, fb.Height)
		g.pix = make([]byte, fb.Width*fb.Height*4)
	}

	for i, p := range fb.ReadTarget() {
		j := i * 4
		g.pix[j+0] = uint8(p >> 16)
		g.pix[j+1] = uint8(p >> 8)
		g.pix[j+2] = uint8(p)
		g.pix[j+3] = 0xFF
	}

	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w.fb.Width, g.w.fb.Height
}

// runWindow renders into a desktop window until it is closed.
func (a *app) runWindow(ctx context.Context, scale int) error {
	logger, closeLog, err := a.logger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	w, err := newWorld(cfg, cfg.Width, cfg.Height, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	reloads := make(chan config.Config)
	a.watchConfig(ctx, logger, reloads)

	g := &windowGame{
		w:       w,
		ctl:     newControls(w.cam, w.scene, cfg.FPS),
		reloads: reloads,
		flags:   a.flags,
	}

	ebiten.SetWindowTitle("orrery")
	ebiten.SetWindowSize(cfg.Width*max(scale, 1), cfg.Height*max(scale, 1))
	ebiten.SetTPS(cfg.FPS)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
