package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/pkg/render"
)

// runTerminal renders into the terminal until the user quits or ctx ends.
func (a *app) runTerminal(ctx context.Context) error {
	logger, closeLog, err := a.logger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	width, height := render.CellSize(cols, rows)
	w, err := newWorld(cfg, width, height, logger)
	if err != nil {
		return err
	}
	ctl := newControls(w.cam, w.scene, cfg.FPS)

	reloads := make(chan config.Config)
	a.watchConfig(ctx, logger, reloads)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cols, rows = ev.Width, ev.Height
				term.Erase()
				term.Resize(cols, rows)
				if err := w.resize(render.CellSize(cols, rows)); err != nil {
					return err
				}
				logger.Debug("resized", "cols", cols, "rows", rows)
			case uv.KeyPressEvent:
				if !ctl.do(keyAction(ev)) {
					return nil
				}
			}

		case cfg := <-reloads:
			w.reload(cfg, a.flags)

		case <-ticker.C:
			ctl.step()
			w.render()
			w.fb.Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
