package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taigrr/orrery/pkg/render"
)

type snapshotOptions struct {
	frames int
	out    string
	render.SnapshotOptions
}

func (a *app) newSnapshotCmd() *cobra.Command {
	opts := snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot [file.png|file.webp]",
		Short: "Render frames headless and save the last one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.out = args[0]
			}
			return a.snapshot(opts)
		},
	}
	cmd.Flags().IntVar(&a.flags.Width, "width", 0, "framebuffer width in pixels")
	cmd.Flags().IntVar(&a.flags.Height, "height", 0, "framebuffer height in pixels")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 1, "frames to simulate before saving")
	cmd.Flags().StringVarP(&opts.out, "output", "o", "orrery.png", "output image")
	cmd.Flags().IntVar(&opts.Scale, "scale", 1, "integer upscale factor")
	cmd.Flags().BoolVar(&opts.Smooth, "smooth", false, "smooth upscaling instead of nearest neighbor")
	return cmd
}

// snapshot renders opts.frames frames without a display and writes the last
// presented frame.
func (a *app) snapshot(opts snapshotOptions) error {
	logger, closeLog, err := a.logger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	// Fail on a bad extension before rendering anything.
	if _, err := render.FormatFromPath(opts.out); err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	w, err := newWorld(cfg, cfg.Width, cfg.Height, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	for range max(opts.frames, 1) {
		w.render()
	}
	stats := w.pipeline.Stats()
	logger.Info("rendered",
		"frames", max(opts.frames, 1),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"triangles", stats.Triangles,
		"fragments", stats.Fragments,
		"culled", stats.Culled)

	if err := w.fb.SaveSnapshot(opts.out, opts.SnapshotOptions); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	logger.Info("saved", "path", opts.out)
	return nil
}
