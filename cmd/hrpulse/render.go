package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/hrpulse/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		dir    string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the five dashboard charts as PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size := render.Size{Width: a.cfg.Render.Width, Height: a.cfg.Render.Height}
			if cmd.Flags().Changed("width") {
				size.Width = width
			}
			if cmd.Flags().Changed("height") {
				size.Height = height
			}
			if size.Width <= 0 || size.Height <= 0 {
				return fmt.Errorf("chart size must be positive, got %dx%d", size.Width, size.Height)
			}

			gen, err := a.generator(nil)
			if err != nil {
				return err
			}
			rep, err := gen.Generate(a.cfg.Dataset.Path)
			if err != nil {
				return err
			}

			paths, err := render.WriteChartPNGs(dir, rep, size)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			a.logger.Info("Charts rendered", zap.String("dir", dir), zap.Int("count", len(paths)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "charts", "Output directory")
	cmd.Flags().IntVar(&width, "width", render.DefaultSize.Width, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", render.DefaultSize.Height, "Image height in pixels")
	return cmd
}
