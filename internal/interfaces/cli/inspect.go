package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
)

// NewInspectCmd prints grid metadata and value statistics of a stored raster.
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <raster-key>",
		Short: "Print metadata and statistics of a stored raster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			b, err := openRasters(ctx, cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer b.Close()

			g, err := b.rasters.Open(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, newInspectResult(args[0], g))
		},
	}
}

// inspectResult describes one grid.
type inspectResult struct {
	Key       string           `json:"key"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	CRS       string           `json:"crs"`
	Transform raster.Transform `json:"transform"`
	NoData    *float64         `json:"nodata,omitempty"`
	Bounds    [4]float64       `json:"bounds"`
	PixelArea float64          `json:"pixel_area"`
	Stats     raster.Stats     `json:"stats"`
}

func newInspectResult(key string, g *raster.Grid) *inspectResult {
	minX, minY, maxX, maxY := g.Transform.Bounds(g.Width, g.Height)
	r := &inspectResult{
		Key:       key,
		Width:     g.Width,
		Height:    g.Height,
		CRS:       g.CRS,
		Transform: g.Transform,
		Bounds:    [4]float64{minX, minY, maxX, maxY},
		PixelArea: g.Transform.PixelArea(),
		Stats:     g.ComputeStats(),
	}
	if g.HasNoData {
		nd := g.NoData
		r.NoData = &nd
	}
	return r
}

func (r *inspectResult) String() string {
	nodata := "none"
	if r.NoData != nil {
		nodata = formatFloat(*r.NoData)
	}
	return fmt.Sprintf("key:     %s\nsize:    %d x %d\ncrs:     %s\norigin:  %g, %g\npixel:   %g x %g\nbounds:  [%g %g %g %g]\nnodata:  %s\n%s",
		r.Key, r.Width, r.Height, r.CRS,
		r.Transform.OriginX(), r.Transform.OriginY(), r.Transform.PixelWidth(), r.Transform.PixelHeight(),
		r.Bounds[0], r.Bounds[1], r.Bounds[2], r.Bounds[3],
		nodata,
		FormatTable(statsHeaders("KEY"), [][]string{statsRow(r.Key, r.Stats)}),
	)
}

//Personal.AI order the ending
