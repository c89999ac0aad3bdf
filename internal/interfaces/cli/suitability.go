package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Jhuly1215/SimulacionInvasores/internal/application/simulation"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
)

// NewSuitabilityCmd exports the suitability and barrier grids of a region.
func NewSuitabilityCmd() *cobra.Command {
	var (
		flags speciesFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "suitability",
		Short: "Write the suitability and barrier grids of a region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			sp, poly, err := flags.load()
			if err != nil {
				return err
			}

			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			b, err := openBackends(ctx, cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer b.Close()

			svc, err := b.service(cliCtx.Config)
			if err != nil {
				return err
			}
			res, err := svc.ExportSuitability(ctx, simulation.SuitabilityRequest{
				Region:    flags.region,
				Species:   sp,
				Polygon:   poly,
				Reference: flags.reference,
				Out:       out,
			})
			if err != nil {
				return err
			}
			return PrintResult(cmd, (*suitabilityResult)(res))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output id prefix (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

type suitabilityResult simulation.SuitabilityResult

func (r *suitabilityResult) TableHeaders() []string { return statsHeaders("GRID") }

func (r *suitabilityResult) TableRows() [][]string {
	return [][]string{
		statsRow(r.SuitabilityID, r.Suitability),
		statsRow(r.BarrierID, r.Barrier),
	}
}

func statsHeaders(first string) []string {
	return []string{first, "VALID", "NODATA", "MIN", "MAX", "MEAN", "NON_ZERO"}
}

func statsRow(name string, s raster.Stats) []string {
	return []string{
		name,
		strconv.Itoa(s.Valid),
		strconv.Itoa(s.NoData),
		formatFloat(s.Min),
		formatFloat(s.Max),
		formatFloat(s.Mean),
		strconv.Itoa(s.NonZero),
	}
}

func formatFloat(v float64) string { return fmt.Sprintf("%.4g", v) }

//Personal.AI order the ending
