package simulation

import (
	"context"
	"time"

	"github.com/Jhuly1215/SimulacionInvasores/internal/application/alignment"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/layer"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/region"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/suitability"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Run phases.
const (
	phaseAlign       = "align"
	phaseSuitability = "suitability"
	phaseSimulate    = "simulate"
)

// prepared holds the static inputs of the spread loop.
type prepared struct {
	Suitability *raster.Grid
	Barrier     *raster.Grid
	// Region is in the grid CRS.
	Region *region.Polygon
}

// prepare loads the region, aligns every required layer onto the reference
// and scores suitability.
func (s *Service) prepare(ctx context.Context, regionID string, poly *region.Polygon, sp *species.Params, reference string) (*prepared, error) {
	if poly == nil {
		var err error
		if poly, err = s.deps.Regions.GetPolygon(ctx, regionID); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "load region "+regionID)
		}
	}

	req, err := s.alignRequest(ctx, regionID, poly, reference)
	if err != nil {
		return nil, err
	}
	began := time.Now()
	res, err := s.aligner.Align(ctx, req)
	if err != nil {
		return nil, err
	}
	s.deps.Metrics.ObservePhase(phaseAlign, time.Since(began))

	began = time.Now()
	climate := make(map[string]*raster.Grid, len(species.ClimateVariables))
	for _, name := range species.ClimateVariables {
		climate[name] = res.Grid(name)
	}
	suit, barrier, err := s.builder.Build(suitability.Input{
		Class:     res.Grid(layer.Landcover),
		Elevation: res.Grid(layer.Elevation),
		Climate:   climate,
		Species:   sp,
	})
	if err != nil {
		return nil, err
	}
	s.deps.Metrics.ObservePhase(phaseSuitability, time.Since(began))

	st := suit.ComputeStats()
	s.logger.Debug("suitability built",
		logging.String("region", regionID),
		logging.Int("width", suit.Width),
		logging.Int("height", suit.Height),
		logging.Float64("mean", st.Mean),
		logging.Int("suitable", st.NonZero),
	)
	return &prepared{Suitability: suit, Barrier: barrier, Region: res.Region}, nil
}

func (s *Service) alignRequest(ctx context.Context, regionID string, poly *region.Polygon, reference string) (alignment.AlignRequest, error) {
	refKey, err := s.deps.Layers.Resolve(ctx, regionID, reference)
	if err != nil {
		return alignment.AlignRequest{}, err
	}
	req := alignment.AlignRequest{
		Reference:     alignment.LayerRef{Name: reference, Key: refKey, Resampling: layer.Resampling(reference)},
		Region:        poly,
		ClipReference: true,
	}
	for _, name := range layer.Required() {
		if name == reference {
			continue
		}
		key, err := s.deps.Layers.Resolve(ctx, regionID, name)
		if err != nil {
			return alignment.AlignRequest{}, err
		}
		req.Sources = append(req.Sources, alignment.LayerRef{Name: name, Key: key, Resampling: layer.Resampling(name)})
	}
	return req, nil
}

// SuitabilityRequest exports the static layers of a region.
type SuitabilityRequest struct {
	Region    string
	Species   *species.Params
	Polygon   *region.Polygon
	Reference string
	// Out is the id prefix; "/suitability" and "/barrier" are appended.
	Out string
}

// SuitabilityResult names the written grids.
type SuitabilityResult struct {
	SuitabilityID string       `json:"suitability_id"`
	BarrierID     string       `json:"barrier_id"`
	Suitability   raster.Stats `json:"suitability"`
	Barrier       raster.Stats `json:"barrier"`
}

// ExportSuitability computes the suitability and barrier grids and writes
// both through the raster sink.
func (s *Service) ExportSuitability(ctx context.Context, req SuitabilityRequest) (*SuitabilityResult, error) {
	sp, err := validateRequest(req.Region, req.Species)
	if err != nil {
		return nil, err
	}
	if req.Out == "" {
		return nil, errors.InvalidInput("output id is required")
	}
	prep, err := s.prepare(ctx, req.Region, req.Polygon, sp, s.reference(req.Reference))
	if err != nil {
		return nil, err
	}

	res := &SuitabilityResult{
		SuitabilityID: s.withExtension(req.Out + "/suitability"),
		BarrierID:     s.withExtension(req.Out + "/barrier"),
		Suitability:   prep.Suitability.ComputeStats(),
		Barrier:       prep.Barrier.ComputeStats(),
	}
	if err := s.deps.Rasters.Put(ctx, res.SuitabilityID, prep.Suitability); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "write "+res.SuitabilityID)
	}
	s.deps.Metrics.RecordOutput("suitability")
	if err := s.deps.Rasters.Put(ctx, res.BarrierID, prep.Barrier); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "write "+res.BarrierID)
	}
	s.deps.Metrics.RecordOutput("barrier")

	s.logger.Info("Suitability exported",
		logging.String("region", req.Region),
		logging.String("suitability", res.SuitabilityID),
		logging.String("barrier", res.BarrierID),
	)
	return res, nil
}

//Personal.AI order the ending
