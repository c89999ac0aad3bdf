// Package alignment clips and resamples the layers of one run onto a common
// reference grid.
package alignment

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/layer"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/region"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// windowPad is the pixel margin kept around a clipped window so bilinear
// samples at the region edge keep their neighbours.
const windowPad = 2

// LayerRef names one stored raster.  An empty Resampling uses the layer's
// default method.
type LayerRef struct {
	Name       string
	Key        string
	Resampling raster.Resampling
}

// AlignRequest lists the layers of one run.
type AlignRequest struct {
	Reference LayerRef
	Sources   []LayerRef
	Region    *region.Polygon
	// ClipReference crops the reference grid to the region window before it
	// defines the output geometry.
	ClipReference bool
}

// AlignResult holds grids sharing the reference geometry.  Aligned also
// carries the reference under its own name.
type AlignResult struct {
	Reference *raster.Grid
	Aligned   map[string]*raster.Grid
	// Region is the request polygon in the reference CRS.
	Region *region.Polygon
}

// Grid returns the aligned grid for name, or nil.
func (r *AlignResult) Grid(name string) *raster.Grid {
	if r == nil {
		return nil
	}
	return r.Aligned[name]
}

// Observer receives per-layer timings.
type Observer interface {
	RecordLayerAlign(layer string, d time.Duration)
}

// Aligner reads layers from a raster source.
type Aligner struct {
	source      raster.Source
	observer    Observer
	logger      logging.Logger
	maxParallel int
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithObserver records per-layer timings.
func WithObserver(o Observer) Option {
	return func(a *Aligner) { a.observer = o }
}

// WithMaxParallel bounds concurrent layer reads; n <= 0 means unbounded.
func WithMaxParallel(n int) Option {
	return func(a *Aligner) { a.maxParallel = n }
}

// NewAligner creates an Aligner over source.
func NewAligner(source raster.Source, logger logging.Logger, opts ...Option) *Aligner {
	a := &Aligner{source: source, logger: logging.OrNop(logger)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Align opens the reference, then clips and resamples every source onto it
// concurrently.
func (a *Aligner) Align(ctx context.Context, req AlignRequest) (*AlignResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	poly, err := region.New(req.Region.Ring, req.Region.CRS)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ref, err := a.open(ctx, req.Reference)
	if err != nil {
		return nil, err
	}
	refRegion, err := poly.Reproject(ref.CRS)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "reproject region to reference CRS")
	}
	if req.ClipReference {
		if ref, err = clip(ref, refRegion, 0); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "clip reference layer "+req.Reference.Name)
		}
	}
	a.observe(req.Reference.Name, time.Since(start))

	target := ref.Geometry()
	aligned := make([]*raster.Grid, len(req.Sources))
	g, gctx := errgroup.WithContext(ctx)
	if a.maxParallel > 0 {
		g.SetLimit(a.maxParallel)
	}
	for i, src := range req.Sources {
		i, src := i, src
		g.Go(func() error {
			began := time.Now()
			out, err := a.alignOne(gctx, src, poly, target)
			if err != nil {
				return err
			}
			aligned[i] = out
			a.observe(src.Name, time.Since(began))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &AlignResult{
		Reference: ref,
		Aligned:   make(map[string]*raster.Grid, len(aligned)+1),
		Region:    refRegion,
	}
	res.Aligned[req.Reference.Name] = ref
	for i, src := range req.Sources {
		res.Aligned[src.Name] = aligned[i]
	}
	a.logger.Debug("layers aligned",
		logging.String("reference", req.Reference.Name),
		logging.Int("layers", len(req.Sources)),
		logging.Int("width", ref.Width),
		logging.Int("height", ref.Height),
		logging.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (a *Aligner) alignOne(ctx context.Context, ref LayerRef, poly *region.Polygon, target raster.Geometry) (*raster.Grid, error) {
	src, err := a.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	srcRegion, err := poly.Reproject(src.CRS)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "reproject region for layer "+ref.Name)
	}
	clipped, err := clip(src, srcRegion, windowPad)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "clip layer "+ref.Name)
	}
	toSource, err := raster.NewCRSTransform(target.CRS, src.CRS)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "transform for layer "+ref.Name)
	}
	method := ref.Resampling
	if method == "" {
		method = layer.Resampling(ref.Name)
	}
	out, err := raster.Resample(clipped, target, method, toSource)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "resample layer "+ref.Name)
	}
	if out.Width != target.Width || out.Height != target.Height {
		return nil, errors.Alignment("resampled layer has wrong shape").
			WithDetailf("layer=%s got=%dx%d want=%dx%d", ref.Name, out.Width, out.Height, target.Width, target.Height)
	}
	return out, nil
}

func (a *Aligner) open(ctx context.Context, ref LayerRef) (*raster.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := a.source.Open(ctx, ref.Key)
	if err != nil {
		a.logger.Warn("open layer failed",
			logging.String("layer", ref.Name),
			logging.String("key", ref.Key),
			logging.Err(err),
		)
		return nil, errors.Wrap(err, errors.CodeUnknown, "open layer "+ref.Name)
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "layer "+ref.Name)
	}
	return g, nil
}

func (a *Aligner) observe(name string, d time.Duration) {
	if a.observer != nil {
		a.observer.RecordLayerAlign(name, d)
	}
}

// clip crops g to the pixel window covering poly's bounding box.
func clip(g *raster.Grid, poly *region.Polygon, pad int) (*raster.Grid, error) {
	minX, minY, maxX, maxY := poly.Bounds()
	w, err := g.WindowFor(minX, minY, maxX, maxY, pad)
	if err != nil {
		return nil, err
	}
	if w.Empty() {
		return nil, errors.Alignment("layer does not cover the region").
			WithDetailf("bounds=[%g %g %g %g] crs=%s", minX, minY, maxX, maxY, g.CRS)
	}
	return g.Crop(w)
}

func validateRequest(req AlignRequest) error {
	if req.Region == nil {
		return errors.InvalidInput("region polygon is required")
	}
	if req.Reference.Name == "" || req.Reference.Key == "" {
		return errors.InvalidInput("reference layer needs a name and key")
	}
	seen := map[string]bool{req.Reference.Name: true}
	for _, s := range req.Sources {
		if s.Name == "" || s.Key == "" {
			return errors.InvalidInput("layer needs a name and key").WithDetail("layer=" + s.Name)
		}
		if seen[s.Name] {
			return errors.InvalidInput("duplicate layer").WithDetail("layer=" + s.Name)
		}
		if s.Resampling != "" && !s.Resampling.IsValid() {
			return errors.InvalidInput("unsupported resampling method").WithDetail("layer=" + s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

//Personal.AI order the ending
