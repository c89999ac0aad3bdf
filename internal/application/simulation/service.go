// Package simulation runs the full pipeline for one region: layer
// resolution, alignment, suitability scoring, the spread loop and output
// persistence with run records, events and metrics.
package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jhuly1215/SimulacionInvasores/internal/application/alignment"
	"github.com/Jhuly1215/SimulacionInvasores/internal/config"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/layer"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/region"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/run"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/spread"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/suitability"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/rasterio"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// EventPublisher announces run transitions.
type EventPublisher interface {
	RunCompleted(ctx context.Context, rec *run.Record) error
	RunFailed(ctx context.Context, rec *run.Record) error
	StepCompleted(ctx context.Context, rec *run.Record, step run.StepRecord) error
}

// Metrics records run telemetry.
type Metrics interface {
	RunStarted()
	RunFinished(status string, d time.Duration)
	ObservePhase(phase string, d time.Duration)
	RecordStep(region string, occupied int, areaKm2 float64, landed, dropped int, d time.Duration)
	RecordLayerAlign(layer string, d time.Duration)
	RecordOutput(kind string)
	RecordError(code string)
}

// Lock serialises runs of one region across processes.
type Lock interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// LockProvider returns the lock guarding region.
type LockProvider func(region string) Lock

// Dependencies are the collaborators of a Service.  Events, Metrics and
// Locks are optional.
type Dependencies struct {
	Regions region.Repository
	Layers  layer.Catalog
	Rasters raster.Store
	Runs    run.Repository
	Events  EventPublisher
	Metrics Metrics
	Locks   LockProvider
	Logger  logging.Logger
}

// Request starts a simulation.
type Request struct {
	Region  string
	Species *species.Params
	// Polygon, when set, is used instead of the stored region geometry.
	Polygon *region.Polygon
	// Reference overrides the configured reference layer.
	Reference string
	// Seed overrides the configured random seed.
	Seed *int64
}

// Service runs simulations.
type Service struct {
	cfg     config.SimulationConfig
	ref     string
	codec   rasterio.Codec
	builder *suitability.Builder
	aligner *alignment.Aligner
	deps    Dependencies
	logger  logging.Logger
	now     func() time.Time
	newID   func() string
}

// NewService validates cfg and wires deps.
func NewService(cfg config.SimulationConfig, reference string, deps Dependencies) (*Service, error) {
	if deps.Regions == nil || deps.Layers == nil || deps.Rasters == nil || deps.Runs == nil {
		return nil, errors.InvalidInput("simulation service needs regions, layers, rasters and runs")
	}
	variant, err := suitability.ParseBioclimVariant(cfg.BioclimVariant)
	if err != nil {
		return nil, err
	}
	if _, err := spread.NewSimulator(simulatorOptions(cfg, nil)); err != nil {
		return nil, err
	}
	codecName := cfg.OutputCodec
	if codecName == "" {
		codecName = config.DefaultOutputCodec
	}
	codec, err := rasterio.Lookup(codecName)
	if err != nil {
		return nil, err
	}
	if cfg.OutputPrefix == "" {
		cfg.OutputPrefix = config.DefaultOutputPrefix
	}
	if reference == "" {
		reference = config.DefaultReferenceLayer
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	log := logging.OrNop(deps.Logger).Named("simulation")
	return &Service{
		cfg:     cfg,
		ref:     reference,
		codec:   codec,
		builder: suitability.NewBuilder(variant),
		aligner: alignment.NewAligner(deps.Rasters, log, alignment.WithObserver(deps.Metrics)),
		deps:    deps,
		logger:  log,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

func simulatorOptions(cfg config.SimulationConfig, seed *int64) spread.Options {
	opts := spread.DefaultOptions()
	if cfg.PixelSizeMeters != 0 {
		opts.PixelSizeMeters = cfg.PixelSizeMeters
	}
	if cfg.Epsilon != 0 {
		opts.Epsilon = cfg.Epsilon
	}
	if cfg.CapacityScale != 0 {
		opts.CapacityScale = cfg.CapacityScale
	}
	if cfg.JumpPolicy != "" {
		opts.JumpPolicy = spread.JumpPolicy(cfg.JumpPolicy)
	}
	if cfg.MaxJumpAttempts != 0 {
		opts.MaxJumpAttempts = cfg.MaxJumpAttempts
	}
	opts.RandomSeed = cfg.RandomSeed
	if seed != nil {
		opts.RandomSeed = *seed
	}
	return opts
}

// OutputID names the occupancy raster of step t.
func (s *Service) OutputID(regionID string, t int) string {
	return s.withExtension(fmt.Sprintf("%s/%s/infested_t%03d", s.cfg.OutputPrefix, regionID, t))
}

func (s *Service) withExtension(id string) string { return rasterio.WithExtension(id, s.codec) }

// Simulate runs one simulation to completion and returns its final record.
// A failure after the record was created returns both the failed record and
// the error.
func (s *Service) Simulate(ctx context.Context, req Request) (*run.Record, error) {
	sp, err := validateRequest(req.Region, req.Species)
	if err != nil {
		return nil, err
	}
	sim, err := spread.NewSimulator(simulatorOptions(s.cfg, req.Seed))
	if err != nil {
		return nil, err
	}

	if s.deps.Locks != nil {
		lock := s.deps.Locks(req.Region)
		if err := lock.Lock(ctx); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "region "+req.Region+" is busy")
		}
		defer func() {
			if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("release region lock failed", logging.String("region", req.Region), logging.Err(err))
			}
		}()
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	reference := s.reference(req.Reference)
	opts := sim.Options()
	now := s.now().UTC()
	rec := &run.Record{
		RunID:  s.newID(),
		Region: req.Region,
		Status: run.StatusRunning,
		Parameters: run.Parameters{
			Species:         *sp,
			PixelSizeMeters: opts.PixelSizeMeters,
			BioclimVariant:  string(s.builder.Variant()),
			JumpPolicy:      string(opts.JumpPolicy),
			RandomSeed:      opts.RandomSeed,
			Reference:       reference,
		},
		Timesteps: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.Runs.Save(ctx, rec); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "save run record")
	}

	log := s.logger.With(
		logging.String("run_id", rec.RunID),
		logging.String("region", req.Region),
		logging.String("species", sp.Name),
	)
	log.Info("Simulation started", logging.Int("timesteps", sp.Timesteps), logging.String("reference", reference))
	start := time.Now()
	s.deps.Metrics.RunStarted()

	sum, err := s.execute(ctx, req, sp, reference, sim, rec, log)
	if err != nil {
		return s.fail(ctx, rec, sum, err, start, log)
	}

	rec.Complete(sum, s.now().UTC())
	if err := s.deps.Runs.Save(context.WithoutCancel(ctx), rec); err != nil {
		return s.fail(ctx, rec, sum, errors.Wrap(err, errors.CodeUnknown, "save run record"), start, log)
	}
	s.deps.Metrics.RunFinished(string(run.StatusCompleted), time.Since(start))
	if s.deps.Events != nil {
		if err := s.deps.Events.RunCompleted(context.WithoutCancel(ctx), rec); err != nil {
			log.Warn("completion event not published", logging.Err(err))
		}
	}
	log.Info("Simulation completed",
		logging.Int("steps", sum.Steps),
		logging.Float64("years", sum.Years),
		logging.Int("occupied", sum.Final.Occupied),
		logging.Float64("area_km2", sum.Final.AreaKm2),
		logging.Duration("elapsed", time.Since(start)),
	)
	return rec, nil
}

func (s *Service) execute(ctx context.Context, req Request, sp *species.Params, reference string,
	sim *spread.Simulator, rec *run.Record, log logging.Logger) (*spread.Summary, error) {
	prep, err := s.prepare(ctx, req.Region, req.Polygon, sp, reference)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	sum, err := sim.Run(ctx, spread.Input{
		Suitability: prep.Suitability,
		Barrier:     prep.Barrier,
		Region:      prep.Region,
		Species:     sp,
	}, func(st spread.Step) error {
		stepStart := time.Now()
		id := s.OutputID(req.Region, st.Index)
		if err := s.deps.Rasters.Put(ctx, id, st.Occupancy); err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "write "+id)
		}
		s.deps.Metrics.RecordOutput("occupancy")

		// A step only counts once its record is stored; a raster written
		// before a failed AppendStep stays unlisted and the next run overwrites it.
		stepRec := run.NewStepRecord(st, id)
		if err := s.deps.Runs.AppendStep(ctx, req.Region, stepRec); err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "record step")
		}
		rec.Timesteps = append(rec.Timesteps, id)
		if s.deps.Events != nil {
			if err := s.deps.Events.StepCompleted(ctx, rec, stepRec); err != nil {
				log.Warn("step event not published", logging.Int("step", st.Index), logging.Err(err))
			}
		}
		s.deps.Metrics.RecordStep(req.Region, st.Stats.Occupied, st.Stats.AreaKm2, st.JumpsLanded, st.JumpsDropped, time.Since(stepStart))
		log.Debug("step completed",
			logging.Int("step", st.Index),
			logging.Int("occupied", st.Stats.Occupied),
			logging.Int("patches", st.Stats.Patches),
		)
		return nil
	})
	s.deps.Metrics.ObservePhase(phaseSimulate, time.Since(began))
	if sum != nil && !sum.Seeded {
		log.Warn("seed outside grid, run starts empty", logging.Int("row", sum.Seed.Row), logging.Int("col", sum.Seed.Col))
	}
	return sum, err
}

func (s *Service) fail(ctx context.Context, rec *run.Record, sum *spread.Summary, cause error, start time.Time, log logging.Logger) (*run.Record, error) {
	rec.Fail(cause, sum, s.now().UTC())
	bg := context.WithoutCancel(ctx)
	if err := s.deps.Runs.Save(bg, rec); err != nil {
		log.Error("save failed run record", logging.Err(err))
	}
	s.deps.Metrics.RunFinished(string(run.StatusFailed), time.Since(start))
	s.deps.Metrics.RecordError(rec.ErrorCode)
	if s.deps.Events != nil {
		if err := s.deps.Events.RunFailed(bg, rec); err != nil {
			log.Warn("failure event not published", logging.Err(err))
		}
	}
	log.Error("Simulation failed",
		logging.String("code", rec.ErrorCode),
		logging.Int("steps_completed", len(rec.Timesteps)),
		logging.Err(cause),
	)
	return rec, cause
}

// Status returns the region's latest run record and its step records.
func (s *Service) Status(ctx context.Context, regionID string) (*run.Record, []run.StepRecord, error) {
	rec, err := s.deps.Runs.Get(ctx, regionID)
	if err != nil {
		return nil, nil, err
	}
	steps, err := s.deps.Runs.Steps(ctx, regionID)
	if err != nil {
		return nil, nil, err
	}
	return rec, steps, nil
}

func (s *Service) reference(override string) string {
	if override != "" {
		return override
	}
	return s.ref
}

func validateRequest(regionID string, sp *species.Params) (*species.Params, error) {
	if regionID == "" {
		return nil, errors.InvalidInput("region id is required")
	}
	if sp == nil {
		return nil, errors.InvalidInput("species parameters are required")
	}
	cp := *sp
	cp.ApplyDefaults()
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	return &cp, nil
}

type nopMetrics struct{}

func (nopMetrics) RunStarted()                                              {}
func (nopMetrics) RunFinished(string, time.Duration)                        {}
func (nopMetrics) ObservePhase(string, time.Duration)                       {}
func (nopMetrics) RecordStep(string, int, float64, int, int, time.Duration) {}
func (nopMetrics) RecordLayerAlign(string, time.Duration)                   {}
func (nopMetrics) RecordOutput(string)                                      {}
func (nopMetrics) RecordError(string)                                       {}

//Personal.AI order the ending
