package prometheus

import (
	"time"

	"github.com/Jhuly1215/SimulacionInvasores/internal/config"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
)

// SimulationMetrics holds the engine metrics.
type SimulationMetrics struct {
	// Runs
	RunsTotal   CounterVec
	RunDuration HistogramVec
	ActiveRuns  GaugeVec

	// Steps
	StepsTotal     CounterVec
	StepDuration   HistogramVec
	OccupiedCells  GaugeVec
	InvadedAreaKm2 GaugeVec
	JumpsTotal     CounterVec

	// Layers
	LayerAlignDuration HistogramVec
	RasterOutputs CounterVec

	ErrorsTotal CounterVec
}

// Default Buckets
var (
	DefaultRunDurationBuckets   = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800}
	DefaultStepDurationBuckets  = []float64{.001, .005, .01, .05, .1, .25, .5, 1, 5}
	DefaultAlignDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
)

// Run phases observed by RunDuration.
const (
	PhaseAlign       = "align"
	PhaseSuitability = "suitability"
	PhaseSimulate    = "simulate"
	PhaseTotal       = "total"
)

// NewSimulationMetrics registers all metrics on collector.
func NewSimulationMetrics(collector MetricsCollector) *SimulationMetrics {
	return &SimulationMetrics{
		RunsTotal:   collector.RegisterCounter("runs_total", "Simulation runs by terminal status", "status"),
		RunDuration: collector.RegisterHistogram("run_duration_seconds", "Run wall time by phase", DefaultRunDurationBuckets, "phase"),
		ActiveRuns:  collector.RegisterGauge("active_runs", "Runs currently in progress"),

		StepsTotal:     collector.RegisterCounter("steps_total", "Timesteps advanced"),
		StepDuration:   collector.RegisterHistogram("step_duration_seconds", "Wall time of one timestep including output", DefaultStepDurationBuckets),
		OccupiedCells:  collector.RegisterGauge("occupied_cells", "Occupied pixels after the latest step", "region"),
		InvadedAreaKm2: collector.RegisterGauge("invaded_area_km2", "Invaded area after the latest step", "region"),
		JumpsTotal:     collector.RegisterCounter("jumps_total", "Long-distance jumps by outcome", "outcome"),

		LayerAlignDuration: collector.RegisterHistogram("layer_align_duration_seconds", "Clip and resample time per layer", DefaultAlignDurationBuckets, "layer"),
		RasterOutputs: collector.RegisterCounter("raster_outputs_total", "Rasters written to the sink", "kind"),

		ErrorsTotal: collector.RegisterCounter("errors_total", "Run failures by error code", "code"),
	}
}

// NewNopSimulationMetrics returns metrics that record nothing.
func NewNopSimulationMetrics() *SimulationMetrics {
	return &SimulationMetrics{
		RunsTotal:          noopCounterVec{},
		RunDuration:        noopHistogramVec{},
		ActiveRuns:         noopGaugeVec{},
		StepsTotal:         noopCounterVec{},
		StepDuration:       noopHistogramVec{},
		OccupiedCells:      noopGaugeVec{},
		InvadedAreaKm2:     noopGaugeVec{},
		JumpsTotal:         noopCounterVec{},
		LayerAlignDuration: noopHistogramVec{},
		RasterOutputs: noopCounterVec{},
		ErrorsTotal:        noopCounterVec{},
	}
}

// NewFromConfig builds a collector and metrics set, or a no-op set when
// metrics are disabled.
func NewFromConfig(cfg config.MetricsConfig, log logging.Logger) (MetricsCollector, *SimulationMetrics, error) {
	if !cfg.Enabled {
		return nil, NewNopSimulationMetrics(), nil
	}
	collector, err := NewMetricsCollector(CollectorConfig{
		Namespace:            cfg.Namespace,
		Subsystem:            cfg.Subsystem,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	return collector, NewSimulationMetrics(collector), nil
}

// Helper functions

func (m *SimulationMetrics) RunStarted() {
	m.ActiveRuns.WithLabelValues().Inc()
}

func (m *SimulationMetrics) RunFinished(status string, duration time.Duration) {
	m.ActiveRuns.WithLabelValues().Dec()
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.WithLabelValues(PhaseTotal).Observe(duration.Seconds())
}

func (m *SimulationMetrics) ObservePhase(phase string, duration time.Duration) {
	m.RunDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

func (m *SimulationMetrics) RecordStep(region string, occupied int, areaKm2 float64, landed, dropped int, duration time.Duration) {
	m.StepsTotal.WithLabelValues().Inc()
	m.StepDuration.WithLabelValues().Observe(duration.Seconds())
	m.OccupiedCells.WithLabelValues(region).Set(float64(occupied))
	m.InvadedAreaKm2.WithLabelValues(region).Set(areaKm2)
	if landed > 0 {
		m.JumpsTotal.WithLabelValues("landed").Add(float64(landed))
	}
	if dropped > 0 {
		m.JumpsTotal.WithLabelValues("dropped").Add(float64(dropped))
	}
}

func (m *SimulationMetrics) RecordLayerAlign(layer string, duration time.Duration) {
	m.LayerAlignDuration.WithLabelValues(layer).Observe(duration.Seconds())
}

func (m *SimulationMetrics) RecordOutput(kind string) {
	m.RasterOutputs.WithLabelValues(kind).Inc()
}

func (m *SimulationMetrics) RecordError(code string) {
	m.ErrorsTotal.WithLabelValues(code).Inc()
}

//Personal.AI order the ending
