package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"path"

	"github.com/Jhuly1215/SimulacionInvasores/internal/application/simulation"
	"github.com/Jhuly1215/SimulacionInvasores/internal/config"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/layer"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/region"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/run"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/database/redis"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/messaging/kafka"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/prometheus"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/rasterio"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/storage/minio"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// eventSource stamps published envelopes.
const eventSource = "invasim"

// lockPrefix namespaces the per-region run mutex.
const lockPrefix = "simulation:"

// defaultLayerKeys is used when layers.keys is empty.
func defaultLayerKeys() map[string]string {
	keys := make(map[string]string)
	for _, name := range layer.Required() {
		keys[name] = path.Join("layers", layer.RegionPlaceholder, name)
	}
	return keys
}

// backends owns every infrastructure client opened for one command.
type backends struct {
	rasters raster.Store
	codec   rasterio.Codec
	regions region.Repository
	layers  layer.Catalog
	runs    run.Repository
	events  simulation.EventPublisher
	metrics *prometheus.SimulationMetrics
	locks   simulation.LockProvider

	logger  logging.Logger
	closers []func() error
}

func (b *backends) onClose(fn func() error) { b.closers = append(b.closers, fn) }

// Close releases clients in reverse opening order.
func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			b.logger.Warn("close backend failed", logging.Err(err))
		}
	}
	b.closers = nil
}

// openRasters wires only the raster store.
func openRasters(ctx context.Context, cfg *config.Config, log logging.Logger) (*backends, error) {
	codec, err := rasterio.Lookup(cfg.Simulation.OutputCodec)
	if err != nil {
		return nil, err
	}
	b := &backends{codec: codec, logger: logging.OrNop(log)}

	switch cfg.Storage.Rasters {
	case "minio":
		client, err := minio.NewClient(ctx, cfg.MinIO, log)
		if err != nil {
			return nil, err
		}
		b.onClose(client.Close)
		b.rasters = minio.NewRasterRepository(client, codec, log)
	default:
		store, err := rasterio.NewFileStore(cfg.Storage.RootDir, codec, log)
		if err != nil {
			return nil, err
		}
		b.rasters = store
	}
	return b, nil
}

// openBackends wires rasters, documents, events and metrics from cfg.
func openBackends(ctx context.Context, cfg *config.Config, log logging.Logger) (*backends, error) {
	b, err := openRasters(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := b.openDocuments(cfg, log); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.openEvents(cfg, log); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.openMetrics(cfg, log); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backends) openDocuments(cfg *config.Config, log logging.Logger) error {
	keys := cfg.Layers.Keys
	if len(keys) == 0 {
		keys = defaultLayerKeys()
	}
	static := layer.NewStaticCatalog(keys)

	if cfg.Storage.Documents != "redis" {
		b.regions = region.NewStaticRepository()
		b.layers = static
		b.runs = run.NewMemoryRepository()
		return nil
	}

	client, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		return err
	}
	b.onClose(client.Close)
	store := redis.NewDocumentStore(client, log)
	b.regions = redis.NewRegionRepository(store)
	b.layers = redis.NewLayerCatalog(store, static)
	b.runs = redis.NewRunRepository(store)

	locks := redis.NewLockFactory(client, log)
	b.locks = func(regionID string) simulation.Lock {
		return locks.NewMutex(lockPrefix+regionID, redis.WithWatchdog(true))
	}
	return nil
}

func (b *backends) openEvents(cfg *config.Config, log logging.Logger) error {
	if !cfg.Kafka.Enabled {
		return nil
	}
	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		return err
	}
	b.onClose(producer.Close)
	b.events = kafka.NewEventPublisher(producer, eventSource, cfg.Kafka.PublishSteps, log)
	return nil
}

func (b *backends) openMetrics(cfg *config.Config, log logging.Logger) error {
	collector, metrics, err := prometheus.NewFromConfig(cfg.Metrics, log)
	if err != nil {
		return err
	}
	b.metrics = metrics
	if collector == nil || cfg.Metrics.ListenAddr == "" {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- prometheus.Serve(ctx, cfg.Metrics.ListenAddr, collector, log) }()
	b.onClose(func() error {
		cancel()
		if err := <-done; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, errors.CodeInternal, "metrics listener")
		}
		return nil
	})
	return nil
}

// service builds the simulation service over b.
func (b *backends) service(cfg *config.Config) (*simulation.Service, error) {
	deps := simulation.Dependencies{
		Regions: b.regions,
		Layers:  b.layers,
		Rasters: b.rasters,
		Runs:    b.runs,
		Events:  b.events,
		Locks:   b.locks,
		Logger:  b.logger,
	}
	if b.metrics != nil {
		deps.Metrics = b.metrics
	}
	return simulation.NewService(cfg.Simulation, cfg.Layers.Reference, deps)
}

//Personal.AI order the ending
