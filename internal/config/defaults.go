package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRedisMode      = "standalone"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisKeyPrefix = "invasim:"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "invasim-rasters"

	DefaultRasterBackend   = "file"
	DefaultRootDir         = "./data"
	DefaultDocumentBackend = "none"

	DefaultKafkaBroker   = "localhost:9092"
	DefaultKafkaClientID = "invasim"

	DefaultMetricsNamespace = "invasim"
	DefaultMetricsSubsystem = "engine"

	DefaultPixelSizeMeters = 100.0
	DefaultEpsilon         = 1e-6
	DefaultCapacityScale   = 1.0
	DefaultBioclimVariant  = "additive"
	DefaultJumpPolicy      = "drop"
	DefaultMaxJumpAttempts = 10
	DefaultTimeout         = 30 * time.Minute
	DefaultOutputPrefix    = "simulation"
	DefaultOutputCodec     = "sgrd"

	DefaultReferenceLayer = "landcover"
)

// ApplyDefaults fills every zero-value field in cfg with the default.
// Fields that have already been set are left unchanged so that explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = DefaultRedisMode
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	if cfg.Storage.Rasters == "" {
		cfg.Storage.Rasters = DefaultRasterBackend
	}
	if cfg.Storage.RootDir == "" {
		cfg.Storage.RootDir = DefaultRootDir
	}
	if cfg.Storage.Documents == "" {
		cfg.Storage.Documents = DefaultDocumentBackend
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.Compression == "" {
		cfg.Kafka.Compression = "none"
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	// ── Simulation ────────────────────────────────────────────────────────────
	if cfg.Simulation.PixelSizeMeters == 0 {
		cfg.Simulation.PixelSizeMeters = DefaultPixelSizeMeters
	}
	if cfg.Simulation.Epsilon == 0 {
		cfg.Simulation.Epsilon = DefaultEpsilon
	}
	if cfg.Simulation.CapacityScale == 0 {
		cfg.Simulation.CapacityScale = DefaultCapacityScale
	}
	if cfg.Simulation.BioclimVariant == "" {
		cfg.Simulation.BioclimVariant = DefaultBioclimVariant
	}
	if cfg.Simulation.JumpPolicy == "" {
		cfg.Simulation.JumpPolicy = DefaultJumpPolicy
	}
	if cfg.Simulation.MaxJumpAttempts == 0 {
		cfg.Simulation.MaxJumpAttempts = DefaultMaxJumpAttempts
	}
	// RandomSeed: 0 is a valid seed and is left as-is.
	if cfg.Simulation.Timeout == 0 {
		cfg.Simulation.Timeout = DefaultTimeout
	}
	if cfg.Simulation.OutputPrefix == "" {
		cfg.Simulation.OutputPrefix = DefaultOutputPrefix
	}
	if cfg.Simulation.OutputCodec == "" {
		cfg.Simulation.OutputCodec = DefaultOutputCodec
	}

	// ── Layers ────────────────────────────────────────────────────────────────
	if cfg.Layers.Reference == "" {
		cfg.Layers.Reference = DefaultReferenceLayer
	}
}

// defaultKeys lists every scalar key with its default so that viper resolves
// INVASIM_* environment variables for them even without a config file.
func defaultKeys() map[string]interface{} {
	return map[string]interface{}{
		"log.level":                    DefaultLogLevel,
		"log.format":                   DefaultLogFormat,
		"redis.mode":                   DefaultRedisMode,
		"redis.addr":                   DefaultRedisAddr,
		"redis.password":               "",
		"redis.db":                     0,
		"redis.pool_size":              DefaultRedisPoolSize,
		"redis.key_prefix":             DefaultRedisKeyPrefix,
		"minio.endpoint":               DefaultMinIOEndpoint,
		"minio.access_key":             "",
		"minio.secret_key":             "",
		"minio.bucket":                 DefaultMinIOBucket,
		"minio.use_ssl":                false,
		"storage.rasters":              DefaultRasterBackend,
		"storage.root_dir":             DefaultRootDir,
		"storage.documents":            DefaultDocumentBackend,
		"kafka.enabled":                false,
		"kafka.brokers":                []string{DefaultKafkaBroker},
		"kafka.client_id":              DefaultKafkaClientID,
		"kafka.publish_steps":          false,
		"kafka.required_acks":          1,
		"metrics.enabled":              false,
		"metrics.namespace":            DefaultMetricsNamespace,
		"metrics.subsystem":            DefaultMetricsSubsystem,
		"metrics.listen_addr":          "",
		"simulation.pixel_size_m":      DefaultPixelSizeMeters,
		"simulation.epsilon":           DefaultEpsilon,
		"simulation.capacity_scale":    DefaultCapacityScale,
		"simulation.bioclim_variant":   DefaultBioclimVariant,
		"simulation.jump_policy":       DefaultJumpPolicy,
		"simulation.max_jump_attempts": DefaultMaxJumpAttempts,
		"simulation.random_seed":       0,
		"simulation.timeout":           DefaultTimeout,
		"simulation.output_prefix":     DefaultOutputPrefix,
		"simulation.output_codec":      DefaultOutputCodec,
		"layers.reference":             DefaultReferenceLayer,
	}
}

//Personal.AI order the ending
