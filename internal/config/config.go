// Package config defines the configuration structures for the invasim
// simulator.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// RedisConfig holds connection parameters for the document store.
type RedisConfig struct {
	Mode         string        `mapstructure:"mode"` // "standalone" | "cluster" | "sentinel"
	Addr         string        `mapstructure:"addr"`
	Addrs        []string      `mapstructure:"addrs"`
	MasterName   string        `mapstructure:"master_name"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// StorageConfig selects the raster and document backends.
type StorageConfig struct {
	Rasters   string `mapstructure:"rasters"`   // "file" | "minio"
	RootDir   string `mapstructure:"root_dir"`  // filesystem backend root
	Documents string `mapstructure:"documents"` // "redis" | "none"
}

// KafkaConfig holds run-event producer parameters.
type KafkaConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Brokers         []string      `mapstructure:"brokers"`
	ClientID        string        `mapstructure:"client_id"`
	BatchSize       int           `mapstructure:"batch_size"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	RequiredAcks    int           `mapstructure:"required_acks"`
	MaxMessageBytes int           `mapstructure:"max_message_bytes"`
	Compression     string        `mapstructure:"compression"` // "none" | "gzip" | "snappy" | "lz4" | "zstd"
	PublishSteps    bool          `mapstructure:"publish_steps"`
}

// MetricsConfig holds Prometheus parameters.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Namespace  string `mapstructure:"namespace"`
	Subsystem  string `mapstructure:"subsystem"`
	ListenAddr string `mapstructure:"listen_addr"` // empty: no /metrics listener
}

// SimulationConfig holds numerical and output parameters of a run.
type SimulationConfig struct {
	PixelSizeMeters float64       `mapstructure:"pixel_size_m"`
	Epsilon         float64       `mapstructure:"epsilon"`
	CapacityScale   float64       `mapstructure:"capacity_scale"`
	BioclimVariant  string        `mapstructure:"bioclim_variant"` // "additive" | "five-variable"
	JumpPolicy      string        `mapstructure:"jump_policy"`     // "drop" | "resample"
	MaxJumpAttempts int           `mapstructure:"max_jump_attempts"`
	RandomSeed      int64         `mapstructure:"random_seed"`
	Timeout         time.Duration `mapstructure:"timeout"`
	OutputPrefix    string        `mapstructure:"output_prefix"`
	OutputCodec     string        `mapstructure:"output_codec"` // "sgrd" | "asc"
}

// LayersConfig is the static layer catalogue used when no document store is
// configured.  Keys maps logical layer names (landcover, elevation, bio1, ...)
// to raster keys.
type LayersConfig struct {
	Reference string            `mapstructure:"reference"`
	Keys      map[string]string `mapstructure:"keys"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Layers     LayersConfig     `mapstructure:"layers"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Storage
	switch c.Storage.Rasters {
	case "file":
		if c.Storage.RootDir == "" {
			return fmt.Errorf("config: storage.root_dir is required for the file raster backend")
		}
	case "minio":
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required for the minio raster backend")
		}
		if c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.bucket is required for the minio raster backend")
		}
	default:
		return fmt.Errorf("config: storage.rasters %q is invalid; expected file|minio", c.Storage.Rasters)
	}
	switch c.Storage.Documents {
	case "redis":
		if c.Redis.Mode == "standalone" && c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required")
		}
		if c.Redis.Mode != "standalone" && len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("config: redis.addrs is required in %s mode", c.Redis.Mode)
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
	case "none":
	default:
		return fmt.Errorf("config: storage.documents %q is invalid; expected redis|none", c.Storage.Documents)
	}
	switch c.Redis.Mode {
	case "standalone", "cluster", "sentinel":
	default:
		return fmt.Errorf("config: redis.mode %q is invalid; expected standalone|cluster|sentinel", c.Redis.Mode)
	}

	// Kafka
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}

	// Simulation
	s := c.Simulation
	if s.PixelSizeMeters <= 0 {
		return fmt.Errorf("config: simulation.pixel_size_m must be > 0, got %g", s.PixelSizeMeters)
	}
	if s.Epsilon <= 0 {
		return fmt.Errorf("config: simulation.epsilon must be > 0, got %g", s.Epsilon)
	}
	if s.CapacityScale <= 0 {
		return fmt.Errorf("config: simulation.capacity_scale must be > 0, got %g", s.CapacityScale)
	}
	switch s.BioclimVariant {
	case "additive", "five-variable":
	default:
		return fmt.Errorf("config: simulation.bioclim_variant %q is invalid; expected additive|five-variable", s.BioclimVariant)
	}
	switch s.JumpPolicy {
	case "drop":
	case "resample":
		if s.MaxJumpAttempts < 1 {
			return fmt.Errorf("config: simulation.max_jump_attempts must be ≥ 1 with the resample policy, got %d", s.MaxJumpAttempts)
		}
	default:
		return fmt.Errorf("config: simulation.jump_policy %q is invalid; expected drop|resample", s.JumpPolicy)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("config: simulation.timeout must be ≥ 0, got %s", s.Timeout)
	}
	switch s.OutputCodec {
	case "sgrd", "asc":
	default:
		return fmt.Errorf("config: simulation.output_codec %q is invalid; expected sgrd|asc", s.OutputCodec)
	}

	if c.Layers.Reference == "" {
		return fmt.Errorf("config: layers.reference is required")
	}

	return nil
}

//Personal.AI order the ending
