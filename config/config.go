// Package config loads the orbmatchd service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hupe1980/orbmatch"
	"github.com/hupe1980/orbmatch/artifact"
	"github.com/hupe1980/orbmatch/codec"
	"github.com/hupe1980/orbmatch/matcher"
	"github.com/hupe1980/orbmatch/resource"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendLocal    = "local"
	BackendS3       = "s3"
	BackendMinIO    = "minio"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// Config is the top-level service configuration.
type Config struct {
	Addr       string        `yaml:"addr"`
	LogLevel   string        `yaml:"log_level"`
	LogFormat  string        `yaml:"log_format"` // "text" or "json"
	Categories []string      `yaml:"categories"`
	Storage    StorageConfig `yaml:"storage"`
	Match      MatchConfig   `yaml:"match"`
	Limits     LimitsConfig  `yaml:"limits"`
	Warmup     WarmupConfig  `yaml:"warmup"`
}

// StorageConfig selects where artifacts are read from.
type StorageConfig struct {
	Backend  string         `yaml:"backend"`
	Suffix   string         `yaml:"suffix"`
	Codec    string         `yaml:"codec"`
	Local    LocalConfig    `yaml:"local"`
	S3       S3Config       `yaml:"s3"`
	MinIO    MinIOConfig    `yaml:"minio"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
}

type LocalConfig struct {
	Dir string `yaml:"dir"`
}

type S3Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type DynamoDBConfig struct {
	Table  string `yaml:"table"`
	Region string `yaml:"region"`
}

// MatchConfig holds the match defaults applied when a request does not
// override them.
type MatchConfig struct {
	Threshold        int     `yaml:"threshold"`
	TopN             int     `yaml:"top_n"`
	Ratio            float64 `yaml:"ratio"`
	BatchConcurrency int     `yaml:"batch_concurrency"`
}

// LimitsConfig bounds category loading.
type LimitsConfig struct {
	MaxConcurrentLoads int64         `yaml:"max_concurrent_loads"`
	IOBytesPerSec      int64         `yaml:"io_bytes_per_sec"`
	MemoryLimitBytes   int64         `yaml:"memory_limit_bytes"`
	LoadTimeout        time.Duration `yaml:"load_timeout"`
}

// WarmupConfig controls loading all categories at startup.
type WarmupConfig struct {
	OnStart bool          `yaml:"on_start"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a configuration serving ./cache on :8080.
func DefaultConfig() Config {
	return Config{
		Addr:       ":8080",
		LogLevel:   "info",
		LogFormat:  "text",
		Categories: append([]string(nil), orbmatch.DefaultCategories...),
		Storage: StorageConfig{
			Backend: BackendLocal,
			Suffix:  artifact.DefaultSuffix,
			Codec:   codec.Default.Name(),
			Local:   LocalConfig{Dir: "./cache"},
		},
		Match: MatchConfig{
			Threshold:        matcher.DefaultThreshold,
			TopN:             matcher.DefaultTopN,
			Ratio:            matcher.DefaultRatio,
			BatchConcurrency: orbmatch.DefaultBatchConcurrency,
		},
		Limits: LimitsConfig{
			MaxConcurrentLoads: 4,
			LoadTimeout:        2 * time.Minute,
		},
		Warmup: WarmupConfig{
			OnStart: true,
			Timeout: 5 * time.Minute,
		},
	}
}

// Load reads path over the defaults. Environment variables in the file are
// expanded. Unknown keys are rejected. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	dec.KnownFields(true)

	err := dec.Decode(cfg)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Validate checks the configuration for values the service cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}

	if len(c.Categories) == 0 {
		errs = append(errs, errors.New("at least one category is required"))
	}
	for _, name := range c.Categories {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("category names must not be empty"))
			break
		}
	}

	errs = append(errs, c.Storage.validate()...)

	if err := c.MatchOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Match.BatchConcurrency < 0 {
		errs = append(errs, errors.New("match.batch_concurrency must be >= 0"))
	}

	if c.Limits.MaxConcurrentLoads < 0 || c.Limits.IOBytesPerSec < 0 || c.Limits.MemoryLimitBytes < 0 {
		errs = append(errs, errors.New("limits must be >= 0"))
	}
	if c.Limits.LoadTimeout < 0 || c.Warmup.Timeout < 0 {
		errs = append(errs, errors.New("timeouts must be >= 0"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (s StorageConfig) validate() []error {
	var errs []error

	if _, ok := codec.ByName(s.Codec); !ok {
		errs = append(errs, fmt.Errorf("storage.codec: unknown codec %q (want one of %s)", s.Codec, strings.Join(codec.Names(), ", ")))
	}

	switch s.Backend {
	case BackendLocal:
		if s.Local.Dir == "" {
			errs = append(errs, errors.New("storage.local.dir is required"))
		}
	case BackendS3:
		if s.S3.Bucket == "" {
			errs = append(errs, errors.New("storage.s3.bucket is required"))
		}
	case BackendMinIO:
		if s.MinIO.Endpoint == "" || s.MinIO.Bucket == "" {
			errs = append(errs, errors.New("storage.minio.endpoint and storage.minio.bucket are required"))
		}
	case BackendSQLite:
		if s.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.sqlite.path is required"))
		}
	case BackendDynamoDB:
		if s.DynamoDB.Table == "" {
			errs = append(errs, errors.New("storage.dynamodb.table is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", s.Backend))
	}
	return errs
}

// MatchOptions returns the configured match defaults.
func (c Config) MatchOptions() matcher.Options {
	return matcher.Options{
		Threshold: c.Match.Threshold,
		TopN:      c.Match.TopN,
		Ratio:     c.Match.Ratio,
	}
}

// ResourceConfig returns the configured load limits.
func (c Config) ResourceConfig() resource.Config {
	return resource.Config{
		MemoryLimitBytes:   c.Limits.MemoryLimitBytes,
		MaxConcurrentLoads: c.Limits.MaxConcurrentLoads,
		IOLimitBytesPerSec: c.Limits.IOBytesPerSec,
	}
}

// ParseLogLevel parses debug, info, warn or error.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
