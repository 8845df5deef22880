package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	lists "lookalike/pkg/platform/strings"
)

// Config is the complete runtime configuration. Defaults come from Default,
// an optional YAML file (LOOKALIKE_CONFIG) is layered on top, and environment
// variables win over both.
type Config struct {
	Server     Server      `yaml:"server"`
	Log        Log         `yaml:"log"`
	Dataset    Dataset     `yaml:"dataset"`
	Schema     Schema      `yaml:"schema"`
	Rate       Rate        `yaml:"rate"`
	Population Population  `yaml:"population"`
	Model      Model       `yaml:"model"`
	Charts     Charts      `yaml:"charts"`
	Cache      Cache       `yaml:"cache"`
	Redis      RedisConfig `yaml:"redis"`
	Report     Report      `yaml:"report"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Log struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`
}

// Dataset selects where observations come from. PostgresDSN takes precedence
// over Path when both are set.
type Dataset struct {
	Path          string `yaml:"path"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	PostgresQuery string `yaml:"postgres_query"`
}

// Schema names the dataset columns the estimator depends on.
type Schema struct {
	MatchColumn     string   `yaml:"match_column"`
	PC1Column       string   `yaml:"pc1_column"`
	PC2Column       string   `yaml:"pc2_column"`
	Features        []string `yaml:"features"`
	LatitudeColumn  string   `yaml:"latitude_column"`
	LongitudeColumn string   `yaml:"longitude_column"`
}

// Rate chooses between the fixed empirical rate and one derived from data.
type Rate struct {
	Mode  string  `yaml:"mode"` // "fixed" or "derived"
	Fixed float64 `yaml:"fixed"`
}

// Population is the default x-axis of the growth chart: [Start, Stop) by Step.
type Population struct {
	Start int `yaml:"start"`
	Stop  int `yaml:"stop"`
	Step  int `yaml:"step"`
}

// Model carries the externally computed expectation shown next to the summary.
type Model struct {
	ExpectedMatches int `yaml:"expected_matches"`
}

type Charts struct {
	Renderer string `yaml:"renderer"` // "gonum" or "gochart"
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
}

type Cache struct {
	Backend string        `yaml:"backend"` // "memory", "redis" or "none"
	TTL     time.Duration `yaml:"ttl"`

	// Consecutive redis failures before the cache is bypassed for BreakerCooldown.
	BreakerThreshold int           `yaml:"breaker_threshold"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown"`
}

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type Report struct {
	PDFPath string `yaml:"pdf_path"`
}

const (
	RateModeFixed   = "fixed"
	RateModeDerived = "derived"

	RendererGonum   = "gonum"
	RendererGoChart = "gochart"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Default returns the configuration matching the published simulation.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Log:    Log{Format: "json", Level: "info"},
		Dataset: Dataset{
			Path:          "fedelobo_simulacion.csv",
			PostgresQuery: "SELECT * FROM observations ORDER BY id",
		},
		Schema: Schema{
			MatchColumn: "Parecido_a_Fedelobo",
			PC1Column:   "PC1",
			PC2Column:   "PC2",
		},
		Rate:       Rate{Mode: RateModeFixed, Fixed: 0.075},
		Population: Population{Start: 1000, Stop: 21000, Step: 2000},
		Model:      Model{ExpectedMatches: 1046},
		Charts:     Charts{Renderer: RendererGonum, Width: 800, Height: 600},
		Cache:      Cache{Backend: CacheMemory, TTL: 10 * time.Minute, BreakerThreshold: 5, BreakerCooldown: 30 * time.Second},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Report: Report{PDFPath: "fedelobo_paper.pdf"},
	}
}

// Load builds the configuration from defaults, the optional YAML file and the
// environment, then validates it.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("LOOKALIKE_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error
	setString(&c.Server.Addr, "LOOKALIKE_ADDR")
	errs = append(errs, setDuration(&c.Server.ShutdownTimeout, "SHUTDOWN_TIMEOUT"))

	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Log.Level, "LOG_LEVEL")

	setString(&c.Dataset.Path, "DATASET_PATH")
	setString(&c.Dataset.PostgresDSN, "DATASET_POSTGRES_DSN")
	setString(&c.Dataset.PostgresQuery, "DATASET_POSTGRES_QUERY")

	setString(&c.Schema.MatchColumn, "SCHEMA_MATCH_COLUMN")
	setString(&c.Schema.PC1Column, "SCHEMA_PC1_COLUMN")
	setString(&c.Schema.PC2Column, "SCHEMA_PC2_COLUMN")
	setString(&c.Schema.LatitudeColumn, "SCHEMA_LATITUDE_COLUMN")
	setString(&c.Schema.LongitudeColumn, "SCHEMA_LONGITUDE_COLUMN")
	if v := os.Getenv("SCHEMA_FEATURES"); v != "" {
		c.Schema.Features = lists.SplitList(v)
	}

	setString(&c.Rate.Mode, "RATE_MODE")
	errs = append(errs, setFloat(&c.Rate.Fixed, "RATE_FIXED"))

	errs = append(errs,
		setInt(&c.Population.Start, "POPULATION_START"),
		setInt(&c.Population.Stop, "POPULATION_STOP"),
		setInt(&c.Population.Step, "POPULATION_STEP"),
		setInt(&c.Model.ExpectedMatches, "MODEL_EXPECTED_MATCHES"),
	)

	setString(&c.Charts.Renderer, "CHART_RENDERER")
	errs = append(errs,
		setInt(&c.Charts.Width, "CHART_WIDTH"),
		setInt(&c.Charts.Height, "CHART_HEIGHT"),
	)

	setString(&c.Cache.Backend, "CACHE_BACKEND")
	errs = append(errs,
		setDuration(&c.Cache.TTL, "CACHE_TTL"),
		setInt(&c.Cache.BreakerThreshold, "CACHE_BREAKER_THRESHOLD"),
		setDuration(&c.Cache.BreakerCooldown, "CACHE_BREAKER_COOLDOWN"),
	)

	setString(&c.Redis.URL, "REDIS_URL")
	errs = append(errs, setInt(&c.Redis.PoolSize, "REDIS_POOL_SIZE"))

	setString(&c.Report.PDFPath, "REPORT_PDF_PATH")
	return errors.Join(errs...)
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Dataset.Path == "" && c.Dataset.PostgresDSN == "" {
		errs = append(errs, errors.New("dataset: either path or postgres_dsn is required"))
	}
	if c.Schema.MatchColumn == "" {
		errs = append(errs, errors.New("schema: match_column is required"))
	}
	if (c.Schema.LatitudeColumn == "") != (c.Schema.LongitudeColumn == "") {
		errs = append(errs, errors.New("schema: latitude_column and longitude_column must be set together"))
	}
	switch c.Rate.Mode {
	case RateModeFixed, RateModeDerived:
	default:
		errs = append(errs, fmt.Errorf("rate: unknown mode %q", c.Rate.Mode))
	}
	if !(c.Rate.Fixed >= 0 && c.Rate.Fixed <= 1) {
		errs = append(errs, fmt.Errorf("rate: fixed rate %v outside [0, 1]", c.Rate.Fixed))
	}
	if c.Population.Start <= 0 || c.Population.Step <= 0 || c.Population.Stop <= c.Population.Start {
		errs = append(errs, fmt.Errorf("population: invalid range start=%d stop=%d step=%d",
			c.Population.Start, c.Population.Stop, c.Population.Step))
	}
	switch c.Charts.Renderer {
	case RendererGonum, RendererGoChart:
	default:
		errs = append(errs, fmt.Errorf("charts: unknown renderer %q", c.Charts.Renderer))
	}
	if c.Charts.Width <= 0 || c.Charts.Height <= 0 {
		errs = append(errs, errors.New("charts: width and height must be positive"))
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("cache: redis backend requires REDIS_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache: unknown backend %q", c.Cache.Backend))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
