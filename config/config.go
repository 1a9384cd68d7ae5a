package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envHTTPAddr          = "BOWLING_HTTP_ADDR"
	envAllowedOrigins    = "BOWLING_ALLOWED_ORIGINS"
	envMaxGames          = "BOWLING_MAX_GAMES"
	envGameTimeout       = "BOWLING_GAME_TIMEOUT"
	envFinishedRetention = "BOWLING_FINISHED_RETENTION"
	envLogLevel          = "BOWLING_LOG_LEVEL"
	envLogFormat         = "BOWLING_LOG_FORMAT"
)

type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	Broker BrokerConfig `yaml:"broker"`
	Log    LogConfig    `yaml:"log"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	PingInterval    time.Duration `yaml:"ping_interval"`
}

type BrokerConfig struct {
	MaxConcurrentGames int           `yaml:"max_concurrent_games"`
	GameTimeout        time.Duration `yaml:"game_timeout"`
	FinishedRetention  time.Duration `yaml:"finished_retention"`
	CleanupInterval    time.Duration `yaml:"cleanup_interval"`
	MetricsInterval    time.Duration `yaml:"metrics_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:8080"},
			ShutdownTimeout: 30 * time.Second,
			PingInterval:    50 * time.Second,
		},
		Broker: BrokerConfig{
			MaxConcurrentGames: 1000,
			GameTimeout:        30 * time.Minute,
			FinishedRetention:  5 * time.Minute,
			CleanupInterval:    time.Minute,
			MetricsInterval:    10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the config: defaults, then the YAML file at path (skipped when
// path is empty or missing), then environment variables. A .env file in the
// working directory is loaded into the environment first if present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(envHTTPAddr); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv(envAllowedOrigins); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.HTTP.AllowedOrigins = origins
	}
	if v := os.Getenv(envMaxGames); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envMaxGames, err)
		}
		cfg.Broker.MaxConcurrentGames = n
	}
	if v := os.Getenv(envGameTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envGameTimeout, err)
		}
		cfg.Broker.GameTimeout = d
	}
	if v := os.Getenv(envFinishedRetention); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envFinishedRetention, err)
		}
		cfg.Broker.FinishedRetention = d
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(envLogFormat); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// Validate checks semantic constraints and reports all violations at once.
func (c Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.HTTP.Address) == "" {
		errs = append(errs, "http.address must not be empty")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, "http.shutdown_timeout must be > 0")
	}
	if c.HTTP.PingInterval <= 0 {
		errs = append(errs, "http.ping_interval must be > 0")
	}
	if c.Broker.MaxConcurrentGames <= 0 {
		errs = append(errs, "broker.max_concurrent_games must be >= 1")
	}
	if c.Broker.GameTimeout <= 0 {
		errs = append(errs, "broker.game_timeout must be > 0")
	}
	if c.Broker.FinishedRetention <= 0 {
		errs = append(errs, "broker.finished_retention must be > 0")
	}
	if c.Broker.CleanupInterval <= 0 {
		errs = append(errs, "broker.cleanup_interval must be > 0")
	}
	if c.Broker.MetricsInterval <= 0 {
		errs = append(errs, "broker.metrics_interval must be > 0")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, "log.format must be one of: json, text")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
