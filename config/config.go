// Package config loads dispatcher settings from an optional YAML file, an
// optional .env file and the process environment, in that order of precedence
// from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config aggregates everything a dispatcher process needs.
type Config struct {
	Log       Log       `yaml:"log"`
	Storage   Storage   `yaml:"storage"`
	RateLimit RateLimit `yaml:"rate_limit" split_words:"true"`
}

// Log configures yalogger.
type Log struct {
	Level         yalogger.Level `yaml:"level"`
	FullTimestamp bool           `yaml:"full_timestamp" split_words:"true"`
	JSON          bool           `yaml:"json"`
}

// Storage selects and configures the state storage back-end.
type Storage struct {
	// Backend is one of "memory", "redis", "sqlite".
	Backend   string        `yaml:"backend"`
	Namespace string        `yaml:"namespace"`
	TTL       time.Duration `yaml:"ttl"`

	RedisHost     string `yaml:"redis_host" split_words:"true"`
	RedisPort     uint16 `yaml:"redis_port" split_words:"true"`
	RedisPassword string `yaml:"redis_password" split_words:"true"`
	RedisDB       int    `yaml:"redis_db" envconfig:"REDIS_DB"`

	SQLiteDSN string `yaml:"sqlite_dsn" envconfig:"SQLITE_DSN"`
}

// RateLimit configures the per-chat throttling middleware. Limit 0 disables it.
type RateLimit struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

// Default returns the configuration used for every field no source sets.
func Default() Config {
	return Config{
		Log: Log{
			Level: yalogger.InfoLevel,
		},
		Storage: Storage{
			Backend:   defaultBackend,
			RedisHost: defaultRedisHost,
			RedisPort: defaultRedisPort,
		},
		RateLimit: RateLimit{
			Window: defaultWindow,
		},
	}
}

// Load builds a Config from [Default], the YAML file at path (skipped when
// path is empty), the .env file in the working directory and the environment.
//
// Example usage:
//
//	cfg, err := config.Load("dispatch.yaml", log)
//	if err != nil {
//		log.Fatalf("Failed to load config: %v", err)
//	}
func Load(path string, log yalogger.Logger) (*Config, yaerrors.Error) {
	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, yaerrors.FromErrorWithLog(
				http.StatusInternalServerError,
				errors.Join(err, ErrFailedToReadFile),
				fmt.Sprintf("[CONFIG] failed to read `%s`", path),
				log,
			)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, yaerrors.FromErrorWithLog(
				http.StatusBadRequest,
				errors.Join(err, ErrFailedToParseYAML),
				fmt.Sprintf("[CONFIG] failed to parse `%s`", path),
				log,
			)
		}
	}

	if err := loadDotEnv(DotEnvFile); err != nil {
		log.Warnf("Error loading %s file: %v", DotEnvFile, err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, yaerrors.FromErrorWithLog(
			http.StatusBadRequest,
			errors.Join(err, ErrFailedToProcessEnv),
			"[CONFIG] failed to apply environment overrides",
			log,
		)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err.WrapWithLog("[CONFIG] invalid configuration", log)
	}

	return &cfg, nil
}

// Normalize validates the configuration and canonicalises the backend name.
func (c *Config) Normalize() yaerrors.Error {
	backend := strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if backend == "" {
		backend = defaultBackend
	}

	if _, ok := backends[backend]; !ok {
		return yaerrors.FromError(
			http.StatusBadRequest,
			ErrInvalidBackend,
			fmt.Sprintf("[CONFIG] storage.backend %q; allowed: memory, redis, sqlite", c.Storage.Backend),
		)
	}

	c.Storage.Backend = backend

	if c.RateLimit.Limit < 0 {
		return yaerrors.FromError(
			http.StatusBadRequest,
			ErrInvalidRateLimit,
			"[CONFIG] rate_limit.limit must be >= 0",
		)
	}

	if c.RateLimit.Limit > 0 && c.RateLimit.Window <= 0 {
		return yaerrors.FromError(
			http.StatusBadRequest,
			ErrInvalidRateLimit,
			"[CONFIG] rate_limit.window must be > 0 when rate_limit.limit is set",
		)
	}

	return nil
}

// LoggerConfig maps the Log section onto yalogger.
func (c *Config) LoggerConfig() *yalogger.Config {
	return &yalogger.Config{
		BaseLoggerType: yalogger.Logrus,
		Level:          c.Log.Level,
		FullTimestamp:  c.Log.FullTimestamp,
		JSON:           c.Log.JSON,
	}
}
