package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	consts "image-optimizer/pkg/constants"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Log       LogConfig       `yaml:"log"`
	Locale    string          `yaml:"locale"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	Host         string        `yaml:"host"`
	BodyLimit    int64         `yaml:"body_limit"` // bytes
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type OptimizerConfig struct {
	Workers      int    `yaml:"workers"`
	QueueSize    int    `yaml:"queue_size"`
	MaxFiles     int    `yaml:"max_files"`
	DefaultWidth int    `yaml:"default_width"`
	Quality      int    `yaml:"quality"`
	ResponseMode string `yaml:"response_mode"` // json | binary
	ArchiveName  string `yaml:"archive_name"`

	RequestTimeout time.Duration `yaml:"request_timeout"` // upper bound for one batch
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			Host:         "localhost",
			BodyLimit:    100 * 1024 * 1024, // 100MB
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Optimizer: OptimizerConfig{
			Workers:      runtime.GOMAXPROCS(0),
			QueueSize:    100,
			MaxFiles:     consts.MaxFiles,
			DefaultWidth: consts.DefaultWidth,
			Quality:      consts.DefaultQuality,
			ResponseMode: consts.ResponseModeJSON,
			ArchiveName:  consts.ArchiveName,

			RequestTimeout: 2 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Locale: "en",
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by CONFIG_FILE, then environment variables, in that order.
func LoadConfig() (*Config, error) {
	config := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.mergeFile(path); err != nil {
			return nil, err
		}
	}

	config.Server.Port = getEnv("SERVER_PORT", config.Server.Port)
	config.Server.Host = getEnv("SERVER_HOST", config.Server.Host)
	config.Server.BodyLimit = getEnvAsInt64("SERVER_BODY_LIMIT", config.Server.BodyLimit)
	config.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", config.Server.ReadTimeout)
	config.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", config.Server.WriteTimeout)

	config.Optimizer.Workers = getEnvAsInt("OPTIMIZER_WORKERS", config.Optimizer.Workers)
	config.Optimizer.QueueSize = getEnvAsInt("OPTIMIZER_QUEUE_SIZE", config.Optimizer.QueueSize)
	config.Optimizer.MaxFiles = getEnvAsInt("OPTIMIZER_MAX_FILES", config.Optimizer.MaxFiles)
	config.Optimizer.DefaultWidth = getEnvAsInt("OPTIMIZER_DEFAULT_WIDTH", config.Optimizer.DefaultWidth)
	config.Optimizer.Quality = getEnvAsInt("OPTIMIZER_QUALITY", config.Optimizer.Quality)
	config.Optimizer.ResponseMode = strings.ToLower(getEnv("RESPONSE_MODE", config.Optimizer.ResponseMode))
	config.Optimizer.ArchiveName = getEnv("OPTIMIZER_ARCHIVE_NAME", config.Optimizer.ArchiveName)
	config.Optimizer.RequestTimeout = getEnvAsDuration("OPTIMIZER_REQUEST_TIMEOUT", config.Optimizer.RequestTimeout)

	config.Log.Level = getEnv("LOG_LEVEL", config.Log.Level)
	config.Log.Format = getEnv("LOG_FORMAT", config.Log.Format)
	config.Locale = getEnv("LOCALE", config.Locale)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
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

func (c *Config) Validate() error {
	switch c.Optimizer.ResponseMode {
	case consts.ResponseModeJSON, consts.ResponseModeBinary:
	default:
		return fmt.Errorf("invalid response mode %q (want %q or %q)",
			c.Optimizer.ResponseMode, consts.ResponseModeJSON, consts.ResponseModeBinary)
	}
	if c.Optimizer.Workers <= 0 {
		return fmt.Errorf("optimizer workers must be > 0, got %d", c.Optimizer.Workers)
	}
	if c.Optimizer.QueueSize < 0 {
		return fmt.Errorf("optimizer queue size must be >= 0, got %d", c.Optimizer.QueueSize)
	}
	if c.Optimizer.MaxFiles <= 0 {
		return fmt.Errorf("optimizer max files must be > 0, got %d", c.Optimizer.MaxFiles)
	}
	if c.Optimizer.DefaultWidth <= 0 {
		return fmt.Errorf("optimizer default width must be > 0, got %d", c.Optimizer.DefaultWidth)
	}
	if c.Optimizer.Quality < 0 || c.Optimizer.Quality > 100 {
		return fmt.Errorf("optimizer quality must be in [0,100], got %d", c.Optimizer.Quality)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	return int(getEnvAsInt64(key, int64(defaultValue)))
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
