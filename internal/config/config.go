package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devflow-dev/devflow/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "devflow.yaml"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":3000"

	// DefaultDebounce is the default search debounce interval.
	DefaultDebounce = 500 * time.Millisecond

	// SourceEmbedded serves the dataset bundled with the binary.
	SourceEmbedded = "embedded"

	// SourceS3 reads the dataset from an S3 object.
	SourceS3 = "s3"
)

// Environment variables that override the file.
const (
	EnvAddr      = "DEVFLOW_ADDR"
	EnvLogLevel  = "DEVFLOW_LOG_LEVEL"
	EnvLogFormat = "DEVFLOW_LOG_FORMAT"
)

// Config represents the complete devflow.yaml configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Search    SearchConfig    `yaml:"search"`
	Questions QuestionsConfig `yaml:"questions"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `yaml:"addr"`

	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SearchConfig contains the query-synchronized search box settings.
type SearchConfig struct {
	// Route is the route whose query the home search box owns.
	Route string `yaml:"route"`

	// Key is the synchronized query parameter.
	Key string `yaml:"key"`

	// Debounce is the quiet period before the URL is updated.
	Debounce time.Duration `yaml:"debounce"`

	// OwnsQuery lets a cleared box remove the key on any route.
	OwnsQuery bool `yaml:"owns_query"`
}

// QuestionsConfig selects where the question dataset is loaded from.
type QuestionsConfig struct {
	// Source is "embedded" or "s3".
	Source string `yaml:"source"`

	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
	Region string `yaml:"region"`

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string `yaml:"endpoint"`

	// PathStyle addresses the bucket in the path instead of the host.
	PathStyle bool `yaml:"path_style"`

	// TTL is how long a loaded dataset is served before reloading.
	// Zero keeps it forever.
	TTL time.Duration `yaml:"ttl"`
}

// LogConfig contains the logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig contains the Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains the OpenTelemetry settings.
type TracingConfig struct {
	TracerName string `yaml:"tracer_name"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              DefaultAddr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Search: SearchConfig{
			Route:    "/",
			Key:      "query",
			Debounce: DefaultDebounce,
		},
		Questions: QuestionsConfig{
			Source: SourceEmbedded,
			Key:    "questions.json",
			Region: "us-east-1",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "devflow",
		},
		Tracing: TracingConfig{
			TracerName: "devflow",
		},
	}
}

// Load reads configuration from the specified file path. Keys absent from
// the file keep their defaults; unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No config file at " + path).
				Wrap(err)
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := New()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithLocationFromYAML(path, err).
			WithSuggestion("Check the keys and value types against the documented devflow.yaml layout").
			Wrap(err)
	}

	cfg.configPath = path
	return cfg, nil
}

// LoadFromDir reads devflow.yaml from dir. A missing file yields the
// defaults.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		return New(), nil
	}
	return Load(path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// ApplyEnv applies the environment overrides. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.New(errors.CodeConfigAddr).
			WithDetail("server.addr " + quote(c.Server.Addr) + " is not host:port").
			Wrap(err)
	}
	for _, d := range []time.Duration{
		c.Server.ReadHeaderTimeout,
		c.Server.ReadTimeout,
		c.Server.WriteTimeout,
		c.Server.IdleTimeout,
		c.Server.ShutdownTimeout,
	} {
		if d < 0 {
			return errors.New(errors.CodeConfigShutdown)
		}
	}

	if c.Search.Debounce <= 0 || !strings.HasPrefix(c.Search.Route, "/") || c.Search.Key == "" {
		return errors.New(errors.CodeConfigSearch)
	}

	switch c.Questions.Source {
	case SourceEmbedded:
	case SourceS3:
		if c.Questions.Bucket == "" || c.Questions.Key == "" {
			return errors.New(errors.CodeConfigS3Bucket)
		}
	default:
		return errors.New(errors.CodeConfigSource).
			WithDetail("questions.source " + quote(c.Questions.Source) + " is not \"embedded\" or \"s3\".")
	}
	if c.Questions.TTL < 0 {
		return errors.New(errors.CodeConfigSource).WithDetail("questions.ttl must not be negative.")
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigLogFormat)
	}

	if c.Metrics.Enabled && (!strings.HasPrefix(c.Metrics.Path, "/") || c.Metrics.Path == "/" || c.Metrics.Path == c.Search.Route) {
		return errors.New(errors.CodeConfigMetricsPath)
	}
	return nil
}

// SlogLevel returns log.level as a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New(errors.CodeConfigLogLevel).
			WithDetail("log.level " + quote(c.Log.Level) + " is not one of debug, info, warn, error.").
			Wrap(err)
	}
	return level, nil
}

// Save writes the configuration as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	c.configPath = path
	return nil
}

func quote(s string) string {
	return "\"" + s + "\""
}
