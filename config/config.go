package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config/config.yaml"

const (
	OversizeChunk    = "chunk"
	OversizeTruncate = "truncate"
)

type Config struct {
	App      AppConfig      `yaml:"app" envconfig:"APP"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	HTTP     HTTPConfig     `yaml:"http" envconfig:"HTTP"`
	Upstream UpstreamConfig `yaml:"upstream" envconfig:"UPSTREAM"`
	Client   ClientConfig   `yaml:"client" envconfig:"CLIENT"`
	Mock     MockConfig     `yaml:"mock" envconfig:"MOCK"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"NAME"`
	Version string `yaml:"version" envconfig:"VERSION"`
	Env     string `yaml:"env" envconfig:"ENV"`
}

// ServerConfig is the UDP side. Workers=0 handles every datagram in its
// own goroutine; a positive value bounds concurrency with a queue.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	BufferSize      int           `yaml:"buffer_size" envconfig:"BUFFER_SIZE"`
	Workers         int           `yaml:"workers" envconfig:"WORKERS"`
	QueueSize       int           `yaml:"queue_size" envconfig:"QUEUE_SIZE"`
	OversizePolicy  string        `yaml:"oversize_policy" envconfig:"OVERSIZE_POLICY"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// HTTPConfig is the management API. An empty port disables it.
type HTTPConfig struct {
	Port         string        `yaml:"port" envconfig:"PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
}

type UpstreamConfig struct {
	// APIKey is read from the file only; the environment key is
	// OPENWEATHER_API_KEY, see ResolveAPIKey.
	APIKey          string        `yaml:"api_key" ignored:"true"`
	GeocodeURL      string        `yaml:"geocode_url" envconfig:"GEOCODE_URL"`
	OneCallURL      string        `yaml:"onecall_url" envconfig:"ONECALL_URL"`
	Timeout         time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	GeocodeCacheTTL time.Duration `yaml:"geocode_cache_ttl" envconfig:"GEOCODE_CACHE_TTL"`
}

type ClientConfig struct {
	Host       string        `yaml:"host" envconfig:"HOST"`
	Port       int           `yaml:"port" envconfig:"PORT"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxRetries int           `yaml:"max_retries" envconfig:"MAX_RETRIES"`
	RetryDelay time.Duration `yaml:"retry_delay" envconfig:"RETRY_DELAY"`
	BufferSize int           `yaml:"buffer_size" envconfig:"BUFFER_SIZE"`
}

type MockConfig struct {
	Seed     int64           `yaml:"seed" envconfig:"SEED"`
	Profiles []ProfileConfig `yaml:"profiles" ignored:"true"`
}

// ProfileConfig adds or overrides a city of the mock generator.
type ProfileConfig struct {
	Name      string  `yaml:"name"`
	BaseTemp  float64 `yaml:"base_temp"`
	TempRange float64 `yaml:"temp_range"`
	Humidity  int     `yaml:"humidity"`
	Timezone  string  `yaml:"timezone"`
	Lat       float64 `yaml:"lat"`
	Lon       float64 `yaml:"lon"`
	UTCOffset int     `yaml:"utc_offset"`
}

type LogConfig struct {
	Level     string `yaml:"level" envconfig:"LEVEL"`
	SentryDSN string `yaml:"sentry_dsn" envconfig:"SENTRY_DSN"`
	Debug     bool   `yaml:"debug" envconfig:"DEBUG"`
}

// ConfigProvider defines the interface for configuration providers
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider layers defaults, a YAML file and the environment.
type FileConfigProvider struct {
	configPath string
}

func NewFileConfigProvider(configPath string) *FileConfigProvider {
	return &FileConfigProvider{configPath: configPath}
}

func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:    "weather-udp",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:            8888,
			BufferSize:      8192,
			OversizePolicy:  OversizeChunk,
			QueueSize:       1024,
			ShutdownTimeout: 5 * time.Second,
		},
		HTTP: HTTPConfig{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Upstream: UpstreamConfig{
			GeocodeURL: "http://api.openweathermap.org/geo/1.0/direct",
			OneCallURL: "https://api.openweathermap.org/data/2.5/onecall",
			Timeout:    10 * time.Second,
		},
		Client: ClientConfig{
			Host:       "127.0.0.1",
			Port:       8888,
			Timeout:    5 * time.Second,
			MaxRetries: 2,
			RetryDelay: 200 * time.Millisecond,
			BufferSize: 16384,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cfg := Defaults()

	if err := p.loadFromFile(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	return cfg, nil
}

func (p *FileConfigProvider) loadFromFile(cfg *Config) error {
	yamlData, err := os.ReadFile(p.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(yamlData, cfg)
}

func (p *FileConfigProvider) Validate(config *Config) error {
	if config.App.Name == "" {
		return errors.New("app.name is required")
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", config.Server.Port)
	}
	if config.Server.BufferSize <= 100 {
		return fmt.Errorf("server.buffer_size must be greater than 100, got %d", config.Server.BufferSize)
	}
	if config.Server.Workers < 0 || config.Server.QueueSize < 0 {
		return errors.New("server.workers and server.queue_size must not be negative")
	}
	if config.Server.OversizePolicy != OversizeChunk && config.Server.OversizePolicy != OversizeTruncate {
		return fmt.Errorf("server.oversize_policy must be %q or %q", OversizeChunk, OversizeTruncate)
	}
	if config.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if config.Client.MaxRetries < 1 {
		return errors.New("client.max_retries must be at least 1")
	}
	if config.Client.Timeout <= 0 {
		return errors.New("client.timeout must be positive")
	}
	if config.Client.BufferSize <= 100 {
		return fmt.Errorf("client.buffer_size must be greater than 100, got %d", config.Client.BufferSize)
	}
	for _, profile := range config.Mock.Profiles {
		if profile.Name == "" {
			return errors.New("mock.profiles[].name is required")
		}
	}
	return nil
}

// NewConfig loads the default config file and the environment.
func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider(DefaultConfigPath))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	config, err := provider.Load()
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
