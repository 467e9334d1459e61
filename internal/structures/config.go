package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode       uint32 `yaml:"mode" validate:"required|uint"`
	Dir        string `yaml:"dir" validate:"required|unixPath"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

// StoreConfig describes the persistent store. An empty URI keeps the
// process on the in-memory fallback for its whole lifetime.
type StoreConfig struct {
	URI          string        `yaml:"uri"`
	KeyPrefix    string        `yaml:"keyPrefix"`
	PoolSize     int           `yaml:"poolSize" validate:"min:0"`
	DialTimeout  time.Duration `yaml:"dialTimeout"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	Compress     bool          `yaml:"compress"`
}

type MonitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// FreshnessConfig holds default TTLs in seconds applied when a request
// does not carry its own.
type FreshnessConfig struct {
	PracticeTTL int `yaml:"practiceTTL" validate:"min:0"`
	HostingTTL  int `yaml:"hostingTTL" validate:"min:0"`
	BlogTTL     int `yaml:"blogTTL" validate:"min:0"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Store     StoreConfig     `yaml:"store"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Freshness FreshnessConfig `yaml:"freshness"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
