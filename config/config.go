package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del resolver.
type Config struct {
	Resolver ResolverConfig `yaml:"resolver"`
	API      APIConfig      `yaml:"api"`
	Esports  EsportsConfig  `yaml:"esports"`
	Sports   SportsConfig   `yaml:"sports"`
	Storage  StorageConfig  `yaml:"storage"`
	Lock     LockConfig     `yaml:"lock"`
	Log      LogConfig      `yaml:"log"`
}

// ResolverConfig controla el ciclo de resolución.
type ResolverConfig struct {
	IntervalSeconds    int    `yaml:"interval_seconds"`
	DispatchWorkers    int    `yaml:"dispatch_workers"`
	FeedTimeoutSeconds int    `yaml:"feed_timeout_seconds"`
	DrawPolicy         string `yaml:"draw_policy"`      // no | hold
	StuckAfterRuns     int    `yaml:"stuck_after_runs"` // 0 = no avisar
	LockTTLSeconds     int    `yaml:"lock_ttl_seconds"`
}

// APIConfig apunta al market store.
type APIConfig struct {
	MarketBase     string  `yaml:"market_base"`
	APIKey         string  `yaml:"api_key"` // mejor vía RESOLVER_API_KEY
	RatePerSec     float64 `yaml:"rate_per_sec"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// EsportsConfig configura los feeds de esports.
type EsportsConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Token      string   `yaml:"token"` // mejor vía ESPORTS_API_TOKEN
	Games      []string `yaml:"games"` // un feed de terminados por juego
	Pages      int      `yaml:"pages"`
	RatePerSec float64  `yaml:"rate_per_sec"`
}

// SportsConfig configura los scoreboards deportivos.
type SportsConfig struct {
	BaseURL      string   `yaml:"base_url"`
	Leagues      []string `yaml:"leagues"` // "basketball/nba", "soccer/esp.1", ...
	LookbackDays int      `yaml:"lookback_days"`
	RatePerSec   float64  `yaml:"rate_per_sec"`
}

// StorageConfig controla dónde se persiste el historial.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LockConfig configura el lock distribuido. Sin dirección no hay lock.
type LockConfig struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// Parse decodifica YAML, aplica overrides de entorno y defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if cfg.Resolver.DrawPolicy != "no" && cfg.Resolver.DrawPolicy != "hold" {
		return nil, fmt.Errorf("invalid draw_policy %q", cfg.Resolver.DrawPolicy)
	}
	return &cfg, nil
}

// Interval devuelve el intervalo entre ejecuciones.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Resolver.IntervalSeconds) * time.Second
}

// FeedTimeout devuelve el timeout por feed.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.Resolver.FeedTimeoutSeconds) * time.Second
}

// LockTTL devuelve el TTL del lock de ejecución.
func (c *Config) LockTTL() time.Duration {
	return time.Duration(c.Resolver.LockTTLSeconds) * time.Second
}

// HTTPTimeout devuelve el timeout por petición HTTP.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RESOLVER_API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
	if v := os.Getenv("ESPORTS_API_TOKEN"); v != "" {
		cfg.Esports.Token = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Lock.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Lock.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Lock.RedisDB = n
		}
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Resolver.IntervalSeconds <= 0 {
		cfg.Resolver.IntervalSeconds = 300
	}
	if cfg.Resolver.DispatchWorkers <= 0 {
		cfg.Resolver.DispatchWorkers = 4
	}
	if cfg.Resolver.FeedTimeoutSeconds <= 0 {
		cfg.Resolver.FeedTimeoutSeconds = 20
	}
	if cfg.Resolver.DrawPolicy == "" {
		cfg.Resolver.DrawPolicy = "no"
	}
	if cfg.Resolver.StuckAfterRuns < 0 {
		cfg.Resolver.StuckAfterRuns = 0
	}
	if cfg.Resolver.LockTTLSeconds <= 0 {
		cfg.Resolver.LockTTLSeconds = 600
	}
	if cfg.API.MarketBase == "" {
		cfg.API.MarketBase = "http://localhost:8080/api"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 10
	}
	if cfg.API.RatePerSec <= 0 {
		cfg.API.RatePerSec = 10
	}
	if cfg.Esports.BaseURL == "" {
		cfg.Esports.BaseURL = "https://api.pandascore.co"
	}
	if cfg.Esports.Pages <= 0 {
		cfg.Esports.Pages = 2
	}
	if cfg.Esports.RatePerSec <= 0 {
		cfg.Esports.RatePerSec = 2 // free tier: 1000 req/h
	}
	if cfg.Sports.BaseURL == "" {
		cfg.Sports.BaseURL = "https://site.api.espn.com/apis/site/v2/sports"
	}
	if cfg.Sports.LookbackDays <= 0 {
		cfg.Sports.LookbackDays = 3
	}
	if cfg.Sports.RatePerSec <= 0 {
		cfg.Sports.RatePerSec = 5
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "resolver.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
