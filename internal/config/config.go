package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/flood-response-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"
)

// Storage backends selectable through STORAGE_TYPE.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds all service settings, populated from environment variables
// and an optional YAML file named by FLOOD_CONFIG.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Alert store persistence.
	StorageType   string
	StoreKey      string
	SQLitePath    string
	RedisURL      string
	RedisPassword string
	RedisDB       int
	PostgresDSN   string

	// Static catalogs. Empty paths use the embedded defaults.
	ZonesPath    string
	SheltersPath string

	ExportEscaping domain.ExportEscaping

	// Alert event publishing.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Mapbox reverse geocoding for shelters.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// fileConfig is the FLOOD_CONFIG overlay. Environment variables win over
// file values, which win over built-in defaults.
type fileConfig struct {
	HTTPAddr        string `yaml:"http_addr"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	StorageType     string `yaml:"storage_type"`
	StoreKey        string `yaml:"store_key"`
	SQLitePath      string `yaml:"sqlite_path"`
	RedisURL        string `yaml:"redis_url"`
	RedisDB         string `yaml:"redis_db"`
	PostgresDSN     string `yaml:"postgres_dsn"`
	ZonesPath       string `yaml:"zones_path"`
	SheltersPath    string `yaml:"shelters_path"`
	ExportEscaping  string `yaml:"export_escaping"`
	KafkaBrokers    string `yaml:"kafka_brokers"`
	KafkaTopic      string `yaml:"kafka_topic"`
	MapboxTimeout   string `yaml:"mapbox_timeout"`
	MapboxCacheSize string `yaml:"mapbox_cache_size"`
}

// Load reads configuration, applying defaults where unset.
func Load() (*Config, error) {
	file, err := loadFile(os.Getenv("FLOOD_CONFIG"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseShutdownTimeout(file.ShutdownTimeout)
	if err != nil {
		return nil, err
	}

	mapboxTimeoutStr := sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", orDefault(file.MapboxTimeout, "5s"))
	mapboxTimeout, err := time.ParseDuration(mapboxTimeoutStr)
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	redisDB, err := strconv.Atoi(sharedcfg.EnvOrDefault("REDIS_DB", orDefault(file.RedisDB, "0")))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB: must be a non-negative integer")
	}

	escapingStr := sharedcfg.EnvOrDefault("EXPORT_ESCAPING", orDefault(file.ExportEscaping, string(domain.EscapingLegacy)))
	escaping, ok := domain.ParseExportEscaping(escapingStr)
	if !ok {
		return nil, fmt.Errorf("invalid EXPORT_ESCAPING %q: want legacy or rfc4180", escapingStr)
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	var kafkaBrokers []string
	if s := sharedcfg.EnvOrDefault("KAFKA_BROKERS", file.KafkaBrokers); s != "" {
		kafkaBrokers = sharedcfg.ParseBrokers(s)
	}
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", orDefault(file.HTTPAddr, ":8080")),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", orDefault(file.LogLevel, "info")),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", orDefault(file.LogFormat, "json")),
		ShutdownTimeout: shutdownTimeout,

		StorageType:   strings.ToLower(sharedcfg.EnvOrDefault("STORAGE_TYPE", orDefault(file.StorageType, StorageSQLite))),
		StoreKey:      sharedcfg.EnvOrDefault("STORE_KEY", orDefault(file.StoreKey, "floodAlerts")),
		SQLitePath:    sharedcfg.EnvOrDefault("SQLITE_PATH", orDefault(file.SQLitePath, "flood-alerts.db")),
		RedisURL:      sharedcfg.EnvOrDefault("REDIS_URL", orDefault(file.RedisURL, "localhost:6379")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		PostgresDSN:   sharedcfg.EnvOrDefault("POSTGRES_DSN", file.PostgresDSN),

		ZonesPath:    sharedcfg.EnvOrDefault("ZONES_PATH", file.ZonesPath),
		SheltersPath: sharedcfg.EnvOrDefault("SHELTERS_PATH", file.SheltersPath),

		ExportEscaping: escaping,

		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", orDefault(file.KafkaTopic, "flood-alert-events")),
		KafkaEnabled: kafkaEnabled,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(file.MapboxCacheSize),
	}

	switch cfg.StorageType {
	case StorageMemory, StorageSQLite, StorageRedis, StoragePostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_TYPE %q: want memory, sqlite, redis or postgres", cfg.StorageType)
	}
	if cfg.StoreKey == "" {
		return nil, errors.New("STORE_KEY is required")
	}
	if cfg.StorageType == StoragePostgres && cfg.PostgresDSN == "" {
		return nil, errors.New("STORAGE_TYPE is postgres but POSTGRES_DSN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read FLOOD_CONFIG: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse FLOOD_CONFIG %s: %w", path, err)
	}
	return fc, nil
}

// parseShutdownTimeout prefers the SHUTDOWN_TIMEOUT variable and falls back
// to the file value.
func parseShutdownTimeout(fromFile string) (time.Duration, error) {
	if os.Getenv("SHUTDOWN_TIMEOUT") != "" || fromFile == "" {
		return sharedcfg.ParseShutdownTimeout()
	}
	d, err := time.ParseDuration(fromFile)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q in FLOOD_CONFIG", fromFile)
	}
	return d, nil
}

func parseMapboxCacheSize(fromFile string) int {
	s := sharedcfg.EnvOrDefault("MAPBOX_CACHE_SIZE", fromFile)
	if s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
