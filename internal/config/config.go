package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Simulated source configuration.
	SimSeed       int64  // 0 means seed from the clock
	LocationsPath string // optional JSON roster of monitored locations

	// Alert synthesis thresholds.
	PM25AlertThreshold float64 // µg/m³ for the critical air-quality rule
	GasAlertThreshold  float64 // index for the elevated-gas rule

	// Kafka alert publishing (feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED).
	KafkaBrokers         []string
	KafkaAlertTopic      string
	KafkaEnabled         bool
	AlertPublishInterval time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	simSeed, err := parseInt64("SIM_SEED", 0)
	if err != nil {
		return nil, err
	}

	pm25Alert, err := parseFloat("ALERT_PM25_CRITICAL", 85)
	if err != nil {
		return nil, err
	}
	gasAlert, err := parseFloat("ALERT_GAS_ELEVATED", 70)
	if err != nil {
		return nil, err
	}

	publishInterval, err := parseDuration("ALERT_PUBLISH_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SimSeed:       simSeed,
		LocationsPath: os.Getenv("LOCATIONS_PATH"),

		PM25AlertThreshold: pm25Alert,
		GasAlertThreshold:  gasAlert,

		KafkaBrokers:         brokers,
		KafkaAlertTopic:      sharedcfg.EnvOrDefault("KAFKA_ALERT_TOPIC", "situation-alerts"),
		KafkaEnabled:         kafkaEnabled,
		AlertPublishInterval: publishInterval,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseCacheSize(),
	}

	if cfg.PM25AlertThreshold <= 0 {
		return nil, errors.New("ALERT_PM25_CRITICAL must be positive")
	}
	if cfg.GasAlertThreshold <= 0 {
		return nil, errors.New("ALERT_GAS_ELEVATED must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_ALERT_TOPIC is required when Kafka publishing is enabled")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parseDuration(name, fallback string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(name, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return d, nil
}

func parseFloat(name string, fallback float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func parseInt64(name string, fallback int64) (int64, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func parseCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
