package config

import (
	"errors"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dashboard presentation.
	DashboardTitle string
	MapHeight      string

	// Region totals publishing.
	PublishEnabled    bool
	KafkaBrokers      []string
	KafkaSummaryTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("DATA_PATH", "data/covid_cases.csv"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DashboardTitle: sharedcfg.EnvOrDefault("DASHBOARD_TITLE", "WHO COVID-19 Data"),
		MapHeight:      sharedcfg.EnvOrDefault("MAP_HEIGHT", "600px"),

		PublishEnabled:    os.Getenv("PUBLISH_ENABLED") == "true",
		KafkaBrokers:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSummaryTopic: sharedcfg.EnvOrDefault("KAFKA_SUMMARY_TOPIC", "covid-region-totals"),
	}

	if strings.TrimSpace(cfg.DataPath) == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if !strings.HasSuffix(cfg.MapHeight, "px") && !strings.HasSuffix(cfg.MapHeight, "vh") {
		return nil, errors.New("MAP_HEIGHT must be a CSS length in px or vh")
	}
	if cfg.PublishEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("PUBLISH_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSummaryTopic == "" {
			return nil, errors.New("PUBLISH_ENABLED is true but KAFKA_SUMMARY_TOPIC is empty")
		}
	}

	return cfg, nil
}
