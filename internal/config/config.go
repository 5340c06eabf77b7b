package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	InputPath  string
	OutputPath string
	LedgerPath string

	// Optional before/after charts; disabled when empty.
	ChartDir string

	LogLevel        string
	LogFormat       string
	SummaryEnabled  bool
	ShutdownTimeout time.Duration

	// Optional Kafka sink; disabled when no brokers are set.
	KafkaBrokers []string
	KafkaTopic   string

	// Optional Pushgateway; disabled when the URL is empty.
	PushgatewayURL string
	MetricsJob     string
}

// KafkaEnabled reports whether cleaned observations should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	summaryEnabled, err := parseBool("SUMMARY_ENABLED", true)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		InputPath:       sharedcfg.EnvOrDefault("INPUT_PATH", "DataQualityChecking.txt"),
		OutputPath:      sharedcfg.EnvOrDefault("OUTPUT_PATH", "data_qualitychecked.txt"),
		LedgerPath:      sharedcfg.EnvOrDefault("LEDGER_PATH", "data_failed_check_info.txt"),
		ChartDir:        os.Getenv("CHART_DIR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		SummaryEnabled:  summaryEnabled,
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "quality-checked-weather"),
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),
		MetricsJob:      sharedcfg.EnvOrDefault("METRICS_JOB", "weather-qc"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that may also have been overridden by flags.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("INPUT_PATH is required")
	}
	if c.OutputPath == "" {
		return errors.New("OUTPUT_PATH is required")
	}
	if c.LedgerPath == "" {
		return errors.New("LEDGER_PATH is required")
	}
	if c.OutputPath == c.LedgerPath {
		return errors.New("OUTPUT_PATH and LEDGER_PATH must differ")
	}
	if c.KafkaEnabled() && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if c.PushgatewayURL != "" && c.MetricsJob == "" {
		return errors.New("METRICS_JOB is required when PUSHGATEWAY_URL is set")
	}
	return nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New("invalid " + key)
	}
	return v, nil
}
