package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Climate service backends.
const (
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

// Config holds all batch settings, populated from environment variables.
type Config struct {
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Climate service configuration.
	ClimateBackend    string
	ClimateDSN        string
	ClimateDBHost     string
	ClimateDBUser     string
	ClimateDBPassword string
	ClimateDBName     string
	ClimateAPIURL     string
	ClimateAPIToken   string
	ClimateTimeout    time.Duration
	ClimateCacheSize  int

	// Optional report publishing to Kafka.
	KafkaBrokers       []string
	KafkaSinkTopic     string
	BatchSize          int
	BatchFlushInterval time.Duration

	HTTPAddr       string
	PushgatewayURL string
}

// PublishEnabled reports whether report rows are published to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	climateTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("CLIMATE_TIMEOUT", "30s"))
	if err != nil || climateTimeout <= 0 {
		return nil, errors.New("invalid CLIMATE_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ClimateBackend:    sharedcfg.EnvOrDefault("CLIMATE_BACKEND", BackendMySQL),
		ClimateDSN:        os.Getenv("CLIMATE_DB_DSN"),
		ClimateDBHost:     os.Getenv("CLIMATE_DB_HOST"),
		ClimateDBUser:     os.Getenv("CLIMATE_DB_USER"),
		ClimateDBPassword: os.Getenv("CLIMATE_DB_PASSWORD"),
		ClimateDBName:     os.Getenv("CLIMATE_DB_NAME"),
		ClimateAPIURL:     os.Getenv("CLIMATE_API_URL"),
		ClimateAPIToken:   os.Getenv("CLIMATE_API_TOKEN"),
		ClimateTimeout:    climateTimeout,
		ClimateCacheSize:  cacheSize,

		KafkaBrokers:       brokers,
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "climate-stress-reports"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
	}

	if err := cfg.validateBackend(); err != nil {
		return nil, err
	}
	if cfg.PublishEnabled() && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func (c *Config) validateBackend() error {
	switch c.ClimateBackend {
	case BackendMySQL:
		if c.ClimateDSN == "" && (c.ClimateDBHost == "" || c.ClimateDBName == "") {
			return errors.New("CLIMATE_DB_DSN or CLIMATE_DB_HOST and CLIMATE_DB_NAME are required for the mysql backend")
		}
	case BackendSQLite:
		if c.ClimateDSN == "" {
			return errors.New("CLIMATE_DB_DSN is required for the sqlite backend")
		}
	case BackendHTTP:
		if c.ClimateAPIURL == "" {
			return errors.New("CLIMATE_API_URL is required for the http backend")
		}
	default:
		return fmt.Errorf("unsupported CLIMATE_BACKEND %q", c.ClimateBackend)
	}
	return nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("CLIMATE_CACHE_SIZE")
	if s == "" {
		return 1000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid CLIMATE_CACHE_SIZE")
	}
	return n, nil
}
