package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	MetricsPort  string
	PostgresDSN  string
	KafkaBrokers []string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	IdempotencyTTL     time.Duration
}

// Load reads an optional config.yaml plus environment overrides, e.g.
// SERVICE_NAME, HTTP_PORT, POSTGRES_DSN, OUTBOX_POLL_INTERVAL.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetDefault("service.name", "bazaar-review")
	v.SetDefault("http.port", "8080")
	v.SetDefault("metrics.port", "9090")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("outbox.poll.interval", "2s")
	v.SetDefault("outbox.batch.size", 100)
	v.SetDefault("idempotency.ttl", "24h")

	cfg := Config{
		ServiceName:        v.GetString("service.name"),
		HTTPPort:           v.GetString("http.port"),
		MetricsPort:        v.GetString("metrics.port"),
		PostgresDSN:        v.GetString("postgres.dsn"),
		KafkaBrokers:       splitBrokers(v.GetString("kafka.brokers")),
		OutboxPollInterval: v.GetDuration("outbox.poll.interval"),
		OutboxBatchSize:    v.GetInt("outbox.batch.size"),
		IdempotencyTTL:     v.GetDuration("idempotency.ttl"),
	}
	if cfg.OutboxPollInterval <= 0 {
		cfg.OutboxPollInterval = 2 * time.Second
	}
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = 100
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}
	return cfg, nil
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}
	return brokers
}
