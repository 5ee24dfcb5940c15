package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
)

const (
	SNAPSHOT_CHAN_BUFF_MIN = 1
	SIM_TRADES_MAX         = 100_000
)

type Config struct {
	VWSPWindow   time.Duration `env:"VWSP_WINDOW" envDefault:"5m" validate:"gt=0"`
	RegistryPath string        `env:"REGISTRY_PATH"`

	SimTrades  int      `env:"SIM_TRADES" envDefault:"200" validate:"gte=0"`
	SimSeed    int64    `env:"SIM_SEED" envDefault:"1"`
	SimSymbols []string `env:"SIM_SYMBOLS" envSeparator:","`

	KafkaBrokers        []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopicAnalytics string   `env:"KAFKA_TOPIC_ANALYTICS" envDefault:"market-analytics" validate:"required"`

	RedisCacheAddr string `env:"REDIS_CACHE_ADDR" validate:"omitempty,hostname_port"`
	RedisCacheUser string `env:"REDIS_CACHE_UN"`
	RedisCachePw   string `env:"REDIS_CACHE_PW"`
	RedisCacheDB   int    `env:"REDIS_CACHE_DB" envDefault:"0" validate:"gte=0,lte=15"`

	RedisPubsubAddr string `env:"REDIS_PUBSUB_ADDR" validate:"omitempty,hostname_port"`
	RedisPubsubUser string `env:"REDIS_PUBSUB_UN"`
	RedisPubsubPw   string `env:"REDIS_PUBSUB_PW"`

	SnapshotChanBuff int `env:"SNAPSHOT_CHAN_BUFF" envDefault:"16"`
}

// LoadConfig reads the configuration from environment. A nil map reads the
// process environment.
func LoadConfig(environment map[string]string, log *logger.Logger) (*Config, error) {
	log.Info("loading configuration from environment")

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		log.Error("failed to parse environment", logger.Error(err))
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				log.Error("invalid configuration value",
					logger.String("field", fieldErr.Field()),
					logger.String("rule", fieldErr.Tag()),
					logger.Any("value", fieldErr.Value()))
			}
		}
		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	if cfg.SnapshotChanBuff < SNAPSHOT_CHAN_BUFF_MIN {
		log.Warn("snapshot channel buffer too low, using minimum value",
			logger.Int("provided", cfg.SnapshotChanBuff),
			logger.Int("min", SNAPSHOT_CHAN_BUFF_MIN))
		cfg.SnapshotChanBuff = SNAPSHOT_CHAN_BUFF_MIN
	}
	if cfg.SimTrades > SIM_TRADES_MAX {
		log.Warn("too many simulated trades requested, using maximum value",
			logger.Int("provided", cfg.SimTrades),
			logger.Int("max", SIM_TRADES_MAX))
		cfg.SimTrades = SIM_TRADES_MAX
	}

	cfg.SimSymbols = compact(cfg.SimSymbols)
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("no Kafka brokers specified, snapshots will not be streamed")
	}
	if cfg.RedisCacheAddr == "" && cfg.RedisPubsubAddr == "" {
		log.Info("no Redis address specified, snapshots will not be cached")
	}

	// Log the configuration (hiding sensitive values)
	log.Info("configuration loaded successfully",
		logger.Duration("vwsp_window", cfg.VWSPWindow),
		logger.String("registry_path", cfg.RegistryPath),
		logger.Int("sim_trades", cfg.SimTrades),
		logger.Int64("sim_seed", cfg.SimSeed),
		logger.Strings("sim_symbols", cfg.SimSymbols),
		logger.Strings("kafka_brokers", cfg.KafkaBrokers),
		logger.String("kafka_topic", cfg.KafkaTopicAnalytics),
		logger.String("redis_cache_addr", cfg.RedisCacheAddr),
		logger.Int("redis_cache_db", cfg.RedisCacheDB),
		logger.String("redis_pubsub_addr", cfg.RedisPubsubAddr),
		logger.Int("snapshot_buff_size", cfg.SnapshotChanBuff))

	return cfg, nil
}

func (c *Config) RedisCacheEnabled() bool {
	return c.RedisCacheAddr != ""
}

func (c *Config) RedisPubsubEnabled() bool {
	return c.RedisPubsubAddr != ""
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// PublishEnabled reports whether any snapshot sink is configured.
func (c *Config) PublishEnabled() bool {
	return c.RedisCacheEnabled() || c.RedisPubsubEnabled() || c.KafkaEnabled()
}

// compact trims entries and drops the empty ones.
func compact(values []string) []string {
	var filtered []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
