package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "PAGE"
	configFileName = "page"
)

// Config is the runtime configuration of the page store and its worker.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Search   SearchConfig   `mapstructure:"search"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Log      LogConfig      `mapstructure:"log"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

type DatabaseConfig struct {
	// Driver is sqlite or postgres.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig enables the page cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type CacheConfig struct {
	Compression string `mapstructure:"compression"`
}

// SearchConfig enables meilisearch indexing when URL is set.
type SearchConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Index  string `mapstructure:"index"`
}

// KafkaConfig enables page log publishing when Brokers is set.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type JobsConfig struct {
	PruneSchedule  string        `mapstructure:"prune_schedule"`
	PruneWindow    time.Duration `mapstructure:"prune_window"`
	SearchSchedule string        `mapstructure:"search_schedule"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:page.db?_foreign_keys=on")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)
	v.SetDefault("cache.compression", "lz4")
	v.SetDefault("search.url", "")
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.index", "pages")
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "page-logs")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("jobs.prune_schedule", "@every 10m")
	v.SetDefault("jobs.prune_window", 10*time.Minute)
	v.SetDefault("jobs.search_schedule", "@every 1m")
}

// Load reads the configuration from PAGE_* environment variables and, when present,
// a page.yml file. An explicit path must exist; the default lookup may find nothing.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./.tmp")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// LoadConfig loads the default configuration and exits the process when it is invalid.
func LoadConfig() *Config {
	cfg, err := Load("")
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	return cfg
}
