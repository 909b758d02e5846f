package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"MagIntel/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Engine struct {
		Tickers []string `yaml:"tickers"`
		Bucket  struct {
			MinObs    int `yaml:"min_obs"`
			MaxWindow int `yaml:"max_window"`
		} `yaml:"bucket"`
		Features struct {
			CorridorWindow int     `yaml:"corridor_window"`
			ZScoreWindow   int     `yaml:"zscore_window"`
			TrendWindow    int     `yaml:"trend_window"`
			VolWindow      int     `yaml:"vol_window"`
			VolRankWindow  int     `yaml:"vol_rank_window"`
			VolCapQuantile float64 `yaml:"vol_cap_quantile"`
		} `yaml:"features"`
		S0 struct {
			LongMax int `yaml:"long_max"`
			OverMin int `yaml:"over_min"`
		} `yaml:"s0"`
		S1 struct {
			MomBucketMin int `yaml:"mom_bucket_min"`
			MomBucketMax int `yaml:"mom_bucket_max"`
			RevBucketMin int `yaml:"rev_bucket_min"`
			RevBucketMax int `yaml:"rev_bucket_max"`
		} `yaml:"s1"`
		Workers int           `yaml:"workers"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"engine"`
	Research struct {
		SentimentSource string `yaml:"sentiment_source"`
		CacheTTL        struct {
			Signals  time.Duration `yaml:"signals"`
			Evidence time.Duration `yaml:"evidence"`
		} `yaml:"cache_ttl"`
	} `yaml:"research"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		BarsTopic    string   `yaml:"bars_topic"`
		EntriesTopic string   `yaml:"entries_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TICKERS"); v != "" {
		c.Engine.Tickers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BARS_TOPIC"); v != "" {
		c.Kafka.BarsTopic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("SERVER_PORT"), c.Server.Port)
	c.ClickHouse.Port = util.ParseIntDefault(os.Getenv("CLICKHOUSE_PORT"), c.ClickHouse.Port)
	c.Redis.Port = util.ParseIntDefault(os.Getenv("REDIS_PORT"), c.Redis.Port)

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Engine.Tickers) == 0 {
		return fmt.Errorf("engine.tickers cannot be empty")
	}
	if c.Engine.Bucket.MinObs < 0 {
		return fmt.Errorf("engine.bucket.min_obs must be non-negative")
	}
	if q := c.Engine.Features.VolCapQuantile; q < 0 || q > 1 {
		return fmt.Errorf("engine.features.vol_cap_quantile must be in [0,1], got %v", q)
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	return nil
}
