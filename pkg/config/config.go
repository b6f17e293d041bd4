package config

import (
	"fmt"
	"os"
	"time"

	"CoinPulse/pkg/util"

	"gopkg.in/yaml.v3"
)

// UnitAddress locates one computation unit from the gateway.
type UnitAddress struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logger struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		Output     string `yaml:"output"`
		TimeFormat string `yaml:"time_format"`
	} `yaml:"logger"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
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
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`
	Cache struct {
		Mode        string        `yaml:"mode"` // memory or layered
		ResponseTTL time.Duration `yaml:"response_ttl"`
		ListingTTL  time.Duration `yaml:"listing_ttl"`
	} `yaml:"cache"`
	Catalog struct {
		DefaultLimit  int     `yaml:"default_limit"`
		MaxLimit      int     `yaml:"max_limit"`
		ListingDepth  int     `yaml:"listing_depth"`
		DetailDepth   int     `yaml:"detail_depth"`
		Workers       int     `yaml:"workers"`
		DisplaySupply float64 `yaml:"display_supply"`
	} `yaml:"catalog"`
	Technical struct {
		FetchDepth  int `yaml:"fetch_depth"`
		ShortWindow int `yaml:"short_window"`
		LongWindow  int `yaml:"long_window"`
		EMAWindow   int `yaml:"ema_window"`
		WMAWindow   int `yaml:"wma_window"`
		HMAWindow   int `yaml:"hma_window"`
		RSIPeriod   int `yaml:"rsi_period"`
		MACDFast    int `yaml:"macd_fast"`
		MACDSlow    int `yaml:"macd_slow"`
		MACDSignal  int `yaml:"macd_signal"`
		StochPeriod int `yaml:"stoch_period"`
		StochSmooth int `yaml:"stoch_smooth"`
		CCIPeriod   int `yaml:"cci_period"`
		MFIPeriod   int `yaml:"mfi_period"`
	} `yaml:"technical"`
	Prediction struct {
		FetchDepth   int     `yaml:"fetch_depth"`
		TrainPolicy  string  `yaml:"train_policy"`
		Hidden1      int     `yaml:"hidden1"`
		Hidden2      int     `yaml:"hidden2"`
		LearningRate float64 `yaml:"learning_rate"`
		TrainSplit   float64 `yaml:"train_split"`
	} `yaml:"prediction"`
	Onchain struct {
		FetchDepth      int     `yaml:"fetch_depth"`
		SentimentWindow int     `yaml:"sentiment_window"`
		UpDayThreshold  float64 `yaml:"up_day_threshold"`
		LabelThreshold  float64 `yaml:"label_threshold"`
	} `yaml:"onchain"`
	Gateway struct {
		Units struct {
			Technical  UnitAddress `yaml:"technical"`
			Prediction UnitAddress `yaml:"prediction"`
			Onchain    UnitAddress `yaml:"onchain"`
		} `yaml:"units"`
		RateLimit struct {
			Capacity     float64 `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"ratelimit"`
		Compare struct {
			DefaultDays int `yaml:"default_days"`
			MaxDays     int `yaml:"max_days"`
		} `yaml:"compare"`
	} `yaml:"gateway"`
	Telemetry struct {
		Enabled        bool          `yaml:"enabled"`
		Topic          string        `yaml:"topic"`
		FlushInterval  time.Duration `yaml:"flush_interval"`
		CountThreshold int           `yaml:"count_threshold"`
	} `yaml:"telemetry"`
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

	// Validate required fields
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

	// Override with environment variables
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
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
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("TECHNICAL_UNIT_URL"); v != "" {
		c.Gateway.Units.Technical.BaseURL = v
	}
	if v := os.Getenv("PREDICTION_UNIT_URL"); v != "" {
		c.Gateway.Units.Prediction.BaseURL = v
	}
	if v := os.Getenv("ONCHAIN_UNIT_URL"); v != "" {
		c.Gateway.Units.Onchain.BaseURL = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.ClickHouse.Database == "" {
		return fmt.Errorf("clickhouse.database is required")
	}
	switch c.Cache.Mode {
	case "", "memory", "layered":
	default:
		return fmt.Errorf("cache.mode must be 'memory' or 'layered', got '%s'", c.Cache.Mode)
	}
	if c.Cache.Mode == "layered" && !c.Redis.Enabled {
		return fmt.Errorf("cache.mode 'layered' requires redis.enabled")
	}
	if c.Telemetry.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("telemetry requires redis.enabled")
	}
	return nil
}
