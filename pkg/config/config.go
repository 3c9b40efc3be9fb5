package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
		// SubmitRate throttles submits per client IP; a zero burst disables it.
		SubmitRate struct {
			Burst        float64 `yaml:"burst" default:"10"`
			RefillPerSec float64 `yaml:"refill_per_sec" default:"2"`
		} `yaml:"submit_rate"`
	} `yaml:"server"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled" default:"true"`
		Path          string        `yaml:"path" default:"/metrics"`
		SlowThreshold time.Duration `yaml:"slow_threshold" default:"2s"`
	} `yaml:"metrics"`
	Log       applogger.Config `yaml:"log"`
	Providers struct {
		BaseURL string `yaml:"base_url"`
		// RequestTimeout bounds one provider call; 0 leaves it unbounded.
		RequestTimeout time.Duration `yaml:"request_timeout" default:"0s"`
		UserAgent      string        `yaml:"user_agent" default:"stockvstrend/1.0"`
		Stocks         struct {
			Path string `yaml:"path" default:"/api/stocks"`
		} `yaml:"stocks"`
		Trends struct {
			Path string `yaml:"path" default:"/api/googletrends"`
		} `yaml:"trends"`
	} `yaml:"providers"`
	Defaults struct {
		Symbol          string `yaml:"symbol" default:"WATT"`
		SearchTerm      string `yaml:"search_term" default:"Energous"`
		DateRange       string `yaml:"date_range" default:"2y"`
		DispatchOnStart bool   `yaml:"dispatch_on_start" default:"true"`
	} `yaml:"defaults"`
	Stream struct {
		PingInterval time.Duration `yaml:"ping_interval" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"stream"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"stockvstrend.channel-results"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"100ms"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		} `yaml:"producer"`
		BufferSize int `yaml:"buffer_size" default:"256"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, applies defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	return parse(b, nil)
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. Validation runs after the overrides, so the environment may
// supply required values the file leaves out.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(b, os.Getenv)
}

func parse(b []byte, getenv func(string) string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if getenv != nil {
		c.applyEnv(getenv)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("STOCKS_API_BASE_URL"); v != "" {
		c.Providers.BaseURL = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("DEFAULT_SYMBOL"); v != "" {
		c.Defaults.Symbol = v
	}
	if v := getenv("DEFAULT_SEARCH_TERM"); v != "" {
		c.Defaults.SearchTerm = v
	}
	if v := getenv("DEFAULT_DATE_RANGE"); v != "" {
		c.Defaults.DateRange = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Providers.BaseURL == "" {
		return fmt.Errorf("providers.base_url is required")
	}
	if _, err := models.ParseDateRange(c.Defaults.DateRange); err != nil {
		return fmt.Errorf("defaults.date_range: %w", err)
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	return nil
}

// DefaultQuery returns the normalized query used by reset.
func (c *Config) DefaultQuery() models.QueryState {
	r, _ := models.ParseDateRange(c.Defaults.DateRange)
	return models.QueryState{
		Symbol:     models.NormalizeSymbol(c.Defaults.Symbol),
		SearchTerm: models.NormalizeSearchTerm(c.Defaults.SearchTerm),
		DateRange:  r,
	}
}
