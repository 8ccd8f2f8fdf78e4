package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"90s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimit       struct {
			RPS   float64 `yaml:"rps" default:"10"`
			Burst int     `yaml:"burst" default:"20"`
		} `yaml:"rate_limit"`
		CORS struct {
			AllowOrigins []string      `yaml:"allow_origins" default:"[\"*\"]"`
			MaxAge       time.Duration `yaml:"max_age" default:"10m"`
		} `yaml:"cors"`
	} `yaml:"server"`
	Logging struct {
		Level            string        `yaml:"level" default:"info"`
		Format           string        `yaml:"format" default:"console"`
		Output           string        `yaml:"output" default:"stdout"`
		MaxSizeMB        int           `yaml:"max_size_mb" default:"50"`
		MaxBackups       int           `yaml:"max_backups" default:"5"`
		MaxAgeDays       int           `yaml:"max_age_days" default:"14"`
		Compress         bool          `yaml:"compress"`
		CollectInterval  time.Duration `yaml:"collect_interval" default:"30s"`
		CollectThreshold int           `yaml:"collect_threshold" default:"100"`
	} `yaml:"logging"`
	Providers Providers `yaml:"providers"`
	Sentiment struct {
		Strategy          string  `yaml:"strategy" default:"auto"`
		PositiveThreshold float64 `yaml:"positive_threshold" default:"0.2"`
		NegativeThreshold float64 `yaml:"negative_threshold" default:"-0.2"`
	} `yaml:"sentiment"`
	Forecast struct {
		Strategy    string        `yaml:"strategy" default:"auto"`
		ModelURL    string        `yaml:"model_url"`
		Timeout     time.Duration `yaml:"timeout" default:"20s"`
		Band        float64       `yaml:"band" default:"0.02"`
		DefaultDays int           `yaml:"default_days" default:"30"`
		MaxDays     int           `yaml:"max_days" default:"365"`
	} `yaml:"forecast"`
	Insights struct {
		Strategy      string        `yaml:"strategy" default:"auto"`
		APIKey        string        `yaml:"api_key"`
		BaseURL       string        `yaml:"base_url"`
		Model         string        `yaml:"model" default:"gpt-3.5-turbo"`
		Temperature   float32       `yaml:"temperature" default:"0.3"`
		MaxTokens     int           `yaml:"max_tokens" default:"500"`
		Timeout       time.Duration `yaml:"timeout" default:"30s"`
		MaxItems      int           `yaml:"max_items" default:"20"`
		ItemChars     int           `yaml:"item_chars" default:"300"`
		TemplateItems int           `yaml:"template_items" default:"6"`
		TemplateChars int           `yaml:"template_chars" default:"140"`
	} `yaml:"insights"`
	Dataset struct {
		Dir             string `yaml:"dir" default:"data"`
		Seed            int64  `yaml:"seed" default:"1337"`
		RowsPerCategory int    `yaml:"rows_per_category" default:"100"`
		// AnchorDate pins generated dates (YYYY-MM-DD); empty means today.
		AnchorDate string `yaml:"anchor_date"`
	} `yaml:"dataset"`
	Alerts struct {
		LogPath string `yaml:"log_path" default:"logs/alerts.log"`
	} `yaml:"alerts"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		AlertsTopic  string   `yaml:"alerts_topic" default:"marketpulse.alerts"`
		LogTopic     string   `yaml:"log_topic" default:"marketpulse.logs"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"200ms"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"marketpulse-alerts-archiver"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"marketpulse"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert" default:"true"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
		ConnectAttempts  int           `yaml:"connect_attempts" default:"5"`
		ConnectDelay     time.Duration `yaml:"connect_delay" default:"1s"`
	} `yaml:"clickhouse"`
}

// Providers configures the content provider adapters and their retry policy.
type Providers struct {
	MaxAttempts int           `yaml:"max_attempts" default:"3"`
	BaseDelay   time.Duration `yaml:"base_delay" default:"500ms"`
	MaxJitter   time.Duration `yaml:"max_jitter" default:"200ms"`
	Timeout     time.Duration `yaml:"timeout" default:"30s"`
	UserAgent   string        `yaml:"user_agent" default:"InSightIQ/1.0"`
	NewsOrder   []string      `yaml:"news_order" default:"[\"gnews\",\"serp\"]"`
	Social      []string      `yaml:"social" default:"[\"twitter\",\"reddit\"]"`
	SocialLimit int           `yaml:"social_limit" default:"20"`
	CacheTTL    time.Duration `yaml:"cache_ttl" default:"2m"`
	Keys        struct {
		GNews        string `yaml:"gnews"`
		SerpAPI      string `yaml:"serpapi"`
		Twitter      string `yaml:"twitter"`
		Finnhub      string `yaml:"finnhub"`
		AlphaVantage string `yaml:"alphavantage"`
	} `yaml:"keys"`
	// BaseURLs override provider endpoints (tests, proxies). Keyed by adapter name.
	BaseURLs map[string]string `yaml:"base_urls"`
}

const (
	StrategyAuto     = "auto"
	StrategyModel    = "model"
	StrategyLexicon  = "lexicon"
	StrategyNaive    = "naive"
	StrategyLLM      = "llm"
	StrategyTemplate = "template"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML (or defaults when path is empty) and
// overrides credentials and infrastructure addresses from the environment.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c = Default()
	} else if c, err = Load(path); err != nil {
		return nil, err
	}

	c.ApplyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv copies non-empty environment values over the file configuration.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Providers.Keys.GNews, "GNEWS_API_KEY")
	set(&c.Providers.Keys.SerpAPI, "SERPAPI_KEY")
	set(&c.Providers.Keys.Twitter, "TWITTER_BEARER_TOKEN")
	set(&c.Providers.Keys.Finnhub, "FINNHUB_KEY")
	set(&c.Providers.Keys.AlphaVantage, "ALPHAVANTAGE_KEY")
	set(&c.Insights.APIKey, "OPENAI_API_KEY")
	set(&c.Forecast.ModelURL, "FORECAST_MODEL_URL")
	set(&c.Dataset.Dir, "DATA_DIR")
	set(&c.Redis.Addr, "REDIS_ADDR")
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Providers.MaxAttempts < 1 {
		return fmt.Errorf("providers.max_attempts must be >= 1, got %d", c.Providers.MaxAttempts)
	}
	if c.Providers.BaseDelay < 0 || c.Providers.MaxJitter < 0 {
		return fmt.Errorf("providers delays must not be negative")
	}
	if len(c.Providers.NewsOrder) == 0 && len(c.Providers.Social) == 0 {
		return fmt.Errorf("providers: at least one news or social adapter is required")
	}
	if !(c.Sentiment.NegativeThreshold < 0 && c.Sentiment.PositiveThreshold > 0) {
		return fmt.Errorf("sentiment thresholds must satisfy negative < 0 < positive, got %v/%v",
			c.Sentiment.NegativeThreshold, c.Sentiment.PositiveThreshold)
	}
	if err := oneOf("sentiment.strategy", c.Sentiment.Strategy, StrategyAuto, StrategyModel, StrategyLexicon); err != nil {
		return err
	}
	if err := oneOf("forecast.strategy", c.Forecast.Strategy, StrategyAuto, StrategyModel, StrategyNaive); err != nil {
		return err
	}
	if err := oneOf("insights.strategy", c.Insights.Strategy, StrategyAuto, StrategyLLM, StrategyTemplate); err != nil {
		return err
	}
	if c.Forecast.Band <= 0 || c.Forecast.Band >= 1 {
		return fmt.Errorf("forecast.band must be in (0,1), got %v", c.Forecast.Band)
	}
	if c.Forecast.Strategy == StrategyModel && c.Forecast.ModelURL == "" {
		return fmt.Errorf("forecast.model_url is required when forecast.strategy is model")
	}
	if c.Dataset.Dir == "" {
		return fmt.Errorf("dataset.dir is required")
	}
	if c.Dataset.RowsPerCategory < 1 {
		return fmt.Errorf("dataset.rows_per_category must be >= 1")
	}
	if c.Dataset.AnchorDate != "" {
		if _, err := time.Parse("2006-01-02", c.Dataset.AnchorDate); err != nil {
			return fmt.Errorf("dataset.anchor_date: %w", err)
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}

func oneOf(field, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got '%s'", field, strings.Join(allowed, ", "), v)
}
