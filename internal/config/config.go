package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendHuggingFace = "huggingface"
	BackendAnthropic   = "anthropic"
	BackendOpenAI      = "openai"

	defaultHFBaseURL = "https://api-inference.huggingface.co/models"
)

type Config struct {
	Port     string `mapstructure:"port" yaml:"port"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// APIKey, when set, is required as a bearer token on /api routes.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// Hugging Face inference
	HFAPIToken     string `mapstructure:"hf_api_token" yaml:"hf_api_token"`
	HFBaseURL      string `mapstructure:"hf_base_url" yaml:"hf_base_url"`
	SentimentModel string `mapstructure:"sentiment_model" yaml:"sentiment_model"`
	EmotionModel   string `mapstructure:"emotion_model" yaml:"emotion_model"`
	SummaryModel   string `mapstructure:"summary_model" yaml:"summary_model"`
	QAModel        string `mapstructure:"qa_model" yaml:"qa_model"`

	// Backend for summaries and question answering
	GenerativeBackend string `mapstructure:"generative_backend" yaml:"generative_backend"`
	AnthropicAPIKey   string `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`
	AnthropicModel    string `mapstructure:"anthropic_model" yaml:"anthropic_model"`
	OpenAIAPIKey      string `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	OpenAIBaseURL     string `mapstructure:"openai_base_url" yaml:"openai_base_url"`
	OpenAIModel       string `mapstructure:"openai_model" yaml:"openai_model"`

	// Model call guard
	ModelTimeout        time.Duration `mapstructure:"model_timeout" yaml:"model_timeout"`
	ModelRateLimit      float64       `mapstructure:"model_rate_limit" yaml:"model_rate_limit"`
	ModelRateBurst      int           `mapstructure:"model_rate_burst" yaml:"model_rate_burst"`
	BreakerEnabled      bool          `mapstructure:"breaker_enabled" yaml:"breaker_enabled"`
	BreakerMinRequests  uint32        `mapstructure:"breaker_min_requests" yaml:"breaker_min_requests"`
	BreakerFailureRatio float64       `mapstructure:"breaker_failure_ratio" yaml:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `mapstructure:"breaker_open_timeout" yaml:"breaker_open_timeout"`

	// Worker pool
	WorkerCount  int `mapstructure:"worker_count" yaml:"worker_count"`
	MaxQueueSize int `mapstructure:"max_queue_size" yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`

	// Job and result state
	JobTTL   time.Duration `mapstructure:"job_ttl" yaml:"job_ttl"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`

	ContinueOnError bool `mapstructure:"continue_on_error" yaml:"continue_on_error"`

	// PDF
	PDFFallbackPdftotext bool `mapstructure:"pdf_fallback_pdftotext" yaml:"pdf_fallback_pdftotext"`
}

var defaults = map[string]any{
	"port":                   "8090",
	"log_level":              "info",
	"api_key":                "",
	"hf_api_token":           "",
	"hf_base_url":            defaultHFBaseURL,
	"sentiment_model":        "distilbert-base-uncased-finetuned-sst-2-english",
	"emotion_model":          "j-hartmann/emotion-english-distilroberta-base",
	"summary_model":          "facebook/bart-large-cnn",
	"qa_model":               "distilbert-base-cased-distilled-squad",
	"generative_backend":     BackendHuggingFace,
	"anthropic_api_key":      "",
	"anthropic_model":        "claude-3-5-haiku-latest",
	"openai_api_key":         "",
	"openai_base_url":        "",
	"openai_model":           "gpt-4o-mini",
	"model_timeout":          "120s",
	"model_rate_limit":       0.0,
	"model_rate_burst":       1,
	"breaker_enabled":        true,
	"breaker_min_requests":   5,
	"breaker_failure_ratio":  0.6,
	"breaker_open_timeout":   "30s",
	"worker_count":           2,
	"max_queue_size":         100,
	"max_upload_bytes":       10 << 20, // 10MB
	"job_ttl":                "1h",
	"cache_ttl":              "1h",
	"continue_on_error":      false,
	"pdf_fallback_pdftotext": true,
}

// Load reads configuration from, highest priority first: the environment, a
// .env file in the working directory, the config file, and defaults. An
// empty configFile searches for clausewise.yaml in . and ~/.clausewise.
func Load(configFile string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("clausewise")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.clausewise")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.GenerativeBackend = strings.ToLower(strings.TrimSpace(c.GenerativeBackend))
	if c.GenerativeBackend == "" {
		c.GenerativeBackend = BackendHuggingFace
	}
	if c.HFBaseURL == "" {
		c.HFBaseURL = defaultHFBaseURL
	}
	if c.ModelTimeout <= 0 {
		c.ModelTimeout = 120 * time.Second
	}
	if c.ModelRateBurst <= 0 {
		c.ModelRateBurst = 1
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 2
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 100
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 10 << 20
	}
	if c.JobTTL <= 0 {
		c.JobTTL = time.Hour
	}
}

// SelfHostedInference reports whether HF_BASE_URL points somewhere other
// than the public inference API.
func (c Config) SelfHostedInference() bool {
	return strings.TrimRight(c.HFBaseURL, "/") != defaultHFBaseURL
}

func (c Config) Validate() error {
	if c.HFAPIToken == "" && !c.SelfHostedInference() {
		return fmt.Errorf("HF_API_TOKEN is required")
	}
	switch c.GenerativeBackend {
	case BackendHuggingFace:
	case BackendAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic backend")
		}
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
	default:
		return fmt.Errorf("unknown GENERATIVE_BACKEND %q", c.GenerativeBackend)
	}
	if c.BreakerFailureRatio < 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be between 0 and 1")
	}
	return nil
}

// Redacted returns a copy with secrets masked, for display.
func (c Config) Redacted() Config {
	c.APIKey = mask(c.APIKey)
	c.HFAPIToken = mask(c.HFAPIToken)
	c.AnthropicAPIKey = mask(c.AnthropicAPIKey)
	c.OpenAIAPIKey = mask(c.OpenAIAPIKey)
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to Info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
