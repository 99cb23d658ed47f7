// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultQuery = "Analyze this financial document for investment insights"

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port              int           `yaml:"port"`
	MaxUploadMB       int64         `yaml:"max_upload_mb"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AIConfig struct {
	// Provider forces a backend (gemini|vertex|openai|noop); empty picks by configured keys.
	Provider        string            `yaml:"provider"`
	Model           string            `yaml:"model"`
	Temperature     *float64          `yaml:"temperature"` // nil = default; 0 is honoured
	MaxOutputTokens int               `yaml:"max_output_tokens"`
	GeminiKey       string            `yaml:"gemini_key"`
	GeminiURL       string            `yaml:"gemini_url"`
	VertexProject   string            `yaml:"vertex_project"`
	VertexLocation  string            `yaml:"vertex_location"`
	OpenAIKey       string            `yaml:"openai_key"`
	OpenAIBaseURL   string            `yaml:"openai_base_url"`
	ModelProviders  map[string]string `yaml:"model_providers"`  // model -> provider
	ConcurrentLimit int               `yaml:"concurrent_limit"` // max concurrent AI calls
	MaxRetries      int               `yaml:"max_retries"`
	RetryBackoff    time.Duration     `yaml:"retry_backoff"`
	MaxPromptTokens int               `yaml:"max_prompt_tokens"` // 0 disables the budget
}

type PipelineConfig struct {
	Tasks        []string      `yaml:"tasks"`
	Timeout      time.Duration `yaml:"timeout"` // 0 = no timeout
	DefaultQuery string        `yaml:"default_query"`
}

type ToolsConfig struct {
	InvestmentForwardCleaned bool `yaml:"investment_forward_cleaned"`
}

type StorageConfig struct {
	DataDir       string        `yaml:"data_dir"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	MaxAge        time.Duration `yaml:"max_age"`
}

type RedisConfig struct {
	URL       string        `yaml:"url"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	RateLimit int           `yaml:"rate_limit"` // requests per window per client; 0 disables
	Window    time.Duration `yaml:"window"`
}

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	AI       AIConfig       `yaml:"ai"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Tools    ToolsConfig    `yaml:"tools"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, expanding ${VAR} references from the
// environment. A missing file is not an error: defaults and environment apply.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 32
	}
	if c.HTTP.ReadHeaderTimeout <= 0 {
		c.HTTP.ReadHeaderTimeout = 10 * time.Second
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 15 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if c.AI.Model == "" {
		c.AI.Model = "gemini/gemini-1.5-flash"
	}
	if c.AI.Temperature == nil {
		t := 0.2
		c.AI.Temperature = &t
	}
	if c.AI.MaxOutputTokens <= 0 {
		c.AI.MaxOutputTokens = 2048
	}
	if c.AI.GeminiKey == "" {
		c.AI.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.AI.OpenAIKey == "" {
		c.AI.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.AI.VertexLocation == "" {
		c.AI.VertexLocation = "us-central1"
	}
	if c.AI.ConcurrentLimit <= 0 {
		c.AI.ConcurrentLimit = 16
	}
	if c.AI.MaxRetries < 0 {
		c.AI.MaxRetries = 0
	}
	if c.AI.RetryBackoff <= 0 {
		c.AI.RetryBackoff = 500 * time.Millisecond
	}
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))

	if len(c.Pipeline.Tasks) == 0 {
		c.Pipeline.Tasks = []string{"financial_analysis"}
	}
	if strings.TrimSpace(c.Pipeline.DefaultQuery) == "" {
		c.Pipeline.DefaultQuery = DefaultQuery
	}

	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Storage.SweepInterval <= 0 {
		c.Storage.SweepInterval = 10 * time.Minute
	}
	if c.Storage.MaxAge <= 0 {
		c.Storage.MaxAge = time.Hour
	}
	if c.Redis.Window <= 0 {
		c.Redis.Window = time.Minute
	}
}

// Validate checks settings that have no sensible default.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "", "gemini", "vertex", "openai", "noop":
	default:
		return fmt.Errorf("ai.provider %q is not supported", c.AI.Provider)
	}
	if c.AI.Provider == "vertex" && c.AI.VertexProject == "" {
		return errors.New("ai.vertex_project is required for the vertex provider")
	}
	if c.AI.Provider == "" && c.AI.GeminiKey == "" && c.AI.OpenAIKey == "" && c.AI.VertexProject == "" && !c.Runtime.Dev {
		return errors.New("no AI provider configured: set ai.gemini_key, ai.openai_key or ai.vertex_project (or run with -dev)")
	}
	if t := c.AI.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("ai.temperature %v out of range [0,2]", *t)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.Redis.RateLimit > 0 && c.Redis.URL == "" {
		return errors.New("redis.url is required when redis.rate_limit is set")
	}
	return nil
}
