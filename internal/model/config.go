package model

import "time"

// Config holds the complete tramita configuration.
type Config struct {
	Extraction   ExtractionConfig  `yaml:"extraction" mapstructure:"extraction"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	OCR          OCRConfig         `yaml:"ocr" mapstructure:"ocr"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// ExtractionConfig holds caller-supplied defaults for the metadata engine.
type ExtractionConfig struct {
	// AuthorityHint is the default issuing authority; a pattern match in
	// the document still overrides it.
	AuthorityHint string `yaml:"authority_hint" mapstructure:"authority_hint"`

	// MunicipalityHint wins outright when supplied.
	MunicipalityHint string `yaml:"municipality_hint" mapstructure:"municipality_hint"`
}

// HTTPConfig holds settings for fetching remote documents.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// OCRConfig holds settings for the external text-extraction service.
type OCRConfig struct {
	// Endpoint is the base URL of the OCR service. Empty disables OCR;
	// binary documents then fail with an explicit error.
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig holds worker counts for batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig holds per-host rate limits for remote fetches.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LLMConfig holds optional narrative generation settings.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // Never persisted; env var only
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	// RedactIndicators keeps raw matched fragments out of LLM prompts.
	// Always true unless explicitly disabled for local providers.
	RedactIndicators bool `yaml:"redact_indicators" mapstructure:"redact_indicators"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Tramita/0.1 (+https://github.com/jcarril/tramita)",
			MaxBodyBytes: 10_000_000,
		},
		OCR: OCRConfig{
			Timeout: 60 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Resolved to ~/.tramita/cache at startup
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:         "", // Disabled by default
			Timeout:          30,
			MaxTokens:        1000,
			RedactIndicators: true,
		},
	}
}
