package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/pdf-study/internal/logger"
)

// Remote providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"
	ProviderOff         = "off"
)

// Providers lists the accepted values of RemoteConfig.Provider.
var Providers = []string{ProviderHuggingFace, ProviderGemini, ProviderOpenAI, ProviderOff}

// ErrMissingAPIKey is returned by Validate when a remote provider is
// selected without credentials. Callers may treat it as a warning and
// switch to ProviderOff.
var ErrMissingAPIKey = errors.New("missing API key")

const (
	DefaultHFEndpoint = "https://api-inference.huggingface.co/models/ibm-granite/granite-3.1-2b-instruct"
	DefaultHFModel    = "ibm-granite/granite-3.1-2b-instruct"
	DefaultGemini     = "gemini-2.5-flash"
	DefaultOpenAI     = "gpt-4o-mini"
)

type RetryPolicy struct {
	MaxRetries    int           `yaml:"max_retries"`
	BackoffFactor time.Duration `yaml:"backoff_factor"`
	StatusCodes   []int         `yaml:"status_codes"`
}

type RemoteConfig struct {
	Provider          string        `yaml:"provider"`
	Endpoint          string        `yaml:"endpoint"`
	APIKey            string        `yaml:"api_key"`
	Model             string        `yaml:"model"`
	Timeout           time.Duration `yaml:"timeout"`
	Retry             RetryPolicy   `yaml:"retry"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Temperature       float64       `yaml:"temperature"`
}

type PDFConfig struct {
	MaxFileMB int  `yaml:"max_file_mb"`
	MaxPages  int  `yaml:"max_pages"`
	Clean     bool `yaml:"clean"`
}

type Config struct {
	Remote RemoteConfig  `yaml:"remote"`
	PDF    PDFConfig     `yaml:"pdf"`
	Log    logger.Config `yaml:"log"`
}

// Default returns the built-in configuration. Endpoint, model and key are
// left empty; Resolve fills them for the selected provider.
func Default() *Config {
	return &Config{
		Remote: RemoteConfig{
			Provider: ProviderHuggingFace,
			Timeout:  30 * time.Second,
			Retry: RetryPolicy{
				MaxRetries:    3,
				BackoffFactor: time.Second,
				StatusCodes:   []int{429, 500, 502, 503, 504},
			},
			Temperature: 0.3,
		},
		PDF: PDFConfig{
			MaxFileMB: 10,
			MaxPages:  50,
		},
		Log: logger.Config{Level: "info"},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and the environment (including a .env file), in that order.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	r := &cfg.Remote
	r.Provider = strings.ToLower(getEnv("PDFSTUDY_PROVIDER", r.Provider))
	r.Endpoint = getEnv("PDFSTUDY_ENDPOINT", r.Endpoint)
	r.APIKey = getEnv("PDFSTUDY_API_KEY", r.APIKey)
	r.Model = getEnv("PDFSTUDY_MODEL", r.Model)
	r.Timeout = getEnvSeconds("PDFSTUDY_TIMEOUT_SECONDS", r.Timeout)
	r.Retry.MaxRetries = getEnvInt("PDFSTUDY_MAX_RETRIES", r.Retry.MaxRetries)
	r.RequestsPerMinute = getEnvInt("PDFSTUDY_RPM", r.RequestsPerMinute)
	r.Temperature = getEnvFloat("PDFSTUDY_TEMPERATURE", r.Temperature)

	cfg.PDF.MaxFileMB = getEnvInt("PDFSTUDY_MAX_FILE_MB", cfg.PDF.MaxFileMB)
	cfg.PDF.MaxPages = getEnvInt("PDFSTUDY_MAX_PAGES", cfg.PDF.MaxPages)
	cfg.PDF.Clean = getEnvBool("PDFSTUDY_CLEAN", cfg.PDF.Clean)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.JSON = getEnvBool("LOG_JSON", cfg.Log.JSON)

	return cfg, nil
}

// keyEnv names the provider-specific credential variable.
var keyEnv = map[string]string{
	ProviderHuggingFace: "HUGGINGFACE_API_KEY",
	ProviderGemini:      "GOOGLE_API_KEY",
	ProviderOpenAI:      "OPENAI_API_KEY",
}

// Resolve fills endpoint, model and API key for the selected provider where
// they were not set explicitly. Call it after any command-line override of
// the provider.
func (c *Config) Resolve() {
	r := &c.Remote
	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
	if r.APIKey == "" {
		if k, ok := keyEnv[r.Provider]; ok {
			r.APIKey = os.Getenv(k)
		}
	}
	switch r.Provider {
	case ProviderHuggingFace:
		if r.Endpoint == "" {
			r.Endpoint = DefaultHFEndpoint
		}
		if r.Model == "" {
			r.Model = DefaultHFModel
		}
	case ProviderGemini:
		if r.Model == "" {
			r.Model = DefaultGemini
		}
	case ProviderOpenAI:
		if r.Model == "" {
			r.Model = DefaultOpenAI
		}
	}
}

// Validate reports structural problems first. A missing key for a remote
// provider is reported last, wrapped around ErrMissingAPIKey.
func (c *Config) Validate() error {
	r := c.Remote
	known := false
	for _, p := range Providers {
		if r.Provider == p {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown provider %q (expected one of %s)", r.Provider, strings.Join(Providers, ", "))
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("remote timeout must be positive, got %v", r.Timeout)
	}
	if r.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", r.Retry.MaxRetries)
	}
	if r.RequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute must not be negative, got %d", r.RequestsPerMinute)
	}
	if c.PDF.MaxFileMB <= 0 || c.PDF.MaxPages <= 0 {
		return fmt.Errorf("pdf limits must be positive (max_file_mb=%d, max_pages=%d)", c.PDF.MaxFileMB, c.PDF.MaxPages)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if r.Provider != ProviderOff && r.APIKey == "" {
		return fmt.Errorf("%w for provider %s (set %s)", ErrMissingAPIKey, r.Provider, keyEnv[r.Provider])
	}
	return nil
}

// MaxFileBytes is the upload cap in bytes.
func (p PDFConfig) MaxFileBytes() int64 {
	return int64(p.MaxFileMB) * 1024 * 1024
}

func getEnv(key, current string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return current
}

func getEnvInt(key string, current int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return current
}

// getEnvSeconds reads a whole number of seconds. Sub-second values from the
// file survive when the variable is unset.
func getEnvSeconds(key string, current time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return current
}

func getEnvBool(key string, current bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return current
}

func getEnvFloat(key string, current float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return current
}
