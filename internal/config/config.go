package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultSiteOrigin      = "https://furtherenglish.com"
	DefaultLocale          = "es"
	DefaultJWTExpiresIn    = "2h"
	DefaultHistoryLimit    = 10
	DefaultMaxSessions     = 1000
	DefaultSessionTTL      = "2h"
	DefaultMaxMessageChars = 2000
	DefaultHistoryMaxBytes = 4096
	DefaultProvider        = "openai"
	DefaultTimeoutSeconds  = 30
	DefaultTemperature     = 0.4
	DefaultRateLimit       = 1.0
	DefaultRateBurst       = 10
)

type Config struct {
	Log        LogConfig        `toml:"log"`
	Server     ServerConfig     `toml:"server"`
	Site       SiteConfig       `toml:"site"`
	Assistant  AssistantConfig  `toml:"assistant"`
	Auth       AuthConfig       `toml:"auth"`
	Completion CompletionConfig `toml:"completion"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	// RateLimit is POST requests per second per client IP; 0 disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

type SiteConfig struct {
	Origin        string   `toml:"origin"`
	DefaultLocale string   `toml:"default_locale"`
	Locales       []string `toml:"locales"`
	TablesPath    string   `toml:"tables_path"`
}

type AssistantConfig struct {
	HistoryLimit    int    `toml:"history_limit"`
	MaxSessions     int    `toml:"max_sessions"`
	SessionTTL      string `toml:"session_ttl"`
	MaxMessageChars int    `toml:"max_message_chars"`
	HistoryMaxBytes int    `toml:"history_max_bytes"`
}

// SessionTTLDuration parses SessionTTL, falling back to the default.
func (c AssistantConfig) SessionTTLDuration() time.Duration {
	return parseDurationOr(c.SessionTTL, DefaultSessionTTL)
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// ExpiresIn parses JWTExpiresIn, falling back to the default.
func (c AuthConfig) ExpiresIn() time.Duration {
	return parseDurationOr(c.JWTExpiresIn, DefaultJWTExpiresIn)
}

type CompletionConfig struct {
	Provider       string  `toml:"provider"`
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Temperature    float64 `toml:"temperature"`
}

// Timeout returns the per-request completion timeout.
func (c CompletionConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:      DefaultHTTPAddr,
			RateLimit: DefaultRateLimit,
			RateBurst: DefaultRateBurst,
		},
		Site: SiteConfig{
			Origin:        DefaultSiteOrigin,
			DefaultLocale: DefaultLocale,
			Locales:       []string{"es", "en"},
		},
		Assistant: AssistantConfig{
			HistoryLimit:    DefaultHistoryLimit,
			MaxSessions:     DefaultMaxSessions,
			SessionTTL:      DefaultSessionTTL,
			MaxMessageChars: DefaultMaxMessageChars,
			HistoryMaxBytes: DefaultHistoryMaxBytes,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Completion: CompletionConfig{
			Provider:       DefaultProvider,
			TimeoutSeconds: DefaultTimeoutSeconds,
			Temperature:    DefaultTemperature,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values that would make the service misbehave at runtime.
func (c Config) Validate() error {
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("server.rate_limit and server.rate_burst must not be negative")
	}
	if c.Assistant.HistoryLimit <= 0 {
		return fmt.Errorf("assistant.history_limit must be positive")
	}
	if c.Assistant.MaxSessions <= 0 {
		return fmt.Errorf("assistant.max_sessions must be positive")
	}
	if _, err := time.ParseDuration(c.Assistant.SessionTTL); err != nil {
		return fmt.Errorf("assistant.session_ttl: %w", err)
	}
	if strings.TrimSpace(c.Auth.JWTExpiresIn) != "" {
		if _, err := time.ParseDuration(c.Auth.JWTExpiresIn); err != nil {
			return fmt.Errorf("auth.jwt_expires_in: %w", err)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Completion.Provider)) {
	case "openai", "openrouter", "anthropic", "none":
	default:
		return fmt.Errorf("completion.provider %q is not supported", c.Completion.Provider)
	}
	return nil
}

// applyEnv fills the API key from the provider's conventional environment
// variable when the file leaves it empty.
func applyEnv(cfg *Config) {
	if strings.TrimSpace(cfg.Completion.APIKey) != "" {
		return
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Completion.Provider)) {
	case "openai":
		cfg.Completion.APIKey = getEnv("OPENAI_API_KEY", "")
	case "openrouter":
		cfg.Completion.APIKey = getEnv("OPENROUTER_API_KEY", "")
	case "anthropic":
		cfg.Completion.APIKey = getEnv("ANTHROPIC_API_KEY", "")
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parseDurationOr(value, fallback string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}
