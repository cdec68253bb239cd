package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Relay     RelayConfig     `mapstructure:"relay"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ProviderConfig contains configuration for the external extraction provider
type ProviderConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// RelayConfig contains configuration for the media stream relay
type RelayConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRedirects     int           `mapstructure:"max_redirects"`
	UserAgent        string        `mapstructure:"user_agent"`
	FallbackFilename string        `mapstructure:"fallback_filename"`
}

// RateLimitConfig contains per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
	ClientTTL         time.Duration `mapstructure:"client_ttl"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// Some CDNs behind the provider reject non-browser agents outright.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Provider: ProviderConfig{
			BaseURL:        "https://www.tikwm.com",
			MaxAttempts:    2,
			RetryBaseDelay: 350 * time.Millisecond,
			Timeout:        20 * time.Second,
			UserAgent:      defaultUserAgent,
		},
		Relay: RelayConfig{
			Timeout:          60 * time.Second,
			MaxRedirects:     10,
			UserAgent:        defaultUserAgent,
			FallbackFilename: "video.mp4",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
			Burst:             10,
			ClientTTL:         10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
