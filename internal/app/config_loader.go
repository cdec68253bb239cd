package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/tik-relay-go/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// Start with default config
	config := domain.DefaultConfig()

	// Set up viper
	v := viper.New()
	v.SetConfigType("yaml")

	// If config path is provided, use it
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.tik-relay")
		v.AddConfigPath("/etc/tik-relay")
	}

	// Read environment variables
	v.SetEnvPrefix("TIKRELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand environment variables in paths
	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Provider.BaseURL == "" {
		return fmt.Errorf("provider base url not configured")
	}

	if !strings.HasPrefix(config.Provider.BaseURL, "http://") && !strings.HasPrefix(config.Provider.BaseURL, "https://") {
		return fmt.Errorf("provider base url must be http(s): %s", config.Provider.BaseURL)
	}

	if config.Provider.MaxAttempts < 1 {
		return fmt.Errorf("provider max attempts must be at least 1")
	}

	if config.Provider.RetryBaseDelay < 0 {
		return fmt.Errorf("provider retry base delay cannot be negative")
	}

	if config.Relay.MaxRedirects < 0 {
		return fmt.Errorf("relay max redirects cannot be negative")
	}

	if config.Relay.FallbackFilename == "" {
		return fmt.Errorf("relay fallback filename not configured")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.RequestsPerMinute < 1 {
			return fmt.Errorf("rate limit requests per minute must be at least 1")
		}
		if config.RateLimit.Burst < 1 {
			return fmt.Errorf("rate limit burst must be at least 1")
		}
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
