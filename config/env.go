package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment holds settings read from the optional config file and REALIST_ env vars.
// Values here take precedence over the preferences stored by the UI.
type Environment struct {
	Gemini GeminiEnvironment
	API    APIEnvironment
}

// GeminiEnvironment holds the enhancement backend settings.
type GeminiEnvironment struct {
	Endpoint          string
	Model             string
	APIKey            string `mapstructure:"api_key"`
	Timeout           time.Duration
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// APIEnvironment holds the local API server settings.
type APIEnvironment struct {
	Addr    string
	Enabled bool
	// Renders is a directory whose images the API can list and select.
	Renders string
}

// GetPath returns the path to the user's config directory
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "." + strings.ToLower(AppName)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName))
}

// LoadEnvironment reads config.toml from the config directory (or REALIST_CONFIG) and
// applies REALIST_ prefixed environment overrides. A missing file is not an error.
func LoadEnvironment() (Environment, error) {
	v := viper.New()

	v.SetDefault("gemini.endpoint", DefaultEndpoint)
	v.SetDefault("gemini.model", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.timeout", 2*time.Minute)
	v.SetDefault("gemini.requests_per_minute", 10)
	v.SetDefault("api.addr", DefaultAPIAddr)
	v.SetDefault("api.enabled", false)
	v.SetDefault("api.renders", "")

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("REALIST_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(GetPath())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("REALIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini.api_key", "REALIST_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Environment{}, fmt.Errorf("bind api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Environment{}, fmt.Errorf("read config: %w", err)
		}
	}

	var env Environment
	if err := v.Unmarshal(&env); err != nil {
		return Environment{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if env.Gemini.RequestsPerMinute < 0 {
		return Environment{}, fmt.Errorf("gemini.requests_per_minute must not be negative")
	}
	return env, nil
}
