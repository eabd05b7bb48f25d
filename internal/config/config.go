package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines client configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Identity IdentityConfig `yaml:"identity"`
	Session  SessionConfig  `yaml:"session"`
	Log      LogConfig      `yaml:"log"`
}

type APIConfig struct {
	// BaseURL of the backend API. Defaults to the local dev server; production
	// deploys set CLARITY_API_URL to a same-origin /api path.
	BaseURL string `yaml:"base_url"`
	// Timeout applies to ordinary requests.
	Timeout time.Duration `yaml:"timeout"`
	// GenerateTimeout applies to PRD generation and section regeneration,
	// which invoke slow AI computation server-side.
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
}

// UnmarshalYAML accepts durations in Go syntax ("30s", "5m") and leaves any
// omitted field at its current value.
func (c *APIConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL         string `yaml:"base_url"`
		Timeout         string `yaml:"timeout"`
		GenerateTimeout string `yaml:"generate_timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.BaseURL != "" {
		c.BaseURL = raw.BaseURL
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid api.timeout: %w", err)
		}
		c.Timeout = d
	}
	if raw.GenerateTimeout != "" {
		d, err := time.ParseDuration(raw.GenerateTimeout)
		if err != nil {
			return fmt.Errorf("invalid api.generate_timeout: %w", err)
		}
		c.GenerateTimeout = d
	}
	return nil
}

type IdentityConfig struct {
	// Endpoint of the identity provider's REST API.
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	// OAuth settings for federated sign-in.
	OAuthClientID     string `yaml:"oauth_client_id"`
	OAuthClientSecret string `yaml:"oauth_client_secret"`
	OAuthAuthURL      string `yaml:"oauth_auth_url"`
	OAuthTokenURL     string `yaml:"oauth_token_url"`
	OAuthRedirectURL  string `yaml:"oauth_redirect_url"`
}

type SessionConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL:         "http://localhost:5001/api",
			Timeout:         30 * time.Second,
			GenerateTimeout: 5 * time.Minute,
		},
		Identity: IdentityConfig{
			Endpoint: "https://identitytoolkit.googleapis.com/v1",
		},
		Session: SessionConfig{
			Path: defaultSessionPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("CLARITY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if url := os.Getenv("CLARITY_API_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if timeout := os.Getenv("CLARITY_API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CLARITY_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}
	if timeout := os.Getenv("CLARITY_GENERATE_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CLARITY_GENERATE_TIMEOUT: %w", err)
		}
		cfg.API.GenerateTimeout = d
	}
	if endpoint := os.Getenv("CLARITY_IDENTITY_ENDPOINT"); endpoint != "" {
		cfg.Identity.Endpoint = endpoint
	}
	if key := os.Getenv("CLARITY_IDENTITY_API_KEY"); key != "" {
		cfg.Identity.APIKey = key
	}
	if path := os.Getenv("CLARITY_SESSION_PATH"); path != "" {
		cfg.Session.Path = path
	}
	if level := os.Getenv("CLARITY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "clarity.db"
	}
	return filepath.Join(home, ".clarity", "session.db")
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
