// Package config loads ytpanel settings.
//
// Values are layered in increasing priority: built-in defaults, config.yaml in
// the config directory, .env files, then YTPANEL_* environment variables. The
// API key may also live in its own file, written by `ytpanel config set-key`.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix      = "YTPANEL"
	configDirEnv   = "YTPANEL_CONFIG_DIR"
	configFileName = "config"

	DefaultBaseURL    = "https://www.googleapis.com"
	DefaultRegionCode = "US"
	DefaultLogLevel   = "info"
	DefaultAddr       = "127.0.0.1:8765"
)

// ErrNoDefaultURL is returned when a URL is needed but none is configured.
var ErrNoDefaultURL = errors.New("no default URL configured")

// SavedURL is a named bookmark shown by the play command.
type SavedURL struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
}

// Config is the effective configuration.
type Config struct {
	APIKey     string     `mapstructure:"api_key" yaml:"api_key"`
	DefaultURL string     `mapstructure:"default_url" yaml:"default_url"`
	SavedURLs  []SavedURL `mapstructure:"saved_urls" yaml:"saved_urls"`
	BaseURL    string     `mapstructure:"api_url" yaml:"api_url"`
	RegionCode string     `mapstructure:"region_code" yaml:"region_code"`
	LogLevel   string     `mapstructure:"log_level" yaml:"log_level"`
	Addr       string     `mapstructure:"addr" yaml:"addr"`
}

// Dir returns the configuration directory.
func Dir() string {
	if dir := os.Getenv(configDirEnv); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ytpanel")
}

// LoadDotEnv copies .env files into the environment without overriding
// variables already set. It runs once at startup; with no paths it reads .env
// in the working directory, and a missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load reads the configuration rooted at dir. A missing config.yaml is not an
// error. When neither the environment nor config.yaml carries a key, the
// api_key file is consulted.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.APIKey == "" {
		key, err := NewKeyStore(dir).LoadAPIKey()
		switch {
		case err == nil:
			cfg.APIKey = key
		case !errors.Is(err, ErrKeyNotFound):
			return nil, err
		}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("default_url", "")
	v.SetDefault("saved_urls", []SavedURL{})
	v.SetDefault("api_url", DefaultBaseURL)
	v.SetDefault("region_code", DefaultRegionCode)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("addr", DefaultAddr)
}

// DefaultURLOrError returns the default URL or ErrNoDefaultURL.
func (c *Config) DefaultURLOrError() (string, error) {
	return c.ResolveURL("")
}

// ResolveURL picks the URL to open. An empty name means the default URL, a
// saved name resolves to its URL, and anything containing "://" is taken as is.
func (c *Config) ResolveURL(name string) (string, error) {
	if name == "" {
		if c.DefaultURL == "" {
			return "", ErrNoDefaultURL
		}
		return c.DefaultURL, nil
	}
	for _, s := range c.SavedURLs {
		if s.Name == name {
			return s.URL, nil
		}
	}
	if strings.Contains(name, "://") {
		return name, nil
	}
	return "", fmt.Errorf("unknown saved URL %q", name)
}

// YAML renders the configuration with the API key masked.
func (c *Config) YAML() ([]byte, error) {
	masked := *c
	masked.APIKey = MaskKey(c.APIKey)
	data, err := yaml.Marshal(masked)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return data, nil
}

// MaskKey keeps the last four characters of a key.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
