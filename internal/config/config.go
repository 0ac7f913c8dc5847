package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "github.com/esologic/folio/internal/errors"
)

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Serve   ServeConfig   `yaml:"serve"`
	History HistoryConfig `yaml:"history"`
}

// SiteConfig carries presentation-level settings shared by every page.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// ContentConfig locates the content tree.
type ContentConfig struct {
	// Directory holds the portfolio descriptor YAML plus one subdirectory
	// per section.
	Directory string `yaml:"directory"`
}

// OutputConfig controls where the assembled site is written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// ServeConfig configures the optional serve wrapper.
type ServeConfig struct {
	Port          int    `yaml:"port"`
	Watch         bool   `yaml:"watch"`
	RebuildEvery  string `yaml:"rebuild_every,omitempty"` // Go duration, empty disables
	LiveReload    bool   `yaml:"live_reload"`
	MetricsPath   string `yaml:"metrics_path"`
	EnableMetrics bool   `yaml:"enable_metrics"`
}

// HistoryConfig configures the optional sqlite build history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env/.env.local if present; existing process env wins.
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				fmt.Fprintf(os.Stderr, "Note: %s couldn't be loaded: %v\n", envPath, err)
			}
			break
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath), err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, ferrors.ConfigError("failed to read config file", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.ConfigError("failed to unmarshal config", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Site: SiteConfig{
			Title:       "My Portfolio",
			Description: "Projects and work",
			BaseURL:     "https://example.com",
		},
		Content: ContentConfig{Directory: "./content"},
		Output:  OutputConfig{Directory: "./site"},
		Serve: ServeConfig{
			Port:          1316,
			Watch:         true,
			LiveReload:    true,
			MetricsPath:   "/metrics",
			EnableMetrics: false,
		},
		History: HistoryConfig{Enabled: false, Path: ".folio/history.db"},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	// #nosec G306 -- configuration is not sensitive
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
