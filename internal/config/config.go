package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCHOOLSITE_"

// Config holds the schoolsite configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Content ContentConfig `yaml:"content" json:"content"`
	Forms   FormsConfig   `yaml:"forms" json:"forms"`
	Theme   ThemeConfig   `yaml:"theme" json:"theme"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string `yaml:"addr" json:"addr" validate:"required,hostname_port"`
	ReadTimeout     string `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxUploadBytes  int64  `yaml:"max_upload_bytes" json:"max_upload_bytes" validate:"gte=0"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" json:"format" validate:"oneof=json console"`
}

// ContentConfig locates the site copy. An empty Dir uses the embedded copy.
type ContentConfig struct {
	Dir      string `yaml:"dir" json:"dir"`
	Watch    bool   `yaml:"watch" json:"watch"`
	Debounce string `yaml:"debounce" json:"debounce"`
}

// FormsConfig locates the form definitions. An empty Dir uses the embedded
// admissions and careers forms.
type FormsConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// ThemeConfig selects the theme and variant.
type ThemeConfig struct {
	Name    string `yaml:"name" json:"name" validate:"required"`
	Variant string `yaml:"variant" json:"variant"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "30s",
			ShutdownTimeout: "10s",
			MaxUploadBytes:  10 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Content: ContentConfig{
			Watch:    true,
			Debounce: "250ms",
		},
		Theme: ThemeConfig{
			Name:    "endeavour",
			Variant: "light",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied last and the result is
// validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
			cfg.resolvePaths(filepath.Dir(path))
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// resolvePaths makes relative directories relative to the config file.
func (c *Config) resolvePaths(base string) {
	for _, dir := range []*string{&c.Content.Dir, &c.Forms.Dir} {
		if *dir != "" && !filepath.IsAbs(*dir) {
			*dir = filepath.Join(base, *dir)
		}
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvPrefix + "ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvPrefix + "MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Server.MaxUploadBytes = n
		}
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "CONTENT_DIR"); v != "" {
		c.Content.Dir = v
	}
	if v := os.Getenv(EnvPrefix + "CONTENT_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Content.Watch = b
		}
	}
	if v := os.Getenv(EnvPrefix + "FORMS_DIR"); v != "" {
		c.Forms.Dir = v
	}
	if v := os.Getenv(EnvPrefix + "THEME"); v != "" {
		c.Theme.Name = v
	}
	if v := os.Getenv(EnvPrefix + "THEME_VARIANT"); v != "" {
		c.Theme.Variant = v
	}
}

// GetReadTimeout returns the server read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the server write timeout as a duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 30*time.Second)
}

// GetShutdownTimeout returns the graceful shutdown bound as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// GetContentDebounce returns the content reload debounce as a duration.
func (c *Config) GetContentDebounce() time.Duration {
	return parseDuration(c.Content.Debounce, 250*time.Millisecond)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
