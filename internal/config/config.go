// Package config handles folio configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the site configuration stored in ~/.config/folio/config.yml.
type Config struct {
	Bibliography    string  `yaml:"bibliography,omitempty"`     // URL or path of the .bib file
	License         string  `yaml:"license,omitempty"`          // URL or path of the license Markdown
	ContactEndpoint string  `yaml:"contact_endpoint,omitempty"` // Form-handling endpoint URL
	OwnerName       string  `yaml:"owner_name,omitempty"`       // Shown after publication titles
	DefaultImage    string  `yaml:"default_image,omitempty"`    // Image for publications without one
	CachePath       string  `yaml:"cache_path,omitempty"`       // SQLite publication cache
	ListenAddr      string  `yaml:"listen_addr,omitempty"`      // Address for folio serve
	RateLimit       float64 `yaml:"rate_limit,omitempty"`       // Outbound requests per second
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "folio"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// CacheFile is the default publication cache file name.
	CacheFile = "publications.db"
	// EnvPrefix prefixes environment overrides, e.g. FOLIO_BIBLIOGRAPHY.
	EnvPrefix = "FOLIO_"
)

// ErrUnknownKey is returned for configuration keys that do not exist.
var ErrUnknownKey = errors.New("unknown config key")

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Bibliography: "publications.bib",
		License:      "LICENSE",
		DefaultImage: "img/publication-default.jpg",
		ListenAddr:   "127.0.0.1:8080",
		RateLimit:    2,
	}
}

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/folio/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// DefaultCachePath returns the cache location next to the config file.
func DefaultCachePath() string {
	p := Path()
	if p == "" {
		return CacheFile
	}
	return filepath.Join(filepath.Dir(p), CacheFile)
}

// LoadFile reads the config file at path over the defaults, without
// environment overrides. A missing config file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// Load reads the config file at path over the defaults, then applies a .env
// file from the working directory (if any) and FOLIO_* environment
// overrides. A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.CachePath == "" {
		cfg.CachePath = DefaultCachePath()
	}
	cfg.CachePath = ExpandTilde(cfg.CachePath)
	return cfg, nil
}

// Save writes the config to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// keys maps user-facing key names to accessors.
var keys = map[string]struct {
	get func(*Config) string
	set func(*Config, string) error
}{
	"bibliography": {
		func(c *Config) string { return c.Bibliography },
		func(c *Config, v string) error { c.Bibliography = v; return nil },
	},
	"license": {
		func(c *Config) string { return c.License },
		func(c *Config, v string) error { c.License = v; return nil },
	},
	"contact-endpoint": {
		func(c *Config) string { return c.ContactEndpoint },
		func(c *Config, v string) error { c.ContactEndpoint = v; return nil },
	},
	"owner-name": {
		func(c *Config) string { return c.OwnerName },
		func(c *Config, v string) error { c.OwnerName = v; return nil },
	},
	"default-image": {
		func(c *Config) string { return c.DefaultImage },
		func(c *Config, v string) error { c.DefaultImage = v; return nil },
	},
	"cache-path": {
		func(c *Config) string { return c.CachePath },
		func(c *Config, v string) error { c.CachePath = v; return nil },
	},
	"listen-addr": {
		func(c *Config) string { return c.ListenAddr },
		func(c *Config, v string) error { c.ListenAddr = v; return nil },
	},
	"rate-limit": {
		func(c *Config) string { return strconv.FormatFloat(c.RateLimit, 'g', -1, 64) },
		func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid rate-limit %q: %w", v, err)
			}
			c.RateLimit = f
			return nil
		},
	},
}

// Keys returns all configuration key names, sorted.
func Keys() []string {
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NormalizeKey converts user input (owner_name, Owner-Name) to key form.
func NormalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "-")
}

// Get returns the value of key.
func (c *Config) Get(key string) (string, error) {
	k, ok := keys[NormalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return k.get(c), nil
}

// Set updates the value of key.
func (c *Config) Set(key, value string) error {
	k, ok := keys[NormalizeKey(key)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return k.set(c, value)
}

// Values returns every key with its current value.
func (c *Config) Values() map[string]string {
	out := make(map[string]string, len(keys))
	for name, k := range keys {
		out[name] = k.get(c)
	}
	return out
}

func (c *Config) applyEnv() error {
	for _, name := range Keys() {
		env := EnvPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		if v, ok := os.LookupEnv(env); ok && v != "" {
			if err := c.Set(name, v); err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
		}
	}
	return nil
}

// ExpandTilde expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
