package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const configFileName = "config.toml"

// Config holds the user's path and logging preferences.
type Config struct {
	// DatabaseHome is the directory holding project_outlines.db, session.json and the log.
	DatabaseHome string `toml:"database_home,omitempty"`

	// ExportDirectory is the root under which versioned exports are written.
	ExportDirectory string `toml:"export_directory,omitempty"`

	// LogLevel is a zerolog level name (debug|info|warn|error|disabled).
	LogLevel string `toml:"log_level,omitempty"`
}

// ConfigKeys lists the keys accepted by Config.Set.
var ConfigKeys = []string{"database_home", "export_directory", "log_level"}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.outline).
	if v := strings.TrimSpace(os.Getenv("OUTLINE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".outline"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return ConfigPathAt(dir), nil
}

func ConfigPathAt(dir string) string {
	return filepath.Join(dir, configFileName)
}

// LoadConfig reads the config file, returning defaults for anything missing.
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigAt(dir)
}

// LoadConfigAt is LoadConfig for an explicit config directory.
func LoadConfigAt(dir string) (*Config, error) {
	path := ConfigPathAt(dir)
	cfg := &Config{}
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if len(b) > 0 {
		if err := toml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults(dir)
	return cfg, nil
}

func (c *Config) applyDefaults(dir string) {
	if strings.TrimSpace(c.DatabaseHome) == "" {
		c.DatabaseHome = filepath.Join(dir, "data")
	}
	if strings.TrimSpace(c.ExportDirectory) == "" {
		c.ExportDirectory = filepath.Join(dir, "exports")
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	c.DatabaseHome = expandHome(c.DatabaseHome)
	c.ExportDirectory = expandHome(c.ExportDirectory)
}

func expandHome(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// DatabasePath returns the outline database file under DatabaseHome.
func (c *Config) DatabasePath() string {
	return DatabasePath(c.DatabaseHome)
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "database_home":
		return c.DatabaseHome, nil
	case "export_directory":
		return c.ExportDirectory, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(ConfigKeys, ", "))
	}
}

// Set assigns a config key. It does not save.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "database_home":
		c.DatabaseHome = value
	case "export_directory":
		c.ExportDirectory = value
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(ConfigKeys, ", "))
	}
	return nil
}

// Map returns all keys and values, sorted by key when ranged via ConfigKeys.
func (c *Config) Map() map[string]string {
	out := map[string]string{}
	for _, k := range ConfigKeys {
		v, _ := c.Get(k)
		out[k] = v
	}
	return out
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigAt(dir, cfg)
}

// SaveConfigAt writes cfg to <dir>/config.toml via a temp file and rename.
func SaveConfigAt(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	header := []byte("# outline configuration\n# Controls where data is stored and exported.\n\n")
	return atomicWriteFile(dir, "config.toml.*.tmp", ConfigPathAt(dir), append(header, b...), 0o600)
}
