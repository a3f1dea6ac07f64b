// Package config loads and saves the lazytodo TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

type Config struct {
	// Backend selects where the task collection is persisted.
	Backend string `toml:"backend"`
	// StorePath is the sqlite database file or, for the file backend, a directory.
	StorePath   string `toml:"store_path"`
	StorageKey  string `toml:"storage_key"`
	DefaultSort string `toml:"default_sort"`
	WebPort     int    `toml:"web_port"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
}

func Default() Config {
	return Config{
		Backend:     BackendSQLite,
		StorageKey:  "tasks",
		DefaultSort: "date",
		WebPort:     8080,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazytodo", "config.toml"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	meta, err := toml.Decode(string(data), &config)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, fmt.Errorf("parse config: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return file.Close()
}

// Validate rejects settings no component can honor.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		return fmt.Errorf("config: web_port %d out of range", c.WebPort)
	}
	return nil
}

// ResolveStorePath fills in the store path next to the config file when unset.
func (c *Config) ResolveStorePath(configPath string) {
	if c.StorePath != "" || c.Backend == BackendMemory {
		return
	}
	dir := filepath.Dir(configPath)
	switch c.Backend {
	case BackendFile:
		c.StorePath = filepath.Join(dir, "data")
	default:
		c.StorePath = filepath.Join(dir, "lazytodo.db")
	}
}
