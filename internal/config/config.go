// Package config handles loading and managing ostexplorer configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds HTTP parse service configuration.
type ServerConfig struct {
	APIPort  int    `toml:"api_port"`  // HTTP server port (default: 8000)
	BindAddr string `toml:"bind_addr"` // Bind address (default: 127.0.0.1)
}

// RemoteConfig holds configuration for the explore client.
type RemoteConfig struct {
	URL            string `toml:"url"`             // Parse service URL
	TimeoutSeconds int    `toml:"timeout_seconds"` // HTTP client timeout
}

// DataConfig holds data storage configuration.
type DataConfig struct {
	TempDir string `toml:"temp_dir"` // Where uploads are spooled; empty means the OS default
}

// Config represents the ostexplorer configuration.
type Config struct {
	Data   DataConfig   `toml:"data"`
	Server ServerConfig `toml:"server"`
	Remote RemoteConfig `toml:"remote"`

	// Computed paths (not from config file)
	HomeDir string `toml:"-"`
}

// DefaultHome returns the default ostexplorer home directory.
// Respects OSTEXPLORER_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("OSTEXPLORER_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ostexplorer"
	}
	return filepath.Join(home, ".ostexplorer")
}

// Load reads the configuration from the specified file. If path is empty,
// uses config.toml under home, or under the default home directory
// (~/.ostexplorer) when home is also empty. An explicitly given path must
// exist; the default location is optional.
func Load(path, home string) (*Config, error) {
	homeDir := expandPath(home)
	if homeDir == "" {
		homeDir = DefaultHome()
	}

	explicit := path != ""
	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	} else {
		path = expandPath(path)
	}

	cfg := &Config{
		HomeDir: homeDir,
		// Defaults
		Server: ServerConfig{
			APIPort:  8000,
			BindAddr: "127.0.0.1",
		},
		Remote: RemoteConfig{
			URL:            "http://localhost:8000",
			TimeoutSeconds: 30,
		},
	}

	// The default config file is optional; an explicit --config is not.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Data.TempDir = expandPath(cfg.Data.TempDir)

	return cfg, nil
}

// RemoteTimeout returns the explore client timeout as a duration.
func (c *Config) RemoteTimeout() time.Duration {
	if c.Remote.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Remote.TimeoutSeconds) * time.Second
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
