package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("OSTEXPLORER_HOME", tmpDir)

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HomeDir != tmpDir {
		t.Errorf("HomeDir = %q, want %q", cfg.HomeDir, tmpDir)
	}
	if cfg.Server.APIPort != 8000 {
		t.Errorf("Server.APIPort = %d, want 8000", cfg.Server.APIPort)
	}
	if cfg.Server.BindAddr != "127.0.0.1" {
		t.Errorf("Server.BindAddr = %q, want 127.0.0.1", cfg.Server.BindAddr)
	}
	if cfg.Remote.URL != "http://localhost:8000" {
		t.Errorf("Remote.URL = %q, want http://localhost:8000", cfg.Remote.URL)
	}
	if cfg.RemoteTimeout() != 30*time.Second {
		t.Errorf("RemoteTimeout() = %v, want 30s", cfg.RemoteTimeout())
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("OSTEXPLORER_HOME", tmpDir)

	configContent := `
[server]
api_port = 9090
bind_addr = "0.0.0.0"

[remote]
url = "http://parse.internal:9090"
timeout_seconds = 120
`
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.APIPort != 9090 {
		t.Errorf("Server.APIPort = %d, want 9090", cfg.Server.APIPort)
	}
	if cfg.Server.BindAddr != "0.0.0.0" {
		t.Errorf("Server.BindAddr = %q, want 0.0.0.0", cfg.Server.BindAddr)
	}
	if cfg.Remote.URL != "http://parse.internal:9090" {
		t.Errorf("Remote.URL = %q", cfg.Remote.URL)
	}
	if cfg.RemoteTimeout() != 120*time.Second {
		t.Errorf("RemoteTimeout() = %v, want 120s", cfg.RemoteTimeout())
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("OSTEXPLORER_HOME", tmpDir)

	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[remote]\nurl = \"http://other:8000\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Remote.URL != "http://other:8000" {
		t.Errorf("Remote.URL = %q", cfg.Remote.URL)
	}
	// Untouched sections keep their defaults
	if cfg.Server.APIPort != 8000 {
		t.Errorf("Server.APIPort = %d, want 8000", cfg.Server.APIPort)
	}
}

func TestLoadExplicitPathNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml", "")
	if err == nil {
		t.Fatal("Load with explicit nonexistent path should return error")
	}
}

func TestLoadWithHomeDir(t *testing.T) {
	homeDir := t.TempDir()
	configPath := filepath.Join(homeDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[server]\napi_port = 4242\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load("", homeDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HomeDir != homeDir {
		t.Errorf("HomeDir = %q, want %q", cfg.HomeDir, homeDir)
	}
	if cfg.Server.APIPort != 4242 {
		t.Errorf("Server.APIPort = %d, want 4242", cfg.Server.APIPort)
	}
}

func TestDefaultHomeEnvOverride(t *testing.T) {
	t.Setenv("OSTEXPLORER_HOME", "/srv/ostexplorer")
	if got := DefaultHome(); got != "/srv/ostexplorer" {
		t.Errorf("DefaultHome() = %q, want /srv/ostexplorer", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get user home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"tilde with path", "~/spool", filepath.Join(home, "spool")},
		{"relative path unchanged", "relative/path", "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
