package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Guliveer/twitch-browser-go/internal/constants"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAuthToken, EnvClientID, EnvAPIHost, EnvMinViewCount, EnvLogLevel, EnvLogDir} {
		t.Setenv(key, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
auth_token: file-token
client_id: file-client
timeout: 3s
followed:
  min_view_count: 500
  hide_offline: true
accent_color: "#9146FF"
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.AuthToken != "file-token" || cfg.ClientID != "file-client" {
		t.Errorf("Unexpected credentials %q / %q", cfg.AuthToken, cfg.ClientID)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %s", cfg.Timeout)
	}
	if cfg.MinViewCount() != 500 || !cfg.Followed.HideOffline {
		t.Errorf("Unexpected followed config %+v", cfg.Followed)
	}
	if cfg.AccentColor != "9146FF" {
		t.Errorf("Expected accent color without #, got %q", cfg.AccentColor)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %q", cfg.Log.Level)
	}
	if cfg.APIHost != constants.HelixHost {
		t.Errorf("Expected default host, got %q", cfg.APIHost)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MinViewCount() != constants.DefaultMinViewCount {
		t.Errorf("Expected default floor, got %d", cfg.MinViewCount())
	}
	if cfg.Timeout != constants.DefaultHTTPTimeout {
		t.Errorf("Expected default timeout, got %s", cfg.Timeout)
	}
}

func TestLoadZeroFloorIsKept(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "followed:\n  min_view_count: 0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MinViewCount() != 0 {
		t.Errorf("Expected explicit zero floor, got %d", cfg.MinViewCount())
	}
}

func TestEnvOverridesWin(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "auth_token: file-token\nclient_id: file-client\n")

	t.Setenv(EnvAuthToken, "env-token")
	t.Setenv(EnvMinViewCount, "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AuthToken != "env-token" {
		t.Errorf("Expected env token, got %q", cfg.AuthToken)
	}
	if cfg.ClientID != "file-client" {
		t.Errorf("Expected file client id, got %q", cfg.ClientID)
	}
	if cfg.MinViewCount() != 42 {
		t.Errorf("Expected floor 42, got %d", cfg.MinViewCount())
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "auth_token: [unterminated\n")

	if _, err := Load(path); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestLoadInvalidEnvFloor(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMinViewCount, "lots")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a non-numeric floor")
	}
}

func TestValidate(t *testing.T) {
	negative := -1
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{AuthToken: "t", ClientID: "c"}, ""},
		{"missing token", Config{ClientID: "c"}, "auth_token"},
		{"missing client id", Config{AuthToken: "t"}, "client_id"},
		{"negative floor", Config{AuthToken: "t", ClientID: "c", Followed: FollowedConfig{MinViewCount: &negative}}, "min_view_count"},
		{"bad color", Config{AuthToken: "t", ClientID: "c", AccentColor: "purple"}, "accent_color"},
		{"good color", Config{AuthToken: "t", ClientID: "c", AccentColor: "9146FF"}, ""},
	}

	for _, test := range tests {
		err := Validate(&test.cfg)
		switch {
		case test.wantErr == "" && err != nil:
			t.Errorf("%s: unexpected error %v", test.name, err)
		case test.wantErr != "" && (err == nil || !strings.Contains(err.Error(), test.wantErr)):
			t.Errorf("%s: expected error mentioning %q, got %v", test.name, test.wantErr, err)
		}
	}
}
