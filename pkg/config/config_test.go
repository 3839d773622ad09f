package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestGetConfigDir validates config directory access
func TestGetConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "test_config")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	configDir := GetConfigDir()
	if configDir == "" {
		t.Fatal("Config directory should not be empty")
	}

	if _, err := os.Stat(configDir); err != nil {
		t.Errorf("Config directory should exist: %v", err)
	}
}

// TestInitWithCustomPath validates custom config path
func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	if err := Init(customConfigPath); err != nil {
		t.Fatalf("Failed to initialize with custom path: %v", err)
	}

	expectedDir := filepath.Join(tempDir, "custom", "path")
	if GetConfigDir() != expectedDir {
		t.Errorf("Expected config dir %s, got %s", expectedDir, GetConfigDir())
	}
}

// TestCredentialAndCookiePaths validates both stores live in the config dir
func TestCredentialAndCookiePaths(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "test_config")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	for _, p := range []string{GetCredentialsPath(), GetCookiesPath()} {
		if !filepath.IsAbs(p) {
			t.Errorf("%s should be absolute", p)
		}
		if filepath.Dir(p) != GetConfigDir() {
			t.Errorf("%s should be under config dir %s", p, GetConfigDir())
		}
	}
}

// TestDefaults validates the built-in defaults
func TestDefaults(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "test")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetString("output.format"); got != "text" {
		t.Errorf("Expected default format 'text', got '%s'", got)
	}
	if got := GetString("log.level"); got != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", got)
	}
	if got := GetInt("api.timeout"); got != 0 {
		t.Errorf("Expected no default timeout, got %d", got)
	}
	if got := GetDuration("cache.ttl.topics"); got != 30*time.Second {
		t.Errorf("Expected topics TTL 30s, got %s", got)
	}
	if GetBool("fallback.offline") {
		t.Error("Offline mode should default to false")
	}
}

// TestLoadSettings validates the wiring snapshot
func TestLoadSettings(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "test")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	s := Load()

	if s.BaseURL != "https://live.fastn.ai/api/ucl" {
		t.Errorf("unexpected base URL %q", s.BaseURL)
	}
	if s.TTL.Replies != 2*time.Minute || s.TTL.Tags != 5*time.Minute {
		t.Errorf("unexpected TTLs %+v", s.TTL)
	}
	if s.DefaultRoleID != 2 {
		t.Errorf("expected default role id 2, got %d", s.DefaultRoleID)
	}
	if s.Timeout != 0 {
		t.Errorf("expected zero timeout, got %s", s.Timeout)
	}
}

// TestConfigFileOverrides validates values from a user config file
func TestConfigFileOverrides(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")
	content := `
[api]
base_url = "https://example.test/api/"
space_id = "space-123"
timeout = 15

[api.endpoints]
getAllTopics = "https://example.test/flows/topics"

[cache.ttl]
topics = "1m"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if err := Init(path); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	s := Load()

	if s.BaseURL != "https://example.test/api" {
		t.Errorf("trailing slash should be trimmed, got %q", s.BaseURL)
	}
	if s.SpaceID != "space-123" {
		t.Errorf("unexpected space id %q", s.SpaceID)
	}
	if s.Timeout != 15*time.Second {
		t.Errorf("unexpected timeout %s", s.Timeout)
	}
	if s.TTL.Topics != time.Minute {
		t.Errorf("unexpected topics TTL %s", s.TTL.Topics)
	}
	if got := s.EndpointFor("getAllTopics"); got != "https://example.test/flows/topics" {
		t.Errorf("explicit endpoint not used: %q", got)
	}
	if got := s.EndpointFor("getAllTags"); got != "https://example.test/api/getAllTags" {
		t.Errorf("default endpoint wrong: %q", got)
	}
}

// TestEnvironmentOverrides validates FORUM_ prefixed variables
func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("FORUM_API_SPACE_ID", "from-env")
	t.Setenv("FORUM_FALLBACK_OFFLINE", "true")

	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "test")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	s := Load()
	if s.SpaceID != "from-env" {
		t.Errorf("expected space id from env, got %q", s.SpaceID)
	}
	if !s.Offline {
		t.Error("expected offline mode from env")
	}
}

// TestMultipleInitCalls validates multiple initialization calls
func TestMultipleInitCalls(t *testing.T) {
	tempDir := t.TempDir()
	path1 := filepath.Join(tempDir, "config1", "config.toml")
	path2 := filepath.Join(tempDir, "config2", "config.toml")

	if err := Init(path1); err != nil {
		t.Fatalf("First init failed: %v", err)
	}
	firstDir := GetConfigDir()

	if err := Init(path2); err != nil {
		t.Fatalf("Second init failed: %v", err)
	}

	if firstDir == GetConfigDir() {
		t.Errorf("Config dir should change after re-init, both were %s", firstDir)
	}
}
