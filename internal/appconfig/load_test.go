package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Agent.Command != "claude" {
		t.Fatalf("expected default agent command, got %q", cfg.Agent.Command)
	}
	if cfg.Agent.SpawnDelayMs != 100 {
		t.Fatalf("expected default spawn delay, got %d", cfg.Agent.SpawnDelayMs)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 3
agent:
  command: claude
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRejectsMissingConfigVersion(t *testing.T) {
	path := writeConfig(t, `
agent:
  command: claude
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRejectsNegativeSpawnDelay(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
agent:
  command: claude
  spawn_delay_ms: -5
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "spawn_delay_ms") {
		t.Fatalf("expected spawn delay error, got %v", err)
	}
}

func TestLoadMergesPlaceholders(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
agent:
  command: claude --dangerously-skip-permissions
placeholders:
  "@project": /home/me/project
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Placeholders["@project"] != "/home/me/project" {
		t.Fatalf("expected placeholder, got %v", cfg.Placeholders)
	}
	bridge, err := cfg.Bridge()
	if err != nil {
		t.Fatalf("bridge: %v", err)
	}
	if bridge.AgentCommand != "claude" {
		t.Fatalf("expected shell-split command, got %q", bridge.AgentCommand)
	}
	if len(bridge.AgentArgs) != 1 || bridge.AgentArgs[0] != "--dangerously-skip-permissions" {
		t.Fatalf("expected shell-split args, got %v", bridge.AgentArgs)
	}
	if bridge.SpawnDelay != 100*time.Millisecond {
		t.Fatalf("expected default spawn delay, got %v", bridge.SpawnDelay)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config to exist: %v", err)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
