package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Orchestrator.DispatchInterval != time.Second {
		t.Errorf("expected 1s dispatch interval, got %v", cfg.Orchestrator.DispatchInterval)
	}
	if cfg.Orchestrator.ManagerPollInterval != 2*time.Second {
		t.Errorf("expected 2s manager poll, got %v", cfg.Orchestrator.ManagerPollInterval)
	}
	if cfg.Orchestrator.ManagerWaitCeiling != 300*time.Second {
		t.Errorf("expected 300s manager ceiling, got %v", cfg.Orchestrator.ManagerWaitCeiling)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
orchestrator:
  dispatch_interval: 50ms
  manager_poll_interval: 100ms
  manager_wait_ceiling: 2s
data:
  roster_path: /tmp/agents.yaml
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %q", cfg.Server.Addr)
	}
	if cfg.Orchestrator.DispatchInterval != 50*time.Millisecond {
		t.Errorf("expected 50ms dispatch interval, got %v", cfg.Orchestrator.DispatchInterval)
	}
	if cfg.Data.RosterPath != "/tmp/agents.yaml" {
		t.Errorf("expected roster path, got %q", cfg.Data.RosterPath)
	}
}

func TestLoadFromPathExpandsAPIKey(t *testing.T) {
	t.Setenv("NAFS_TEST_KEY", "sk-test-123")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
anthropic:
  api_key: ${NAFS_TEST_KEY}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-test-123" {
		t.Errorf("expected expanded api key, got %q", cfg.Anthropic.APIKey)
	}
}
