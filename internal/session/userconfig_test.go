package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadUserConfigMissingFile(t *testing.T) {
	cfg, err := ReadUserConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Missing config should yield defaults, got error: %v", err)
	}
	if cfg.Tool != "claude" {
		t.Errorf("Expected default tool 'claude', got %q", cfg.Tool)
	}
	if cfg.PageSize != 30 {
		t.Errorf("Expected default page size 30, got %d", cfg.PageSize)
	}
	if cfg.PreviewTurns != 6 {
		t.Errorf("Expected default preview turns 6, got %d", cfg.PreviewTurns)
	}
	if !cfg.WatchSessions {
		t.Error("Expected session watching on by default")
	}
}

func TestReadUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
tool = "codex"
theme = "light"
extra_args = "--model opus"
hidden_roles = ["assistant"]
page_size = 10
preview_turns = 4

[logs]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := ReadUserConfig(path)
	if err != nil {
		t.Fatalf("ReadUserConfig failed: %v", err)
	}
	if cfg.Tool != "codex" {
		t.Errorf("Expected tool 'codex', got %q", cfg.Tool)
	}
	if cfg.Theme != "light" {
		t.Errorf("Expected theme 'light', got %q", cfg.Theme)
	}
	if cfg.PageSize != 10 {
		t.Errorf("Expected page size 10, got %d", cfg.PageSize)
	}
	if cfg.Logs.Level != "debug" {
		t.Errorf("Expected log level 'debug', got %q", cfg.Logs.Level)
	}

	hidden := cfg.HiddenRoleSet()
	if !hidden[RoleAssistant] {
		t.Error("Expected assistant role hidden")
	}
	if hidden[RoleUser] {
		t.Error("User role should not be hidden")
	}
}

func TestReadUserConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("tool = [broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadUserConfig(path); err == nil {
		t.Fatal("Expected parse error for malformed config")
	}
}

func TestReadUserConfigZeroValueFixups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("page_size = -1\npreview_turns = 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := ReadUserConfig(path)
	if err != nil {
		t.Fatalf("ReadUserConfig failed: %v", err)
	}
	if cfg.PageSize != 30 || cfg.PreviewTurns != 6 {
		t.Errorf("Expected fixed-up defaults, got page_size=%d preview_turns=%d",
			cfg.PageSize, cfg.PreviewTurns)
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RESUME_DECK_DIR", dir)
	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir failed: %v", err)
	}
	if got != dir {
		t.Errorf("Expected %q, got %q", dir, got)
	}
}
