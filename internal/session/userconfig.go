package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// UserConfigFileName is the TOML config file for user preferences.
const UserConfigFileName = "config.toml"

// UserConfig represents user-facing configuration in TOML format.
type UserConfig struct {
	// Tool is the agent command for resume/new launches (default "claude").
	Tool string `toml:"tool"`

	// Theme sets the color scheme: "dark" (default), "light", or "system".
	Theme string `toml:"theme"`

	// ExtraArgs is the default extra-argument string for launches. The
	// picker's edit-options dialog is seeded with this value.
	ExtraArgs string `toml:"extra_args"`

	// HiddenRoles lists dialog roles excluded from previews.
	HiddenRoles []string `toml:"hidden_roles"`

	// PageSize is the number of sessions per picker page.
	PageSize int `toml:"page_size"`

	// PreviewTurns caps how many dialog turns the preview shows.
	PreviewTurns int `toml:"preview_turns"`

	// WatchSessions enables the sessions-directory auto-refresh watcher.
	WatchSessions bool `toml:"watch_sessions"`

	// Logs defines debug log settings.
	Logs LogSettings `toml:"logs"`
}

// LogSettings controls the rotating debug log.
type LogSettings struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level"`

	// MaxSizeMB is the rotation threshold (default 10).
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups is rotated files to keep (default 5).
	MaxBackups int `toml:"max_backups"`
}

// DefaultUserConfig returns the configuration used when no file exists.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Tool:          "claude",
		Theme:         "dark",
		PageSize:      30,
		PreviewTurns:  6,
		WatchSessions: true,
		Logs: LogSettings{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// ConfigDir returns the resume-deck configuration directory, honoring
// RESUME_DECK_DIR for tests and multi-profile setups.
func ConfigDir() (string, error) {
	if dir := os.Getenv("RESUME_DECK_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".resume-deck"), nil
}

var (
	userConfigOnce   sync.Once
	cachedUserConfig *UserConfig
	userConfigErr    error
)

// LoadUserConfig reads the TOML config, falling back to defaults when the
// file does not exist. The result is cached for the process lifetime.
func LoadUserConfig() (*UserConfig, error) {
	userConfigOnce.Do(func() {
		cachedUserConfig, userConfigErr = loadUserConfig()
	})
	return cachedUserConfig, userConfigErr
}

func loadUserConfig() (*UserConfig, error) {
	dir, err := ConfigDir()
	if err != nil {
		return DefaultUserConfig(), nil
	}
	return ReadUserConfig(filepath.Join(dir, UserConfigFileName))
}

// ReadUserConfig parses one config file. A missing file yields defaults; a
// malformed file is an error so typos are not silently swallowed.
func ReadUserConfig(path string) (*UserConfig, error) {
	cfg := DefaultUserConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Tool == "" {
		cfg.Tool = "claude"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 30
	}
	if cfg.PreviewTurns <= 0 {
		cfg.PreviewTurns = 6
	}
	return cfg, nil
}

// HiddenRoleSet converts the configured role names to a lookup set.
func (c *UserConfig) HiddenRoleSet() map[Role]bool {
	set := make(map[Role]bool, len(c.HiddenRoles))
	for _, r := range c.HiddenRoles {
		set[Role(r)] = true
	}
	return set
}
