package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/mbot/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// xdgDir returns $env/mbot, or $HOME/fallback/mbot when env is unset.
func xdgDir(env string, fallback ...string) string {
	base := os.Getenv(env)
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	return filepath.Join(base, "mbot")
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/mbot/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.yaml")
}

// DefaultDataDir returns $XDG_DATA_HOME/mbot, which holds the history
// database.
func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}
