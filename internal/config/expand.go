package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// ExpandPath expands a leading ~ and ${VAR}/$VAR references in a local path.
// Unset variables expand to the empty string.
func ExpandPath(path string) string {
	return ExpandTilde(os.ExpandEnv(path))
}

// StateDir returns the directory for sysdash runtime state:
// $XDG_STATE_HOME/sysdash, or ~/.local/state/sysdash.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sysdash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "sysdash")
	}
	return filepath.Join(home, ".local", "state", "sysdash")
}

// DefaultLogFile returns the default log file path.
func DefaultLogFile() string {
	return filepath.Join(StateDir(), "sysdash.log")
}
