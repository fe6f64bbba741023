// Package xdg resolves XDG Base Directory paths for cartcheckout.
// It falls back to the traditional locations when the XDG environment
// variables are not set and keeps the config directory private.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under each XDG base directory.
const AppName = "cartcheckout"

// ConfigDir returns the XDG config directory for cartcheckout.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/cartcheckout when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for cartcheckout, used for the
// debug log. It falls back to ~/.local/state/cartcheckout.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(envVar, homeRel string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
