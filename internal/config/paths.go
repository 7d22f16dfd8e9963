// Package config provides configuration management for the GNS3 transfer tools.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDirectory returns the per-user directory holding transfer.conf.
//
// Locations:
//   - Windows: %APPDATA%\GNS3
//   - Unix: ~/.config/gns3 (or $XDG_CONFIG_HOME/gns3)
func ConfigDirectory() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(configDir, "GNS3"), nil
	}
	return filepath.Join(configDir, "gns3"), nil
}

// LogDirectory returns the directory used for the default rotating log file.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\GNS3\logs
//   - Unix: ~/.config/gns3/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "gns3-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "GNS3", "logs")
	}

	dir, err := ConfigDirectory()
	if err != nil {
		return filepath.Join(os.TempDir(), "gns3-logs")
	}
	return filepath.Join(dir, "logs")
}

// EnsureLogDirectory creates the log directory if it doesn't exist.
func EnsureLogDirectory() error {
	return os.MkdirAll(LogDirectory(), 0700)
}
