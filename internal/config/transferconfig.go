package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/gns3/gns3-desktop/internal/constants"
)

// TransferConfig holds the user preferences for directory transfers.
//
// Config file location:
//   - Windows: %APPDATA%\GNS3\transfer.conf
//   - Unix: ~/.config/gns3/transfer.conf
//
// INI format:
//
//	[transfer]
//	check_disk_space = true
//	prune_empty_source_dirs = false
//	max_concurrent = 2
//
//	[notifications]
//	enabled = false
//
//	[logging]
//	level = info
//	file =
type TransferConfig struct {
	Transfer      TransferSettings
	Notifications NotificationSettings
	Logging       LoggingSettings
}

// TransferSettings contains the [transfer] section.
type TransferSettings struct {
	// CheckDiskSpace enables the free-space check before a copy starts
	CheckDiskSpace bool

	// PruneEmptySourceDirs removes source subdirectories emptied by a move
	PruneEmptySourceDirs bool

	// MaxConcurrent bounds the number of transfers a batch runs at once (1-16)
	MaxConcurrent int
}

// NotificationSettings contains the [notifications] section.
type NotificationSettings struct {
	// Enabled sends a desktop notification when a transfer or batch finishes
	Enabled bool
}

// LoggingSettings contains the [logging] section.
type LoggingSettings struct {
	// Level is one of debug, info, warn, error
	Level string

	// File is an optional path for a rotating log file. Empty disables it.
	File string
}

// Validation errors
var (
	ErrInvalidMaxConcurrent = fmt.Errorf("max_concurrent must be between 1 and %d", constants.MaxBatchConcurrency)
	ErrInvalidLogLevel      = errors.New("level must be one of debug, info, warn, error")
)

// DefaultTransferConfigPath returns the platform-specific path to transfer.conf.
func DefaultTransferConfigPath() (string, error) {
	dir, err := ConfigDirectory()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "transfer.conf"), nil
}

// NewTransferConfig creates a new TransferConfig with default values.
func NewTransferConfig() *TransferConfig {
	return &TransferConfig{
		Transfer: TransferSettings{
			CheckDiskSpace:       true,
			PruneEmptySourceDirs: false,
			MaxConcurrent:        constants.DefaultBatchConcurrency,
		},
		Notifications: NotificationSettings{
			Enabled: false,
		},
		Logging: LoggingSettings{
			Level: "info",
			File:  "",
		},
	}
}

// LoadTransferConfig loads configuration from the transfer.conf file.
// If path is empty, uses the default path.
// If the file doesn't exist, returns a config with default values and no error.
// If the file exists but is invalid, returns an error.
func LoadTransferConfig(path string) (*TransferConfig, error) {
	cfg := NewTransferConfig()

	if path == "" {
		var err error
		path, err = DefaultTransferConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfer.conf: %w", err)
	}

	transferSection := iniFile.Section("transfer")
	cfg.Transfer.CheckDiskSpace = transferSection.Key("check_disk_space").MustBool(true)
	cfg.Transfer.PruneEmptySourceDirs = transferSection.Key("prune_empty_source_dirs").MustBool(false)
	cfg.Transfer.MaxConcurrent = transferSection.Key("max_concurrent").MustInt(constants.DefaultBatchConcurrency)

	cfg.Notifications.Enabled = iniFile.Section("notifications").Key("enabled").MustBool(false)

	loggingSection := iniFile.Section("logging")
	cfg.Logging.Level = strings.ToLower(loggingSection.Key("level").MustString("info"))
	cfg.Logging.File = loggingSection.Key("file").String()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transfer.conf: %w", err)
	}
	return cfg, nil
}

// SaveTransferConfig saves configuration to the transfer.conf file.
// If path is empty, uses the default path.
// Creates parent directories if they don't exist.
func SaveTransferConfig(cfg *TransferConfig, path string) error {
	if path == "" {
		var err error
		path, err = DefaultTransferConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	transferSection, err := iniFile.NewSection("transfer")
	if err != nil {
		return fmt.Errorf("failed to create transfer section: %w", err)
	}
	transferSection.Key("check_disk_space").SetValue(fmt.Sprintf("%t", cfg.Transfer.CheckDiskSpace))
	transferSection.Key("prune_empty_source_dirs").SetValue(fmt.Sprintf("%t", cfg.Transfer.PruneEmptySourceDirs))
	transferSection.Key("max_concurrent").SetValue(fmt.Sprintf("%d", cfg.Transfer.MaxConcurrent))

	notifySection, err := iniFile.NewSection("notifications")
	if err != nil {
		return fmt.Errorf("failed to create notifications section: %w", err)
	}
	notifySection.Key("enabled").SetValue(fmt.Sprintf("%t", cfg.Notifications.Enabled))

	loggingSection, err := iniFile.NewSection("logging")
	if err != nil {
		return fmt.Errorf("failed to create logging section: %w", err)
	}
	loggingSection.Key("level").SetValue(cfg.Logging.Level)
	loggingSection.Key("file").SetValue(cfg.Logging.File)

	// Write to a temporary file and rename so a crash never leaves a torn config
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns nil if valid, or an error describing what's wrong.
func (cfg *TransferConfig) Validate() error {
	if cfg.Transfer.MaxConcurrent < 1 || cfg.Transfer.MaxConcurrent > constants.MaxBatchConcurrency {
		return ErrInvalidMaxConcurrent
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// String renders the configuration in its INI form, as written by SaveTransferConfig.
func (cfg *TransferConfig) String() string {
	var b strings.Builder
	b.WriteString("[transfer]\n")
	fmt.Fprintf(&b, "check_disk_space = %t\n", cfg.Transfer.CheckDiskSpace)
	fmt.Fprintf(&b, "prune_empty_source_dirs = %t\n", cfg.Transfer.PruneEmptySourceDirs)
	fmt.Fprintf(&b, "max_concurrent = %d\n", cfg.Transfer.MaxConcurrent)
	b.WriteString("\n[notifications]\n")
	fmt.Fprintf(&b, "enabled = %t\n", cfg.Notifications.Enabled)
	b.WriteString("\n[logging]\n")
	fmt.Fprintf(&b, "level = %s\n", cfg.Logging.Level)
	fmt.Fprintf(&b, "file = %s\n", cfg.Logging.File)
	return b.String()
}
