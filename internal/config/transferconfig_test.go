package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTransferConfig(t *testing.T) {
	cfg := NewTransferConfig()

	if !cfg.Transfer.CheckDiskSpace {
		t.Errorf("Expected CheckDiskSpace=true, got %v", cfg.Transfer.CheckDiskSpace)
	}
	if cfg.Transfer.PruneEmptySourceDirs {
		t.Errorf("Expected PruneEmptySourceDirs=false, got %v", cfg.Transfer.PruneEmptySourceDirs)
	}
	if cfg.Transfer.MaxConcurrent != 2 {
		t.Errorf("Expected MaxConcurrent=2, got %d", cfg.Transfer.MaxConcurrent)
	}
	if cfg.Notifications.Enabled {
		t.Error("Expected notifications to be off by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected Level=info, got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestTransferConfigLoadSave(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "transfer.conf")

	cfg := NewTransferConfig()
	cfg.Transfer.CheckDiskSpace = false
	cfg.Transfer.PruneEmptySourceDirs = true
	cfg.Transfer.MaxConcurrent = 8
	cfg.Notifications.Enabled = true
	cfg.Logging.Level = "debug"
	cfg.Logging.File = "/var/log/gns3/transfer.log"

	if err := SaveTransferConfig(cfg, configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary file should not remain after save")
	}

	loaded, err := LoadTransferConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Loaded config mismatch:\nexpected %+v\ngot      %+v", *cfg, *loaded)
	}
}

func TestLoadTransferConfig_MissingFile(t *testing.T) {
	cfg, err := LoadTransferConfig(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("Missing file should not be an error: %v", err)
	}
	if *cfg != *NewTransferConfig() {
		t.Errorf("Expected defaults, got %+v", *cfg)
	}
}

func TestLoadTransferConfig_PartialFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "transfer.conf")
	content := "[transfer]\nprune_empty_source_dirs = true\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTransferConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.Transfer.PruneEmptySourceDirs {
		t.Error("Expected PruneEmptySourceDirs=true")
	}
	if !cfg.Transfer.CheckDiskSpace {
		t.Error("Missing keys should keep their defaults")
	}
	if cfg.Transfer.MaxConcurrent != 2 {
		t.Errorf("Expected MaxConcurrent=2, got %d", cfg.Transfer.MaxConcurrent)
	}
}

func TestLoadTransferConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"concurrency too high", "[transfer]\nmax_concurrent = 64\n", ErrInvalidMaxConcurrent},
		{"concurrency zero", "[transfer]\nmax_concurrent = 0\n", ErrInvalidMaxConcurrent},
		{"unknown level", "[logging]\nlevel = chatty\n", ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "transfer.conf")
			if err := os.WriteFile(configPath, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadTransferConfig(configPath)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTransferConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*TransferConfig)
		wantErr error
	}{
		{"defaults", func(c *TransferConfig) {}, nil},
		{"max concurrency", func(c *TransferConfig) { c.Transfer.MaxConcurrent = 16 }, nil},
		{"over max concurrency", func(c *TransferConfig) { c.Transfer.MaxConcurrent = 17 }, ErrInvalidMaxConcurrent},
		{"negative concurrency", func(c *TransferConfig) { c.Transfer.MaxConcurrent = -1 }, ErrInvalidMaxConcurrent},
		{"empty level", func(c *TransferConfig) { c.Logging.Level = "" }, nil},
		{"upper case level", func(c *TransferConfig) { c.Logging.Level = "WARN" }, nil},
		{"bad level", func(c *TransferConfig) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewTransferConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransferConfigString(t *testing.T) {
	out := NewTransferConfig().String()
	for _, want := range []string{"[transfer]", "check_disk_space = true", "max_concurrent = 2", "[notifications]", "enabled = false", "[logging]", "level = info"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}
