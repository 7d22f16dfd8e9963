package constants

import (
	"time"
)

// Transfer worker
const (
	// NotificationBuffer - capacity of a worker's notification channel.
	// A slow consumer slows the worker down. Only a cancelled run drops a
	// notification, and such a run always ends without a terminal one.
	NotificationBuffer = 64

	// DirPerm - permissions for directories created under the destination root
	DirPerm = 0o755
)

// Disk space safety margin
const (
	// DiskSpaceBufferPercent - additional space to require beyond the source size (15%)
	// Accounts for filesystem block rounding and metadata overhead
	DiskSpaceBufferPercent = 0.15
)

// Event System
const (
	// EventBusDefaultBuffer - default buffer size for event channels (1000)
	EventBusDefaultBuffer = 1000

	// EventBusMaxBuffer - maximum buffer size for high-throughput scenarios (5000)
	EventBusMaxBuffer = 5000
)

// Batch runs
const (
	// DefaultBatchConcurrency - transfers running at once in a batch
	DefaultBatchConcurrency = 2

	// MaxBatchConcurrency - upper bound accepted from config and flags
	MaxBatchConcurrency = 16
)

// UI Updates
const (
	// ProgressUpdateInterval - interval for progress bar refreshes (250ms)
	// Balances responsiveness with performance
	ProgressUpdateInterval = 250 * time.Millisecond

	// ProgressBarScale - resolution of percent-driven progress bars (0.1%)
	ProgressBarScale = 1000
)

// Log files
const (
	// LogFileMaxSizeMB - rotate the log file after this many megabytes
	LogFileMaxSizeMB = 10

	// LogFileMaxBackups - rotated files kept on disk
	LogFileMaxBackups = 5

	// LogFileMaxAgeDays - rotated files older than this are removed
	LogFileMaxAgeDays = 30
)
