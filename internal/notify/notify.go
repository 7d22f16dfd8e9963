// Package notify sends desktop notifications when transfers finish.
// It uses github.com/gen2brain/beeep for cross-platform notification support.
package notify

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/inhies/go-bytesize"

	"github.com/gns3/gns3-desktop/internal/logging"
	"github.com/gns3/gns3-desktop/internal/transfer"
)

const appName = "GNS3"

// Notifier handles desktop notifications.
type Notifier struct {
	logger  *logging.Logger
	enabled bool
	mu      sync.RWMutex

	// send and alert are replaced in tests
	send  func(title, message string) error
	alert func(title, message string) error
}

// NewNotifier creates a notifier. A disabled notifier drops every message.
func NewNotifier(enabled bool, logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Notifier{
		logger:  logger,
		enabled: enabled,
		send: func(title, message string) error {
			// Windows toast, macOS notification center, D-Bus on Linux
			return beeep.Notify(title, message, "")
		},
		alert: func(title, message string) error {
			return beeep.Alert(title, message, "")
		},
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// TransferCompleted announces a finished copy or move.
func (n *Notifier) TransferCompleted(req transfer.Request, stats transfer.Stats) {
	if !n.IsEnabled() {
		return
	}

	title := "Copy Complete"
	if req.Mode == transfer.ModeMove {
		title = "Move Complete"
	}
	message := fmt.Sprintf("%d files (%v) to:\n%s",
		stats.FilesTransferred, bytesize.ByteSize(stats.BytesTransferred), shortenPath(req.Destination))

	if err := n.send(title, message); err != nil {
		n.logger.Warn().Err(err).Str("destination", req.Destination).Msg("Failed to send transfer complete notification")
	}
}

// TransferFailed announces a transfer that stopped on an error.
func (n *Notifier) TransferFailed(req transfer.Request, errorMsg string) {
	if !n.IsEnabled() {
		return
	}

	title := "Copy Failed"
	if req.Mode == transfer.ModeMove {
		title = "Move Failed"
	}
	message := fmt.Sprintf("%s:\n%s", shortenPath(req.Source), truncate(errorMsg, 100))

	if err := n.alertOrSend(title, message); err != nil {
		n.logger.Warn().Err(err).Str("source", req.Source).Msg("Failed to send transfer failed notification")
	}
}

// BatchFinished announces the end of a batch run.
func (n *Notifier) BatchFinished(completed, total int) {
	if !n.IsEnabled() || total == 0 {
		return
	}

	message := fmt.Sprintf("%d of %d transfers completed.", completed, total)
	var err error
	if completed == total {
		err = n.send(appName, message)
	} else {
		err = n.alertOrSend(appName+" Alert", message)
	}
	if err != nil {
		n.logger.Warn().Err(err).Msg("Failed to send batch notification")
	}
}

// alertOrSend prefers the more prominent alert and falls back to a plain notification.
func (n *Notifier) alertOrSend(title, message string) error {
	if err := n.alert(title, message); err == nil {
		return nil
	}
	return n.send(title, message)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// shortenPath abbreviates a long path for display in notifications.
func shortenPath(path string) string {
	const maxLen = 60

	if len(path) <= maxLen {
		return path
	}

	// Drive/root + ... + last 2 path components
	_, file := filepath.Split(path)
	parentDir := filepath.Base(filepath.Dir(path))
	short := filepath.Join("...", parentDir, file)

	vol := filepath.VolumeName(path)
	if vol != "" && len(vol)+len(short)+1 <= maxLen {
		short = vol + string(filepath.Separator) + short
	}

	if len(short) > maxLen {
		return "..." + path[len(path)-(maxLen-3):]
	}
	return short
}
