package transfer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gns3/gns3-desktop/internal/localfs"
)

// Mode selects whether files are duplicated or relocated.
type Mode string

const (
	ModeCopy Mode = "copy"
	ModeMove Mode = "move"
)

// ParseMode accepts "copy" or "move" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCopy, ModeMove:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Request validation errors
var (
	ErrEmptySource             = errors.New("source directory is required")
	ErrEmptyDestination        = errors.New("destination directory is required")
	ErrInvalidMode             = errors.New("mode must be copy or move")
	ErrDestinationInsideSource = errors.New("destination is inside the source directory")
)

// Request describes one transfer run. It is copied into the worker and never
// changes afterwards.
type Request struct {
	Source      string
	Destination string
	Mode        Mode
}

// Validate checks the request before a worker is built for it.
func (r Request) Validate() error {
	if r.Source == "" {
		return ErrEmptySource
	}
	if r.Destination == "" {
		return ErrEmptyDestination
	}
	if r.Mode != ModeCopy && r.Mode != ModeMove {
		return fmt.Errorf("%w: %q", ErrInvalidMode, r.Mode)
	}
	// Mirroring into a subtree of the source would walk its own output.
	if localfs.IsWithin(r.Source, r.Destination) {
		return fmt.Errorf("%w: %s is under %s", ErrDestinationInsideSource, r.Destination, r.Source)
	}
	return nil
}
