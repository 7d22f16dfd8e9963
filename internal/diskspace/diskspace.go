// Package diskspace checks the free space of the filesystem a transfer writes to.
package diskspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inhies/go-bytesize"
)

// InsufficientSpaceError indicates that there is not enough disk space available.
type InsufficientSpaceError struct {
	Path           string
	RequiredBytes  int64
	AvailableBytes int64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("insufficient disk space for %s: need %s, have %s available",
		e.Path, bytesize.New(float64(e.RequiredBytes)), bytesize.New(float64(e.AvailableBytes)))
}

// CheckAvailableSpace checks if there is sufficient disk space available under targetPath.
// targetPath may not exist yet; its nearest existing ancestor is probed instead.
//
// Parameters:
//   - targetPath: The directory or file that will be written
//   - requiredBytes: The number of bytes needed
//   - safetyMargin: Multiplier for safety (e.g., 1.15 for 15% buffer)
//
// Returns an InsufficientSpaceError if there is not enough space. If the free space
// cannot be determined the check passes and the transfer fails naturally if needed.
func CheckAvailableSpace(targetPath string, requiredBytes int64, safetyMargin float64) error {
	availableBytes, ok := availableSpace(existingAncestor(targetPath))
	if !ok {
		return nil
	}

	requiredWithMargin := int64(float64(requiredBytes) * safetyMargin)

	if availableBytes < requiredWithMargin {
		return &InsufficientSpaceError{
			Path:           targetPath,
			RequiredBytes:  requiredWithMargin,
			AvailableBytes: availableBytes,
		}
	}

	return nil
}

// GetAvailableSpace returns the available space in bytes for the filesystem
// containing the given path. Returns 0 if unable to determine.
func GetAvailableSpace(path string) int64 {
	n, _ := availableSpace(existingAncestor(path))
	return n
}

// IsInsufficientSpaceError checks if an error is, or wraps, an InsufficientSpaceError
func IsInsufficientSpaceError(err error) bool {
	var spaceErr *InsufficientSpaceError
	return errors.As(err, &spaceErr)
}

// existingAncestor walks up from path until it finds something that exists.
func existingAncestor(path string) string {
	current, err := filepath.Abs(path)
	if err != nil {
		current = filepath.Clean(path)
	}
	for {
		if _, err := os.Stat(current); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return current
		}
		current = parent
	}
}
