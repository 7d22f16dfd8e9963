package transfer

import (
	"errors"
	"fmt"
)

// ErrAlreadyStarted is returned by Worker.Start on a worker that has already run.
var ErrAlreadyStarted = errors.New("transfer already started")

// ErrSpecialFile is wrapped by a TransferError for sockets, pipes and devices,
// which cannot be copied as regular files.
var ErrSpecialFile = errors.New("not a regular file or symbolic link")

// DestinationCreateError means the destination root or one of its mirrored
// subdirectories could not be created.
type DestinationCreateError struct {
	Path string
	Err  error
}

func (e *DestinationCreateError) Error() string {
	return fmt.Sprintf("could not create directory %s: %v", e.Path, e.Err)
}

func (e *DestinationCreateError) Unwrap() error { return e.Err }

// TransferError means a single file could not be copied or moved.
type TransferError struct {
	Source      string
	Destination string
	Mode        Mode
	Err         error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("could not %s %s to %s: %v", e.Mode, e.Source, e.Destination, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// IsDestinationCreateError checks if an error is, or wraps, a DestinationCreateError
func IsDestinationCreateError(err error) bool {
	var target *DestinationCreateError
	return errors.As(err, &target)
}

// IsTransferError checks if an error is, or wraps, a TransferError
func IsTransferError(err error) bool {
	var target *TransferError
	return errors.As(err, &target)
}
