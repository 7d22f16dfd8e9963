// Package gui shows a transfer in a small desktop window with a progress bar
// and a Cancel button.
package gui

import (
	"errors"
	"os"
	"runtime"
)

// ErrNoDisplay is returned on hosts without a graphical session.
var ErrNoDisplay = errors.New("GUI mode requires a display. DISPLAY and WAYLAND_DISPLAY are not set.\n" +
	"Run without --gui for terminal progress")

// CheckDisplay reports whether a window can be opened. Only Linux is checked;
// Windows and macOS always have a session when a user runs the tool.
func CheckDisplay() error {
	return checkDisplay(runtime.GOOS, os.Getenv)
}

func checkDisplay(goos string, getenv func(string) string) error {
	if goos != "linux" {
		return nil
	}
	if getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == "" {
		return ErrNoDisplay
	}
	return nil
}
