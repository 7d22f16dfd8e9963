//go:build !windows

package transfer

import (
	"errors"
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

func accessTime(path string, info fs.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return info.ModTime()
	}
	sec, nsec := st.Atim.Unix()
	return time.Unix(sec, nsec)
}

// sameDevice reports whether a and b live on the same filesystem. Both must exist.
func sameDevice(a, b string) bool {
	var sa, sb unix.Stat_t
	if unix.Stat(a, &sa) != nil || unix.Stat(b, &sb) != nil {
		return false
	}
	return sa.Dev == sb.Dev
}
