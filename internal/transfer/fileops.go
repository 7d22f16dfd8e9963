package transfer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/gns3/gns3-desktop/internal/constants"
	"github.com/gns3/gns3-desktop/internal/localfs"
)

// rename is os.Rename, swapped in tests to simulate a move across filesystems.
var rename = os.Rename

// ensureDir creates dir and any missing parents. An existing directory is fine;
// an existing file at dir is an error.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, constants.DirPerm)
}

// transferEntry copies or moves one non-directory entry to dst.
func transferEntry(mode Mode, entry localfs.FileEntry, dst string) error {
	if mode == ModeMove {
		return moveEntry(entry, dst)
	}
	return copyEntry(entry, dst)
}

// copyEntry duplicates a regular file (content, permissions, timestamps) or
// recreates a symbolic link pointing at the same target.
func copyEntry(entry localfs.FileEntry, dst string) error {
	switch {
	case entry.IsSymlink:
		return copySymlink(entry.Path, dst)
	case entry.Mode.IsRegular():
		return copyFile(entry.Path, dst)
	default:
		return ErrSpecialFile
	}
}

// moveEntry renames src to dst, falling back to copy and delete when the two
// paths are on different filesystems.
func moveEntry(entry localfs.FileEntry, dst string) error {
	err := rename(entry.Path, dst)
	if err == nil || !isCrossDevice(err) {
		return err
	}

	if err := copyEntry(entry, dst); err != nil {
		return err
	}
	if err := os.Remove(entry.Path); err != nil {
		return fmt.Errorf("copied but could not remove source: %w", err)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}

	return copyMetadata(src, dst, info)
}

// copyMetadata applies the permission bits and access/modification times of
// src to dst. The umask applied at creation is undone by the explicit chmod.
func copyMetadata(src, dst string, info fs.FileInfo) error {
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, accessTime(src, info), info.ModTime())
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Symlink(target, dst)
}
