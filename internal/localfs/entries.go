package localfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gns3/gns3-desktop/internal/pathutil"
)

// FileEntry represents a file or directory in the local filesystem.
type FileEntry struct {
	Path      string      // Full path to the file
	Name      string      // Base name of the file
	Size      int64       // Size in bytes (0 for directories)
	IsDir     bool        // True if this is a directory (symlinks to directories are not)
	IsSymlink bool        // True if the entry itself is a symbolic link
	ModTime   time.Time   // Last modification time
	Mode      fs.FileMode // File mode/permissions
}

// ListDirectory returns the contents of a directory, filtered by options.
// Entries come back sorted by name, so repeated listings of an unchanged
// directory yield the same order.
func ListDirectory(path string, opts ListOptions) ([]FileEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	result := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()

		if !opts.IncludeHidden && IsHiddenName(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Vanished between ReadDir and Lstat
			continue
		}

		result = append(result, newEntry(filepath.Join(path, name), entry, info))
	}

	return result, nil
}

// SplitEntries partitions entries into directories and everything else,
// preserving order within each group.
func SplitEntries(entries []FileEntry) (dirs, files []FileEntry) {
	for _, e := range entries {
		if e.IsDir {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	return dirs, files
}

// WalkFunc is the callback signature for Walk.
// Return filepath.SkipDir to skip a directory, or any other error to stop walking.
type WalkFunc func(entry FileEntry) error

// Walk traverses a directory tree, calling fn for each file and directory.
// It respects WalkOptions for hidden file/directory filtering.
//
// The walk is depth-first in lexical order. Directories are visited before their
// contents. Unreadable entries are skipped rather than reported. Symbolic links are
// reported but never followed, except for root itself.
func Walk(root string, opts WalkOptions, fn WalkFunc) error {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		name := d.Name()

		if path != root && !opts.IncludeHidden && IsHiddenName(name) {
			if d.IsDir() && opts.SkipHiddenDirs {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		return fn(newEntry(path, d, info))
	})
}

// WalkFiles is a convenience wrapper around Walk that only visits non-directory
// entries (regular files, symlinks and other special files).
func WalkFiles(root string, opts WalkOptions, fn WalkFunc) error {
	return Walk(root, opts, func(entry FileEntry) error {
		if entry.IsDir {
			return nil
		}
		return fn(entry)
	})
}

// CountFiles returns the number of non-directory entries under root and their
// total size. A missing or unreadable root counts as empty.
func CountFiles(root string) (files int, bytes int64) {
	_ = WalkFiles(root, TransferWalk, func(entry FileEntry) error {
		files++
		if !entry.IsSymlink {
			bytes += entry.Size
		}
		return nil
	})
	return files, bytes
}

// IsWithin reports whether path is root itself or lies underneath it.
// Both paths are made absolute with symlinks resolved where they exist, so a
// destination reached through a link into the source is still caught.
func IsWithin(root, path string) bool {
	absRoot, err := pathutil.ResolveAbsolutePath(root)
	if err != nil {
		return false
	}
	absPath, err := pathutil.ResolveAbsolutePath(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func newEntry(path string, d fs.DirEntry, info fs.FileInfo) FileEntry {
	isSymlink := info.Mode()&fs.ModeSymlink != 0
	size := info.Size()
	if d.IsDir() {
		size = 0
	}
	return FileEntry{
		Path:      path,
		Name:      d.Name(),
		Size:      size,
		IsDir:     d.IsDir() && !isSymlink,
		IsSymlink: isSymlink,
		ModTime:   info.ModTime(),
		Mode:      info.Mode(),
	}
}
