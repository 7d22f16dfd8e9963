package localfs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{".gitignore", true},
		{"visible.txt", false},
		{"normal", false},
		{"/path/to/.hidden", true},
		{"/path/to/visible.txt", false},
		{"../.hidden", true},
		{"../visible.txt", false},
		{"..", false}, // Special case: parent dir reference
		{".", false},  // Special case: current dir reference
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := IsHidden(tt.path)
			if result != tt.expected {
				t.Errorf("IsHidden(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

// makeTree creates files (relative paths, "/" separated) under root.
func makeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("content of "+f), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	makeTree(t, tmpDir, "b.txt", "a.txt", ".hidden", "sub/c.txt")

	t.Run("exclude hidden", func(t *testing.T) {
		entries, err := ListDirectory(tmpDir, ListOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 3 {
			t.Fatalf("got %d entries, want 3", len(entries))
		}
	})

	t.Run("sorted and complete", func(t *testing.T) {
		entries, err := ListDirectory(tmpDir, ListOptions{IncludeHidden: true})
		if err != nil {
			t.Fatal(err)
		}
		want := []string{".hidden", "a.txt", "b.txt", "sub"}
		if len(entries) != len(want) {
			t.Fatalf("got %d entries, want %d", len(entries), len(want))
		}
		for i, e := range entries {
			if e.Name != want[i] {
				t.Errorf("entry %d = %q, want %q", i, e.Name, want[i])
			}
			if e.Path != filepath.Join(tmpDir, e.Name) {
				t.Errorf("entry %q has Path=%q", e.Name, e.Path)
			}
		}
		if !entries[3].IsDir {
			t.Error("sub should be a directory")
		}
		if entries[3].Size != 0 {
			t.Errorf("directory size = %d, want 0", entries[3].Size)
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		_, err := ListDirectory(filepath.Join(tmpDir, "missing"), ListOptions{})
		if err == nil {
			t.Error("expected error for nonexistent directory")
		}
	})
}

func TestSplitEntries(t *testing.T) {
	entries := []FileEntry{
		{Name: "a", IsDir: true},
		{Name: "b"},
		{Name: "c", IsDir: true},
		{Name: "d"},
	}
	dirs, files := SplitEntries(entries)
	if len(dirs) != 2 || dirs[0].Name != "a" || dirs[1].Name != "c" {
		t.Errorf("dirs = %+v", dirs)
	}
	if len(files) != 2 || files[0].Name != "b" || files[1].Name != "d" {
		t.Errorf("files = %+v", files)
	}
}

func TestWalkOrder(t *testing.T) {
	tmpDir := t.TempDir()
	makeTree(t, tmpDir, "z.txt", "a/b.txt", "a/a.txt", "m/x.txt")

	var visited []string
	err := WalkFiles(tmpDir, TransferWalk, func(entry FileEntry) error {
		rel, _ := filepath.Rel(tmpDir, entry.Path)
		visited = append(visited, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a/a.txt", "a/b.txt", "m/x.txt", "z.txt"}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

func TestWalkSkipsHiddenDirs(t *testing.T) {
	tmpDir := t.TempDir()
	makeTree(t, tmpDir, "keep.txt", ".git/config", ".env")

	var count int
	err := WalkFiles(tmpDir, WalkOptions{SkipHiddenDirs: true}, func(entry FileEntry) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("visited %d files, want 1", count)
	}
}

func TestCountFiles(t *testing.T) {
	tmpDir := t.TempDir()
	makeTree(t, tmpDir, "a.txt", "sub/b.txt", "sub/deeper/.c")

	files, bytes := CountFiles(tmpDir)
	if files != 3 {
		t.Errorf("files = %d, want 3", files)
	}
	want := int64(len("content of a.txt") + len("content of sub/b.txt") + len("content of sub/deeper/.c"))
	if bytes != want {
		t.Errorf("bytes = %d, want %d", bytes, want)
	}

	t.Run("empty", func(t *testing.T) {
		files, bytes := CountFiles(t.TempDir())
		if files != 0 || bytes != 0 {
			t.Errorf("CountFiles(empty) = %d, %d", files, bytes)
		}
	})

	t.Run("missing", func(t *testing.T) {
		files, _ := CountFiles(filepath.Join(tmpDir, "nope"))
		if files != 0 {
			t.Errorf("CountFiles(missing) = %d, want 0", files)
		}
	})
}

func TestCountFilesSymlinkRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "target")
	makeTree(t, target, "one", "two")

	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	if files, _ := CountFiles(link); files != 2 {
		t.Errorf("CountFiles(symlink root) = %d, want 2", files)
	}
}

func TestIsWithin(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "projects", "lab")
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"same", root, true},
		{"child", filepath.Join(root, "backup"), true},
		{"grandchild", filepath.Join(root, "a", "b"), true},
		{"sibling", filepath.Join(string(filepath.Separator), "projects", "lab2"), false},
		{"parent", filepath.Join(string(filepath.Separator), "projects"), false},
		{"dotted name", filepath.Join(root, "..lab"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWithin(root, tt.path); got != tt.want {
				t.Errorf("IsWithin(%q, %q) = %v, want %v", root, tt.path, got, tt.want)
			}
		})
	}
}

func TestIsWithin_ThroughSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	base := t.TempDir()
	src := filepath.Join(base, "src")
	if err := os.Mkdir(src, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "alias")
	if err := os.Symlink(src, link); err != nil {
		t.Fatal(err)
	}

	if !IsWithin(src, filepath.Join(link, "copy")) {
		t.Error("destination reached through a link into the source should be detected")
	}
	if IsWithin(src, filepath.Join(base, "other")) {
		t.Error("sibling reported as nested")
	}
}
