package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTextBatchUI(t *testing.T) {
	var buf bytes.Buffer
	ui := NewTextBatchUI(3, &buf)
	if ui.IsTerminal() {
		t.Fatal("text UI should not report a terminal")
	}

	ok := ui.AddTransferBar("copy", "/data/projects/a", "/backup/projects/a")
	failed := ui.AddTransferBar("move", "/data/b", "/backup/b")
	cancelled := ui.AddTransferBar("copy", "c", "d")

	ok.Update(500)
	ok.Finish()
	ok.Finish()
	failed.Error(errors.New("permission denied"))
	cancelled.Error(ErrCancelled)
	ui.Wait()

	out := buf.String()
	for _, want := range []string{
		"Copy [1/3]: …/projects/a → …/projects/a",
		"Move [2/3]: …/data/b → …/backup/b",
		"Copy [3/3]: c → d",
		"✓ …/projects/a → …/projects/a",
		"✗ …/data/b → …/backup/b: permission denied",
		"- c → d: cancelled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "✓") != 1 {
		t.Errorf("Finish twice should print once:\n%s", out)
	}
	if got := ui.Completed(); got != 3 {
		t.Errorf("Completed() = %d, want 3", got)
	}
}

func TestTextBatchUI_Writer(t *testing.T) {
	var buf bytes.Buffer
	ui := NewTextBatchUI(1, &buf)
	if ui.Writer() != &buf {
		t.Error("Writer() should return the plain output without a terminal")
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path string
		n    int
		want string
	}{
		{"file.txt", 2, "file.txt"},
		{"dir/file.txt", 2, "file.txt"},
		{"/a/b/c/d/file.txt", 3, "…/c/d/file.txt"},
		{"a/b/c", 2, "…/b/c"},
	}
	for _, tt := range tests {
		if got := truncatePath(tt.path, tt.n); got != tt.want {
			t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.n, got, tt.want)
		}
	}
}

func TestCapitalize(t *testing.T) {
	if got := capitalize("move"); got != "Move" {
		t.Errorf("capitalize(move) = %q", got)
	}
	if got := capitalize(""); got != "" {
		t.Errorf("capitalize(\"\") = %q", got)
	}
}
