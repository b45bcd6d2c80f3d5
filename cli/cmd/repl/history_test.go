package repl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestHistory(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/cache/" + baseHistory

	h := NewHistory(fs, path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"1 + 1", modeEval},
		{"vars", modeCtrl},
		{"  ", modeEval},
		{"x = 2", modeEval},
		{"x = 2", modeEval},
		{"1 + 1", modeEval},
		{"1 + 1", modeCtrl},
	} {
		if _, err := h.Write(e.Line, e.Mode); err != nil {
			t.Fatalf("Write(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"vars", modeCtrl},
		{"x = 2", modeEval},
		{"1 + 1", modeEval},
		{"1 + 1", modeCtrl},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "C:vars\nE:x = 2\nE:1 + 1\nC:1 + 1\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(fs, path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}

	if _, err := reloaded.Entry(len(want)); err != ErrOutOfBounds {
		t.Errorf("Entry(%d) error = %v, want %v", len(want), err, ErrOutOfBounds)
	}
}

func TestHistoryLegacyLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/h", []byte("pi * 2\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(fs, "/h")
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"pi * 2", modeEval}, {"quit", modeCtrl}}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}
