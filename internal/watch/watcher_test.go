package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("store_name,address\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBackfill(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.csv"))
	touch(t, filepath.Join(dir, "b.CSV"))
	touch(t, filepath.Join(dir, "notes.txt"))

	var got []string
	w := New(dir, func(path string) {
		got = append(got, filepath.Base(path))
	}, zerolog.Nop())

	if err := w.Backfill(); err != nil {
		t.Fatalf("Backfill: %v", err)
	}
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a.csv" || got[1] != "b.CSV" {
		t.Fatalf("handled = %v, want the two csv files", got)
	}
}

func TestStartSeesNewExport(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan string, 1)
	w := New(dir, func(path string) {
		select {
		case handled <- path:
		default:
		}
	}, zerolog.Nop())

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	touch(t, filepath.Join(dir, "export.csv"))

	select {
	case path := <-handled:
		if filepath.Base(path) != "export.csv" {
			t.Fatalf("handled %q, want export.csv", path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the create event")
	}
}

func TestStartIgnoresNonCSV(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan string, 1)
	w := New(dir, func(path string) { handled <- path }, zerolog.Nop())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	touch(t, filepath.Join(dir, "partial.tmp"))

	select {
	case path := <-handled:
		t.Fatalf("handler fired for %q", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestStartBadDirectory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := New(filepath.Join(t.TempDir(), "missing"), func(string) {}, zerolog.Nop())
	if err := w.Start(ctx); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}
