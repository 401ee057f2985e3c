package tiles

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiresOnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.mbtiles")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(path, func() { changed <- struct{}{} }, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired after rewrite")
	}
}

func TestWatcherDebouncesBurstsAndRearms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.mbtiles")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 16)
	w, err := NewWatcher(path, func() { changed <- struct{}{} }, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// a burst of rewrites collapses into a single notification
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("burst"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired for the burst")
	}
	select {
	case <-changed:
		t.Fatal("burst produced more than one notification")
	case <-time.After(600 * time.Millisecond):
	}

	// after the timer has expired once, the next rewrite must wait out a
	// fresh debounce window rather than consuming a stale expiry
	start := time.Now()
	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		if since := time.Since(start); since < debounceDelay {
			t.Errorf("watcher fired after %v, before the %v debounce window", since, debounceDelay)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired after re-arming")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.mbtiles")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(path, func() { changed <- struct{}{} }, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
		t.Fatal("watcher fired for an unrelated file")
	case <-time.After(600 * time.Millisecond):
	}
}
