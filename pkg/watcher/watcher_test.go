package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newWatched(t *testing.T, debounce time.Duration) (*FileWatcher, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	writeFile(t, path, "solid a\nendsolid a\n")

	fw, err := NewFileWatcher(debounce)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	t.Cleanup(func() { _ = fw.Close() })
	if err := fw.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	fw.Start()
	return fw, path
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
}

func waitChange(fw *FileWatcher, timeout time.Duration) (string, bool) {
	select {
	case p := <-fw.Changes():
		return p, true
	case <-time.After(timeout):
		return "", false
	}
}

func TestWriteIsReported(t *testing.T) {
	fw, path := newWatched(t, 20*time.Millisecond)
	writeFile(t, path, "solid b\nendsolid b\n")

	got, ok := waitChange(fw, 2*time.Second)
	if !ok {
		t.Fatal("no change reported")
	}
	if want, _ := filepath.Abs(path); got != want {
		t.Errorf("changed path = %q, want %q", got, want)
	}
}

func TestBurstIsDebounced(t *testing.T) {
	fw, path := newWatched(t, 150*time.Millisecond)
	for i := range 5 {
		writeFile(t, path, string(rune('a'+i)))
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok := waitChange(fw, 2*time.Second); !ok {
		t.Fatal("no change reported")
	}
	if _, again := waitChange(fw, 400*time.Millisecond); again {
		t.Error("burst produced more than one change")
	}
}

func TestReplaceByRename(t *testing.T) {
	fw, path := newWatched(t, 20*time.Millisecond)
	tmp := path + ".tmp"
	writeFile(t, tmp, "new")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	if _, ok := waitChange(fw, 2*time.Second); !ok {
		t.Error("atomic replace not reported")
	}
}

func TestUnwatchedSiblingIgnored(t *testing.T) {
	fw, path := newWatched(t, 20*time.Millisecond)
	writeFile(t, filepath.Join(filepath.Dir(path), "other.obj"), "v 0 0 0\n")

	if p, ok := waitChange(fw, 300*time.Millisecond); ok {
		t.Errorf("sibling change reported: %q", p)
	}
}

func TestRemoveAll(t *testing.T) {
	fw, path := newWatched(t, 20*time.Millisecond)
	if err := fw.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	writeFile(t, path, "x")
	if p, ok := waitChange(fw, 300*time.Millisecond); ok {
		t.Errorf("change after RemoveAll: %q", p)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()
	if err := fw.Watch(filepath.Join(t.TempDir(), "missing", "m.stl")); err == nil {
		t.Error("Watch of a missing directory succeeded")
	}
}
