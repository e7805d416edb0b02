// Package watcher reports changes to model files so the explorer can
// reload them.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches files for changes and delivers their paths, debounced,
// on Changes. It never touches explorer state.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]bool
	dirs     map[string]int
	debounce time.Duration
	timers   map[string]*time.Timer
	changes  chan string
	closed   bool
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  w,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		changes:  make(chan string, 4),
	}, nil
}

// Watch adds files. The parent directories are watched so that editors
// replacing a file by rename are still seen.
func (fw *FileWatcher) Watch(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve path %s: %w", file, err)
		}
		if fw.files[absPath] {
			continue
		}
		dir := filepath.Dir(absPath)
		if fw.dirs[dir] == 0 {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}
		fw.dirs[dir]++
		fw.files[absPath] = true
	}
	return nil
}

// Changes delivers the absolute path of each changed file. A change that
// arrives while the buffer is full is dropped; the pending reload reads the
// latest contents anyway.
func (fw *FileWatcher) Changes() <-chan string {
	return fw.changes
}

// Start begins watching for file changes.
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					fw.handleFileChange(filepath.Clean(event.Name))
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("watcher error: %v", err)
			}
		}
	}()
}

// handleFileChange restarts the file's debounce timer.
func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed || !fw.files[filePath] {
		return
	}
	if timer, exists := fw.timers[filePath]; exists {
		timer.Stop()
	}
	fw.timers[filePath] = time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		defer fw.mu.Unlock()
		delete(fw.timers, filePath)
		if fw.closed {
			return
		}
		select {
		case fw.changes <- filePath:
			log.LogVf("model changed: %s", filePath)
		default:
		}
	})
}

// Close stops the watcher. Pending changes are discarded.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	fw.closed = true
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.timers = make(map[string]*time.Timer)
	fw.mu.Unlock()
	return fw.watcher.Close()
}

// RemoveAll stops watching every file.
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for dir := range fw.dirs {
		if err := fw.watcher.Remove(dir); err != nil {
			return err
		}
	}
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.files = make(map[string]bool)
	fw.dirs = make(map[string]int)
	fw.timers = make(map[string]*time.Timer)
	return nil
}
