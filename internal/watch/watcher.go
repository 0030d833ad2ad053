// Package watch reloads reference data files when they change on disk
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

// DefaultDebounce is used when no debounce delay is given
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher watches a set of files and calls a reload callback, debounced,
// after any of them is written, created or atomically replaced
type FileWatcher struct {
	mu sync.RWMutex

	files       []string
	lastModTime map[string]time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func()
	logger   *errors.Logger

	running bool
}

// NewFileWatcher returns a watcher for files. Empty paths are ignored
func NewFileWatcher(files []string, debounceDelay time.Duration, onReload func(), logger *errors.Logger) (*FileWatcher, error) {
	if onReload == nil {
		return nil, fmt.Errorf("reload callback is required")
	}
	if debounceDelay <= 0 {
		debounceDelay = DefaultDebounce
	}

	var watched []string
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		watched = append(watched, abs)
	}
	if len(watched) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	return &FileWatcher{
		files:         watched,
		lastModTime:   make(map[string]time.Time),
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}, nil
}

// Start begins watching
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		return fmt.Errorf("file watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw.fsWatcher = watcher

	if err := fw.updateModTimes(); err != nil {
		if closeErr := watcher.Close(); closeErr != nil && fw.logger != nil {
			fw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to get initial file modification times: %w", err)
	}

	for _, file := range fw.files {
		if err := fw.addFileToWatcher(file); err != nil && fw.logger != nil {
			fw.logger.Warn("Failed to watch file", "file", file, "error", err)
		}
	}

	fw.running = true
	go fw.watchLoop()

	if fw.logger != nil {
		fw.logger.Info("File watcher started", "files", fw.files, "debounce_delay", fw.debounceDelay)
	}
	return nil
}

// Stop stops watching. It is safe to call more than once
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return nil
	}

	close(fw.stopChan)
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.running = false

	if err := fw.fsWatcher.Close(); err != nil {
		if fw.logger != nil {
			fw.logger.LogError(err, "Failed to close file system watcher")
		}
		return err
	}

	if fw.logger != nil {
		fw.logger.Info("File watcher stopped")
	}
	return nil
}

// IsRunning reports whether the watcher is active
func (fw *FileWatcher) IsRunning() bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.running
}

// Files returns the absolute paths being watched
func (fw *FileWatcher) Files() []string {
	return slices.Clone(fw.files)
}

// addFileToWatcher watches the file and its directory; the directory catches
// editors and deploy tools that replace files by rename
func (fw *FileWatcher) addFileToWatcher(file string) error {
	dir := filepath.Dir(file)
	if _, err := os.Stat(file); err == nil {
		if err := fw.fsWatcher.Add(file); err != nil {
			return fmt.Errorf("failed to watch file %s: %w", file, err)
		}
	}
	if err := fw.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	return nil
}

func (fw *FileWatcher) updateModTimes() error {
	for _, file := range fw.files {
		stat, err := os.Stat(file)
		if err == nil {
			fw.lastModTime[file] = stat.ModTime()
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat file %s: %w", file, err)
		}
	}
	return nil
}

// hasFileChanged is only called from the watch loop
func (fw *FileWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			if _, exists := fw.lastModTime[file]; exists {
				delete(fw.lastModTime, file)
				return true
			}
		}
		return false
	}

	lastMod, exists := fw.lastModTime[file]
	if !exists || stat.ModTime().After(lastMod) {
		fw.lastModTime[file] = stat.ModTime()
		return true
	}
	return false
}

func (fw *FileWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-fw.fsWatcher.Events:
			if !ok {
				return
			}
			if fw.shouldProcessEvent(event) {
				fw.scheduleReload()
			}

		case err, ok := <-fw.fsWatcher.Errors:
			if !ok {
				return
			}
			if fw.logger != nil {
				fw.logger.LogError(err, "File watcher error")
			}

		case <-fw.reloadChan:
			// every file is checked so all modification times stay current
			changed := false
			for _, file := range fw.files {
				if fw.hasFileChanged(file) {
					changed = true
				}
			}
			if changed {
				if fw.logger != nil {
					fw.logger.Info("Watched files changed, reloading")
				}
				fw.onReload()
			}

		case <-fw.stopChan:
			return
		}
	}
}

func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	watched := slices.ContainsFunc(fw.files, func(file string) bool {
		return event.Name == file || filepath.Base(event.Name) == filepath.Base(file)
	})
	if !watched {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (fw *FileWatcher) scheduleReload() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.debounceDelay, func() {
		select {
		case fw.reloadChan <- struct{}{}:
		default:
		}
	})
}
