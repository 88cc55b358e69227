// Package watcher reports debounced changes to source files so extraction can
// be re-run on just the files that changed.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher monitors source files for changes with debouncing.
type FileWatcher interface {
	// Start begins watching, calling callback with debounced, sorted file paths.
	// Callbacks run one at a time on the watcher goroutine; events arriving
	// meanwhile are reported in a later batch.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error
}

// Option configures a FileWatcher.
type Option func(*fileWatcher)

// WithDebounce sets the quiet period before a batch is reported.
func WithDebounce(d time.Duration) Option {
	return func(fw *fileWatcher) {
		if d > 0 {
			fw.debounceTime = d
		}
	}
}

// WithFilter drops changed paths, and skips directories, for which keep
// returns false.
func WithFilter(keep func(path string) bool) Option {
	return func(fw *fileWatcher) {
		fw.filter = keep
	}
}

type fileWatcher struct {
	watcher       *fsnotify.Watcher
	suffixes      map[string]bool      // lowercase extensions to monitor
	only          string               // set when watching a single file
	filter        func(path string) bool
	debounceTime  time.Duration        // quiet period before firing callback
	callback      func(files []string) // invoked with changed files
	ctx           context.Context
	cancel        context.CancelFunc
	accumulated   map[string]bool
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
}

// NewFileWatcher watches root for changes to files whose extension is in
// suffixes. A directory root is watched recursively, including directories
// created later; a file root reports only that file.
func NewFileWatcher(root string, suffixes []string, opts ...Option) (FileWatcher, error) {
	if len(suffixes) == 0 {
		return nil, errors.New("no suffixes to watch")
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	extMap := make(map[string]bool, len(suffixes))
	for _, ext := range suffixes {
		extMap[strings.ToLower(ext)] = true
	}

	fw := &fileWatcher{
		watcher:      watcher,
		suffixes:     extMap,
		debounceTime: DefaultDebounce,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(fw)
	}

	if info.IsDir() {
		err = fw.addDirectoriesRecursively(root)
	} else {
		fw.only = filepath.Clean(root)
		err = watcher.Add(filepath.Dir(root))
	}
	if err != nil {
		watcher.Close()
		return nil, err
	}

	return fw, nil
}

// Start begins watching for file changes.
func (fw *fileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return errors.New("callback is required")
	}

	fw.callback = callback
	fw.ctx, fw.cancel = context.WithCancel(ctx)

	go fw.watch()
	return nil
}

// Stop stops the file watcher. It is safe to call more than once.
func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.doneCh
		} else {
			close(fw.doneCh)
		}
		err = fw.watcher.Close()
	})
	return err
}

func (fw *fileWatcher) watch() {
	defer close(fw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-fw.ctx.Done():
			fw.stopDebounceTimer()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if fw.only == "" && event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addDirectoriesRecursively(event.Name); err != nil {
						log.Warn().Err(err).Str("dir", event.Name).Msg("Failed to watch new directory")
					}
				}
			}

			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.accumulatedMu.Lock()
			fw.accumulated[event.Name] = true
			fw.accumulatedMu.Unlock()

			fw.resetDebounceTimer(fireCh)

		case <-fireCh:
			fw.flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("File watcher error")
		}
	}
}

// flush hands the accumulated paths, sorted, to the callback.
func (fw *fileWatcher) flush() {
	fw.accumulatedMu.Lock()
	if len(fw.accumulated) == 0 {
		fw.accumulatedMu.Unlock()
		return
	}
	files := make([]string, 0, len(fw.accumulated))
	for file := range fw.accumulated {
		files = append(files, file)
	}
	fw.accumulated = make(map[string]bool)
	fw.accumulatedMu.Unlock()

	slices.Sort(files)
	if fw.callback != nil {
		fw.callback(files)
	}
}

// resetDebounceTimer restarts the quiet period.
func (fw *fileWatcher) resetDebounceTimer(fireCh chan struct{}) {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	fw.debounceTimer = time.AfterFunc(fw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (fw *fileWatcher) stopDebounceTimer() {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
		fw.debounceTimer = nil
	}
}

// shouldProcessEvent keeps writes, creates, removes and renames of monitored files.
func (fw *fileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if fw.only != "" {
		return filepath.Clean(event.Name) == fw.only
	}
	if !fw.suffixes[strings.ToLower(filepath.Ext(event.Name))] {
		return false
	}
	return fw.filter == nil || fw.filter(event.Name)
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (fw *fileWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("Error accessing path")
			return nil
		}

		if !d.IsDir() {
			return nil
		}
		if path != rootPath && fw.filter != nil && !fw.filter(path) {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			log.Warn().Err(err).Str("dir", path).Msg("Failed to watch directory")
		}
		return nil
	})
}
