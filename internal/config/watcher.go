package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"sensoragent/internal/logger"
)

// FileWatcher monitors a single file for changes and invokes a callback on
// modification. The parent directory is watched so editors that replace the
// file (write to temp, rename) are still observed.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()
	log      zerolog.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewFileWatcher creates a generic file watcher that calls onChange when the
// file is modified.
func NewFileWatcher(path string, log zerolog.Logger, onChange func()) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		path:     path,
		watcher:  w,
		onChange: onChange,
		log:      logger.WithComponent(log, "file-watcher"),
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching for file changes.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = true
	fw.mu.Unlock()

	dir := filepath.Dir(fw.path)
	if err := fw.watcher.Add(dir); err != nil {
		return err
	}

	fw.log.Info().Str("path", fw.path).Msg("Started watching file")

	go fw.watch()
	return nil
}

// Stop stops watching for changes.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = false
	fw.mu.Unlock()

	close(fw.stopChan)
	return fw.watcher.Close()
}

// IsRunning returns whether the watcher is currently running.
func (fw *FileWatcher) IsRunning() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.running
}

func (fw *FileWatcher) watch() {
	filename := filepath.Base(fw.path)

	for {
		select {
		case <-fw.stopChan:
			fw.log.Info().Str("path", fw.path).Msg("File watcher stopped")
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fw.log.Info().
					Str("path", fw.path).
					Str("event", event.Op.String()).
					Msg("File changed, reloading")

				if fw.onChange != nil {
					fw.onChange()
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Error().Err(err).Str("path", fw.path).Msg("File watcher error")
		}
	}
}

// NewLoggingWatcher creates a watcher that reloads the logging configuration
// on file change, so the log level can be adjusted without a restart.
func NewLoggingWatcher(path string, log zerolog.Logger, callback func(*logger.Config)) (*FileWatcher, error) {
	wlog := logger.WithComponent(log, "logging-watcher")
	return NewFileWatcher(path, log, func() {
		lc, err := LoadLogging(path)
		if err != nil {
			wlog.Error().Err(err).Msg("Failed to reload logging configuration")
			return
		}
		if callback != nil {
			callback(lc)
		}
	})
}
