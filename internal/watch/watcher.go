package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const DefaultDebounce = 500 * time.Millisecond

// FileWatcher signals when any of a set of files is written or replaced.
// Parent directories are watched rather than the files themselves so that
// a rename over the target (as the atomic writer does) is still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool
	timer *time.Timer

	onChange chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewFileWatcher() (*FileWatcher, error) {
	return NewFileWatcherWithDebounce(DefaultDebounce)
}

func NewFileWatcherWithDebounce(d time.Duration) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher:  fsw,
		debounce: d,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		onChange: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Add registers path. The file does not need to exist yet.
func (w *FileWatcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	log.Debug().Str("file", abs).Msg("watching")
	return nil
}

// Start begins delivering change signals. Bursts of events within the
// debounce window collapse into one signal.
func (w *FileWatcher) Start() <-chan struct{} {
	go w.run()
	return w.onChange
}

func (w *FileWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.mu.Lock()
			watched := w.files[filepath.Clean(event.Name)]
			w.mu.Unlock()
			if watched {
				log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
				w.trigger()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *FileWatcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.onChange <- struct{}{}:
		default:
		}
	})
}

func (w *FileWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

// Files returns the watched paths in no particular order.
func (w *FileWatcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	return files
}
