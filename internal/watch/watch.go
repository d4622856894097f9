// Package watch reports changes to a single file. The parent directory is
// watched rather than the file itself so that editors which save by writing
// a temp file and renaming it over the original still trigger a change.
package watch

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before onChange fires.
const DefaultDebounce = 100 * time.Millisecond

var (
	// ErrStopped is returned by Watch after Stop.
	ErrStopped = errors.New("watcher stopped")
	// ErrAlreadyWatching is returned by a second Watch on the same Watcher.
	ErrAlreadyWatching = errors.New("watcher already watching a file")
)

// Watcher watches a single file for its lifetime.
type Watcher struct {
	// Debounce collapses bursts of events into one callback.
	Debounce time.Duration

	fw       *fsnotify.Watcher
	log      *slog.Logger
	done     chan struct{}
	watching bool
	stopped  bool
	mu       sync.Mutex
}

// New creates a watcher. A nil log discards watcher errors.
func New(log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		Debounce: DefaultDebounce,
		fw:       fw,
		log:      log,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring path. onChange is called with the absolute path
// once per settled burst of writes, creates, renames or removes, and never
// concurrently with itself.
func (w *Watcher) Watch(path string, onChange func(path string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	if w.watching {
		return ErrAlreadyWatching
	}
	if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
		return err
	}
	w.watching = true

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	go func() {
		// fire receives a tick once the burst settles.
		fire := make(chan struct{}, 1)
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath || !relevant(event) {
					continue
				}
				w.log.Debug("file event", "path", absPath, "op", event.Op.String())
				if timer == nil {
					timer = time.AfterFunc(debounce, func() {
						select {
						case fire <- struct{}{}:
						default:
						}
					})
				} else {
					timer.Reset(debounce)
				}

			case <-fire:
				onChange(absPath)

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", "path", absPath, "error", err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
