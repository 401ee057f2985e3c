package tiles

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 250 * time.Millisecond

// Watcher observes a local tile store (an MBTiles file) and invokes a
// callback when it is rewritten, so the widget can drop its cache and
// repaint with fresh tiles. Events are debounced; tile cutters rewrite the
// database in many small bursts.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	onChange func()
	done     chan struct{}
	log      *slog.Logger
}

// NewWatcher starts watching path. onChange runs on the watcher goroutine.
func NewWatcher(path string, onChange func(), log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// watch the directory; editors and tile cutters replace files by rename
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	w := &Watcher{
		fsw:      fsw,
		path:     filepath.Clean(path),
		onChange: onChange,
		done:     make(chan struct{}),
		log:      log,
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var (
		debounce *time.Timer
		fired    <-chan time.Time
	)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
			} else {
				// drain a stale expiry so Reset opens a fresh window
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(debounceDelay)
			}
			fired = debounce.C
		case <-fired:
			fired = nil
			w.log.Info("tile store changed, reloading", "path", w.path)
			w.onChange()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("tile store watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
