package session

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/twistedxcom/resume-deck/internal/logging"
)

var watchLog = logging.ForComponent(logging.CompSession)

// Watcher signals a reload when session logs under the root are created,
// removed or rewritten. Reload notifications are rate-limited so a burst of
// writes to an active log produces one refresh, not dozens.
type Watcher struct {
	fsw       *fsnotify.Watcher
	reloadCh  chan struct{}
	closeCh   chan struct{}
	closeOnce sync.Once
	limiter   *rate.Limiter
}

// NewWatcher watches root and its immediate project subdirectories.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		reloadCh: make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
		limiter:  rate.NewLimiter(rate.Limit(1), 2), // at most ~1 reload/sec
	}

	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}
	// Session logs live one level down (per-project directories).
	if entries, err := os.ReadDir(root); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				_ = fsw.Add(filepath.Join(root, e.Name()))
			}
		}
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.closeCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			watchLog.Debug("watcher_error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// New project directories need their own watch.
	if event.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			_ = w.fsw.Add(event.Name)
			return
		}
	}
	if !strings.HasSuffix(event.Name, ".jsonl") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if !w.limiter.Allow() {
		return
	}

	// Non-blocking send; a pending reload already covers this event.
	select {
	case w.reloadCh <- struct{}{}:
	default:
	}
}

// ReloadChannel returns the channel that signals when a reload is needed.
func (w *Watcher) ReloadChannel() <-chan struct{} {
	return w.reloadCh
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.fsw.Close()
	})
}
