package document

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher signals when any checklist document may have changed. It watches the
// directories holding the documents rather than the files, so editors that
// save by rename are still seen.
type Watcher struct {
	watcher     *fsnotify.Watcher
	changes     chan struct{}
	debounceDur time.Duration
	log         zerolog.Logger
}

// NewWatcher watches the parent directories of paths.
func NewWatcher(paths []string, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:     fw,
		changes:     make(chan struct{}, 1),
		debounceDur: defaultDebounce,
		log:         log.With().Str("component", "document-watcher").Logger(),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}

	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
		w.log.Debug().Str("dir", dir).Msg("watching directory")
	}

	return w, nil
}

// Changes returns a channel that receives a value after a burst of document
// changes settles. Signals are coalesced; at most one is pending at a time.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run processes filesystem events until ctx is cancelled or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) {
	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)

	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if shouldIgnore(event.Name) {
				continue
			}

			w.log.Debug().
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("file system event")

			if debounce == nil {
				debounce = time.NewTimer(w.debounceDur)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(w.debounceDur)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	for _, ext := range []string{".tmp", ".lock", ".swp", ".swx", "~"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}

	return false
}
