package catalog

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a snapshot file into a Holder whenever the file is
// replaced. The parent directory is watched rather than the file itself
// because WriteFile swaps snapshots by rename.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Reloaded <-chan *Store // receives each successfully loaded store

	holder   *Holder
	reloaded chan *Store
	done     chan struct{}
	started  bool
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for the snapshot at path.
func NewWatcher(path string, holder *Holder) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan *Store, 1)
	return &Watcher{
		Path:     abs,
		Debounce: 200 * time.Millisecond,
		Reloaded: ch,
		holder:   holder,
		reloaded: ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if w.Debounce <= 0 {
		w.Debounce = 200 * time.Millisecond
	}
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop closes the watcher and waits for the loop to exit, if Start
// succeeded. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.watcher.Close()
	if w.started {
		<-w.done
	}
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < w.Debounce {
				continue
			}
			pending = time.Time{}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("snapshot watch error", "path", w.Path, "error", err)
		}
	}
}

func (w *Watcher) reload() {
	store, _, err := LoadFile(w.Path)
	if err != nil {
		// Keep serving the previous snapshot.
		slog.Warn("snapshot reload failed", "path", w.Path, "error", err)
		return
	}
	w.holder.Swap(store)
	slog.Info("snapshot reloaded", "path", w.Path, "tools", store.Len())

	select {
	case w.reloaded <- store:
	default:
	}
}
