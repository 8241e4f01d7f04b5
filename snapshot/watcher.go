package snapshot

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/qbe/graph"
	"github.com/syssam/qbe/schema/load"
)

// WatcherConfig configures a catalog file watcher.
type WatcherConfig struct {
	// Path is the YAML catalog file to watch.
	Path string

	// Directed builds directed graphs.
	Directed bool

	// Debounce is how long to wait for further writes before
	// rebuilding. Defaults to 100ms.
	Debounce time.Duration

	// Logger for rebuild reporting. Defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher rebuilds the snapshot whenever the catalog file changes and
// publishes it to a Holder. A rebuild failure keeps the previous
// snapshot in place: a serving process must not lose its graph because
// someone saved a broken catalog, but the error is logged untouched.
type Watcher struct {
	cfg    WatcherConfig
	holder *Holder
	fsw    *fsnotify.Watcher
	logger *slog.Logger
}

// NewWatcher creates a watcher publishing into holder. The watch is
// registered on the catalog's directory, so editor save strategies that
// replace the file (rename + create) are still observed.
func NewWatcher(cfg WatcherConfig, holder *Holder) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(cfg.Path)); err != nil {
		fsw.Close()
		return nil, err
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{cfg: cfg, holder: holder, fsw: fsw, logger: logger}, nil
}

// Run performs an initial build, then rebuilds on file changes until
// the context is canceled. It always returns the context's error.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	w.rebuild()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		watched = filepath.Clean(w.cfg.Path)
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.cfg.Debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.rebuild()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("catalog watch error", "path", w.cfg.Path, "error", err)
		}
	}
}

func (w *Watcher) rebuild() {
	c, err := load.File(w.cfg.Path)
	if err != nil {
		w.logger.Error("catalog rebuild failed", "path", w.cfg.Path, "error", err)
		return
	}
	var opts []graph.Option
	if w.cfg.Directed {
		opts = append(opts, graph.Directed())
	}
	s, err := New(c, opts...)
	if err != nil {
		w.logger.Error("graph rebuild failed", "path", w.cfg.Path, "error", err)
		return
	}
	w.holder.Store(s)
	w.logger.Info("snapshot published",
		"id", s.ID,
		"entities", c.Len(),
		"nodes", s.Graph.Len(),
	)
}
