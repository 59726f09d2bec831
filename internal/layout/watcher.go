package layout

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the layout directory and reports which saved layout
// changed on disk, so a running daemon can hot-reload a layout edited or
// synced from elsewhere.
type Watcher struct {
	fs      *fsnotify.Watcher
	changed chan string
	logger  *slog.Logger
}

// NewWatcher starts watching the layout directory. The directory is created
// if it does not exist yet, so a watch can outlive the first save.
func NewWatcher(logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create layout directory: %w", err)
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	return &Watcher{
		fs:      fs,
		changed: make(chan string, 16),
		logger:  logger,
	}, nil
}

// Changed delivers the names of layouts modified on disk.
func (w *Watcher) Changed() <-chan string {
	return w.changed
}

// Run pumps filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			name = strings.TrimSuffix(name, ".json")
			select {
			case w.changed <- name:
			default:
				// Slow consumer; drop rather than stall the event pump.
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("layout watcher error", "error", err)
		}
	}
}
