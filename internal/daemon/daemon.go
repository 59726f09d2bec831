// Package daemon assembles the long-running floatdeck process: the window
// store, the IPC control socket, the remote sync bridge and the layout
// directory watcher.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/floatdeck/floatdeck/internal/config"
	"github.com/floatdeck/floatdeck/internal/ipc"
	"github.com/floatdeck/floatdeck/internal/layout"
	"github.com/floatdeck/floatdeck/internal/syncbridge"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// Daemon owns the window store and its supporting services.
type Daemon struct {
	cfg    *config.Config
	store  *wm.Store
	logger *slog.Logger

	bridge    *syncbridge.Bridge
	ipcServer *ipc.Server
	watcher   *layout.Watcher
}

// New wires up a daemon from the loaded configuration. The sync bridge is
// only created when a sync URL is configured.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store := wm.NewStore(logger)
	store.SetViewport(cfg.ViewportSize())

	d := &Daemon{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}

	if cfg.DefaultLayout != "" {
		lay := layout.ReadOrEmpty(cfg.DefaultLayout)
		lay.Apply(store)
		logger.Info("applied default layout", "name", cfg.DefaultLayout, "windows", len(lay.Windows))
	}

	if cfg.Sync.URL != "" {
		interval := time.Duration(cfg.Sync.BroadcastIntervalSeconds) * time.Second
		d.bridge = syncbridge.New(cfg.Sync.URL, store, interval, logger)
		d.bridge.OnSaveLayout = d.saveLayout
		d.bridge.OnLoadLayout = d.loadLayout
	}

	ipcServer, err := ipc.NewServer(store, d.SyncState, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create IPC server: %w", err)
	}
	d.ipcServer = ipcServer

	watcher, err := layout.NewWatcher(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to watch layout directory: %w", err)
	}
	d.watcher = watcher

	return d, nil
}

// Store exposes the window store, mainly for tests and embedding.
func (d *Daemon) Store() *wm.Store {
	return d.store
}

// SyncState reports the bridge state for GET_STATUS, or "disabled" when no
// sync URL is configured.
func (d *Daemon) SyncState() string {
	if d.bridge == nil {
		return "disabled"
	}
	return string(d.bridge.State())
}

// Run starts every service and blocks until ctx is canceled or a service
// fails.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.ipcServer.Start(); err != nil {
		return err
	}
	defer d.ipcServer.Stop()

	g, ctx := errgroup.WithContext(ctx)

	if d.bridge != nil {
		g.Go(func() error {
			return d.bridge.Run(ctx)
		})
	}

	g.Go(func() error {
		d.watcher.Run(ctx)
		return nil
	})

	g.Go(func() error {
		d.watchLayouts(ctx)
		return nil
	})

	d.logger.Info("daemon running",
		"viewport", fmt.Sprintf("%dx%d", d.cfg.Viewport.Width, d.cfg.Viewport.Height),
		"sync", d.SyncState())

	return g.Wait()
}

// watchLayouts reapplies the default layout when its file changes on disk,
// e.g. after being edited or synced from another machine.
func (d *Daemon) watchLayouts(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-d.watcher.Changed():
			if !ok {
				return
			}
			if name != d.cfg.DefaultLayout {
				d.logger.Debug("layout changed on disk", "name", name)
				continue
			}
			d.logger.Info("default layout changed on disk, reapplying", "name", name)
			d.loadLayout(name)
		}
	}
}

func (d *Daemon) saveLayout(name string) {
	lay := layout.Capture(name, d.store)
	if err := layout.Write(lay); err != nil {
		d.logger.Error("failed to save layout", "name", name, "error", err)
		return
	}
	d.logger.Info("layout saved", "name", name, "windows", len(lay.Windows))
}

func (d *Daemon) loadLayout(name string) {
	layout.ReadOrEmpty(name).Apply(d.store)
}
