package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/floatdeck/floatdeck/internal/config"
	"github.com/floatdeck/floatdeck/internal/content"
	"github.com/floatdeck/floatdeck/internal/deck"
	"github.com/floatdeck/floatdeck/internal/layout"
	"github.com/floatdeck/floatdeck/internal/syncbridge"
	"github.com/floatdeck/floatdeck/internal/wm"
)

func runDeck(args []string) int {
	fs := flag.NewFlagSet("deck", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/floatdeck/config.yaml)")

	if wantsHelp(args) {
		fmt.Fprintln(os.Stderr, "Usage: floatdeck deck [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive window deck. Runs its own window store and, when sync is")
		fmt.Fprintln(os.Stderr, "configured, mirrors it to the remote channel.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  n         New window")
		fmt.Fprintln(os.Stderr, "  x         Close active window")
		fmt.Fprintln(os.Stderr, "  m / f / r Minimize / maximize / restore active window")
		fmt.Fprintln(os.Stderr, "  Tab       Cycle focus")
		fmt.Fprintln(os.Stderr, "  c / t / g Arrange cascade / tile / grid")
		fmt.Fprintln(os.Stderr, "  s / l     Save / load layout")
		fmt.Fprintln(os.Stderr, "  ?         Toggle help")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Mouse: drag title bars to move, edges and corners to resize;")
		fmt.Fprintln(os.Stderr, "title bar buttons minimize, maximize, and close; click dock chips to restore.")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	var cfg *config.Config
	var err error
	if *path != "" {
		cfg, err = config.LoadFromPath(*path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// The terminal is owned by the deck; logs go to the configured file or
	// nowhere.
	out := io.Discard
	if cfg.Logging.File != "" {
		f, ferr := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if ferr == nil {
			defer f.Close()
			out = f
		}
	}
	logger := slog.New(slog.NewTextHandler(out, nil))

	store := wm.NewStore(logger)
	store.SetViewport(cfg.ViewportSize())
	if cfg.DefaultLayout != "" {
		layout.ReadOrEmpty(cfg.DefaultLayout).Apply(store)
	}

	syncState := func() string { return "disabled" }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Sync.URL != "" {
		bridge := syncbridge.New(cfg.Sync.URL, store, time.Duration(cfg.Sync.BroadcastIntervalSeconds)*time.Second, logger)
		go bridge.Run(ctx)
		syncState = func() string { return string(bridge.State()) }
	}

	if err := deck.Run(store, content.NewRegistry(nil), logger, syncState); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
