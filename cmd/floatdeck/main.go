package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/floatdeck/floatdeck/internal/config"
	"github.com/floatdeck/floatdeck/internal/daemon"
	"github.com/floatdeck/floatdeck/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: floatdeck daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: floatdeck daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "deck":
		os.Exit(runDeck(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "floatdeck - floating window deck")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: floatdeck <command> [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run the window daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status via IPC")
	fmt.Fprintln(w, "  window list         List windows")
	fmt.Fprintln(w, "  window create       Create a window")
	fmt.Fprintln(w, "  window close        Close a window")
	fmt.Fprintln(w, "  window minimize     Minimize a window")
	fmt.Fprintln(w, "  window maximize     Maximize a window")
	fmt.Fprintln(w, "  window restore      Restore a window")
	fmt.Fprintln(w, "  window focus        Focus a window")
	fmt.Fprintln(w, "  window move         Move a window")
	fmt.Fprintln(w, "  window resize       Resize a window")
	fmt.Fprintln(w, "  arrange             Arrange windows (cascade, tile, grid)")
	fmt.Fprintln(w, "  layout save         Save the current layout")
	fmt.Fprintln(w, "  layout load         Load a saved layout")
	fmt.Fprintln(w, "  layout list         List saved layouts")
	fmt.Fprintln(w, "  deck                Interactive deck TUI (standalone store)")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'floatdeck <command> --help' for command-specific options.")
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	d, err := daemon.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to start daemon: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("floatdeck daemon started", "viewport_width", cfg.Viewport.Width, "viewport_height", cfg.Viewport.Height)

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("floatdeck daemon stopped")
}

// buildLogger builds the daemon logger from config. The returned close
// function is a no-op when logging to stderr.
func buildLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := io.Writer(os.Stderr)
	closeLog := func() {}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeLog = func() { f.Close() }
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closeLog, nil
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatdeck status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:   %v\n", status.DaemonRunning)
	fmt.Printf("window_count:     %d\n", status.WindowCount)
	fmt.Printf("active_window_id: %s\n", status.ActiveWindowID)
	fmt.Printf("sync_state:       %s\n", status.SyncState)
	fmt.Printf("uptime_seconds:   %d\n", status.UptimeSeconds)
	return 0
}

func runArrange(args []string) int {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatdeck arrange <cascade|tile|grid>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Rearrange all visible windows in the given mode.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "arrange requires exactly one mode")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Arrange(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
