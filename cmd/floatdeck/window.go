package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/ipc"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  floatdeck window list [--json]")
	fmt.Fprintln(w, "  floatdeck window create --title T [--kind K] [--x N --y N] [--width N --height N]")
	fmt.Fprintln(w, "  floatdeck window close <id>")
	fmt.Fprintln(w, "  floatdeck window minimize <id>")
	fmt.Fprintln(w, "  floatdeck window maximize <id>")
	fmt.Fprintln(w, "  floatdeck window restore <id>")
	fmt.Fprintln(w, "  floatdeck window focus <id>")
	fmt.Fprintln(w, "  floatdeck window move <id> <x> <y>")
	fmt.Fprintln(w, "  floatdeck window resize <id> <width> <height>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'floatdeck window <command> --help' for command-specific options.")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWindowUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		return runWindowList(client, args[1:])
	case "create":
		return runWindowCreate(client, args[1:])
	case "close":
		return runWindowOp(client.CloseWindow, "close", args[1:])
	case "minimize":
		return runWindowOp(client.MinimizeWindow, "minimize", args[1:])
	case "maximize":
		return runWindowOp(client.MaximizeWindow, "maximize", args[1:])
	case "restore":
		return runWindowOp(client.RestoreWindow, "restore", args[1:])
	case "focus":
		return runWindowOp(client.FocusWindow, "focus", args[1:])
	case "move":
		return runWindowMove(client, args[1:])
	case "resize":
		return runWindowResize(client, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func runWindowList(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatdeck window list [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List windows in stacking order (bottom to top).")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output full window records as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "window list takes no arguments")
		fs.Usage()
		return 2
	}

	data, err := client.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		out, err := json.MarshalIndent(data.Windows, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	for _, w := range data.Windows {
		marker := " "
		if w.ID == data.ActiveID {
			marker = "*"
		}
		state := ""
		switch {
		case w.Minimized:
			state = " [min]"
		case w.Maximized:
			state = " [max]"
		}
		fmt.Printf("%s %s  %-20s %s  %dx%d@%d,%d z=%d%s\n",
			marker, w.ID, w.Title, w.Kind,
			w.Size.Width, w.Size.Height, w.Position.X, w.Position.Y, w.ZIndex, state)
	}
	return 0
}

func runWindowCreate(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatdeck window create --title T [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Create a window. Omitted position cascades from the last window;")
		fmt.Fprintln(os.Stderr, "omitted size uses the kind's default.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	title := fs.String("title", "", "Window title")
	kind := fs.String("kind", "", "Window kind (chat, workflow, task, resource, code, browser, custom)")
	x := fs.Int("x", -1, "X position in pixels")
	y := fs.Int("y", -1, "Y position in pixels")
	width := fs.Int("width", 0, "Width in pixels")
	height := fs.Int("height", 0, "Height in pixels")
	taskID := fs.String("task", "", "Linked task id")
	workflowID := fs.String("workflow", "", "Linked workflow id")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "window create takes no positional arguments")
		fs.Usage()
		return 2
	}

	payload := ipc.CreateWindowPayload{
		Title:            *title,
		Kind:             *kind,
		LinkedTaskID:     *taskID,
		LinkedWorkflowID: *workflowID,
	}
	if *x >= 0 && *y >= 0 {
		payload.Position = &geometry.Point{X: *x, Y: *y}
	}
	if *width > 0 && *height > 0 {
		payload.Size = &geometry.Size{Width: *width, Height: *height}
	}

	w, err := client.CreateWindow(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(w.ID)
	return 0
}

func runWindowOp(op func(string) error, name string, args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintf(os.Stdout, "Usage: floatdeck window %s <id>\n", name)
		return 0
	}
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "window %s requires exactly one window id\n", name)
		return 2
	}
	if err := op(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowMove(client *ipc.Client, args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: floatdeck window move <id> <x> <y>")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Move a window. Coordinates snap to the grid.")
		return 0
	}
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "window move requires <id> <x> <y>")
		return 2
	}
	x, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid x: %s\n", args[1])
		return 2
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid y: %s\n", args[2])
		return 2
	}
	if err := client.MoveWindow(args[0], geometry.Point{X: x, Y: y}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowResize(client *ipc.Client, args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: floatdeck window resize <id> <width> <height>")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Resize a window. Dimensions snap to the grid and clamp to the minimum size.")
		return 0
	}
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "window resize requires <id> <width> <height>")
		return 2
	}
	width, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid width: %s\n", args[1])
		return 2
	}
	height, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid height: %s\n", args[2])
		return 2
	}
	if err := client.ResizeWindow(args[0], geometry.Size{Width: width, Height: height}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
