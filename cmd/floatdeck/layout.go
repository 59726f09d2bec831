package main

import (
	"fmt"
	"io"
	"os"

	"github.com/floatdeck/floatdeck/internal/ipc"
	"github.com/floatdeck/floatdeck/internal/layout"
)

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  floatdeck layout save <name>")
	fmt.Fprintln(w, "  floatdeck layout load <name>")
	fmt.Fprintln(w, "  floatdeck layout list")
	fmt.Fprintln(w, "  floatdeck layout delete <name>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'floatdeck layout <command> --help' for command-specific options.")
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printLayoutUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "save":
		if wantsHelp(args[1:]) {
			fmt.Fprintln(os.Stdout, "Usage: floatdeck layout save <name>")
			fmt.Fprintln(os.Stdout, "")
			fmt.Fprintln(os.Stdout, "Snapshot the current windows to a named layout file.")
			return 0
		}
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "layout save requires <name>")
			return 2
		}
		if err := client.SaveLayout(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "load":
		if wantsHelp(args[1:]) {
			fmt.Fprintln(os.Stdout, "Usage: floatdeck layout load <name>")
			fmt.Fprintln(os.Stdout, "")
			fmt.Fprintln(os.Stdout, "Replace the current windows with a saved layout.")
			fmt.Fprintln(os.Stdout, "A missing or unreadable layout loads as empty.")
			return 0
		}
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "layout load requires <name>")
			return 2
		}
		if err := client.LoadLayout(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "list":
		if wantsHelp(args[1:]) {
			fmt.Fprintln(os.Stdout, "Usage: floatdeck layout list")
			return 0
		}
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "layout list takes no arguments")
			return 2
		}
		names, err := client.ListLayouts()
		if err != nil {
			// The daemon may not be running; layouts are plain files.
			names, err = layout.List()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return 0

	case "delete":
		if wantsHelp(args[1:]) {
			fmt.Fprintln(os.Stdout, "Usage: floatdeck layout delete <name>")
			return 0
		}
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "layout delete requires <name>")
			return 2
		}
		if err := layout.Delete(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

func wantsHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}
