package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Dir returns the directory holding saved layouts. Overridable through
// FLOATDECK_LAYOUT_DIR for tests and sandboxed deployments.
func Dir() (string, error) {
	if dir := os.Getenv("FLOATDECK_LAYOUT_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "floatdeck", "layouts"), nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("layout name is required")
	}
	if strings.Contains(name, string(os.PathSeparator)) || name != filepath.Base(name) {
		return fmt.Errorf("invalid layout name %q", name)
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return fmt.Errorf("invalid layout name %q", name)
	}
	return nil
}

// Path returns the file path a layout name maps to.
func Path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".json"), nil
}

// Write persists a layout to disk.
func Write(l *Layout) error {
	if l == nil {
		return fmt.Errorf("layout is nil")
	}
	if err := validateName(l.Name); err != nil {
		return err
	}
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create layout directory: %w", err)
	}
	path, err := Path(l.Name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write layout %q: %w", l.Name, err)
	}
	return nil
}

// Read loads a layout by name.
func Read(name string) (*Layout, error) {
	path, err := Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %q: %w", name, err)
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout %q: %w", name, err)
	}
	if l.Name == "" {
		l.Name = name
	}
	return &l, nil
}

// ReadOrEmpty loads a layout, degrading a missing file or malformed payload
// to an empty layout so a broken save can never wedge startup.
func ReadOrEmpty(name string) *Layout {
	l, err := Read(name)
	if err != nil {
		return &Layout{Name: name}
	}
	return l
}

// Delete removes a saved layout.
func Delete(name string) error {
	path, err := Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete layout %q: %w", name, err)
	}
	return nil
}

// List returns saved layout names, sorted.
func List() ([]string, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}
