package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{ConfigDir: filepath.Join(home, ".config", "roiview", "themes")}
}

// Load resolves a theme by name or path.
// Order:
// 1. If it's a file path that exists, load it.
// 2. Check the built-in themes.
// 3. Check ConfigDir for <name>.theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	if t, err := loadFile(name); err == nil {
		return t, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if mk, ok := builtin[strings.ToLower(name)]; ok {
		return mk(), nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	t, err := loadFile(filepath.Join(l.ConfigDir, filename))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("theme '%s' not found", name)
	}
	return t, err
}

func loadFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
