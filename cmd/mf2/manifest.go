package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// projectManifest is an optional mf2.toml discovered by walking up from the
// working directory.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Check checkConfig `toml:"check"`
	LSP   lspConfig   `toml:"lsp"`
}

type checkConfig struct {
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type lspConfig struct {
	Trace          bool `toml:"trace"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "mf2.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadManifest returns the manifest if an mf2.toml exists, or nil.
func loadManifest(startDir string) (*projectManifest, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, err
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &projectManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}
