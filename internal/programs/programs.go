// Package programs carries the sample programs a fresh disk starts with.
package programs

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/jask/quadpane/internal/storage"
)

//go:embed seed.toml
var seedManifest []byte

var ErrDuplicate = errors.New("duplicate program name")

// Program is one manifest entry.
type Program struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Source      string `toml:"source"`
}

type manifest struct {
	Programs []Program `toml:"program"`
}

// Seed returns the built-in programs.
func Seed() ([]Program, error) {
	return Parse(seedManifest)
}

// Parse decodes a TOML manifest. Every name must fit a directory record and
// every source a single file.
func Parse(data []byte) ([]Program, error) {
	var m manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	seen := make(map[string]bool, len(m.Programs))
	for _, p := range m.Programs {
		if _, err := storage.ParseFilename(p.Name); err != nil {
			return nil, fmt.Errorf("program %q: %w", p.Name, err)
		}
		if len(p.Source) > storage.MaxFileBytes {
			return nil, fmt.Errorf("program %q: %w", p.Name, storage.ErrFileTooBig)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("program %q: %w", p.Name, ErrDuplicate)
		}
		seen[p.Name] = true
	}
	if len(m.Programs) > storage.MaxFiles {
		return nil, storage.ErrDirectoryFull
	}
	return m.Programs, nil
}
