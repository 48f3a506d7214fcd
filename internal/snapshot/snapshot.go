// Package snapshot persists component definitions to a YAML file so the
// in-memory repository survives restarts.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/starford/fieldkit/internal/models"
)

const version = 1

type document struct {
	Version    int                `yaml:"version"`
	Components []models.Component `yaml:"components"`
}

// Load reads definitions from path. A missing file yields no definitions.
func Load(path string) ([]models.Component, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Component{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	if doc.Version != version {
		return nil, fmt.Errorf("snapshot: unsupported version %d", doc.Version)
	}
	if doc.Components == nil {
		doc.Components = []models.Component{}
	}
	for i := range doc.Components {
		doc.Components[i].Tags = models.NormalizeTags(doc.Components[i].Tags)
	}
	return doc.Components, nil
}

// Save atomically writes components to path: tmp file, fsync, rename.
func Save(path string, components []models.Component) error {
	if components == nil {
		components = []models.Component{}
	}
	data, err := yaml.Marshal(document{Version: version, Components: components})
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".fieldkit-tmp-*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("snapshot: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("snapshot: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	success = true
	return nil
}
