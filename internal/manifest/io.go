package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// IO reads and writes a manifest file, atomically.
type IO struct {
	path string
}

// NewIO builds an IO handler for the manifest at path.
func NewIO(path string) *IO {
	return &IO{path: path}
}

// Load reads the manifest from disk, returning a fresh empty manifest if
// the file does not yet exist (spec §4.11: a first run has no prior state).
func (io *IO) Load() (*Manifest, error) {
	if _, err := os.Stat(io.path); os.IsNotExist(err) {
		return New(), nil
	}

	f, err := os.Open(io.path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open: %w", err)
	}
	defer f.Close()

	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	m.BuildIndices()
	return &m, nil
}

// Save writes the manifest atomically (write-temp, fsync, rename), per
// spec §5's "manifest updates append one row and fsync" discipline.
func (io *IO) Save(m *Manifest) error {
	dir := filepath.Dir(io.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("manifest: ensure dir: %w", err)
	}

	tmp := io.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("manifest: create temp: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("manifest: sync: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("manifest: close: %w", err)
	}
	return os.Rename(tmp, io.path)
}
