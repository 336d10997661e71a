package runstages

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// loadJSON decodes path into v.
func loadJSON(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("runstages: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("runstages: decode %s: %w", path, err)
	}
	return nil
}

// writeArtifact marshals v, writes it to dir/name.json via write-temp-then-
// rename (the same atomic-write idiom internal/explain/writer.go and
// internal/manifest/io.go use), and returns the hash of the encoded bytes,
// the path, and its length, ready to fold into a pipeline.StageOutput.
func writeArtifact(dir, name string, v interface{}) (hash string, path string, size int64, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", 0, fmt.Errorf("runstages: ensure dir %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", "", 0, fmt.Errorf("runstages: marshal %s: %w", name, err)
	}
	path = filepath.Join(dir, name+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", "", 0, fmt.Errorf("runstages: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", "", 0, fmt.Errorf("runstages: rename %s: %w", tmp, err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum), path, int64(len(data)), nil
}

// hashJSON hashes v's canonical JSON encoding, for a stage's InputHash.
func hashJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("runstages: hash input: %w", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}
