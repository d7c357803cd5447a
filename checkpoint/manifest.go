// Package checkpoint persists mesh state to disk: a human-readable TOML
// manifest (BurntSushi/toml, the format the rest of the example corpus
// uses for structured config) describing what's in the run, and a
// separately compressed (klauspost/compress/zstd) binary payload holding
// the actual per-block, per-variable interior data — ghost zones are
// never persisted, since they are always reconstructible by re-running
// the boundary exchange after restart (spec.md §6.4).
package checkpoint

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Manifest describes one checkpoint: the run it belongs to, which blocks
// and variables it covers, and where to find the payload.
type Manifest struct {
	RunID       string   `toml:"run_id"`
	CycleNumber int      `toml:"cycle_number"`
	SimTime     float64  `toml:"sim_time"`
	NumBlocks   int      `toml:"num_blocks"`
	Variables   []string `toml:"variables"`
	PayloadFile string   `toml:"payload_file"`
}

// NewRunID generates a fresh run identifier for a new checkpoint series.
func NewRunID() string { return uuid.NewString() }

// WriteManifest encodes m as TOML to path.
func WriteManifest(path string, m Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("checkpoint: creating manifest %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("checkpoint: encoding manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest decodes a Manifest from path.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	_, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("checkpoint: decoding manifest %s: %w", path, err)
	}
	return m, nil
}
