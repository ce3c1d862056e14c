package reporting

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint records how far a sweep has progressed through its grid.
// It is rewritten after every attempted trial, including failed ones, so
// NextIndex is exact even when rows were skipped.
type Checkpoint struct {
	RunID       string    `json:"run_id"`
	Output      string    `json:"output"`
	Mode        string    `json:"mode,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	NextIndex   int       `json:"next_index"`
	Total       int       `json:"total"`
	RowsWritten int       `json:"rows_written"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CheckpointPath returns the checkpoint file kept next to a results file
func CheckpointPath(output string) string {
	return output + ".checkpoint.json"
}

// LoadCheckpoint reads a checkpoint; a missing file returns nil, nil
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint %s: %w", path, err)
	}
	return &cp, nil
}

// Complete reports whether every trial of the grid has been attempted
func (c *Checkpoint) Complete() bool {
	return c.Total > 0 && c.NextIndex >= c.Total
}

// SaveCheckpoint writes cp atomically through a temporary file
func SaveCheckpoint(path string, cp *Checkpoint) error {
	cp.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}
	return nil
}
