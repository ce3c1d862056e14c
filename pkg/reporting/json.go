package reporting

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// ErrNoQualifyingResults is returned when a selection is empty
var ErrNoQualifyingResults = errors.New("no qualifying results")

// BestConfig is the JSON form of the top robust configuration
type BestConfig struct {
	Source      string                 `json:"source"`
	GeneratedAt time.Time              `json:"generated_at"`
	Tier        string                 `json:"tier"`
	Parameters  map[string]interface{} `json:"parameters"`
	Metrics     map[string]interface{} `json:"metrics"`
}

// NewBestConfig builds the document for the first robust row
func NewBestConfig(report *AnalysisReport) (*BestConfig, error) {
	if report == nil || len(report.Robust.Rows) == 0 {
		return nil, ErrNoQualifyingResults
	}
	row := report.Robust.Rows[0]

	tier := "strict"
	if report.Robust.Relaxed {
		tier = "relaxed"
	}

	cfg := &BestConfig{
		Source:      report.Source,
		GeneratedAt: time.Now().UTC(),
		Tier:        tier,
		Parameters:  make(map[string]interface{}, len(row.Params)),
		Metrics:     make(map[string]interface{}, len(types.MetricNames)),
	}
	for name, v := range row.Params {
		cfg.Parameters[name] = cellValue(v)
	}
	for _, name := range types.MetricNames {
		cfg.Metrics[name] = cellValue(row.Metrics.Value(name))
	}
	return cfg, nil
}

// FormatBestConfig formats the best robust configuration as indented JSON
func FormatBestConfig(report *AnalysisReport) ([]byte, error) {
	cfg, err := NewBestConfig(report)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// WriteBestConfigJSON writes the best robust configuration to path
func WriteBestConfigJSON(report *AnalysisReport, path string) error {
	data, err := FormatBestConfig(report)
	if err != nil {
		return err
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
