package reporting

import (
	"path/filepath"
	"strings"
)

// DefaultOutputPath returns the results file used when none is given:
// sweep_targeted.csv for the targeted grid, sweep_results.csv otherwise
func DefaultOutputPath(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), "targeted") {
		return "sweep_targeted.csv"
	}
	return "sweep_results.csv"
}

// SiblingPath derives an export path next to a results file, swapping the
// extension: results/a.csv with ".xlsx" gives results/a.xlsx
func SiblingPath(path, ext string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + ext
}
