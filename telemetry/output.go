package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/rossumoya/biosim/config"
)

// OutputManager handles structured experiment output with CSV logging.
// A nil OutputManager discards everything, so callers never need to guard.
type OutputManager struct {
	dir     string
	popFile *os.File

	popHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	popPath := filepath.Join(dir, "population.csv")
	f, err := os.Create(popPath)
	if err != nil {
		return nil, fmt.Errorf("creating population.csv: %w", err)
	}

	return &OutputManager{dir: dir, popFile: f}, nil
}

// WriteConfig saves the effective configuration as YAML next to the CSV
// output, so a run directory is self-describing.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteYearStats appends one row to population.csv. The header is written on
// the first call only.
func (om *OutputManager) WriteYearStats(stats YearStats) error {
	if om == nil {
		return nil
	}

	records := []YearStats{stats}
	if !om.popHeaderWritten {
		if err := gocsv.Marshal(records, om.popFile); err != nil {
			return fmt.Errorf("writing population stats: %w", err)
		}
		om.popHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.popFile); err != nil {
		return fmt.Errorf("writing population stats: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil || om.popFile == nil {
		return nil
	}
	return om.popFile.Close()
}
