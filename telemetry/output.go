package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/meshpaint/config"
)

// OutputManager handles structured session output with CSV logging.
type OutputManager struct {
	dir            string
	placementsFile *os.File
	strokesFile    *os.File
	perfFile       *os.File

	// Track if headers have been written
	placementsHeaderWritten bool
	strokesHeaderWritten    bool
	perfHeaderWritten       bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	files := []struct {
		name string
		dst  **os.File
	}{
		{"placements.csv", &om.placementsFile},
		{"strokes.csv", &om.strokesFile},
		{"perf.csv", &om.perfFile},
	}
	for _, f := range files {
		fh, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.dst = fh
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WritePlacements appends placement records to placements.csv.
func (om *OutputManager) WritePlacements(records []PlacementRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if err := writeCSV(records, om.placementsFile, &om.placementsHeaderWritten); err != nil {
		return fmt.Errorf("writing placements: %w", err)
	}
	return nil
}

// WriteStrokes appends stroke summaries to strokes.csv.
func (om *OutputManager) WriteStrokes(records []StrokeRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if err := writeCSV(records, om.strokesFile, &om.strokesHeaderWritten); err != nil {
		return fmt.Errorf("writing strokes: %w", err)
	}
	return nil
}

// WritePerf writes a frame timing record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int64) error {
	if om == nil {
		return nil
	}
	records := []PerfStatsCSV{stats.ToCSV(frame)}
	if err := writeCSV(records, om.perfFile, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// writeCSV marshals records, emitting the header only on the first write.
func writeCSV(records any, f *os.File, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.placementsFile, om.strokesFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
