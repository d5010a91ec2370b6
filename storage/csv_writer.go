package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grupokc/rpa-reclutamiento/models"
)

// CSVExporter renders candidates as a flattened CSV readable in
// Excel/Sheets. A UTF-8 BOM is written first so accented text opens
// correctly there.
type CSVExporter struct{}

// NewCSVExporter creates a CSVExporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes all candidates to the CSV file at dest, creating
// intermediate directories as needed.
func (e *CSVExporter) Export(candidates []models.Candidate, dest string) error {
	if len(candidates) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", dest, err)
	}
	defer f.Close()

	// BOM for Excel
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("csv: write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(flatHeaders); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, c := range candidates {
		if err := w.Write(flattenCandidate(c)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
