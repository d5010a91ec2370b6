package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/grupokc/rpa-reclutamiento/models"
)

// TOMLExporter renders candidates as a [[candidates]] array of tables.
// TOML is not meant for huge datasets; this format is intended for small,
// human-reviewed extractions.
type TOMLExporter struct{}

// NewTOMLExporter creates a TOMLExporter.
func NewTOMLExporter() *TOMLExporter {
	return &TOMLExporter{}
}

type tomlDocument struct {
	Candidates []models.Candidate `toml:"candidates"`
}

// Export writes all candidates to the TOML file at dest.
func (e *TOMLExporter) Export(candidates []models.Candidate, dest string) error {
	if len(candidates) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("toml: create output dir: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("toml: create file %q: %w", dest, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tomlDocument{Candidates: candidates}); err != nil {
		return fmt.Errorf("toml: encode: %w", err)
	}
	return nil
}
