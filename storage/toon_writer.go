package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grupokc/rpa-reclutamiento/models"
)

// ToonExporter renders candidates in a token-minimized text layout meant to
// be pasted into an LLM prompt:
//
//	candidates[N]{key1,key2,...}:
//	val1,val2,...
//
// Rows reuse CSV escaping so commas inside free text stay unambiguous.
type ToonExporter struct{}

// NewToonExporter creates a ToonExporter.
func NewToonExporter() *ToonExporter {
	return &ToonExporter{}
}

// Export writes all candidates to dest in toon layout.
func (e *ToonExporter) Export(candidates []models.Candidate, dest string) error {
	if len(candidates) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("toon: create output dir: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("toon: create file %q: %w", dest, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := fmt.Sprintf("candidates[%d]{%s}:", len(candidates), strings.Join(flatHeaders, ","))
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("toon: write header: %w", err)
	}

	rows := csv.NewWriter(w)
	for _, c := range candidates {
		if err := rows.Write(flattenCandidate(c)); err != nil {
			return fmt.Errorf("toon: write row: %w", err)
		}
	}
	rows.Flush()
	if err := rows.Error(); err != nil {
		return err
	}
	return w.Flush()
}
