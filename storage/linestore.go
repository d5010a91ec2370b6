package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

// LineStore is an append-only, newline-delimited JSON collection of
// candidates. Append is the only mutating operation; entries are never
// rewritten or removed. Reloading the file is how in-memory state is
// reconstructed after a crash or restart, so a process can be killed at any
// point and simply started again.
type LineStore struct {
	path   string
	logger *utils.Logger
}

// NewLineStore creates a store backed by the given file path. Intermediate
// directories are created automatically; the file itself is created lazily
// on first append.
func NewLineStore(path string, logger *utils.Logger) (*LineStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("linestore: create dir for %q: %w", path, err)
		}
	}
	return &LineStore{path: path, logger: logger}, nil
}

// Path returns the backing file path.
func (s *LineStore) Path() string {
	return s.path
}

// Append serializes each candidate onto its own line at the end of the
// file. The file is synced before the call returns so an append that
// succeeded survives a crash immediately afterwards.
func (s *LineStore) Append(candidates []models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("linestore: open %q: %w", s.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, c := range candidates {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("linestore: encode record %q: %w", c.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("linestore: flush %q: %w", s.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("linestore: sync %q: %w", s.path, err)
	}
	return nil
}

// Load reads every line back into memory in file order. Lines that fail to
// parse are skipped with a warning — a single corrupt line must not take the
// whole store down.
func (s *LineStore) Load() ([]models.Candidate, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("linestore: open %q: %w", s.path, err)
	}
	defer f.Close()

	var out []models.Candidate
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c models.Candidate
		if err := json.Unmarshal(line, &c); err != nil {
			s.logger.Warn("[store] Skipping unparsable line %d in %s: %v", lineNo, s.path, err)
			continue
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("linestore: read %q: %w", s.path, err)
	}
	return out, nil
}

// LoadIDs returns every non-empty identifier present in the store, in file
// order, duplicates included. Used to seed the dedup ledger at phase start.
func (s *LineStore) LoadIDs() ([]string, error) {
	candidates, err := s.Load()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

// LoadLatest collapses the store to one candidate per identifier, keeping
// the last line for each — the authoritative entry if a crash ever left the
// same id appended twice. Records without an id are all kept, in order.
func (s *LineStore) LoadLatest() ([]models.Candidate, error) {
	candidates, err := s.Load()
	if err != nil {
		return nil, err
	}

	latest := make(map[string]int, len(candidates))
	out := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == "" {
			out = append(out, c)
			continue
		}
		if idx, ok := latest[c.ID]; ok {
			out[idx] = c
			continue
		}
		latest[c.ID] = len(out)
		out = append(out, c)
	}
	return out, nil
}
