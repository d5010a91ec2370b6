package storage

import "github.com/grupokc/rpa-reclutamiento/models"

// Exporter renders a fully-materialized candidate list to some output
// format or medium.
type Exporter interface {
	Export(candidates []models.Candidate, dest string) error
}

// CandidateSink is the interface any persistent storage backend must satisfy.
type CandidateSink interface {
	Write(candidates []models.Candidate) error
	Close() error
}
