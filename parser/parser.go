// Package parser turns raw page HTML into candidate records. Extraction is
// a two-strategy chain: a structured extractor that reads the embedded
// application-state JSON blob when the page ships one, and a layout
// extractor that walks the rendered tree by text anchors when it doesn't.
// The two results are combined field by field, structured values winning.
package parser

import (
	"github.com/grupokc/rpa-reclutamiento/models"
)

// Extractor produces a best-effort candidate from a raw detail-page
// representation. A missing field stays empty; extractors never invent
// placeholder values.
type Extractor interface {
	Name() string
	Extract(html string) (models.Candidate, error)
}

// overlay combines two extractions field by field: the primary value is
// kept whenever it is non-empty, otherwise the fallback's fills in. Unlike
// Candidate.Merge this also considers the identifier — at parse time there
// is no earlier record whose key needs protecting.
func overlay(primary, fallback models.Candidate) models.Candidate {
	out := fallback.Merge(primary)
	if primary.ID != "" {
		out.ID = primary.ID
	}
	return out
}
