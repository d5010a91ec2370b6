package services

import (
	"time"

	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/parser"
	"github.com/grupokc/rpa-reclutamiento/scraper"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

// Enricher turns a stub into a finalized record by fetching its detail view
// and merging what the parsing chain extracts. Failure never escalates past
// the item: a fetch or parse that yields nothing leaves the stub as the
// result, and the acceptance heuristic downstream decides its fate.
type Enricher struct {
	source scraper.DetailSource
	chain  *parser.Chain
	logger *utils.Logger
}

// NewEnricher creates an Enricher over the given detail source.
func NewEnricher(source scraper.DetailSource, chain *parser.Chain, logger *utils.Logger) *Enricher {
	return &Enricher{source: source, chain: chain, logger: logger}
}

// Enrich returns the merged record for one stub. Detail-derived values
// override the stub's only when non-empty; the identifier always survives
// untouched.
func (e *Enricher) Enrich(stub models.Candidate) models.Candidate {
	if stub.URL == "" {
		e.logger.Warn("[enrich] Record %q has no profile URL — nothing to fetch", stub.ID)
		return stub
	}

	html, err := e.source.FetchDetail(stub.URL)
	if err != nil && html == "" {
		e.logger.Warn("[enrich] Detail fetch failed for %s: %v", stub.URL, err)
		return stub
	}
	if err != nil {
		e.logger.Warn("[enrich] Parsing partial content for %s after: %v", stub.URL, err)
	}

	detail, err := e.chain.Extract(html)
	if err != nil {
		e.logger.Warn("[enrich] No strategy extracted anything for %s: %v", stub.URL, err)
		return stub
	}

	return stub.Merge(detail).WithUpdatedAt(time.Now())
}
