package parser

import (
	"fmt"

	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

// Chain runs the primary and fallback extractors over the same page and
// combines their output field by field: the primary's value wins whenever
// it is non-empty. A record with a structured name but no structured
// experience list still receives experience from the layout pass.
type Chain struct {
	primary  Extractor
	fallback Extractor
	logger   *utils.Logger
}

// NewChain builds the default chain: structured payload first, layout
// heuristics second.
func NewChain(logger *utils.Logger) *Chain {
	return &Chain{
		primary:  NewStructuredExtractor(),
		fallback: NewLayoutExtractor(),
		logger:   logger,
	}
}

// NewChainWith builds a chain from explicit extractors.
func NewChainWith(primary, fallback Extractor, logger *utils.Logger) *Chain {
	return &Chain{primary: primary, fallback: fallback, logger: logger}
}

// Extract returns the best-effort extraction for a detail page. A strategy
// that errors contributes nothing and the chain falls through; only when
// every strategy fails does Extract return an error.
func (ch *Chain) Extract(html string) (models.Candidate, error) {
	primary, primaryErr := ch.primary.Extract(html)
	if primaryErr != nil {
		ch.logger.Debug("[parser] %s extractor: %v — falling through", ch.primary.Name(), primaryErr)
	}

	fallback, fallbackErr := ch.fallback.Extract(html)
	if fallbackErr != nil {
		ch.logger.Debug("[parser] %s extractor: %v", ch.fallback.Name(), fallbackErr)
	}

	switch {
	case primaryErr == nil && fallbackErr == nil:
		return overlay(primary, fallback), nil
	case primaryErr == nil:
		return primary, nil
	case fallbackErr == nil:
		return fallback, nil
	default:
		return models.Candidate{}, fmt.Errorf("parser: every strategy failed: %w", fallbackErr)
	}
}
