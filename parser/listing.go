package parser

import (
	"encoding/json"
	"fmt"

	"github.com/grupokc/rpa-reclutamiento/models"
)

type appStateSearch struct {
	Results []appStateCandidate `json:"results"`
}

// ExtractListingStubs reads listing stubs from the embedded app-state blob
// of a search-results page. It is the primary listing strategy; site
// adapters fall back to their own card-layout walk when it fails.
func ExtractListingStubs(html string) ([]models.Candidate, error) {
	raw, err := findStatePayload(html)
	if err != nil {
		return nil, err
	}

	var state struct {
		SearchResults *appStateSearch `json:"searchResults"`
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("structured: malformed state payload: %w", err)
	}
	if state.SearchResults == nil || len(state.SearchResults.Results) == 0 {
		return nil, fmt.Errorf("structured: payload has no search results")
	}

	stubs := make([]models.Candidate, 0, len(state.SearchResults.Results))
	for _, r := range state.SearchResults.Results {
		c := models.Candidate{
			ID:       r.ID,
			Name:     r.Name,
			Position: r.Headline,
			Location: r.Location,
			URL:      r.ProfileURL,
		}
		for _, exp := range r.Experience {
			c.Experience = append(c.Experience, models.Experience{
				Position:  exp.Position,
				Company:   exp.Company,
				StartDate: exp.StartDate,
				EndDate:   exp.EndDate,
			})
		}
		stubs = append(stubs, c.Normalized())
	}
	return stubs, nil
}
