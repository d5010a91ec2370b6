package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/grupokc/rpa-reclutamiento/models"
)

// flatHeaders is the column order shared by the tabular exporters. The
// latest experience gets dedicated columns for quick filtering in a
// spreadsheet; the full history is collapsed into one summary column.
var flatHeaders = []string{
	"id", "name",
	"headline_position",
	"specialty",
	"email", "phone", "location", "salary",
	"url", "last_updated",
	"latest_position", "latest_company", "latest_start_date", "latest_end_date",
	"education", "skills", "experience_summary_text",
}

// flattenCandidate turns a candidate into one tabular row following
// flatHeaders order.
func flattenCandidate(c models.Candidate) []string {
	var updated string
	if !c.UpdatedAt.IsZero() {
		updated = c.UpdatedAt.Format(time.RFC3339)
	}

	var latest models.Experience
	if exp, ok := c.LatestExperience(); ok {
		latest = exp
	}

	summary := make([]string, 0, len(c.Experience))
	for _, e := range c.Experience {
		entry := fmt.Sprintf("%s en %s (%s - %s)", e.Position, e.Company, e.StartDate, e.EndDate)
		if e.Description != "" {
			entry += fmt.Sprintf(" [Desc: %s]", e.Description)
		}
		summary = append(summary, entry)
	}

	return []string{
		c.ID, c.Name,
		c.Position,
		c.Specialty,
		c.Email, c.Phone, c.Location, c.Salary,
		c.URL, updated,
		latest.Position, latest.Company, latest.StartDate, latest.EndDate,
		c.Education, strings.Join(c.Skills, " | "), strings.Join(summary, " || "),
	}
}
