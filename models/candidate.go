package models

import (
	"strings"
	"time"
)

// Experience is one work-history entry as shown on a profile. Dates are kept
// as free text because the source sites emit them in many shapes
// ("Ene 2021", "2019", "Actualidad"). The list a Candidate carries is
// most-recent first, exactly as the site renders it — nothing re-sorts it.
type Experience struct {
	Position    string `json:"position,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsEmpty reports whether every field of the entry is blank.
func (e Experience) IsEmpty() bool {
	return e.Position == "" && e.Company == "" && e.StartDate == "" &&
		e.EndDate == "" && e.Description == ""
}

// Candidate is the canonical record flowing through the pipeline. It is
// treated as an immutable value: every transformation (Merge, Normalized,
// WithID, ...) returns a new Candidate and never mutates the receiver.
//
// A freshly harvested candidate only carries the listing-visible fields
// (id, position, location, url, partial experience) — a "stub". Enrichment
// fills in the rest. There is no separate stub type; completeness is a
// state, not a shape.
type Candidate struct {
	ID         string       `json:"id,omitempty"`
	Name       string       `json:"name,omitempty"`
	Position   string       `json:"position,omitempty"`
	Company    string       `json:"company,omitempty"`
	Specialty  string       `json:"specialty,omitempty"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Location   string       `json:"location,omitempty"`
	Salary     string       `json:"salary,omitempty"`
	Education  string       `json:"education,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	URL        string       `json:"url,omitempty"`
	UpdatedAt  time.Time    `json:"last_updated,omitempty"`
}

// Merge returns a copy of c with every non-empty field of detail laid on
// top. The ID is never taken from detail — enrichment must not re-key a
// record. Empty detail fields leave the original value alone, so a stub
// field survives a detail page that failed to yield anything better.
func (c Candidate) Merge(detail Candidate) Candidate {
	out := c

	if detail.Name != "" {
		out.Name = detail.Name
	}
	if detail.Position != "" {
		out.Position = detail.Position
	}
	if detail.Company != "" {
		out.Company = detail.Company
	}
	if detail.Specialty != "" {
		out.Specialty = detail.Specialty
	}
	if detail.Email != "" {
		out.Email = detail.Email
	}
	if detail.Phone != "" {
		out.Phone = detail.Phone
	}
	if detail.Location != "" {
		out.Location = detail.Location
	}
	if detail.Salary != "" {
		out.Salary = detail.Salary
	}
	if detail.Education != "" {
		out.Education = detail.Education
	}
	if len(detail.Skills) > 0 {
		out.Skills = append([]string(nil), detail.Skills...)
	}
	if len(detail.Experience) > 0 {
		out.Experience = append([]Experience(nil), detail.Experience...)
	}
	if detail.URL != "" {
		out.URL = detail.URL
	}
	if !detail.UpdatedAt.IsZero() {
		out.UpdatedAt = detail.UpdatedAt
	}

	return out
}

// WithID returns a copy of c carrying the given identifier.
func (c Candidate) WithID(id string) Candidate {
	out := c
	out.ID = id
	return out
}

// WithUpdatedAt returns a copy of c stamped with the given time.
func (c Candidate) WithUpdatedAt(t time.Time) Candidate {
	out := c
	out.UpdatedAt = t
	return out
}

// Normalized returns a copy of c with whitespace collapsed in every text
// field and blank skills/experience entries dropped.
func (c Candidate) Normalized() Candidate {
	out := c
	out.Name = normalizeText(c.Name)
	out.Position = normalizeText(c.Position)
	out.Company = normalizeText(c.Company)
	out.Specialty = normalizeText(c.Specialty)
	out.Email = strings.TrimSpace(c.Email)
	out.Phone = strings.TrimSpace(c.Phone)
	out.Location = normalizeText(c.Location)
	out.Salary = normalizeText(c.Salary)
	out.Education = normalizeText(c.Education)
	out.URL = strings.TrimSpace(c.URL)

	if len(c.Skills) > 0 {
		skills := make([]string, 0, len(c.Skills))
		for _, s := range c.Skills {
			if s = normalizeText(s); s != "" {
				skills = append(skills, s)
			}
		}
		out.Skills = skills
	}

	if len(c.Experience) > 0 {
		exps := make([]Experience, 0, len(c.Experience))
		for _, e := range c.Experience {
			exp := Experience{
				Position:    normalizeText(e.Position),
				Company:     normalizeText(e.Company),
				StartDate:   normalizeText(e.StartDate),
				EndDate:     normalizeText(e.EndDate),
				Description: normalizeText(e.Description),
			}
			if !exp.IsEmpty() {
				exps = append(exps, exp)
			}
		}
		out.Experience = exps
	}

	return out
}

// HasContact reports whether the record carries any direct contact channel.
func (c Candidate) HasContact() bool {
	return c.Email != "" || c.Phone != ""
}

// Enriched reports whether the record gained enough detail-page information
// to be worth keeping: at least one experience entry, one skill, or a
// contact channel.
func (c Candidate) Enriched() bool {
	return len(c.Experience) > 0 || len(c.Skills) > 0 || c.HasContact()
}

// LatestExperience returns the most recent entry (the first one, by source
// ordering) and whether one exists.
func (c Candidate) LatestExperience() (Experience, bool) {
	if len(c.Experience) == 0 {
		return Experience{}, false
	}
	return c.Experience[0], true
}

// normalizeText trims and collapses interior whitespace runs to one space.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
