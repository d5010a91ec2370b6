package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/grupokc/rpa-reclutamiento/models"
)

// LayoutExtractor walks the rendered detail view using structural
// heuristics: section headers act as anchors and the container that follows
// each header is mined for its fields. Used when the structured payload is
// absent or came back incomplete.
type LayoutExtractor struct{}

// NewLayoutExtractor creates a LayoutExtractor.
func NewLayoutExtractor() *LayoutExtractor {
	return &LayoutExtractor{}
}

func (e *LayoutExtractor) Name() string { return "layout" }

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s\-()]{7,}\d`)
	// dateRangeRe splits "Ene 2021 - Actualidad" style ranges.
	dateRangeRe = regexp.MustCompile(`^(.{3,20}?)\s*[-–]\s*(.{3,20})$`)
)

// Section anchors as the sites render them. Matching is prefix-insensitive
// on the lowercased header text.
var sectionAnchors = map[string][]string{
	"experience": {"experiencia laboral", "experiencia", "work experience", "experience"},
	"education":  {"formación", "formacion", "educación", "educacion", "education"},
	"skills":     {"habilidades", "competencias", "skills"},
	"contact":    {"contacto", "información de contacto", "informacion de contacto", "contact"},
	"salary":     {"salario", "sueldo", "expectativa salarial", "salary"},
	"specialty":  {"especialidad", "área de especialidad", "specialty"},
}

// Extract parses the detail view by layout. It only fails when the HTML
// itself cannot be parsed; a page missing every anchor just yields an
// empty record.
func (e *LayoutExtractor) Extract(html string) (models.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.Candidate{}, fmt.Errorf("layout: parse html: %w", err)
	}

	var c models.Candidate

	// Name and headline live at the top of the profile.
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		c.Name = strings.TrimSpace(h1.Text())
	}
	if headline := doc.Find("h1").First().NextFiltered("p, h2").First(); headline.Length() > 0 {
		c.Position = strings.TrimSpace(headline.Text())
	}

	doc.Find("h2, h3, strong").Each(func(_ int, header *goquery.Selection) {
		section := classifySection(header.Text())
		if section == "" {
			return
		}
		body := sectionBody(header)
		if body == nil {
			return
		}

		switch section {
		case "experience":
			if len(c.Experience) == 0 {
				c.Experience = parseExperienceSection(body)
			}
		case "education":
			if c.Education == "" {
				c.Education = firstLine(body)
			}
		case "skills":
			if len(c.Skills) == 0 {
				c.Skills = parseSkillsSection(body)
			}
		case "contact":
			// Adjacent elements must not run together or the regexes
			// bleed across values.
			text := strings.Join(textLines(body), "\n")
			if c.Email == "" {
				c.Email = emailRe.FindString(text)
			}
			if c.Phone == "" {
				c.Phone = strings.TrimSpace(phoneRe.FindString(text))
			}
		case "salary":
			if c.Salary == "" {
				c.Salary = firstLine(body)
			}
		case "specialty":
			if c.Specialty == "" {
				c.Specialty = firstLine(body)
			}
		}
	})

	// Contact channels sometimes sit outside a labeled section; sweep the
	// whole page before giving up on them.
	if c.Email == "" {
		c.Email = emailRe.FindString(strings.Join(textLines(doc.Selection), "\n"))
	}

	return c.Normalized(), nil
}

// classifySection maps a header's text onto a known section, or "".
func classifySection(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}
	for section, anchors := range sectionAnchors {
		for _, anchor := range anchors {
			if strings.HasPrefix(text, anchor) {
				return section
			}
		}
	}
	return ""
}

// sectionBody returns the container holding a section's content: the
// header's next sibling element when one exists, else the header's parent.
func sectionBody(header *goquery.Selection) *goquery.Selection {
	if next := header.Next(); next.Length() > 0 {
		return next
	}
	if parent := header.Parent(); parent.Length() > 0 {
		return parent
	}
	return nil
}

// parseExperienceSection reads one entry per child block, preserving
// document order — the sites render most-recent first and the pipeline
// must not re-sort.
func parseExperienceSection(body *goquery.Selection) []models.Experience {
	var entries []models.Experience

	blocks := body.ChildrenFiltered("div, li, article")
	if blocks.Length() == 0 {
		blocks = body
	}

	blocks.Each(func(_ int, block *goquery.Selection) {
		lines := textLines(block)
		if len(lines) == 0 {
			return
		}

		var exp models.Experience
		exp.Position = lines[0]
		for _, line := range lines[1:] {
			switch {
			case exp.StartDate == "" && looksLikeDateRange(line):
				if m := dateRangeRe.FindStringSubmatch(line); m != nil {
					exp.StartDate = strings.TrimSpace(m[1])
					exp.EndDate = strings.TrimSpace(m[2])
				} else {
					exp.StartDate = line
				}
			case exp.Company == "":
				exp.Company = line
			case exp.Description == "":
				exp.Description = line
			default:
				exp.Description += " " + line
			}
		}
		if !exp.IsEmpty() {
			entries = append(entries, exp)
		}
	})

	return entries
}

// parseSkillsSection reads skills from list items, falling back to
// comma-separated text.
func parseSkillsSection(body *goquery.Selection) []string {
	var skills []string
	body.Find("li, span.tag, span.chip").Each(func(_ int, item *goquery.Selection) {
		if s := strings.TrimSpace(item.Text()); s != "" {
			skills = append(skills, s)
		}
	})
	if len(skills) > 0 {
		return skills
	}
	for _, s := range strings.Split(body.Text(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// firstLine returns the first non-empty text line of a section body.
func firstLine(sel *goquery.Selection) string {
	if lines := textLines(sel); len(lines) > 0 {
		return lines[0]
	}
	return ""
}

var monthOrYearRe = regexp.MustCompile(`(?i)\b(19|20)\d{2}\b|actualidad|presente|present|ene|feb|mar|abr|may|jun|jul|ago|sep|oct|nov|dic`)

// looksLikeDateRange reports whether a line reads like free-form date text.
func looksLikeDateRange(line string) bool {
	return monthOrYearRe.MatchString(line)
}

// textLines returns the block's text as trimmed, non-empty lines. Leaf
// elements are read one by one so adjacent <p> tags do not run together;
// plain text blocks fall back to newline splitting.
func textLines(sel *goquery.Selection) []string {
	var lines []string

	sel.Find("p, span, time, em, li").Each(func(_ int, el *goquery.Selection) {
		if el.Children().Length() > 0 {
			return
		}
		if line := strings.Join(strings.Fields(el.Text()), " "); line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) > 0 {
		return lines
	}

	for _, line := range strings.Split(sel.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
