package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/grupokc/rpa-reclutamiento/models"
)

// StructuredExtractor reads the machine-readable application-state blob the
// detail view embeds for its own front end. When present it is the highest
// confidence source: fields map directly, no layout guessing.
type StructuredExtractor struct{}

// NewStructuredExtractor creates a StructuredExtractor.
func NewStructuredExtractor() *StructuredExtractor {
	return &StructuredExtractor{}
}

func (e *StructuredExtractor) Name() string { return "structured" }

var windowStateRe = regexp.MustCompile(`(?s)window\.__APP_STATE__\s*=\s*(\{.*?\});`)

type appStateExperience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type appStateCandidate struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Headline   string               `json:"headline"`
	Company    string               `json:"company"`
	Specialty  string               `json:"specialty"`
	Email      string               `json:"email"`
	Phone      string               `json:"phone"`
	Location   string               `json:"location"`
	Salary     string               `json:"salary"`
	Education  string               `json:"education"`
	Skills     []string             `json:"skills"`
	Experience []appStateExperience `json:"experience"`
	ProfileURL string               `json:"profileUrl"`
}

type appState struct {
	CandidateDetail *appStateCandidate `json:"candidateDetail"`
}

// Extract locates the embedded state payload and maps its candidate detail.
// It fails (so the chain falls through) when no payload exists, when the
// JSON is malformed, or when the payload carries no candidate detail.
func (e *StructuredExtractor) Extract(html string) (models.Candidate, error) {
	raw, err := findStatePayload(html)
	if err != nil {
		return models.Candidate{}, err
	}

	var state appState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return models.Candidate{}, fmt.Errorf("structured: malformed state payload: %w", err)
	}
	if state.CandidateDetail == nil {
		return models.Candidate{}, fmt.Errorf("structured: payload has no candidate detail")
	}

	d := state.CandidateDetail
	c := models.Candidate{
		ID:        d.ID,
		Name:      d.Name,
		Position:  d.Headline,
		Company:   d.Company,
		Specialty: d.Specialty,
		Email:     d.Email,
		Phone:     d.Phone,
		Location:  d.Location,
		Salary:    d.Salary,
		Education: d.Education,
		Skills:    d.Skills,
		URL:       d.ProfileURL,
	}
	for _, exp := range d.Experience {
		c.Experience = append(c.Experience, models.Experience{
			Position:    exp.Position,
			Company:     exp.Company,
			StartDate:   exp.StartDate,
			EndDate:     exp.EndDate,
			Description: exp.Description,
		})
	}
	return c.Normalized(), nil
}

// findStatePayload returns the raw JSON of the app-state blob, trying the
// inline <script id="__APP_STATE__"> tag first and the window assignment
// second.
func findStatePayload(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("structured: parse html: %w", err)
	}

	if sel := doc.Find(`script#__APP_STATE__`); sel.Length() > 0 {
		if raw := strings.TrimSpace(sel.First().Text()); raw != "" {
			return raw, nil
		}
	}

	var raw string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := windowStateRe.FindStringSubmatch(s.Text()); m != nil {
			raw = m[1]
			return false
		}
		return true
	})
	if raw == "" {
		return "", fmt.Errorf("structured: no app-state payload in page")
	}
	return raw, nil
}
