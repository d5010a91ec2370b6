package services

import (
	"fmt"
	"sort"

	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

// Report holds the computed summary over a candidate dataset.
type Report struct {
	Total          int
	WithContact    int
	WithExperience int
	WithSkills     int
	ByLocation     map[string]int
	TopPositions   []PositionCount
}

// PositionCount pairs a headline position with how often it appears.
type PositionCount struct {
	Position string
	Count    int
}

// ReportService computes coverage statistics over the final store, mainly
// to answer "how enriched is this dataset" after a long run.
type ReportService struct {
	logger *utils.Logger
}

// NewReportService creates a ReportService.
func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate builds the report for a loaded candidate list.
func (s *ReportService) Generate(candidates []models.Candidate) *Report {
	report := &Report{ByLocation: make(map[string]int)}
	if len(candidates) == 0 {
		return report
	}

	report.Total = len(candidates)
	positions := make(map[string]int)

	for _, c := range candidates {
		if c.HasContact() {
			report.WithContact++
		}
		if len(c.Experience) > 0 {
			report.WithExperience++
		}
		if len(c.Skills) > 0 {
			report.WithSkills++
		}
		if c.Location != "" {
			report.ByLocation[c.Location]++
		}
		if c.Position != "" {
			positions[c.Position]++
		}
	}

	for pos, n := range positions {
		report.TopPositions = append(report.TopPositions, PositionCount{Position: pos, Count: n})
	}
	sort.Slice(report.TopPositions, func(i, j int) bool {
		if report.TopPositions[i].Count != report.TopPositions[j].Count {
			return report.TopPositions[i].Count > report.TopPositions[j].Count
		}
		return report.TopPositions[i].Position < report.TopPositions[j].Position
	})
	if len(report.TopPositions) > 10 {
		report.TopPositions = report.TopPositions[:10]
	}

	return report
}

// Print renders the report to stdout.
func (s *ReportService) Print(r *Report) {
	fmt.Println("\n========== DATASET REPORT ==========")
	fmt.Printf("  Total candidates:   %d\n", r.Total)
	fmt.Printf("  With contact info:  %d\n", r.WithContact)
	fmt.Printf("  With experience:    %d\n", r.WithExperience)
	fmt.Printf("  With skills:        %d\n", r.WithSkills)

	if len(r.ByLocation) > 0 {
		fmt.Println("  Candidates by location:")
		locations := make([]string, 0, len(r.ByLocation))
		for loc := range r.ByLocation {
			locations = append(locations, loc)
		}
		sort.Strings(locations)
		for _, loc := range locations {
			fmt.Printf("    %-24s %d\n", loc, r.ByLocation[loc])
		}
	}

	if len(r.TopPositions) > 0 {
		fmt.Println("  Top positions:")
		for _, pc := range r.TopPositions {
			fmt.Printf("    %-24s %d\n", pc.Position, pc.Count)
		}
	}
	fmt.Println("====================================")
}
