package services

import (
	"testing"

	"github.com/grupokc/rpa-reclutamiento/models"
)

func TestReportGenerate(t *testing.T) {
	candidates := []models.Candidate{
		{ID: "c-1", Position: "Data Engineer", Location: "CDMX", Email: "a@example.com",
			Skills: []string{"SQL"}, Experience: []models.Experience{{Position: "DE"}}},
		{ID: "c-2", Position: "Data Engineer", Location: "CDMX", Phone: "55 1111 2222"},
		{ID: "c-3", Position: "Analyst", Location: "Querétaro"},
	}

	r := NewReportService(newTestLogger()).Generate(candidates)

	if r.Total != 3 || r.WithContact != 2 || r.WithExperience != 1 || r.WithSkills != 1 {
		t.Errorf("counts: %+v", r)
	}
	if r.ByLocation["CDMX"] != 2 || r.ByLocation["Querétaro"] != 1 {
		t.Errorf("locations: %v", r.ByLocation)
	}
	if len(r.TopPositions) != 2 || r.TopPositions[0].Position != "Data Engineer" || r.TopPositions[0].Count != 2 {
		t.Errorf("top positions: %+v", r.TopPositions)
	}
}

func TestReportGenerateEmptyDataset(t *testing.T) {
	r := NewReportService(newTestLogger()).Generate(nil)
	if r.Total != 0 || len(r.TopPositions) != 0 {
		t.Errorf("empty dataset report: %+v", r)
	}
}
