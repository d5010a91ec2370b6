package models

import (
	"testing"
	"time"
)

func TestMergePrecedence(t *testing.T) {
	stub := Candidate{ID: "c-1", Position: "Analyst", Location: "CDMX"}

	tests := []struct {
		name   string
		detail Candidate
		want   string
	}{
		{"empty detail keeps stub value", Candidate{Position: ""}, "Analyst"},
		{"non-empty detail wins", Candidate{Position: "Senior Analyst"}, "Senior Analyst"},
	}

	for _, tt := range tests {
		got := stub.Merge(tt.detail)
		if got.Position != tt.want {
			t.Errorf("%s: position = %q; want %q", tt.name, got.Position, tt.want)
		}
	}
}

func TestMergeNeverOverridesID(t *testing.T) {
	stub := Candidate{ID: "c-1", Name: "Ana"}
	merged := stub.Merge(Candidate{ID: "c-999", Name: "Ana María"})

	if merged.ID != "c-1" {
		t.Errorf("merge replaced the identifier: got %q, want c-1", merged.ID)
	}
	if merged.Name != "Ana María" {
		t.Errorf("merge dropped a non-empty detail field: got %q", merged.Name)
	}
}

func TestMergeDoesNotMutateReceiver(t *testing.T) {
	stub := Candidate{ID: "c-1", Position: "Analyst", Skills: []string{"SQL"}}
	detail := Candidate{Position: "Senior Analyst", Skills: []string{"SQL", "Python"}}

	merged := stub.Merge(detail)

	if stub.Position != "Analyst" {
		t.Errorf("receiver position mutated: %q", stub.Position)
	}
	if len(stub.Skills) != 1 {
		t.Errorf("receiver skills mutated: %v", stub.Skills)
	}
	merged.Skills[0] = "changed"
	if detail.Skills[0] != "SQL" {
		t.Error("merged record shares backing array with detail")
	}
}

func TestMergeKeepsExperienceOrder(t *testing.T) {
	detail := Candidate{Experience: []Experience{
		{Position: "Lead", StartDate: "2022"},
		{Position: "Junior", StartDate: "2018"},
	}}

	merged := Candidate{ID: "c-1"}.Merge(detail)
	if merged.Experience[0].Position != "Lead" || merged.Experience[1].Position != "Junior" {
		t.Errorf("experience order changed: %+v", merged.Experience)
	}
}

func TestEnrichedHeuristic(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want bool
	}{
		{"nothing enriched", Candidate{ID: "x", Name: "Ana"}, false},
		{"only phone", Candidate{Phone: "55 1234 5678"}, true},
		{"only email", Candidate{Email: "ana@example.com"}, true},
		{"only skills", Candidate{Skills: []string{"Go"}}, true},
		{"only experience", Candidate{Experience: []Experience{{Position: "Dev"}}}, true},
	}

	for _, tt := range tests {
		if got := tt.c.Enriched(); got != tt.want {
			t.Errorf("%s: Enriched() = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestNormalized(t *testing.T) {
	c := Candidate{
		Name:     "  Ana   López ",
		Position: "Data\n Engineer",
		Skills:   []string{" SQL ", "", "Python"},
		Experience: []Experience{
			{Position: " Dev "},
			{},
		},
	}

	got := c.Normalized()
	if got.Name != "Ana López" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Position != "Data Engineer" {
		t.Errorf("position = %q", got.Position)
	}
	if len(got.Skills) != 2 {
		t.Errorf("skills = %v; want 2 entries", got.Skills)
	}
	if len(got.Experience) != 1 || got.Experience[0].Position != "Dev" {
		t.Errorf("experience = %+v", got.Experience)
	}
}

func TestWithHelpers(t *testing.T) {
	now := time.Now()
	c := Candidate{Name: "Ana"}

	stamped := c.WithID("c-9").WithUpdatedAt(now)
	if stamped.ID != "c-9" || !stamped.UpdatedAt.Equal(now) {
		t.Errorf("got %+v", stamped)
	}
	if c.ID != "" || !c.UpdatedAt.IsZero() {
		t.Error("receiver mutated by With helpers")
	}
}
