package services

import (
	"errors"
	"testing"

	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/parser"
)

func newEnricher(src *fakeDetail) *Enricher {
	logger := newTestLogger()
	return NewEnricher(src, parser.NewChain(logger), logger)
}

func TestEnrichMergePrecedence(t *testing.T) {
	s := stub("c-1")
	s.Name = "Nombre de lista"
	s.Location = "CDMX"
	src := &fakeDetail{html: map[string]string{
		s.URL: `<html><body><script id="__APP_STATE__">
		{"candidateDetail": {"id": "other-id", "name": "Nombre completo", "phone": "55 1111 2222"}}
		</script></body></html>`,
	}}

	out := newEnricher(src).Enrich(s)

	if out.ID != "c-1" {
		t.Errorf("identifier was overridden: %q", out.ID)
	}
	if out.Name != "Nombre completo" {
		t.Errorf("non-empty detail value should win: %q", out.Name)
	}
	if out.Location != "CDMX" {
		t.Errorf("empty detail value should not erase the stub's: %q", out.Location)
	}
	if out.Phone != "55 1111 2222" {
		t.Errorf("detail-only field lost: %q", out.Phone)
	}
	if out.UpdatedAt.IsZero() {
		t.Error("enrichment should stamp the record")
	}
}

func TestEnrichReturnsStubWhenFetchFails(t *testing.T) {
	s := stub("c-1")
	src := &fakeDetail{
		html: map[string]string{},
		err:  map[string]error{s.URL: errors.New("navigation timed out")},
	}

	out := newEnricher(src).Enrich(s)
	if out.ID != s.ID || out.Position != s.Position {
		t.Errorf("stub not returned intact: %+v", out)
	}
}

func TestEnrichParsesPartialContentAfterFetchError(t *testing.T) {
	s := stub("c-1")
	src := &fakeDetail{
		html: map[string]string{s.URL: detailPage("c-1")},
		err:  map[string]error{s.URL: errors.New("wait for element timed out")},
	}

	out := newEnricher(src).Enrich(s)
	if out.Phone != "55 1111 2222" {
		t.Errorf("partial content was not parsed: %+v", out)
	}
}

func TestEnrichReturnsStubWithoutURL(t *testing.T) {
	s := models.Candidate{ID: "c-1", Position: "Dev"}
	src := &fakeDetail{html: map[string]string{}}

	out := newEnricher(src).Enrich(s)
	if len(src.calls) != 0 {
		t.Errorf("fetch attempted without a URL: %v", src.calls)
	}
	if out.ID != "c-1" {
		t.Errorf("stub not returned: %+v", out)
	}
}
