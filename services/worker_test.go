package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/grupokc/rpa-reclutamiento/config"
	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/parser"
	"github.com/grupokc/rpa-reclutamiento/storage"
)

// fakeDetail serves canned detail pages keyed by profile URL.
type fakeDetail struct {
	html  map[string]string
	err   map[string]error
	calls []string
}

func (f *fakeDetail) FetchDetail(url string) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.err[url]; ok {
		return f.html[url], err
	}
	return f.html[url], nil
}

// detailPage embeds a structured payload carrying a phone number, enough to
// clear the acceptance heuristic.
func detailPage(id string) string {
	return fmt.Sprintf(`<html><body><script id="__APP_STATE__">
	{"candidateDetail": {"id": %q, "name": "Candidato %s", "phone": "55 1111 2222"}}
	</script></body></html>`, id, id)
}

// thinPage parses fine but yields no contact, skills or experience, so the
// result never passes acceptance.
func thinPage(id string) string {
	return fmt.Sprintf(`<html><body><script id="__APP_STATE__">
	{"candidateDetail": {"id": %q, "name": "Candidato %s"}}
	</script></body></html>`, id, id)
}

func workerFixture(t *testing.T, batchSize int) (*config.Config, *storage.LineStore, *storage.LineStore) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		BatchSize: batchSize,
		QueuePath: filepath.Join(dir, "cola.jsonl"),
		FinalPath: filepath.Join(dir, "completos.jsonl"),
	}
	queue, err := storage.NewLineStore(cfg.QueuePath, newTestLogger())
	if err != nil {
		t.Fatalf("queue store: %v", err)
	}
	final, err := storage.NewLineStore(cfg.FinalPath, newTestLogger())
	if err != nil {
		t.Fatalf("final store: %v", err)
	}
	return cfg, queue, final
}

func newWorker(src *fakeDetail, queue, final *storage.LineStore, cfg *config.Config) *Worker {
	logger := newTestLogger()
	enricher := NewEnricher(src, parser.NewChain(logger), logger)
	return NewWorker(enricher, queue, final, cfg, logger)
}

func TestWorkerEnrichesAndFlushes(t *testing.T) {
	cfg, queue, final := workerFixture(t, 50)

	stubs := []models.Candidate{stub("c-1"), stub("c-2")}
	if err := queue.Append(stubs); err != nil {
		t.Fatalf("seed queue: %v", err)
	}
	src := &fakeDetail{html: map[string]string{
		stubs[0].URL: detailPage("c-1"),
		stubs[1].URL: detailPage("c-2"),
	}}

	stats, err := newWorker(src, queue, final, cfg).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Pending != 2 || stats.Accepted != 2 || stats.Rejected != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Flushes != 1 {
		t.Errorf("flushes = %d, want 1 (single remainder flush)", stats.Flushes)
	}

	out, err := final.Load()
	if err != nil {
		t.Fatalf("load final: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("final store has %d records, want 2", len(out))
	}
	if out[0].ID != "c-1" || out[0].Phone != "55 1111 2222" {
		t.Errorf("enriched fields missing: %+v", out[0])
	}
	if out[0].Position != "Analyst" {
		t.Errorf("stub field lost in merge: %+v", out[0])
	}
}

func TestWorkerBatchFlushBoundary(t *testing.T) {
	cfg, queue, final := workerFixture(t, 50)

	src := &fakeDetail{html: map[string]string{}}
	var stubs []models.Candidate
	for i := 0; i < 123; i++ {
		s := stub(fmt.Sprintf("c-%03d", i))
		src.html[s.URL] = detailPage(s.ID)
		stubs = append(stubs, s)
	}
	if err := queue.Append(stubs); err != nil {
		t.Fatalf("seed queue: %v", err)
	}

	stats, err := newWorker(src, queue, final, cfg).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Accepted != 123 {
		t.Errorf("accepted = %d, want 123", stats.Accepted)
	}
	if stats.Flushes != 3 {
		t.Errorf("flushes = %d, want 3 (50 + 50 + 23)", stats.Flushes)
	}

	out, err := final.Load()
	if err != nil {
		t.Fatalf("load final: %v", err)
	}
	if len(out) != 123 {
		t.Errorf("final store has %d records, want 123", len(out))
	}
}

func TestWorkerResumesWhereItLeftOff(t *testing.T) {
	cfg, queue, final := workerFixture(t, 50)

	src := &fakeDetail{html: map[string]string{}}
	var stubs []models.Candidate
	for i := 0; i < 10; i++ {
		s := stub(fmt.Sprintf("c-%d", i))
		src.html[s.URL] = detailPage(s.ID)
		stubs = append(stubs, s)
	}
	if err := queue.Append(stubs); err != nil {
		t.Fatalf("seed queue: %v", err)
	}
	// Four already made it to the final store on a previous run.
	if err := final.Append(stubs[:4]); err != nil {
		t.Fatalf("seed final: %v", err)
	}

	stats, err := newWorker(src, queue, final, cfg).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Pending != 6 {
		t.Errorf("pending = %d, want 6", stats.Pending)
	}
	if len(src.calls) != 6 {
		t.Errorf("fetched %d details, want 6 (finished work repeated)", len(src.calls))
	}

	out, err := final.Load()
	if err != nil {
		t.Fatalf("load final: %v", err)
	}
	if len(out) != 10 {
		t.Errorf("final store has %d records, want 10", len(out))
	}
}

func TestWorkerRejectionKeepsItemPending(t *testing.T) {
	cfg, queue, final := workerFixture(t, 50)

	good, bad := stub("c-ok"), stub("c-thin")
	if err := queue.Append([]models.Candidate{good, bad}); err != nil {
		t.Fatalf("seed queue: %v", err)
	}
	src := &fakeDetail{html: map[string]string{
		good.URL: detailPage("c-ok"),
		bad.URL:  thinPage("c-thin"),
	}}

	stats, err := newWorker(src, queue, final, cfg).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Accepted != 1 || stats.Rejected != 1 {
		t.Errorf("stats = %+v", stats)
	}

	// The rejected record never reached the final store, so a second run
	// still sees it as pending.
	stats, err = newWorker(src, queue, final, cfg).Run()
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if stats.Pending != 1 || stats.Rejected != 1 {
		t.Errorf("second run stats = %+v", stats)
	}
}

func TestWorkerDegradesToStubOnFetchFailure(t *testing.T) {
	cfg, queue, final := workerFixture(t, 50)

	s := stub("c-1")
	s.Phone = "55 9999 0000" // contact already on the stub
	if err := queue.Append([]models.Candidate{s}); err != nil {
		t.Fatalf("seed queue: %v", err)
	}
	src := &fakeDetail{
		html: map[string]string{},
		err:  map[string]error{s.URL: errors.New("navigation timed out")},
	}

	stats, err := newWorker(src, queue, final, cfg).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The fetch failed but the stub itself clears acceptance on contact.
	if stats.Accepted != 1 {
		t.Errorf("stats = %+v", stats)
	}

	out, _ := final.Load()
	if len(out) != 1 || out[0].Phone != "55 9999 0000" {
		t.Errorf("stub not preserved: %+v", out)
	}
}

func TestWorkerCollapsesDuplicateQueueLines(t *testing.T) {
	cfg, queue, final := workerFixture(t, 50)

	older := stub("c-1")
	newer := stub("c-1")
	newer.Location = "CDMX"
	if err := queue.Append([]models.Candidate{older, newer}); err != nil {
		t.Fatalf("seed queue: %v", err)
	}
	src := &fakeDetail{html: map[string]string{newer.URL: detailPage("c-1")}}

	stats, err := newWorker(src, queue, final, cfg).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Pending != 1 {
		t.Errorf("pending = %d, want 1 (latest line per id)", stats.Pending)
	}

	out, _ := final.Load()
	if len(out) != 1 || out[0].Location != "CDMX" {
		t.Errorf("latest queue line did not win: %+v", out)
	}
}
