package services

import (
	"fmt"

	"github.com/grupokc/rpa-reclutamiento/config"
	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/storage"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

// WorkerStats summarizes one processing run.
type WorkerStats struct {
	Pending  int
	Accepted int
	Rejected int
	Flushes  int
}

// Worker is phase two of the pipeline: it drains the pending queue, one
// sequential enrichment at a time, buffers the accepted records, and
// flushes the buffer into the final store at every batch boundary and at
// run end. The final store doubles as the resume checkpoint — anything
// already there is excluded from the pending set, so interrupting and
// restarting the worker never repeats finished work.
type Worker struct {
	enricher *Enricher
	queue    *storage.LineStore
	final    *storage.LineStore
	cfg      *config.Config
	logger   *utils.Logger
}

// NewWorker creates a Worker draining queue into final.
func NewWorker(enricher *Enricher, queue, final *storage.LineStore, cfg *config.Config, logger *utils.Logger) *Worker {
	return &Worker{enricher: enricher, queue: queue, final: final, cfg: cfg, logger: logger}
}

// Run processes every pending queue entry. The remainder buffer is flushed
// even when the run stops early on an append failure, so accepted work is
// never lost.
func (w *Worker) Run() (stats WorkerStats, err error) {
	pending, perr := w.pendingSet()
	if perr != nil {
		return stats, perr
	}
	stats.Pending = len(pending)
	w.logger.Info("[worker] %d pending candidates to enrich (batch size %d)", len(pending), w.cfg.BatchSize)

	var batch []models.Candidate
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if ferr := w.final.Append(batch); ferr != nil {
			return fmt.Errorf("worker: flush %d records: %w", len(batch), ferr)
		}
		stats.Flushes++
		w.logger.Info("[worker] Flushed %d records to %s (flush #%d)", len(batch), w.final.Path(), stats.Flushes)
		batch = batch[:0]
		return nil
	}
	defer func() {
		if ferr := flush(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	for i, stub := range pending {
		w.logger.Info("[worker] (%d/%d) Enriching %s", i+1, len(pending), stub.URL)
		enriched := w.enricher.Enrich(stub)

		if !enriched.Enriched() {
			// Not an error: the record stays out of the final store and the
			// next run picks it up again.
			stats.Rejected++
			w.logger.Info("[worker] Not enriched, skipping for now: %s", stub.URL)
			continue
		}

		batch = append(batch, enriched)
		stats.Accepted++

		if len(batch) >= w.cfg.BatchSize {
			if err = flush(); err != nil {
				return stats, err
			}
		}
	}

	w.logger.Info("[worker] Run complete — %d accepted, %d rejected of %d pending",
		stats.Accepted, stats.Rejected, stats.Pending)
	return stats, nil
}

// pendingSet is the queue minus what the final store already holds. Queue
// entries are collapsed to their latest line per id first; records without
// an id fall back to URL identity so they stay resumable too.
func (w *Worker) pendingSet() ([]models.Candidate, error) {
	queued, err := w.queue.LoadLatest()
	if err != nil {
		return nil, fmt.Errorf("worker: load queue: %w", err)
	}

	done, err := w.final.Load()
	if err != nil {
		return nil, fmt.Errorf("worker: load final store: %w", err)
	}

	ledger := utils.NewIDLedger()
	doneURLs := make(map[string]struct{}, len(done))
	for _, c := range done {
		if c.ID != "" {
			ledger.Mark(c.ID)
		}
		if c.URL != "" {
			doneURLs[c.URL] = struct{}{}
		}
	}

	var pending []models.Candidate
	for _, c := range queued {
		if c.ID != "" {
			if ledger.Seen(c.ID) {
				continue
			}
		} else {
			w.logger.Warn("[worker] Queue entry without identifier (%s) — matching by URL only", c.URL)
			if _, ok := doneURLs[c.URL]; ok && c.URL != "" {
				continue
			}
		}
		pending = append(pending, c)
	}
	return pending, nil
}
