package services

import (
	"fmt"
	"time"

	"github.com/grupokc/rpa-reclutamiento/config"
	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/scraper"
	"github.com/grupokc/rpa-reclutamiento/storage"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

// Harvester is phase one of the pipeline: it walks partitions × pages of
// the listing search and appends every newly-seen stub to the pending-queue
// store, page by page, so partial progress survives a crash mid-run. A page
// failure contributes zero stubs and traversal continues; a partition that
// cannot even be entered is skipped whole.
type Harvester struct {
	source scraper.ListingSource
	queue  *storage.LineStore
	ledger *utils.IDLedger
	cfg    *config.Config
	logger *utils.Logger
}

// NewHarvester creates a Harvester writing into the given queue store.
func NewHarvester(source scraper.ListingSource, queue *storage.LineStore, cfg *config.Config, logger *utils.Logger) *Harvester {
	return &Harvester{
		source: source,
		queue:  queue,
		ledger: utils.NewIDLedger(),
		cfg:    cfg,
		logger: logger,
	}
}

// Run harvests stubs for the keyword until the target queue size is met or
// the partition space is exhausted. Returns how many stubs were appended.
func (h *Harvester) Run(keyword string) (int, error) {
	existing, err := h.queue.LoadIDs()
	if err != nil {
		return 0, fmt.Errorf("harvest: seed ledger from queue: %w", err)
	}
	h.ledger.Seed(existing)

	queued := h.ledger.Size()
	h.logger.Info("[harvest] Queue holds %d candidates — target %d", queued, h.cfg.TargetCount)
	if queued >= h.cfg.TargetCount {
		h.logger.Info("[harvest] Target already met, nothing to do")
		return 0, nil
	}

	added := 0
	for _, partition := range h.cfg.Partitions {
		if queued+added >= h.cfg.TargetCount {
			break
		}

		h.logger.Info("[harvest] Partition %s — opening search", partition.Name)
		if err := h.source.OpenPartition(keyword, partition); err != nil {
			h.logger.Error("[harvest] Skipping partition %s: %v", partition.Name, err)
			continue
		}

		added += h.harvestPartition(partition, queued+added)
	}

	h.logger.Info("[harvest] Done — %d new stubs queued (queue total ≈ %d)", added, queued+added)
	return added, nil
}

// harvestPartition pages through one partition. Returns stubs appended.
func (h *Harvester) harvestPartition(partition config.Partition, alreadyQueued int) int {
	added := 0
	emptyStreak := 0

	for page := 1; page <= h.cfg.MaxPagesPerRegion; page++ {
		stubs, err := h.source.PageStubs()
		if err != nil {
			// A broken page yields zero stubs; traversal goes on.
			h.logger.Warn("[harvest] %s page %d failed: %v", partition.Name, page, err)
			stubs = nil
		}

		fresh := h.filterNew(stubs)
		if len(fresh) == 0 {
			emptyStreak++
			h.logger.Info("[harvest] %s page %d: no new candidates (streak %d/%d)",
				partition.Name, page, emptyStreak, h.cfg.EmptyPagePatience)
			if emptyStreak >= h.cfg.EmptyPagePatience {
				h.logger.Info("[harvest] %s: empty-page patience exceeded, next partition", partition.Name)
				break
			}
		} else {
			emptyStreak = 0
			if err := h.queue.Append(fresh); err != nil {
				// Losing the append means losing durability; stop the
				// partition rather than harvesting into the void.
				h.logger.Error("[harvest] Queue append failed on %s page %d: %v", partition.Name, page, err)
				break
			}
			added += len(fresh)
			h.logger.Info("[harvest] %s page %d: +%d candidates (%d this run)",
				partition.Name, page, len(fresh), added)
		}

		if alreadyQueued+added >= h.cfg.TargetCount {
			h.logger.Info("[harvest] Target count reached")
			break
		}

		more, err := h.source.NextPage()
		if err != nil {
			h.logger.Warn("[harvest] %s: pagination failed after page %d: %v", partition.Name, page, err)
			break
		}
		if !more {
			h.logger.Info("[harvest] %s: no more pages", partition.Name)
			break
		}
	}

	return added
}

// filterNew drops stubs the ledger has already seen and normalizes the
// keepers. Stubs without an identifier cannot be deduplicated — they pass
// through with a data-quality warning. Stubs without a URL are unusable
// downstream and are dropped.
func (h *Harvester) filterNew(stubs []models.Candidate) []models.Candidate {
	now := time.Now()
	fresh := make([]models.Candidate, 0, len(stubs))
	for _, stub := range stubs {
		stub = stub.Normalized()
		if stub.URL == "" {
			h.logger.Warn("[harvest] Dropping stub with no profile URL (position %q)", stub.Position)
			continue
		}
		if stub.ID == "" {
			h.logger.Warn("[harvest] Stub without identifier at %s — cannot deduplicate", stub.URL)
			fresh = append(fresh, stub.WithUpdatedAt(now))
			continue
		}
		if !h.ledger.Mark(stub.ID) {
			continue
		}
		fresh = append(fresh, stub.WithUpdatedAt(now))
	}
	return fresh
}
