package utils

import (
	"sync"
	"time"
)

// IDLedger tracks which candidate identifiers have already been seen. It is
// rebuilt from store contents at every process start and has no persisted
// form of its own. Safe for concurrent use.
type IDLedger struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewIDLedger creates an empty ledger.
func NewIDLedger() *IDLedger {
	return &IDLedger{seen: make(map[string]struct{})}
}

// Seed marks every given identifier as seen. Empty identifiers are ignored —
// a record without a stable key cannot be deduplicated.
func (l *IDLedger) Seed(ids []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		if id != "" {
			l.seen[id] = struct{}{}
		}
	}
}

// Seen returns true if the identifier was already marked. An empty
// identifier is never "seen".
func (l *IDLedger) Seen(id string) bool {
	if id == "" {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.seen[id]
	return ok
}

// Mark records the identifier, returning true if it was newly added and
// false if it was already present. Empty identifiers are never recorded.
func (l *IDLedger) Mark(id string) bool {
	if id == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[id]; ok {
		return false
	}
	l.seen[id] = struct{}{}
	return true
}

// Size returns the number of identifiers tracked.
func (l *IDLedger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.seen)
}

// Pacer enforces a minimum interval between navigations so the scrape stays
// polite. The pipeline is strictly sequential, one browser session and one
// page at a time, so this is the only throttling needed.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewPacer creates a Pacer with the given minimum interval in milliseconds.
func NewPacer(intervalMs int) *Pacer {
	return &Pacer{interval: time.Duration(intervalMs) * time.Millisecond}
}

// Wait blocks until at least the configured interval has passed since the
// previous call.
func (p *Pacer) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.last)
	if !p.last.IsZero() && elapsed < p.interval {
		time.Sleep(p.interval - elapsed)
	}
	p.last = time.Now()
}
