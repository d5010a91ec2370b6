package utils

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestIDLedgerMarkOnce(t *testing.T) {
	l := NewIDLedger()

	if !l.Mark("c-1") {
		t.Error("first Mark should return true")
	}
	if l.Mark("c-1") {
		t.Error("second Mark of same id should return false")
	}
	if !l.Seen("c-1") {
		t.Error("marked id should be seen")
	}
	if l.Size() != 1 {
		t.Errorf("size: got %d, want 1", l.Size())
	}
}

func TestIDLedgerEmptyIDNeverDeduplicated(t *testing.T) {
	l := NewIDLedger()

	if l.Mark("") {
		t.Error("empty id must not be recorded")
	}
	if l.Seen("") {
		t.Error("empty id must never be seen")
	}
	l.Seed([]string{"", "c-1", ""})
	if l.Size() != 1 {
		t.Errorf("seed recorded empty ids: size %d", l.Size())
	}
}

func TestIDLedgerSeed(t *testing.T) {
	l := NewIDLedger()
	l.Seed([]string{"a", "b", "a"})

	if l.Size() != 2 {
		t.Errorf("size: got %d, want 2", l.Size())
	}
	if l.Mark("a") {
		t.Error("seeded id marked as new")
	}
	if !l.Mark("c") {
		t.Error("unseen id rejected")
	}
}

func TestIDLedgerConcurrentMark(t *testing.T) {
	l := NewIDLedger()
	var added int64
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Mark("same-id") {
				atomic.AddInt64(&added, 1)
			}
		}()
	}
	wg.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful mark, got %d", added)
	}
}

func TestPacerEnforcesInterval(t *testing.T) {
	intervalMs := 50
	p := NewPacer(intervalMs)

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		p.Wait()
		timestamps = append(timestamps, time.Now())
	}

	min := time.Duration(intervalMs) * time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		if gap < min {
			t.Errorf("gap between call %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}
