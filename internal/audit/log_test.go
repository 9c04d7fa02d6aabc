package audit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// TestLog_RecordAssignsOffsets verifies entries get sequential offsets.
func TestLog_RecordAssignsOffsets(t *testing.T) {
	log := NewLog(10)
	defer log.Close()

	log.Record("p1", "rest", "completed", time.Millisecond)
	log.Record("p2", "topic", "failed", time.Millisecond)

	entries, err := log.Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Offset != 1 || entries[1].Offset != 0 {
		t.Errorf("Expected offsets [1 0], got [%d %d]", entries[0].Offset, entries[1].Offset)
	}
	if entries[0].Process != "p2" {
		t.Errorf("Expected newest entry first, got process %q", entries[0].Process)
	}
}

// TestLog_CapacityBound verifies old entries are evicted while offsets and
// counts keep growing.
func TestLog_CapacityBound(t *testing.T) {
	log := NewLog(3)
	defer log.Close()

	for i := 0; i < 5; i++ {
		log.Record(fmt.Sprintf("p%d", i), "rest", "completed", 0)
	}

	entries, err := log.Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 retained entries, got %d", len(entries))
	}
	if entries[0].Offset != 4 {
		t.Errorf("Expected newest offset 4, got %d", entries[0].Offset)
	}
	if log.Total() != 5 {
		t.Errorf("Expected total 5, got %d", log.Total())
	}
}

// TestLog_RecentLimit verifies the limit caps the result, newest first.
func TestLog_RecentLimit(t *testing.T) {
	log := NewLog(10)
	defer log.Close()

	for i := 0; i < 4; i++ {
		log.Record("p1", "rest", "completed", 0)
	}

	entries, err := log.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Offset != 3 {
		t.Errorf("Expected newest offset 3, got %d", entries[0].Offset)
	}

	if _, err := log.Recent(-1); err != ErrNegativeLimit {
		t.Errorf("Expected ErrNegativeLimit, got %v", err)
	}
}

// TestLog_Counts verifies per-status counters.
func TestLog_Counts(t *testing.T) {
	log := NewLog(10)
	defer log.Close()

	log.Record("p1", "rest", "completed", 0)
	log.Record("p1", "rest", "completed", 0)
	log.Record("p1", "rest", "failed", 0)

	counts := log.Counts()
	if counts["completed"] != 2 {
		t.Errorf("Expected 2 completed, got %d", counts["completed"])
	}
	if counts["failed"] != 1 {
		t.Errorf("Expected 1 failed, got %d", counts["failed"])
	}
}

// TestLog_ClosedDropsRecords verifies recording after Close is a no-op.
func TestLog_ClosedDropsRecords(t *testing.T) {
	log := NewLog(10)
	log.Record("p1", "rest", "completed", 0)
	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	log.Record("p1", "rest", "completed", 0)

	if log.Total() != 1 {
		t.Errorf("Expected 1 entry after close, got %d", log.Total())
	}
}

// TestLog_ConcurrentRecord exercises concurrent writers.
func TestLog_ConcurrentRecord(t *testing.T) {
	log := NewLog(1000)
	defer log.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				log.Record("p1", "rest", "completed", 0)
			}
		}()
	}
	wg.Wait()

	if log.Total() != 800 {
		t.Errorf("Expected 800 records, got %d", log.Total())
	}
}
