// Package audit keeps a bounded in-memory record of dispatch outcomes for
// the introspection surface. It is not a durable log: the gateway exposes
// it so operators can see what the dispatcher did recently without
// attaching a debugger.
package audit

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrClosed is returned when recording into a closed log
	ErrClosed = errors.New("audit log is closed")
	// ErrNegativeLimit is returned when a negative limit is provided
	ErrNegativeLimit = errors.New("limit cannot be negative")
)

// DefaultCapacity bounds the log when no capacity is configured.
const DefaultCapacity = 1024

// Entry is one recorded dispatch outcome.
type Entry struct {
	// Offset is the monotonically increasing sequence number assigned by
	// the log.
	Offset int64 `json:"offset"`
	// Process is the matched process name, empty for unrouted events.
	Process string `json:"process,omitempty"`
	// Transport is the inbound event's transport type.
	Transport string `json:"transport"`
	// Status is the terminal dispatch status.
	Status string `json:"status"`
	// Duration is how long the dispatch took.
	Duration time.Duration `json:"duration"`
	// Timestamp is when the outcome was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// Log is a bounded, thread-safe in-memory dispatch log. Once the capacity
// is reached the oldest entries are discarded; offsets keep increasing.
type Log struct {
	mu         sync.RWMutex
	entries    []Entry
	nextOffset int64
	capacity   int
	byStatus   map[string]int64
	closed     bool
}

// NewLog creates a log bounded to capacity entries. A capacity <= 0 uses
// DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		byStatus: make(map[string]int64),
	}
}

// Record appends one dispatch outcome. It implements the dispatcher's
// Recorder interface. Recording into a closed log is silently dropped:
// dispatch outcomes must never fail because introspection went away first.
func (l *Log) Record(process, transport, status string, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	entry := Entry{
		Offset:    l.nextOffset,
		Process:   process,
		Transport: transport,
		Status:    status,
		Duration:  duration,
		Timestamp: time.Now(),
	}
	l.nextOffset++
	l.byStatus[status]++

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		// Drop the oldest entry; copy so the backing array does not pin
		// discarded entries forever.
		l.entries = append(l.entries[:0:0], l.entries[1:]...)
	}
}

// Recent returns up to limit entries, newest first. A limit of 0 returns
// everything currently retained.
func (l *Log) Recent(limit int) ([]Entry, error) {
	if limit < 0 {
		return nil, ErrNegativeLimit
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = l.entries[len(l.entries)-1-i]
	}
	return out, nil
}

// Counts returns the number of recorded outcomes per status, including
// entries already evicted by the capacity bound.
func (l *Log) Counts() map[string]int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]int64, len(l.byStatus))
	for k, v := range l.byStatus {
		out[k] = v
	}
	return out
}

// Total returns the total number of outcomes ever recorded.
func (l *Log) Total() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nextOffset
}

// Close stops the log from accepting new records. Safe to call multiple
// times.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
