// Package journal provides the append-only stream of log entries the
// dispatcher emits. Every gameplay outcome, including rejected actions,
// lands here; the log stream pane and the persistence layer both read it.
package journal

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idlerack/idlerack/internal/domain/ledger"
	"github.com/idlerack/idlerack/internal/platform/logger"
)

// Severity classifies an entry for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityGood    Severity = "good"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Entry is one immutable journal record.
type Entry struct {
	ID        string           `json:"id"`
	Tick      uint64           `json:"tick"`
	Timestamp time.Time        `json:"timestamp"`
	Severity  Severity         `json:"severity"`
	// Code is a stable machine-readable tag ("purchase", "incident",
	// "achievement", "rejected", ...).
	Code    string           `json:"code"`
	Message string           `json:"message"`
	// Effect records the resource delta the entry describes, if any.
	Effect ledger.Resources `json:"effect"`
}

// NewEntry stamps an entry with a fresh identifier and wall-clock time.
func NewEntry(tick uint64, sev Severity, code, message string, effect ledger.Resources) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Tick:      tick,
		Timestamp: time.Now(),
		Severity:  sev,
		Code:      code,
		Message:   message,
		Effect:    effect,
	}
}

// Persister defines how an entry is durably stored.
type Persister interface {
	Append(entry Entry) error
}

// MaxRetained bounds the in-memory window; older entries survive only in
// the persister.
const MaxRetained = 256

// Journal is the bounded in-memory log with optional write-through
// persistence. Safe for concurrent readers; the dispatch loop is the only
// writer. One drain goroutine owns the persister, so durable order matches
// append order.
type Journal struct {
	mu      sync.RWMutex
	entries []Entry
	dropped int

	persister Persister
	logger    *logger.Logger
	pending   chan Entry
	drained   chan struct{}
}

// New creates a journal with an optional persister. log may be nil.
func New(persister Persister, log *logger.Logger) *Journal {
	if log == nil {
		log = logger.Nop()
	}
	j := &Journal{persister: persister, logger: log}
	if persister != nil {
		j.pending = make(chan Entry, MaxRetained)
		j.drained = make(chan struct{})
		go j.drain()
	}
	return j
}

func (j *Journal) drain() {
	defer close(j.drained)
	for e := range j.pending {
		if err := j.persister.Append(e); err != nil {
			j.logger.Errorf("journal write failed: %v", err)
		}
	}
}

// Append adds an entry, evicting the oldest once the window is full.
func (j *Journal) Append(entry Entry) {
	j.mu.Lock()
	j.entries = append(j.entries, entry)
	if len(j.entries) > MaxRetained {
		j.entries = j.entries[len(j.entries)-MaxRetained:]
		j.dropped++
	}
	j.mu.Unlock()

	if j.pending != nil {
		select {
		case j.pending <- entry:
		default:
			// The persister is badly behind; the entry stays visible in
			// the in-memory window only.
			j.logger.Warn("Journal persister backlog full, entry not persisted")
		}
	}
}

// Close flushes pending write-through entries. Append must not be called
// after Close.
func (j *Journal) Close() {
	if j.pending != nil {
		close(j.pending)
		<-j.drained
	}
}

// Recent returns up to n newest entries, newest last.
func (j *Journal) Recent(n int) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if n > len(j.entries) {
		n = len(j.entries)
	}
	out := make([]Entry, n)
	copy(out, j.entries[len(j.entries)-n:])
	return out
}

// Len reports the retained entry count.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}
