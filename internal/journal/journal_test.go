package journal

import (
	"errors"
	"sync"
	"testing"

	"github.com/idlerack/idlerack/internal/domain/ledger"
)

func entry(tick uint64, msg string) Entry {
	return NewEntry(tick, SeverityInfo, "test", msg, ledger.Resources{})
}

func TestAppendAndRecent(t *testing.T) {
	j := New(nil, nil)
	j.Append(entry(1, "first"))
	j.Append(entry(2, "second"))
	j.Append(entry(3, "third"))

	got := j.Recent(2)
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d entries", len(got))
	}
	if got[0].Message != "second" || got[1].Message != "third" {
		t.Errorf("unexpected window order: %q, %q", got[0].Message, got[1].Message)
	}
}

func TestBoundedWindow(t *testing.T) {
	j := New(nil, nil)
	for i := 0; i < MaxRetained+50; i++ {
		j.Append(entry(uint64(i), "spam"))
	}
	if j.Len() != MaxRetained {
		t.Errorf("retained %d entries, want %d", j.Len(), MaxRetained)
	}
	newest := j.Recent(1)[0]
	if newest.Tick != uint64(MaxRetained+49) {
		t.Errorf("eviction removed the wrong end: newest tick %d", newest.Tick)
	}
}

type recordingPersister struct {
	mu    sync.Mutex
	codes []string
	fail  bool
}

func (p *recordingPersister) Append(e Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("disk full")
	}
	p.codes = append(p.codes, e.Message)
	return nil
}

func TestWriteThroughPreservesOrder(t *testing.T) {
	p := &recordingPersister{}
	j := New(p, nil)
	for i := 0; i < 20; i++ {
		j.Append(entry(uint64(i), string(rune('a'+i))))
	}
	j.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.codes) != 20 {
		t.Fatalf("persisted %d entries, want 20", len(p.codes))
	}
	for i, msg := range p.codes {
		if msg != string(rune('a'+i)) {
			t.Fatalf("entry %d persisted out of order: %q", i, msg)
		}
	}
}

func TestWriteThroughFailureIsNotFatal(t *testing.T) {
	p := &recordingPersister{fail: true}
	j := New(p, nil)
	j.Append(entry(1, "doomed"))
	j.Close()

	if j.Len() != 1 {
		t.Fatal("failed persistence must not evict the in-memory entry")
	}
}

func TestRecentCopies(t *testing.T) {
	j := New(nil, nil)
	j.Append(entry(1, "only"))
	window := j.Recent(1)
	window[0].Message = "mutated"
	if j.Recent(1)[0].Message != "only" {
		t.Error("Recent must hand out copies, not the backing slice")
	}
}
