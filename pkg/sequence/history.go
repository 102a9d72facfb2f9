package sequence

import "github.com/leapstack-labs/helixlab/pkg/core"

// DefaultHistoryLimit is the number of undo steps kept when no limit is configured.
const DefaultHistoryLimit = 256

// Snapshot is a full value copy of the sequence state before a mutation.
type Snapshot struct {
	Symbols []core.Symbol
	Edited  []bool
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Symbols: append([]core.Symbol(nil), s.Symbols...),
		Edited:  append([]bool(nil), s.Edited...),
	}
}

// history is a bounded LIFO of snapshots with drop-oldest eviction.
// It is a ring buffer: head is the index of the oldest entry.
type history struct {
	entries []Snapshot
	head    int
	size    int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &history{entries: make([]Snapshot, limit)}
}

func (h *history) limit() int { return len(h.entries) }

func (h *history) len() int { return h.size }

// push stores s, evicting the oldest snapshot when full.
// It reports whether an eviction happened.
func (h *history) push(s Snapshot) bool {
	if h.size == len(h.entries) {
		h.entries[h.head] = s
		h.head = (h.head + 1) % len(h.entries)
		return true
	}
	h.entries[(h.head+h.size)%len(h.entries)] = s
	h.size++
	return false
}

func (h *history) pop() (Snapshot, bool) {
	if h.size == 0 {
		return Snapshot{}, false
	}
	idx := (h.head + h.size - 1) % len(h.entries)
	s := h.entries[idx]
	h.entries[idx] = Snapshot{}
	h.size--
	return s, true
}

// oldest returns the snapshot that would be evicted next.
func (h *history) oldest() (Snapshot, bool) {
	if h.size == 0 {
		return Snapshot{}, false
	}
	return h.entries[h.head], true
}

func (h *history) clear() {
	for i := range h.entries {
		h.entries[i] = Snapshot{}
	}
	h.head = 0
	h.size = 0
}
