package sequence

import (
	"github.com/leapstack-labs/helixlab/pkg/core"
)

// ChangeFunc is called with the full sequence after every committed mutation.
type ChangeFunc func(sequence string)

// Model owns a mutable nucleotide sequence and its undo history.
// A Model is not safe for concurrent use; hosts that share one across
// goroutines must serialize access.
type Model struct {
	symbols   []core.Symbol
	edited    []bool
	history   *history
	listeners []ChangeFunc
	evicted   int
}

// Option configures a Model.
type Option func(*Model)

// WithHistoryLimit bounds the undo history. Values <= 0 select DefaultHistoryLimit.
func WithHistoryLimit(n int) Option {
	return func(m *Model) {
		m.history = newHistory(n)
	}
}

// New creates an empty Model.
func New(opts ...Option) *Model {
	m := &Model{history: newHistory(DefaultHistoryLimit)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers fn to be called after each committed edit, delete,
// insert or undo. Set does not notify. Listeners run synchronously, after
// the new state is in place.
func (m *Model) OnChange(fn ChangeFunc) {
	if fn != nil {
		m.listeners = append(m.listeners, fn)
	}
}

// Set replaces the whole sequence. Invalid characters are dropped and
// reported. Set is an initialization: it clears the edit markers and the
// undo history and does not notify listeners.
func (m *Model) Set(text string) Result {
	symbols, dropped := core.Normalize(text)
	m.symbols = symbols
	m.edited = make([]bool, len(symbols))
	m.history.clear()

	res := Result{Count: len(symbols)}
	if len(dropped) > 0 {
		res.Warnings = append(res.Warnings, Warning{Kind: WarnDroppedCharacters, Input: text, Dropped: dropped})
	}
	return res
}

// EditAt replaces the symbol at index. An invalid replacement symbol is a
// no-op reported as a warning; an invalid index is ErrOutOfRange.
func (m *Model) EditAt(index int, symbol string) (Result, error) {
	sym, ok := core.ParseSymbolString(symbol)
	if !ok {
		return Result{
			NoOp:     true,
			Position: index,
			Warnings: []Warning{{Kind: WarnInvalidSymbol, Position: index, Input: symbol}},
		}, nil
	}
	if index < 0 || index >= len(m.symbols) {
		return Result{NoOp: true, Position: index}, outOfRange("edit", index, len(m.symbols))
	}

	m.snapshot()
	m.symbols[index] = sym
	m.edited[index] = true
	m.notify()

	return Result{Position: index, Count: 1}, nil
}

// DeleteAt removes the symbol at index.
func (m *Model) DeleteAt(index int) (Result, error) {
	if index < 0 || index >= len(m.symbols) {
		return Result{NoOp: true, Position: index}, outOfRange("delete", index, len(m.symbols))
	}

	m.snapshot()
	m.symbols = append(m.symbols[:index], m.symbols[index+1:]...)
	m.edited = append(m.edited[:index], m.edited[index+1:]...)
	m.notify()

	return Result{Position: index, Count: 1}, nil
}

// InsertAt inserts the valid symbols of raw as one contiguous block.
// Invalid characters are dropped with a warning and position is clamped
// into [0, Len()]. If no valid symbol remains the call is a no-op.
func (m *Model) InsertAt(position int, raw string) (Result, error) {
	symbols, dropped := core.Normalize(raw)

	res := Result{Position: position}
	switch {
	case position < 0:
		res.Position, res.Clamped = 0, true
	case position > len(m.symbols):
		res.Position, res.Clamped = len(m.symbols), true
	}
	if len(dropped) > 0 {
		res.Warnings = append(res.Warnings, Warning{
			Kind:     WarnDroppedCharacters,
			Position: res.Position,
			Input:    raw,
			Dropped:  dropped,
		})
	}
	if len(symbols) == 0 {
		res.NoOp = true
		return res, nil
	}

	m.snapshot()
	pos := res.Position

	nextSymbols := make([]core.Symbol, 0, len(m.symbols)+len(symbols))
	nextSymbols = append(nextSymbols, m.symbols[:pos]...)
	nextSymbols = append(nextSymbols, symbols...)
	nextSymbols = append(nextSymbols, m.symbols[pos:]...)

	nextEdited := make([]bool, 0, len(nextSymbols))
	nextEdited = append(nextEdited, m.edited[:pos]...)
	for range symbols {
		nextEdited = append(nextEdited, true)
	}
	nextEdited = append(nextEdited, m.edited[pos:]...)

	m.symbols, m.edited = nextSymbols, nextEdited
	m.notify()

	res.Count = len(symbols)
	return res, nil
}

// Undo restores the state before the most recent mutation.
// It returns false, without notifying, when there is nothing to undo.
func (m *Model) Undo() bool {
	snap, ok := m.history.pop()
	if !ok {
		return false
	}
	m.symbols = snap.Symbols
	m.edited = snap.Edited
	m.notify()
	return true
}

// Len returns the number of symbols.
func (m *Model) Len() int { return len(m.symbols) }

// String returns the sequence as text.
func (m *Model) String() string { return core.FormatSymbols(m.symbols) }

// Symbols returns a copy of the current symbols.
func (m *Model) Symbols() []core.Symbol {
	return append([]core.Symbol(nil), m.symbols...)
}

// At returns the symbol at index.
func (m *Model) At(index int) (core.Symbol, error) {
	if index < 0 || index >= len(m.symbols) {
		return 0, outOfRange("read", index, len(m.symbols))
	}
	return m.symbols[index], nil
}

// Edited reports whether the symbol at index was written by an edit or
// insert since the last Set. Out-of-range indices report false.
func (m *Model) Edited(index int) bool {
	if index < 0 || index >= len(m.edited) {
		return false
	}
	return m.edited[index]
}

// EditCount returns the number of positions currently marked edited.
func (m *Model) EditCount() int {
	n := 0
	for _, e := range m.edited {
		if e {
			n++
		}
	}
	return n
}

// HistoryLen returns the number of undo steps available.
func (m *Model) HistoryLen() int { return m.history.len() }

// HistoryLimit returns the maximum number of undo steps kept.
func (m *Model) HistoryLimit() int { return m.history.limit() }

// Evicted returns how many snapshots were dropped because the history was full.
func (m *Model) Evicted() int { return m.evicted }

// OldestUndo returns the sequence the model would return to after undoing
// every available step.
func (m *Model) OldestUndo() (string, bool) {
	snap, ok := m.history.oldest()
	if !ok {
		return "", false
	}
	return core.FormatSymbols(snap.Symbols), true
}

func (m *Model) snapshot() {
	snap := Snapshot{Symbols: m.symbols, Edited: m.edited}.clone()
	if m.history.push(snap) {
		m.evicted++
	}
}

func (m *Model) notify() {
	if len(m.listeners) == 0 {
		return
	}
	seq := m.String()
	for _, fn := range m.listeners {
		fn(seq)
	}
}
