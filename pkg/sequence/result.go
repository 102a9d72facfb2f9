package sequence

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrOutOfRange is returned when an index does not address an existing symbol.
var ErrOutOfRange = errors.New("index out of range")

// WarningKind classifies a non-fatal validation problem.
type WarningKind int

const (
	// WarnInvalidSymbol means an edit was ignored because the replacement
	// was not a single A/T/G/C.
	WarnInvalidSymbol WarningKind = iota + 1
	// WarnDroppedCharacters means some input characters were filtered out.
	WarnDroppedCharacters
)

func (k WarningKind) String() string {
	switch k {
	case WarnInvalidSymbol:
		return "invalid_symbol"
	case WarnDroppedCharacters:
		return "dropped_characters"
	}
	return "unknown"
}

// Warning describes input that was ignored or filtered.
type Warning struct {
	Kind     WarningKind
	Position int
	Input    string
	Dropped  []rune
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnInvalidSymbol:
		return fmt.Sprintf("invalid symbol %s at position %d (allowed: A T G C)", strconv.Quote(w.Input), w.Position)
	case WarnDroppedCharacters:
		return fmt.Sprintf("dropped %d invalid character(s) %s", len(w.Dropped), strconv.Quote(string(w.Dropped)))
	}
	return "unknown warning"
}

// Result reports what a mutating call actually did.
type Result struct {
	// NoOp is true when the sequence was left unchanged and no history
	// entry was recorded.
	NoOp bool
	// Clamped is true when an insert position was normalized into [0, Len()].
	Clamped bool
	// Position is the effective position of the change.
	Position int
	// Count is the number of symbols written (1 for an edit or delete).
	Count    int
	Warnings []Warning
}

// HasWarnings reports whether the call produced any warnings.
func (r Result) HasWarnings() bool { return len(r.Warnings) > 0 }

func outOfRange(op string, index, length int) error {
	return fmt.Errorf("%s at %d (length %d): %w", op, index, length, ErrOutOfRange)
}
