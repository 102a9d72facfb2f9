package core

import (
	"strings"
	"unicode"
)

// Symbol is a single nucleotide code.
type Symbol byte

// Nucleotide symbols.
const (
	Adenine  Symbol = 'A'
	Thymine  Symbol = 'T'
	Guanine  Symbol = 'G'
	Cytosine Symbol = 'C'
)

// Symbols lists the valid nucleotide codes in display order.
var Symbols = [4]Symbol{Adenine, Thymine, Guanine, Cytosine}

// ParseSymbol case-normalizes r and reports whether it is a valid nucleotide.
func ParseSymbol(r rune) (Symbol, bool) {
	switch unicode.ToUpper(r) {
	case 'A':
		return Adenine, true
	case 'T':
		return Thymine, true
	case 'G':
		return Guanine, true
	case 'C':
		return Cytosine, true
	}
	return 0, false
}

// ParseSymbolString parses a string that must hold exactly one nucleotide.
// Surrounding whitespace is ignored.
func ParseSymbolString(s string) (Symbol, bool) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	return ParseSymbol(runes[0])
}

// Valid reports whether s is one of A, T, G, C.
func (s Symbol) Valid() bool {
	switch s {
	case Adenine, Thymine, Guanine, Cytosine:
		return true
	}
	return false
}

// Complement returns the Watson-Crick partner of s.
func (s Symbol) Complement() Symbol {
	switch s {
	case Adenine:
		return Thymine
	case Thymine:
		return Adenine
	case Guanine:
		return Cytosine
	case Cytosine:
		return Guanine
	}
	return s
}

// Name returns the nucleobase name.
func (s Symbol) Name() string {
	switch s {
	case Adenine:
		return "Adenine"
	case Thymine:
		return "Thymine"
	case Guanine:
		return "Guanine"
	case Cytosine:
		return "Cytosine"
	}
	return "Unknown"
}

func (s Symbol) String() string {
	if !s.Valid() {
		return "?"
	}
	return string(rune(s))
}

// Normalize filters text down to valid symbols.
// Lowercase input is accepted; every other character is returned in dropped.
func Normalize(text string) (symbols []Symbol, dropped []rune) {
	symbols = make([]Symbol, 0, len(text))
	for _, r := range text {
		if sym, ok := ParseSymbol(r); ok {
			symbols = append(symbols, sym)
			continue
		}
		dropped = append(dropped, r)
	}
	return symbols, dropped
}

// FormatSymbols renders symbols as a plain string.
func FormatSymbols(symbols []Symbol) string {
	var b strings.Builder
	b.Grow(len(symbols))
	for _, s := range symbols {
		b.WriteByte(byte(s))
	}
	return b.String()
}
