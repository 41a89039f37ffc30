package jwtcrack

import (
	"strings"
	"unicode/utf8"
)

// DefaultAlphabet is the 62-symbol alphanumeric set used when none is given.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Alphabet is an ordered set of distinct symbols. The first symbol acts as
// digit zero when candidates are enumerated.
type Alphabet struct {
	symbols []rune
	encoded [][]byte // UTF-8 form of each symbol, same order as symbols
}

// NewAlphabet builds an Alphabet from s, keeping the first occurrence of any
// repeated symbol.
func NewAlphabet(s string) Alphabet {
	seen := make(map[rune]struct{}, len(s))
	a := Alphabet{}
	for _, r := range s {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		a.symbols = append(a.symbols, r)

		buf := make([]byte, utf8.RuneLen(r))
		utf8.EncodeRune(buf, r)
		a.encoded = append(a.encoded, buf)
	}
	return a
}

// Size returns the number of distinct symbols.
func (a Alphabet) Size() int {
	return len(a.symbols)
}

// Symbols returns a copy of the symbols in enumeration order.
func (a Alphabet) Symbols() []rune {
	out := make([]rune, len(a.symbols))
	copy(out, a.symbols)
	return out
}

func (a Alphabet) String() string {
	var b strings.Builder
	for _, r := range a.symbols {
		b.WriteRune(r)
	}
	return b.String()
}

// HasDuplicates reports whether s repeats any symbol.
func HasDuplicates(s string) bool {
	return NewAlphabet(s).Size() != utf8.RuneCountInString(s)
}
