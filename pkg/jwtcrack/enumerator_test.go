package jwtcrack

import (
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerator_TwoSymbolOrder(t *testing.T) {
	e := NewEnumerator(NewAlphabet("ab"), 3)

	want := []string{"a", "b", "aa", "ab", "ba", "bb", "aaa", "aab"}
	if diff := cmp.Diff(want, collect(e, len(want))); diff != "" {
		t.Errorf("first candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerator_EmptySequences(t *testing.T) {
	tests := []struct {
		name      string
		alphabet  string
		maxLength int
	}{
		{"empty alphabet", "", Unbounded},
		{"empty alphabet with limit", "", 4},
		{"limit zero", "a", 0},
		{"limit zero wide alphabet", DefaultAlphabet, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEnumerator(NewAlphabet(tt.alphabet), tt.maxLength)
			c, ok := e.Next()
			assert.False(t, ok)
			assert.Nil(t, c)
		})
	}
}

func TestEnumerator_SingleSymbol(t *testing.T) {
	e := NewEnumerator(NewAlphabet("a"), Unbounded)
	assert.Equal(t, []string{"a", "aa", "aaa", "aaaa", "aaaaa"}, collect(e, 5))

	limited := NewEnumerator(NewAlphabet("a"), 3)
	assert.Equal(t, []string{"a", "aa", "aaa"}, collect(limited, 10))
}

func TestEnumerator_StaysExhausted(t *testing.T) {
	e := NewEnumerator(NewAlphabet("ab"), 2)
	require.Len(t, collect(e, 100), 6)

	for i := 0; i < 3; i++ {
		_, ok := e.Next()
		assert.False(t, ok, "call %d after exhaustion", i)
	}
}

func TestEnumerator_CountsPerLength(t *testing.T) {
	alphabets := []string{"a", "01", "xyz", "abcdefghij"}

	for _, symbols := range alphabets {
		for length := 1; length <= 4; length++ {
			alphabet := NewAlphabet(symbols)
			e := NewEnumerator(alphabet, length)

			seen := make(map[string]struct{})
			for {
				c, ok := e.Next()
				if !ok {
					break
				}
				if len(c) != length {
					continue
				}
				_, dup := seen[string(c)]
				require.False(t, dup, "alphabet %q: %q produced twice", symbols, c)
				seen[string(c)] = struct{}{}
			}

			want := 1
			for i := 0; i < length; i++ {
				want *= alphabet.Size()
			}
			assert.Len(t, seen, want, "alphabet %q length %d", symbols, length)
		}
	}
}

func TestEnumerator_Deterministic(t *testing.T) {
	first := collect(NewEnumerator(NewAlphabet("xyz"), 4), 1000)
	second := collect(NewEnumerator(NewAlphabet("xyz"), 4), 1000)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("two runs differ (-first +second):\n%s", diff)
	}

	e := NewEnumerator(NewAlphabet("xyz"), 4)
	collect(e, 17)
	e.Reset()
	if diff := cmp.Diff(first, collect(e, 1000)); diff != "" {
		t.Errorf("sequence after Reset differs (-want +got):\n%s", diff)
	}
}

// nthCandidate encodes index i of the given length as a number written in
// base |alphabet|, most significant digit first.
func nthCandidate(symbols []rune, length, i int) string {
	out := make([]rune, length)
	for pos := length - 1; pos >= 0; pos-- {
		out[pos] = symbols[i%len(symbols)]
		i /= len(symbols)
	}
	return string(out)
}

// positionalSequence yields the same keyspace by keeping one cursor per
// position and rolling the rightmost cursor first.
func positionalSequence(symbols []rune, maxLength int) []string {
	var out []string
	var cursors []int
	for {
		advanced := false
		for i := len(cursors) - 1; i >= 0; i-- {
			cursors[i]++
			if cursors[i] < len(symbols) {
				advanced = true
				break
			}
			cursors[i] = 0
		}
		if !advanced {
			if len(cursors) == maxLength {
				return out
			}
			cursors = append([]int{0}, cursors...)
		}

		var b strings.Builder
		for _, c := range cursors {
			b.WriteRune(symbols[c])
		}
		out = append(out, b.String())
	}
}

func TestEnumerator_MatchesAlternativeEncodings(t *testing.T) {
	for _, symbols := range []string{"ab", "xyz", "0123456789"} {
		t.Run(symbols, func(t *testing.T) {
			alphabet := NewAlphabet(symbols)
			const maxLength = 3

			var numeric []string
			for length := 1; length <= maxLength; length++ {
				total := 1
				for i := 0; i < length; i++ {
					total *= alphabet.Size()
				}
				for i := 0; i < total; i++ {
					numeric = append(numeric, nthCandidate(alphabet.Symbols(), length, i))
				}
			}

			got := collect(NewEnumerator(alphabet, maxLength), len(numeric)+1)
			if diff := cmp.Diff(numeric, got); diff != "" {
				t.Errorf("numeric odometer mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(positionalSequence(alphabet.Symbols(), maxLength), got); diff != "" {
				t.Errorf("positional iterator mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnumerator_MultiByteSymbols(t *testing.T) {
	e := NewEnumerator(NewAlphabet("éü"), 2)
	assert.Equal(t, []string{"é", "ü", "éé", "éü", "üé", "üü"}, collect(e, 10))
}

func TestEnumerator_CandidatesAreIndependent(t *testing.T) {
	e := NewEnumerator(NewAlphabet("ab"), 2)
	first, _ := e.Next()
	second, _ := e.Next()
	first[0] = 'z'
	assert.Equal(t, "b", string(second))
}

func TestEnumerator_Length(t *testing.T) {
	e := NewEnumerator(NewAlphabet("ab"), Unbounded)
	assert.Equal(t, 0, e.Length())

	collect(e, 2)
	assert.Equal(t, 1, e.Length())

	collect(e, 1)
	assert.Equal(t, 2, e.Length())
}

func TestKeyspaceSize(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		maxLength int
		want      *big.Int
	}{
		{"empty alphabet", 0, 5, big.NewInt(0)},
		{"zero length", 62, 0, big.NewInt(0)},
		{"binary up to 3", 2, 3, big.NewInt(2 + 4 + 8)},
		{"alnum up to 2", 62, 2, big.NewInt(62 + 62*62)},
		{"unbounded", 3, Unbounded, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeyspaceSize(tt.size, tt.maxLength)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Zero(t, tt.want.Cmp(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestKeyspaceSize_MatchesEnumeration(t *testing.T) {
	e := NewEnumerator(NewAlphabet("abc"), 4)
	n := len(collect(e, 1<<20))
	assert.Equal(t, KeyspaceSize(3, 4).Int64(), int64(n))
}

func TestNewAlphabet_Dedup(t *testing.T) {
	a := NewAlphabet("abcabcd")
	assert.Equal(t, 4, a.Size())
	assert.Equal(t, "abcd", a.String())
	assert.Equal(t, []rune("abcd"), a.Symbols())

	assert.True(t, HasDuplicates("aba"))
	assert.False(t, HasDuplicates("abc"))
	assert.False(t, HasDuplicates(""))
}
