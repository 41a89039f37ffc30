package jwtcrack

import "math/big"

// Unbounded disables the maximum candidate length.
const Unbounded = -1

// Enumerator produces every string over an Alphabet, shortest first.
//
// Within one length the positions behave like an odometer: the rightmost
// position advances fastest and the first symbol of the alphabet is digit
// zero. For the alphabet "ab" the sequence is a, b, aa, ab, ba, bb, aaa, ...
//
// Only the digits of the current candidate are kept, so memory grows with the
// candidate length and never with the size of the keyspace. An Enumerator is
// not safe for concurrent use; the coordinator drives it from one goroutine.
type Enumerator struct {
	alphabet  Alphabet
	maxLength int

	digits []int // index into alphabet per position, leftmost first
	done   bool
}

// NewEnumerator creates an enumerator over alphabet. A negative maxLength
// (see Unbounded) yields an infinite sequence; zero yields an empty one.
func NewEnumerator(alphabet Alphabet, maxLength int) *Enumerator {
	e := &Enumerator{alphabet: alphabet, maxLength: maxLength}
	e.Reset()
	return e
}

// Reset rewinds the enumerator to the first candidate.
func (e *Enumerator) Reset() {
	e.digits = nil
	e.done = e.alphabet.Size() == 0 || e.maxLength == 0
}

// Length returns the length of the most recently produced candidate, or 0
// before the first call to Next.
func (e *Enumerator) Length() int {
	return len(e.digits)
}

// Next returns the next candidate. The second result is false once the
// sequence is exhausted, and stays false on every later call.
func (e *Enumerator) Next() ([]byte, bool) {
	if e.done {
		return nil, false
	}

	if !e.advance() {
		// Every string of the current length has been produced.
		length := len(e.digits) + 1
		if e.maxLength >= 0 && length > e.maxLength {
			e.done = true
			return nil, false
		}
		e.digits = make([]int, length)
	}

	return e.candidate(), true
}

// advance increments the odometer by one, carrying leftwards. It returns false
// when every position wrapped, i.e. the current length is used up.
func (e *Enumerator) advance() bool {
	base := e.alphabet.Size()
	for i := len(e.digits) - 1; i >= 0; i-- {
		e.digits[i]++
		if e.digits[i] < base {
			return true
		}
		e.digits[i] = 0
	}
	return false
}

func (e *Enumerator) candidate() []byte {
	n := 0
	for _, d := range e.digits {
		n += len(e.alphabet.encoded[d])
	}
	out := make([]byte, 0, n)
	for _, d := range e.digits {
		out = append(out, e.alphabet.encoded[d]...)
	}
	return out
}

// KeyspaceSize returns the number of candidates an Enumerator yields for an
// alphabet of alphabetSize symbols and the given maximum length. It returns
// nil for an infinite keyspace.
func KeyspaceSize(alphabetSize, maxLength int) *big.Int {
	total := new(big.Int)
	if alphabetSize == 0 || maxLength == 0 {
		return total
	}
	if maxLength < 0 {
		return nil
	}

	base := big.NewInt(int64(alphabetSize))
	term := big.NewInt(1)
	for l := 1; l <= maxLength; l++ {
		term.Mul(term, base)
		total.Add(total, term)
	}
	return total
}
