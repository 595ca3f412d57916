package relex

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"
)

// Input unifies the heterogeneous sources a Matcher can scan: in-memory
// strings, wide-character sequences, files (with BOM/code-page decoding),
// and generic byte streams (spec §3 "Input source" / §4.A).
//
// At most one Input implementation backs a given Matcher at a time. Get
// reads at most len(dst) canonicalised (UTF-8) bytes into dst, returning
// the number of bytes read; 0 signals EOF or an unrecoverable error.
// Reading past EOF is idempotent and must keep returning 0.
type Input interface {
	// Get reads at most len(dst) bytes into dst, returning the count read.
	Get(dst []byte) (n int)
	// Size returns the number of bytes remaining if determinable, else 0.
	Size() int
	// Good reports whether the source is in a readable, error-free state.
	Good() bool
	// EOF reports whether the source has been exhausted. Good and EOF are
	// orthogonal for files/streams (an I/O error gives !Good && !EOF) and
	// equal for in-memory strings.
	EOF() bool
	// Name returns a label for diagnostics (file name, or "" for strings).
	Name() string
}

// stringInput is an Input over an in-memory byte slice (used for plain
// strings and byte slices; wide sources use wideInput).
type stringInput struct {
	b   []byte
	pos int
}

// NewString returns an Input that scans a copy of s's bytes (the
// conversion to []byte copies s); use NewBytes to scan a slice in place.
func NewString(s string) Input {
	return &stringInput{b: []byte(s)}
}

// NewBytes returns an Input that scans b in place.
func NewBytes(b []byte) Input {
	return &stringInput{b: b}
}

func (s *stringInput) Get(dst []byte) int {
	n := copy(dst, s.b[s.pos:])
	s.pos += n
	return n
}

func (s *stringInput) Size() int  { return len(s.b) - s.pos }
func (s *stringInput) Good() bool { return true }
func (s *stringInput) EOF() bool  { return s.pos >= len(s.b) }
func (s *stringInput) Name() string { return "" }

// wideInput is an Input over a []uint16 (UTF-16 code units, e.g. from a
// Windows wide string) or a []rune, transcoded to UTF-8 on the fly. A
// small carry buffer holds any UTF-8 bytes produced for one code unit
// that did not fit in the caller's dst, so that Get honours n exactly
// (spec §4.A: "cached in a small internal carry buffer and drained on the
// next call").
type wideInput struct {
	units []uint16
	i     int
	carry []byte
}

// NewWideString returns an Input over a sequence of UTF-16 code units,
// combining surrogate pairs and replacing lone surrogates with the
// Unicode replacement character, per spec §4.A.
func NewWideString(units []uint16) Input {
	return &wideInput{units: units}
}

// NewRunes returns an Input over a sequence of runes, encoded to UTF-8 on
// the fly; provided for wide sources that are already rune-decoded
// (e.g. Go string literals embedded with non-ASCII wide text).
func NewRunes(rs []rune) Input {
	units := utf16.Encode(rs)
	return &wideInput{units: units}
}

func (w *wideInput) Get(dst []byte) int {
	n := 0
	if len(w.carry) > 0 {
		c := copy(dst, w.carry)
		w.carry = w.carry[c:]
		n += c
		if n == len(dst) {
			return n
		}
	}
	var buf [utf8.UTFMax]byte
	for n < len(dst) && w.i < len(w.units) {
		r := rune(w.units[w.i])
		w.i++
		if utf16.IsSurrogate(r) {
			if w.i < len(w.units) {
				r2 := utf16.DecodeRune(r, rune(w.units[w.i]))
				if r2 != utf8.RuneError {
					w.i++
					r = r2
				} else {
					r = utf8.RuneError
				}
			} else {
				r = utf8.RuneError
			}
		}
		sz := utf8.EncodeRune(buf[:], r)
		if n+sz <= len(dst) {
			copy(dst[n:], buf[:sz])
			n += sz
		} else {
			k := copy(dst[n:], buf[:sz])
			w.carry = append(w.carry, buf[k:sz]...)
			n += k
		}
	}
	return n
}

func (w *wideInput) Size() int {
	if len(w.carry) > 0 {
		// Not cheaply determinable once a partial code unit has been cached;
		// spec §4.A: "else 0".
		return 0
	}
	total := 0
	var buf [utf8.UTFMax]byte
	for i := w.i; i < len(w.units); i++ {
		r := rune(w.units[i])
		if utf16.IsSurrogate(r) && i+1 < len(w.units) {
			if r2 := utf16.DecodeRune(r, rune(w.units[i+1])); r2 != utf8.RuneError {
				total += utf8.EncodeRune(buf[:], r2)
				i++
				continue
			}
		}
		total += utf8.EncodeRune(buf[:], r)
	}
	return total
}

func (w *wideInput) Good() bool   { return true }
func (w *wideInput) EOF() bool    { return w.i >= len(w.units) && len(w.carry) == 0 }
func (w *wideInput) Name() string { return "" }

// readerInput is a generic Input over an io.Reader, with an unknown size
// by default (spec §3: "a generic byte stream").
type readerInput struct {
	r       io.Reader
	name    string
	good    bool
	eof     bool
	errSeen error
}

// NewReader returns an Input over r. Unlike NewString/NewBytes, size is
// reported as 0 (unknown) since a generic io.Reader offers no reliable
// way to determine remaining length.
func NewReader(name string, r io.Reader) Input {
	return &readerInput{r: r, name: name, good: true}
}

func (s *readerInput) Get(dst []byte) int {
	if s.eof || len(dst) == 0 {
		return 0
	}
	n, err := s.r.Read(dst)
	if err != nil {
		if err == io.EOF {
			s.eof = true
		} else {
			s.good = false
			s.errSeen = err
		}
	}
	return n
}

func (s *readerInput) Size() int    { return 0 }
func (s *readerInput) Good() bool   { return s.good }
func (s *readerInput) EOF() bool    { return s.eof }
func (s *readerInput) Name() string { return s.name }
