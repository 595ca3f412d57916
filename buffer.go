package relex

// Default and limit values for the byte buffer sizing policy (spec §4.B).
const (
	defaultBufSize = 16 << 10 // 16 KiB initial capacity
	defaultHardCap = 64 << 20 // 64 MiB hard growth limit
	defaultTabStop = 8
)

// buffer is the growable window over Input described in spec §3/§4.B. It
// tracks offsets into buf: txt (start of the current/next candidate match
// text), cur (end of the last returned match / next search position), and
// end (fill frontier), with the invariant 0 <= txt <= cur <= end <=
// len(buf). A fourth offset, pos, is rebased along with the others on a
// shift but is not updated by the regex driver, which re-runs its search
// over the window from cur on every call rather than resuming an iterator.
//
// base is the absolute byte offset of buf[0] within the logical input
// stream; it lets Pos()/Position() report correct stream-wide offsets
// even after the window has shifted.
//
// A shift or grow (compact) always preserves the single byte immediately
// before txt when txt > 0 (spec Design Notes / Open Question 2's "got_"
// one-byte pre-context), so that word-boundary and anchor evaluation
// against the underlying regexp package remain correct across
// relocations: see driver.go's searchWindow.
type buffer struct {
	buf  []byte
	hard int // hard cap on buf growth

	txt, cur, pos, end int
	base               Pos
	eof                bool

	input Input
	wrap  func() (Input, bool)

	blk int // fill request size; 0 = unbounded, 1 = interactive (one byte at a time)

	lt       *lineTable
	tabWidth int
	lineNo   int // 1-based line number at cur
	colNo    int // 1-based column at cur, tab-expanded
}

func newBuffer(in Input, name string) *buffer {
	b := &buffer{
		buf:      make([]byte, defaultBufSize),
		hard:     defaultHardCap,
		input:    in,
		lt:       newLineTable(name),
		tabWidth: defaultTabStop,
		lineNo:   1,
		colNo:    1,
	}
	b.buf = b.buf[:0]
	b.buf = b.buf[:cap(b.buf)]
	b.end = 0
	return b
}

// reset rebinds the buffer to a new Input, discarding all buffered state.
// Used by Matcher.Reset.
func (b *buffer) reset(in Input, name string) {
	b.buf = b.buf[:cap(b.buf)]
	b.txt, b.cur, b.pos, b.end = 0, 0, 0, 0
	b.base = 0
	b.eof = false
	b.input = in
	b.lt = newLineTable(name)
	b.lineNo = 1
	b.colNo = 1
}

// max returns the buffer's current capacity.
func (b *buffer) max() int { return len(b.buf) }

// atEOF reports whether the logical input is exhausted: no more buffered
// bytes past cur, and the Input (after a declined wrap) is exhausted.
func (b *buffer) atEOF() bool {
	return b.cur == b.end && b.eof
}

// fill requests more bytes from Input, growing or shifting the buffer
// first if there is no room at the end. It returns the number of bytes
// appended (0 at genuine end of stream).
func (b *buffer) fill() int {
	if b.eof {
		return 0
	}
	if b.end == b.max() {
		if err := b.compact(); err != nil {
			b.eof = true
			return 0
		}
	}

	n := b.max() - b.end
	if b.blk > 0 && b.blk < n {
		n = b.blk
	}

	k := b.input.Get(b.buf[b.end : b.end+n])
	b.end += k
	if k > 0 {
		return k
	}

	// No bytes: either genuine EOF, or a transient I/O hiccup. Per spec
	// §4.D failure semantics, "no more data and not EOF" is treated as an
	// opportunity to call wrap(), same as real EOF.
	if b.wrap != nil {
		if in, ok := b.wrap(); ok {
			b.input = in
			return b.fill()
		}
	}
	b.eof = true
	return 0
}

// compact reclaims buffer space, preferring an in-place shift (keeping one
// byte of pre-context before txt) and falling back to growth, per spec
// §4.B sizing policy.
func (b *buffer) compact() error {
	p0 := 0
	if b.txt > 0 {
		p0 = b.txt - 1
	}

	if p0 > 0 {
		// Shift left: enough slack to make progress without growing.
		n := copy(b.buf, b.buf[p0:b.end])
		b.shiftOffsets(p0)
		b.end = n
		if b.end < b.max() {
			return nil
		}
	}

	newMax := b.max() * 2
	if newMax > b.hard {
		newMax = b.hard
	}
	if newMax <= b.max() {
		return ErrBufferFull
	}
	nb := make([]byte, newMax)
	n := copy(nb, b.buf[p0:b.end])
	b.buf = nb
	b.shiftOffsets(p0)
	b.end = n
	return nil
}

// shiftOffsets rebases txt/cur/pos/end/base after discarding p0 bytes from
// the front of the window.
func (b *buffer) shiftOffsets(p0 int) {
	b.txt -= p0
	b.cur -= p0
	b.pos -= p0
	b.end -= p0
	b.base += Pos(p0)
}

// ensure makes sure at least n bytes are available past the offset from
// (relative to the buffer's current end), filling as needed. It returns false if EOF is
// reached before n bytes become available.
func (b *buffer) ensure(from, n int) bool {
	for b.end-from < n && !b.eof {
		if b.fill() == 0 {
			break
		}
	}
	return b.end-from >= n
}

// absolute converts a buffer-relative offset to an absolute stream Pos.
func (b *buffer) absolute(rel int) Pos { return b.base + Pos(rel) }

// advance moves cur forward to newCur (newCur must be >= cur), updating
// incremental line/column bookkeeping over the consumed span, per spec
// §4.B "Line/column tracking ... maintained incrementally over bytes
// shifted out of the window".
func (b *buffer) advance(newCur int) {
	for i := b.cur; i < newCur; i++ {
		c := b.buf[i]
		switch {
		case c == '\n':
			b.lineNo++
			b.colNo = 1
			b.lt.addLine(b.absolute(i + 1))
		case c&0xC0 == 0x80:
			// UTF-8 continuation byte: does not advance column (spec §4.B).
		case c == '\t':
			b.colNo = ((b.colNo-1)/b.tabWidth+1)*b.tabWidth + 1
		default:
			b.colNo++
		}
	}
	b.cur = newCur
}

// retreat rewinds cur to an earlier offset (used by Less/Backup-style
// operations). Precise line/column bookkeeping is not reconstructed byte
// by byte (the incremental counters only move forward, matching the
// teacher's own Backup semantics, which likewise does not attempt to
// "unsee" a consumed newline); callers needing exact counts after a
// rewind should rely on Position resolution from the line table instead,
// which is rebuilt from absolute offsets and unaffected by colNo drift.
func (b *buffer) retreat(newCur int) {
	// A line start at newCur belongs to a newline at newCur-1, which stays
	// consumed; only newlines at or after newCur are un-scanned.
	b.lt.truncate(b.absolute(newCur) + 1)
	b.cur = newCur
}

// byteAt returns the byte at window-relative offset i; ensure(…) must have
// been called first if i might be beyond what's already buffered.
func (b *buffer) byteAt(i int) byte { return b.buf[i] }
