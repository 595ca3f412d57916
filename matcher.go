package relex

import (
	"io"
	"log/slog"
	"os"
)

// Accept index sentinels (spec §3 "Match result", GLOSSARY "Accept index").
const (
	// AcceptNone is reported when no rule matched.
	AcceptNone = 0
	// AcceptEmpty is the distinguished sentinel for Split's terminating
	// trailing segment.
	AcceptEmpty = -1
)

// Matcher is the streaming regex-driven scanner of spec §3/§4: it combines
// an Input, a growable buffer, a compiled Pattern, and the lexer-surface
// state (start conditions, nested matcher contexts, indent tracking)
// described in §4.E.
type Matcher struct {
	buf *buffer
	pat *Pattern

	textEnd       int // buffer-relative end of the reportable match text
	lastAccept    int
	lastGroups    []int
	lastGroupBase int // matched rule's own group-numbering base, see Pattern.acceptFor
	pendingMore   bool
	findDone      bool // true once Find has reported a zero-width match with nothing left to force-advance over (spec §4.D edge rule 1/3)

	// split-mode bookkeeping: the separator span of the most recent Split,
	// distinct from the reported field text ([txt:textEnd]).
	sepStart, sepEnd int

	states []int // start-condition stack

	stack []matcherFrame // PushMatcher/PopMatcher nested-input contexts

	indentStack []int // indent/dedent column stack, see indent.go

	allMatches     bool // "A" option: surface negative-rule matches too
	allowEmptyFind bool // "N" option: permit zero-width accepts in Find

	wrapFn     func() (Input, bool)
	exitPolicy ExitPolicy

	debug  bool
	output io.Writer
	log    *slog.Logger
}

type matcherFrame struct {
	buf         *buffer
	pat         *Pattern
	states      []int
	indentStack []int
	findDone    bool
}

// New returns a Matcher scanning in over pat.
func New(in Input, pat *Pattern, opts ...Option) *Matcher {
	m := &Matcher{
		buf:        newBuffer(in, in.Name()),
		pat:        pat,
		lastAccept: AcceptNone,
		exitPolicy: DefaultExitPolicy,
		output:     os.Stdout,
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	m.buf.wrap = func() (Input, bool) {
		if m.wrapFn == nil {
			return nil, false
		}
		return m.wrapFn()
	}
	return m
}

// Reset rebinds m to a new Input and/or Pattern, discarding all buffered
// and match state but keeping configured options (tab width, wrap hook,
// error policy); any opts given are applied on top of them.
func (m *Matcher) Reset(in Input, pat *Pattern, opts ...Option) {
	m.buf.reset(in, in.Name())
	if pat != nil {
		m.pat = pat
	}
	m.textEnd = 0
	m.lastAccept = AcceptNone
	m.lastGroups = nil
	m.lastGroupBase = 0
	m.pendingMore = false
	m.findDone = false
	m.sepStart, m.sepEnd = 0, 0
	m.states = nil
	m.stack = nil
	m.indentStack = nil
	for _, o := range opts {
		o(m)
	}
}

// Scan attempts an anchored match at the cursor (spec §4.D "scan"): the
// next rule must match starting exactly at the current position. Empty
// matches are rejected (the matcher never reports a zero-width scan, since
// that would make no forward progress). Scan returns false at EOF or when
// no rule matches at the cursor.
func (m *Matcher) Scan() bool {
	for {
		res, ok := searchWindow(m.buf, m.pat, true, true)
		if !ok {
			return false
		}
		if res.negative && !m.allMatches {
			// Recognised but suppressed (spec §4.E "Negative patterns"):
			// consume it silently and try again from the new cursor.
			m.buf.advance(res.end)
			m.buf.txt = res.end
			continue
		}
		m.commit(res, res.end)
		return true
	}
}

// Find performs a forward search for the next match at or after the
// cursor (spec §4.D "find"), skipping over any unmatched bytes. Text()
// reports only the matched span; the skipped bytes are still accounted for
// in line/column tracking. Empty matches are rejected unless
// WithAllowEmptyFind is set (the "N" option).
//
// A zero-width match is only possible here under WithAllowEmptyFind
// (rejectEmpty's own skip-and-retry inside searchWindow rules it out
// otherwise); spec §4.D edge rules 1/3 require that the *following* call
// still make progress rather than report the identical zero-width match at
// the same position forever, so committing one forces cur one byte past
// it — or, with no byte left to force past, permanently retires Find (the
// "terminate" half of edge rule 1).
func (m *Matcher) Find() bool {
	if m.findDone {
		return false
	}
	rejectEmpty := !m.allowEmptyFind
	for {
		res, ok := searchWindow(m.buf, m.pat, false, rejectEmpty)
		if !ok {
			return false
		}
		zeroWidth := res.start == res.end
		if res.negative && !m.allMatches {
			if zeroWidth {
				if !m.buf.ensure(res.end, 1) {
					return false
				}
				res.end++
			}
			m.buf.advance(res.end)
			m.buf.txt = res.end
			continue
		}
		m.commit(res, res.end)
		if zeroWidth {
			if m.buf.ensure(res.end, 1) {
				m.buf.advance(res.end + 1)
			} else {
				m.findDone = true
			}
		}
		return true
	}
}

// Split advances past the next separator match and reports the unmatched
// span before it as the current field (spec §4.D "split"). Unlike Scan and
// Find, empty separator matches are accepted (a pattern like "," legally
// splits "a,,b" into three empty-or-not fields). Split returns false once
// there is no more input to report, including the final trailing field.
func (m *Matcher) Split() bool {
	if m.buf.atEOF() {
		return false
	}
	res, ok := searchWindow(m.buf, m.pat, false, false)
	if !ok {
		for !m.buf.eof {
			if m.buf.fill() == 0 {
				break
			}
		}
		start := m.buf.cur
		m.buf.advance(m.buf.end)
		m.buf.txt = start
		m.textEnd = m.buf.cur
		m.lastAccept = AcceptEmpty
		m.lastGroups = nil
		m.lastGroupBase = 0
		m.sepStart, m.sepEnd = m.buf.cur, m.buf.cur
		// The top-of-function atEOF guard already rejected the case where
		// there is truly nothing left to report, so reaching here always
		// means a (possibly empty) trailing field was just produced.
		return true
	}

	fieldStart := m.buf.cur
	sepEnd := res.end
	if res.start == res.end {
		// Zero-width separator: advance(sepEnd) below would otherwise be a
		// no-op and the next Split call would find the identical empty
		// separator at the same position forever. Extending the separator
		// span by one byte (rather than silently discarding it) forces
		// progress per spec §4.D edge rule 1 while keeping the §8
		// round-trip property intact: the forced byte still shows up in
		// Separator(). With no byte left to extend over, sepEnd stays put;
		// the buffer is then genuinely at EOF and the next call's atEOF
		// guard above ends the run instead of repeating this segment.
		if m.buf.ensure(sepEnd, 1) {
			sepEnd++
		}
	}
	m.buf.advance(sepEnd)
	m.buf.txt = fieldStart
	m.textEnd = res.start
	m.lastAccept = res.accept
	m.lastGroups = res.groups
	m.lastGroupBase = res.groupBase
	m.sepStart, m.sepEnd = res.start, sepEnd
	return true
}

// Match succeeds only if a single rule matches the entirety of the
// remaining input (spec §4.D "match"): the whole stream is first drained
// into the buffer, then an anchored match must reach exactly to EOF.
func (m *Matcher) Match() bool {
	for !m.buf.eof {
		m.buf.fill()
	}
	res, ok := searchWindow(m.buf, m.pat, true, false)
	if !ok || res.end != m.buf.end {
		return false
	}
	m.commit(res, res.end)
	return true
}

// commit folds a successful search into the matcher's reportable state.
func (m *Matcher) commit(res searchResult, newCur int) {
	m.buf.advance(newCur)
	if !m.pendingMore {
		m.buf.txt = res.start
	}
	m.pendingMore = false
	m.textEnd = newCur
	m.lastAccept = res.accept
	m.lastGroups = res.groups
	m.lastGroupBase = res.groupBase
	if m.debug {
		m.log.Debug("relex: accept", "rule", res.accept, "text", string(m.buf.buf[m.buf.txt:m.textEnd]), "line", m.buf.lineNo, "col", m.buf.colNo)
	}
}

// Text returns the bytes of the most recent match (or, after Split, the
// field preceding the separator).
func (m *Matcher) Text() string { return string(m.buf.buf[m.buf.txt:m.textEnd]) }

// Size returns len(Text()).
func (m *Matcher) Size() int { return m.textEnd - m.buf.txt }

// Separator returns the text of the separator matched by the most recent
// Split call (empty after Split's final trailing segment, which has no
// separator). Concatenating Text() and Separator() across a full Split run,
// in order, reproduces the original input byte-for-byte (spec §8
// "Round-trip").
func (m *Matcher) Separator() string { return string(m.buf.buf[m.sepStart:m.sepEnd]) }

// Accept returns the RuleSpec.Accept value of the rule that produced the
// most recent match, AcceptNone if there was none, or AcceptEmpty after
// Split's final trailing segment (which has no separator match).
func (m *Matcher) Accept() int { return m.lastAccept }

// First returns the absolute stream position of the start of Text().
func (m *Matcher) First() Pos { return m.buf.absolute(m.buf.txt) }

// Last returns the absolute stream position just past the end of Text().
func (m *Matcher) Last() Pos { return m.buf.absolute(m.textEnd) }

// Lineno returns the 1-based line number at the end of the most recent
// match.
func (m *Matcher) Lineno() int { return m.buf.lineNo }

// Columno returns the 1-based, tab-expanded column at the end of the most
// recent match.
func (m *Matcher) Columno() int { return m.buf.colNo }

// Position resolves First() to a file/line/column triple via the
// incrementally built line table.
func (m *Matcher) Position() Position { return m.buf.lt.position(m.First()) }

// Str returns the text of capture group i (1-based, as numbered within the
// matched rule's own expression; 0 is the whole match) of the most recent
// Scan/Find/Match, or ("", false) if group i did not participate in the
// match or there was no match. Rules are combined into one alternation
// internally (see Compile), so a naive "group i" would actually
// index into whichever rule happened to compile first; Str translates i
// through the matched rule's own groupBase to land on the right group
// regardless of how many other rules, or how many groups those rules
// declared, came before it.
func (m *Matcher) Str(i int) (string, bool) {
	gi := i
	if i > 0 {
		gi = m.lastGroupBase + i
	}
	if m.lastGroups == nil || 2*gi+1 >= len(m.lastGroups) {
		return "", false
	}
	s, e := m.lastGroups[2*gi], m.lastGroups[2*gi+1]
	if s < 0 || e < 0 {
		return "", false
	}
	return string(m.buf.buf[s:e]), true
}

// AtEOF reports whether the matcher has consumed the entire (wrapped)
// input stream.
func (m *Matcher) AtEOF() bool { return m.buf.atEOF() }

// Fail routes err through the matcher's ExitPolicy (DefaultExitPolicy by
// default, overridable with WithErrorPolicy), annotating it with the
// current Position.
func (m *Matcher) Fail(err error) {
	m.exitPolicy(&LexerError{Pos: m.Position(), Err: err})
}
