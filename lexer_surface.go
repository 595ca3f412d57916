package relex

// ReadByte consumes and returns the next byte from the input, bypassing the
// pattern entirely (spec §4.E "input()"). It returns -1 at end of stream.
// Unlike Scan/Find/Match, ReadByte does not touch txt/textEnd: it only
// advances cur, so a subsequent Unput can restore exactly the byte just
// read.
func (m *Matcher) ReadByte() int {
	if !m.buf.ensure(m.buf.cur, 1) {
		return -1
	}
	c := m.buf.byteAt(m.buf.cur)
	m.buf.advance(m.buf.cur + 1)
	return int(c)
}

// Echo writes the current match text to the matcher's output sink (spec
// §4.E "debug/echo"), mirroring the lex/flex ECHO macro's default action of
// copying unmatched or matched text verbatim to standard output.
func (m *Matcher) Echo() {
	if m.output == nil {
		return
	}
	_, _ = m.output.Write([]byte(m.Text()))
}

// More marks the text accumulated so far as a prefix of the next match:
// the following Scan/Find/Match call will extend Text() instead of
// starting a fresh one at its own match start (spec §4.E "more()"). This is
// the standard lex idiom for rules that need to see more input before
// deciding where a token really ends (e.g. a quoted string rule that
// re-scans after an escaped quote).
func (m *Matcher) More() { m.pendingMore = true }

// Less truncates the current match to its first n bytes, pushing the
// remainder back so the next Scan/Find/Match starts there (spec §4.E
// "less(n)"). n is clamped to [0, Size()].
func (m *Matcher) Less(n int) {
	if n < 0 {
		n = 0
	}
	if n > m.textEnd-m.buf.txt {
		n = m.textEnd - m.buf.txt
	}
	newCur := m.buf.txt + n
	m.buf.retreat(newCur)
	m.textEnd = newCur
}

// Unput pushes one byte back onto the input immediately before the
// cursor, so the next match attempt sees it (spec §4.E "unput(c)"). It
// overwrites the buffered byte just before the cursor with c and moves the
// cursor back onto it. At the very start of the input (cursor at offset 0)
// there is no byte before the cursor and Unput does nothing.
func (m *Matcher) Unput(c byte) {
	if m.buf.cur == 0 {
		return
	}
	newCur := m.buf.cur - 1
	m.buf.buf[newCur] = c
	m.buf.retreat(newCur)
	if m.textEnd > newCur {
		m.textEnd = newCur
	}
}

// SetState replaces the top of the start-condition stack with s, pushing an
// initial entry if the stack is empty. This is the flex "BEGIN" semantic
// (switch the current condition in place), distinct from PushState/PopState
// which nest a condition to be restored later.
func (m *Matcher) SetState(s int) {
	if len(m.states) == 0 {
		m.states = []int{s}
		return
	}
	m.states[len(m.states)-1] = s
}

// SwitchMatcher replaces the current Input/Pattern context in place,
// discarding it without saving it for a later PopMatcher (spec §4.E
// "switch_matcher"/compat "yy_switch_to_buffer"). Passing a nil pat keeps
// the current Pattern.
func (m *Matcher) SwitchMatcher(in Input, pat *Pattern) {
	m.buf = newBuffer(in, in.Name())
	m.buf.wrap = func() (Input, bool) {
		if m.wrapFn == nil {
			return nil, false
		}
		return m.wrapFn()
	}
	if pat != nil {
		m.pat = pat
	}
	m.lastAccept = AcceptNone
	m.lastGroups = nil
	m.lastGroupBase = 0
	m.textEnd = 0
	m.findDone = false
}

// PushState pushes a start-condition value onto the matcher's
// start-condition stack (spec §4.E start conditions). Interpreting the
// stack's top value to select an active rule subset is left to the
// caller's Pattern/rule design; the stack itself is just bookkeeping.
func (m *Matcher) PushState(s int) { m.states = append(m.states, s) }

// PopState removes and returns the top of the start-condition stack.
func (m *Matcher) PopState() (int, bool) {
	if len(m.states) == 0 {
		return 0, false
	}
	s := m.states[len(m.states)-1]
	m.states = m.states[:len(m.states)-1]
	return s, true
}

// TopState returns the current start condition, or 0 (the default/INITIAL
// condition) if the stack is empty.
func (m *Matcher) TopState() int {
	if len(m.states) == 0 {
		return 0
	}
	return m.states[len(m.states)-1]
}

// PushMatcher saves the current Input/Pattern/state-stack/indent context
// and switches to scanning in with pat, for include-style nested inputs
// (spec §4.E). Passing a nil pat keeps the current Pattern.
func (m *Matcher) PushMatcher(in Input, pat *Pattern) {
	m.stack = append(m.stack, matcherFrame{
		buf:         m.buf,
		pat:         m.pat,
		states:      m.states,
		indentStack: m.indentStack,
		findDone:    m.findDone,
	})
	m.buf = newBuffer(in, in.Name())
	m.buf.wrap = func() (Input, bool) {
		if m.wrapFn == nil {
			return nil, false
		}
		return m.wrapFn()
	}
	if pat != nil {
		m.pat = pat
	}
	m.states = nil
	m.indentStack = nil
	m.lastAccept = AcceptNone
	m.lastGroups = nil
	m.lastGroupBase = 0
	m.textEnd = 0
	m.findDone = false
}

// PopMatcher restores the context saved by the most recent PushMatcher,
// reporting false if there is nothing to pop (the outermost input).
func (m *Matcher) PopMatcher() bool {
	if len(m.stack) == 0 {
		return false
	}
	f := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	m.buf, m.pat, m.states, m.indentStack = f.buf, f.pat, f.states, f.indentStack
	m.lastAccept = AcceptNone
	m.lastGroups = nil
	m.lastGroupBase = 0
	m.textEnd = m.buf.cur
	m.findDone = f.findDone
	return true
}

// Depth returns the number of saved contexts beneath the current one (0
// at the outermost input).
func (m *Matcher) Depth() int { return len(m.stack) }
