package relex

// IndentKind classifies the result of Matcher.Indent (spec §4.E
// indent/dedent pseudo-anchors).
type IndentKind int

const (
	// IndentNone means the column matches the current indent level: no
	// INDENT or DEDENT token should be emitted.
	IndentNone IndentKind = iota
	// IndentPush means the column is deeper than the current level: the
	// caller should emit one INDENT token.
	IndentPush
	// IndentPop means the column is shallower than the current level and
	// matches an enclosing level exactly: the caller should emit one
	// DEDENT token per level popped.
	IndentPop
	// IndentMismatch means the column is shallower than the current level
	// but does not match any enclosing level (inconsistent indentation).
	// The levels that were popped trying to find a match are still popped;
	// the caller is expected to surface this as a lexer error.
	IndentMismatch
)

// Indent compares col (typically Columno() at the end of a line's leading
// whitespace) against the matcher's indent stack, initialising it to a
// single level-0 entry on first use. It returns the number of levels
// popped (0 for IndentNone/IndentPush) and the resulting IndentKind.
func (m *Matcher) Indent(col int) (popped int, kind IndentKind) {
	if len(m.indentStack) == 0 {
		m.indentStack = []int{0}
	}
	top := m.indentStack[len(m.indentStack)-1]

	switch {
	case col > top:
		m.indentStack = append(m.indentStack, col)
		return 0, IndentPush
	case col == top:
		return 0, IndentNone
	default:
		n := 0
		for len(m.indentStack) > 1 && m.indentStack[len(m.indentStack)-1] > col {
			m.indentStack = m.indentStack[:len(m.indentStack)-1]
			n++
		}
		if m.indentStack[len(m.indentStack)-1] != col {
			return n, IndentMismatch
		}
		return n, IndentPop
	}
}

// IndentLevel returns the current depth of the indent stack (1 at column
// 0, the initial level).
func (m *Matcher) IndentLevel() int {
	if len(m.indentStack) == 0 {
		return 1
	}
	return len(m.indentStack)
}

// DedentAll pops every indent level back to the base, as typically done at
// EOF to emit the trailing run of DEDENT tokens. It returns the number of
// levels popped.
func (m *Matcher) DedentAll() int {
	n := len(m.indentStack) - 1
	if n < 0 {
		n = 0
	}
	m.indentStack = []int{0}
	return n
}
