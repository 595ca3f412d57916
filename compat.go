package relex

// This file layers the lexer-tool compatibility macros named in spec §6
// (YYText, YYLeng, yytext, yyleng, yylineno, BEGIN, ECHO, yywrap,
// yyterminate, buffer create/delete/switch/push/pop, input, unput, yyless,
// yymore) over the typed operations of §4.E, per the Design Notes guidance
// that "implementations should expose only the typed operations of §4.E and
// layer compatibility shims above them" rather than bake a code-generator's
// naming directly into the core API. Generated-code callers that want the
// traditional names can dot-import this file's functions. Nearly everything
// here is a one-line forward to a §4.E method; YYWrap and YYTerminate
// instead act on the matcher's wrap hook and buffer state directly.

// YYText is the flex/lex-compatible spelling of Matcher.Text.
func YYText(m *Matcher) string { return m.Text() }

// YYLeng is the flex/lex-compatible spelling of Matcher.Size.
func YYLeng(m *Matcher) int { return m.Size() }

// YYLineno is the flex/lex-compatible spelling of Matcher.Lineno.
func YYLineno(m *Matcher) int { return m.Lineno() }

// BEGIN switches the matcher's current start condition in place, the
// flex BEGIN(state) macro.
func BEGIN(m *Matcher, state int) { m.SetState(state) }

// ECHO copies the current match text to the matcher's output sink, the
// default action flex/lex apply to any unmatched input.
func ECHO(m *Matcher) { m.Echo() }

// YYWrap manually invokes the wrap() hook installed with WithWrap and
// reports whether a continuation input was installed, the flex/lex
// yywrap() macro. The scan loop already calls this automatically on EOF;
// YYWrap exists for generated code that wants to call it explicitly (e.g.
// from a custom end-of-file rule).
func YYWrap(m *Matcher) bool {
	if m.wrapFn == nil {
		return false
	}
	in, ok := m.wrapFn()
	if !ok {
		return false
	}
	m.buf.input = in
	m.buf.eof = false
	return true
}

// YYTerminate stops the scan loop at the next call by marking the input
// exhausted with no wrap continuation, the flex/lex yyterminate() macro's
// usual effect when invoked from a rule action.
func YYTerminate(m *Matcher) {
	m.wrapFn = nil
	m.buf.eof = true
	m.buf.cur = m.buf.end
}

// YYInput is the flex/lex input() macro: consume and return the next byte,
// bypassing the pattern.
func YYInput(m *Matcher) int { return m.ReadByte() }

// YYUnput is the flex/lex unput(c) macro.
func YYUnput(m *Matcher, c byte) { m.Unput(c) }

// YYLess is the flex/lex yyless(n) macro.
func YYLess(m *Matcher, n int) { m.Less(n) }

// YYMore is the flex/lex yymore() macro.
func YYMore(m *Matcher) { m.More() }

// YYCreateBuffer builds a new Matcher over in/pat, the flex
// yy_create_buffer() equivalent. Unlike flex's C buffers, Go's garbage
// collector retires an abandoned Matcher without an explicit
// YYDeleteBuffer; the latter is provided only for call-site symmetry with
// generated code ported from flex.
func YYCreateBuffer(in Input, pat *Pattern, opts ...Option) *Matcher { return New(in, pat, opts...) }

// YYDeleteBuffer is a no-op kept for symmetry with flex-generated code; see
// YYCreateBuffer.
func YYDeleteBuffer(*Matcher) {}

// YYSwitchToBuffer is the flex yy_switch_to_buffer() equivalent.
func YYSwitchToBuffer(m *Matcher, in Input, pat *Pattern) { m.SwitchMatcher(in, pat) }

// YYPushBuffer is the flex yypush_buffer_state() equivalent.
func YYPushBuffer(m *Matcher, in Input, pat *Pattern) { m.PushMatcher(in, pat) }

// YYPopBuffer is the flex yypop_buffer_state() equivalent.
func YYPopBuffer(m *Matcher) bool { return m.PopMatcher() }
