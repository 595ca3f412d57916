// Copyright 2017-2018 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

/*
Package relex provides the core of a regular-expression-based lexical
scanner: a streaming matcher that, given an ordered set of rule patterns,
scans a growable byte buffer fed from a pluggable Input and reports which
rule matched at each position.

Overview

A Pattern is an ordered list of rules, each a compiled regular expression
plus the accept value (RuleSpec.Accept) that Matcher.Accept reports when
that rule matches. Compile builds a Pattern from rule sources:

	p, err := relex.Compile([]relex.RuleSpec{
		{Expr: `[ \t]+`, Accept: 1},
		{Expr: `[a-zA-Z_]\w*`, Accept: 2},
	})

A Matcher binds a Pattern to an Input and exposes four scanning
operations:

	m := relex.New(relex.NewString("foo bar"), p)
	for m.Find() {
		fmt.Println(m.Accept(), m.Text())
	}

Scan performs an anchored match at the current cursor (classic lexer
behaviour: every byte must belong to some token). Find searches forward
for the next match, skipping unmatched bytes. Split returns the text
between matches (classic "tokenizer" / strings.Fields-like behaviour).
Match succeeds only if the whole remaining input is consumed by a single
match.

Buffering and partial matches

The Matcher owns a growable byte buffer (see buffer.go) that is refilled
from the Input as the underlying regex engine reports partial matches
near the end of the buffered window — a candidate match that touches the
fill frontier might still extend if more input were read. The regex
driver (driver.go) treats such matches as provisional until either more
input fails to extend them, or Input reports end-of-file.

Lexer surface

On top of the four scanning operations, Matcher exposes the usual
scanner-generator conveniences: Text/Size/Lineno/Columno/First/Last for
the current match, More/Less for re-emission, Unput/ReadByte for manual
byte-level access bypassing the pattern, start-condition and matcher
stacks for nested/contextual lexing, and a Wrap hook invoked at end of
file.

This package makes no commitment to a regular expression dialect beyond
what Go's regexp package (RE2 syntax) accepts, does not interpret Unicode
properties beyond what RE2 already does, and performs no locale-aware
case folding. A Matcher is not safe for concurrent use by multiple
goroutines; a compiled Pattern is read-only after Compile and may be
shared by matchers running concurrently on distinct inputs.
*/
package relex
