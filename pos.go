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

package relex

import "fmt"

// Pos represents a byte offset within the logical input stream seen by a
// Matcher. Unlike the teacher package (which indexes by rune for error
// reporting convenience), Pos here is a byte offset, matching the §3 data
// model's first()/last() byte-offset contract.
type Pos int

// IsValid returns true if p is a valid position (i.e. p >= 0).
func (p Pos) IsValid() bool {
	return p >= 0
}

// Position describes a source position resolved to file, line and column.
type Position struct {
	Name   string
	Line   int // 1-based line number
	Column int // 1-based column number (byte offset from line start plus one; tabs not expanded)
}

func (p Position) String() string {
	if p.Name == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Name, p.Line, p.Column)
}

// lineTable tracks the byte offset of the start of every line seen so far,
// so that a Pos can later be resolved to a Position. It is a direct
// generalization of db47h/lex's File type, adapted from rune offsets to
// byte offsets and decoupled from any single io.Reader (a Matcher's
// lineTable lives for the Matcher's lifetime, independent of Input).
type lineTable struct {
	name  string
	lines []Pos // 0-based line start offsets
}

func newLineTable(name string) *lineTable {
	lt := &lineTable{name: name}
	lt.lines = append(lt.lines, 0)
	return lt
}

// addLine records a new line starting at byte offset pos. Calls must be in
// increasing offset order; out-of-order or repeated calls are ignored
// (buffer.retreat truncates the table before a rewind, so re-scanning a
// newline after Less/Unput adds it again in order).
func (lt *lineTable) addLine(pos Pos) {
	if l := len(lt.lines); l > 0 && lt.lines[l-1] >= pos {
		return
	}
	lt.lines = append(lt.lines, pos)
}

// truncate drops any recorded line starts at or beyond pos. Used by
// buffer.retreat when the cursor is rewound (Less/Unput) over bytes that
// had already been scanned for newlines.
func (lt *lineTable) truncate(pos Pos) {
	i := len(lt.lines)
	for i > 1 && lt.lines[i-1] >= pos {
		i--
	}
	lt.lines = lt.lines[:i]
}

// position resolves pos to a 1-based line/column. Column is a byte offset
// from the start of the line; callers that need tab expansion use
// Matcher.Columno instead (see buffer.go's advance), which tracks column
// incrementally as bytes are consumed.
func (lt *lineTable) position(pos Pos) Position {
	i, j := 0, len(lt.lines)
	for i < j {
		h := int(uint(i+j) >> 1)
		if !(lt.lines[h] > pos) {
			i = h + 1
		} else {
			j = h
		}
	}
	return Position{lt.name, i, int(pos-lt.lines[i-1]) + 1}
}
