package relex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/relex"
)

func compileRules(t *testing.T, exprs ...string) *relex.Pattern {
	t.Helper()
	specs := make([]relex.RuleSpec, len(exprs))
	for i, e := range exprs {
		specs[i] = relex.RuleSpec{Expr: e, Accept: i + 1}
	}
	p, err := relex.Compile(specs)
	require.NoError(t, err)
	return p
}

// Scenario 1 (spec §8): pattern "ab" on "abab" -> 1, 1, 0.
func TestScanScenario1(t *testing.T) {
	p := compileRules(t, "ab")
	m := relex.New(relex.NewString("abab"), p)

	var accepts []int
	for m.Scan() {
		accepts = append(accepts, m.Accept())
	}
	assert.Equal(t, []int{1, 1}, accepts)
	assert.False(t, m.Scan())
	assert.True(t, m.AtEOF())
}

// Scenario 3 (spec §8): pattern (a|b)*?a on "bbaaac" via Scan -> 1, 1, 1, 0,
// with trailing "c" left unmatched. This exercises the default
// Perl-leftmost-first variant: a POSIX-longest compile would ignore the
// non-greedy quantifier and produce a different split.
func TestScanScenario3NonGreedy(t *testing.T) {
	p := compileRules(t, `(a|b)*?a`)
	m := relex.New(relex.NewString("bbaaac"), p)

	var texts []string
	for m.Scan() {
		texts = append(texts, m.Text())
	}
	assert.Equal(t, []string{"bba", "a", "a"}, texts)
	assert.False(t, m.Scan())
	// one byte ("c") remains unconsumed at the cursor
	assert.Equal(t, relex.Pos(5), m.Last())
}

// Scenario 4 (spec §8): \w+ via Find on "an apple a day" -> "an","apple","a","day".
func TestFindScenario4(t *testing.T) {
	p := compileRules(t, `\w+`)
	m := relex.New(relex.NewString("an apple a day"), p)

	var texts []string
	for m.Find() {
		texts = append(texts, m.Text())
	}
	assert.Equal(t, []string{"an", "apple", "a", "day"}, texts)
}

// Scenario 5 (spec §8): [ \t]+ via Split on "ab c  d" -> "ab","c","d".
func TestSplitScenario5(t *testing.T) {
	p := compileRules(t, `[ \t]+`)
	m := relex.New(relex.NewString("ab c  d"), p)

	var texts []string
	for m.Split() {
		if m.Accept() == relex.AcceptEmpty && m.Size() == 0 {
			continue
		}
		texts = append(texts, m.Text())
	}
	assert.Equal(t, []string{"ab", "c", "d"}, texts)
}

// Scenario 7 (spec §8): (©)+ on UTF-8 "©©" -> one match consuming both code points.
func TestFindScenario7MultiByteRune(t *testing.T) {
	p := compileRules(t, `(©)+`)
	m := relex.New(relex.NewString("©©"), p)

	require.True(t, m.Find())
	assert.Equal(t, "©©", m.Text())
	assert.Equal(t, 1, m.Accept())
	assert.False(t, m.Find())
}

// Lookahead is a pass-through pattern-compiler option per spec §6 ("l"),
// but the underlying RE2 dialect (stdlib regexp, see DESIGN.md) has no
// lookahead operator at all: a rule written with "(?=...)" must fail to
// compile rather than silently behave as something else.
func TestCompileRejectsLookahead(t *testing.T) {
	_, err := relex.Compile([]relex.RuleSpec{{Expr: `a(?=bc)`, Accept: 1}})
	assert.Error(t, err)
}

// Idempotence on empty input (spec §8): Scan/Find return false once, Split
// returns one empty segment, Match succeeds iff the pattern accepts empty.
func TestEmptyInputIdempotence(t *testing.T) {
	p := compileRules(t, `a+`)

	m := relex.New(relex.NewString(""), p)
	assert.False(t, m.Scan())
	assert.False(t, m.Scan())

	m = relex.New(relex.NewString(""), p)
	assert.False(t, m.Find())
	assert.False(t, m.Find())

	m = relex.New(relex.NewString(""), p)
	require.True(t, m.Split())
	assert.Equal(t, "", m.Text())
	assert.Equal(t, relex.AcceptEmpty, m.Accept())
	assert.False(t, m.Split())

	m = relex.New(relex.NewString(""), p)
	assert.False(t, m.Match())

	pe := compileRules(t, `a*`)
	m = relex.New(relex.NewString(""), pe)
	assert.True(t, m.Match())
}

// Match succeeds only when a single rule covers the entire remaining input.
func TestMatchWholeInput(t *testing.T) {
	p := compileRules(t, `[a-z]+`)

	m := relex.New(relex.NewString("hello"), p)
	assert.True(t, m.Match())
	assert.Equal(t, "hello", m.Text())

	m = relex.New(relex.NewString("hello!"), p)
	assert.False(t, m.Match())
}

// Progress invariant (spec §8, edge rule 3): a zero-width Find match never
// repeats at the same position forever — the following call either reports
// further along or the run terminates at EOF. m.Last() is allowed to repeat
// once (a zero-width match immediately after a non-empty one can end at the
// same offset that non-empty match did), but it never goes backwards, and
// the loop reaches the end of input well within the iteration cap.
func TestFindProgressInvariant(t *testing.T) {
	p := compileRules(t, `x*`)
	const input = "axaxax"
	m := relex.New(relex.NewString(input), p, relex.WithAllowEmptyFind(true))

	prev := relex.Pos(-1)
	count := 0
	for m.Find() && count < 100 {
		assert.GreaterOrEqual(t, m.Last(), prev)
		prev = m.Last()
		count++
	}
	assert.Less(t, count, 100)
	assert.Equal(t, relex.Pos(len(input)), prev)
}

// Round-trip (spec §8): concatenating Split's field texts with the matched
// separator texts reproduces the input exactly.
func TestSplitRoundTrip(t *testing.T) {
	const input = "ab,cd,,ef"
	p := compileRules(t, `,`)
	m := relex.New(relex.NewString(input), p)

	var rebuilt []byte
	var fields []string
	for m.Split() {
		rebuilt = append(rebuilt, m.Text()...)
		rebuilt = append(rebuilt, m.Separator()...)
		fields = append(fields, m.Text())
	}
	assert.Equal(t, input, string(rebuilt))
	assert.Equal(t, []string{"ab", "cd", "", "ef"}, fields)
}

// Negative rules are recognised but suppressed unless WithAllMatches is set.
func TestNegativeRuleSuppression(t *testing.T) {
	specs := []relex.RuleSpec{
		{Expr: `#\w+`, Accept: 1, Negative: true},
		{Expr: `\w+`, Accept: 2},
	}
	p, err := relex.Compile(specs)
	require.NoError(t, err)

	m := relex.New(relex.NewString("#comment foo"), p)
	require.True(t, m.Find())
	assert.Equal(t, "foo", m.Text())
	assert.Equal(t, 2, m.Accept())

	m = relex.New(relex.NewString("#comment foo"), p, relex.WithAllMatches(true))
	require.True(t, m.Find())
	assert.Equal(t, 1, m.Accept())
	assert.Equal(t, "#comment", m.Text())
}

// More/Less (spec §4.E): More extends the next match onto the current text;
// Less truncates and rewinds the cursor.
func TestMoreAndLess(t *testing.T) {
	p := compileRules(t, `[a-z]+`)
	m := relex.New(relex.NewString("foobar"), p)

	require.True(t, m.Find())
	assert.Equal(t, "foobar", m.Text())
	m.Less(3)
	assert.Equal(t, "foo", m.Text())

	require.True(t, m.Find())
	assert.Equal(t, "bar", m.Text())

	m = relex.New(relex.NewString("foobar"), p)
	require.True(t, m.Find())
	m.Less(3)
	m.More()
	require.True(t, m.Find())
	assert.Equal(t, "foobar", m.Text())
}

func TestUnputAndReadByte(t *testing.T) {
	p := compileRules(t, `[a-z]+`)
	m := relex.New(relex.NewString("ab"), p)

	c := m.ReadByte()
	assert.Equal(t, int('a'), c)
	m.Unput('a')

	require.True(t, m.Find())
	assert.Equal(t, "ab", m.Text())
}

func TestStartConditionStack(t *testing.T) {
	p := compileRules(t, `[a-z]+`)
	m := relex.New(relex.NewString("x"), p)

	assert.Equal(t, 0, m.TopState())
	m.PushState(3)
	assert.Equal(t, 3, m.TopState())
	m.SetState(7)
	assert.Equal(t, 7, m.TopState())
	s, ok := m.PopState()
	assert.True(t, ok)
	assert.Equal(t, 7, s)
	_, ok = m.PopState()
	assert.False(t, ok)
}

func TestPushPopMatcher(t *testing.T) {
	p := compileRules(t, `[a-z]+`)
	m := relex.New(relex.NewString("outer"), p)
	require.True(t, m.Find())
	assert.Equal(t, "outer", m.Text())

	m.PushMatcher(relex.NewString("inner"), nil)
	assert.Equal(t, 1, m.Depth())
	require.True(t, m.Find())
	assert.Equal(t, "inner", m.Text())

	ok := m.PopMatcher()
	assert.True(t, ok)
	assert.Equal(t, 0, m.Depth())
	// outer matcher resumes at its own cursor; no more input left.
	assert.False(t, m.Find())
}

// Scenario 6 (spec §8): an indent-sensitive line grammar over
// "a\n  a\n  a\n    a\n" with tab width 8 must reproduce the accept
// sequence 4,5,2,4,5,1,4,5,2,4,5,3,3,0. Accept codes: 4 word, 5 newline,
// 2 INDENT (column rose), 1 no change, 3 DEDENT (one per level popped,
// whether discovered mid-stream via Indent or flushed at EOF via
// DedentAll). The run of leading spaces itself never appears in the
// reported sequence; its rule exists only to measure the column that
// feeds Matcher.Indent, which is the wiring a caller provides on top of
// the typed §4.E pseudo-anchors.
func TestIndentScenario6(t *testing.T) {
	specs := []relex.RuleSpec{
		{Expr: `[ ]+`, Accept: 6},
		{Expr: `[a-z]+`, Accept: 4},
		{Expr: "\n", Accept: 5},
	}
	p, err := relex.Compile(specs)
	require.NoError(t, err)

	const input = "a\n  a\n  a\n    a\n"
	m := relex.New(relex.NewString(input), p, relex.WithTabWidth(8))

	var accepts []int
	for m.Scan() {
		if m.Accept() == 6 {
			popped, kind := m.Indent(m.Columno() - 1)
			switch kind {
			case relex.IndentPush:
				accepts = append(accepts, 2)
			case relex.IndentNone:
				accepts = append(accepts, 1)
			case relex.IndentPop, relex.IndentMismatch:
				for i := 0; i < popped; i++ {
					accepts = append(accepts, 3)
				}
			}
			continue
		}
		accepts = append(accepts, m.Accept())
	}
	for i, n := 0, m.DedentAll(); i < n; i++ {
		accepts = append(accepts, 3)
	}
	accepts = append(accepts, 0)

	assert.Equal(t, []int{4, 5, 2, 4, 5, 1, 4, 5, 2, 4, 5, 3, 3, 0}, accepts)
}

func TestCaptureGroups(t *testing.T) {
	p := compileRules(t, `(\d+)-(\d+)`)
	m := relex.New(relex.NewString("12-34"), p)
	require.True(t, m.Find())
	g1, ok := m.Str(1)
	require.True(t, ok)
	assert.Equal(t, "12", g1)
	g2, ok := m.Str(2)
	require.True(t, ok)
	assert.Equal(t, "34", g2)
}
