package relex

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
)

// RuleSpec describes one rule of a Pattern before compilation: its regular
// expression text, the value reported by Matcher.Accept on a match, and
// whether it is a Negative ("don't match this") rule (spec §4.C "pattern
// compiler collaborator").
type RuleSpec struct {
	Expr     string
	Accept   int
	Negative bool
}

// rule is a single compiled RuleSpec.
type rule struct {
	re       *regexp.Regexp
	accept   int
	negative bool
	// groupBase is the 1-based index, within p.overall's combined submatch
	// list, of this rule's own wrapping capture group. A rule's internal
	// capture group j (1-based, as written in its own expression) therefore
	// lands at overall group groupBase+j: earlier rules may carry their own
	// capture groups, which shift every later rule's wrapper (and the
	// groups nested inside it) along by however many groups those earlier
	// rules opened, so this cannot be recovered from the rule's index alone.
	groupBase int
}

// Pattern is the compiled form of an ordered list of RuleSpecs, the
// "pattern compiler collaborator" of spec §4.C. By default (Perl-style
// leftmost-first disambiguation, spec §4.C/§7.3) rules are tried in
// declaration order and the first one whose own (possibly non-greedy)
// quantifiers produce a match wins, exactly as Go's regexp already resolves
// an alternation without Longest(): this is what keeps non-greedy
// sub-expressions inside a single rule (e.g. `(a|b)*?a`) meaningful.
// WithPOSIXLongest switches the whole Pattern to the other named variant
// engine (POSIX-leftmost-longest): the overall longest match at a starting
// position wins regardless of declaration order or a rule's own greedy
// markers, with earliest rule as the tie-breaker — this is Go regexp's
// Longest() mode, and is why POSIX mode and non-greedy quantifiers are
// mutually exclusive variants rather than something a single compiled
// Pattern can mix.
//
// Internally all rules are combined into one alternation so that a single
// regexp.Regexp search produces every rule's candidate in one pass; accept
// values are recovered from which numbered subexpression matched.
type Pattern struct {
	rules   []rule
	overall *regexp.Regexp
}

// CompileOption configures Compile, mirroring the compiler option string of
// spec §6 ("i", "m", "s", "x", "q", "l", "f=file[,file]").
type CompileOption func(*compileOptions)

type compileOptions struct {
	caseInsensitive bool
	multiline       bool
	dotAll          bool
	freeSpacing     bool
	literal         bool
	posixLongest    bool
	macros          map[string]string
}

// WithPOSIXLongest selects the POSIX-leftmost-longest variant engine for
// this Pattern (spec §4.C "Variant engines ... POSIX-leftmost-longest vs.
// Perl-leftmost-first"), equivalent to (*regexp.Regexp).Longest(). This is
// relex's own constructor, not one of the pass-through option-string
// tokens of spec §6 (none of "i m s x q l" names this choice); it exists
// because some compiled Pattern must pick one of the two disambiguation
// policies, and the default is Perl-leftmost-first.
func WithPOSIXLongest() CompileOption {
	return func(o *compileOptions) { o.posixLongest = true }
}

// WithMacros registers named sub-expressions usable as {name} within rule
// expressions, resolved before compilation (spec §6 "undefined macro name").
func WithMacros(macros map[string]string) CompileOption {
	return func(o *compileOptions) {
		if o.macros == nil {
			o.macros = make(map[string]string, len(macros))
		}
		for k, v := range macros {
			o.macros[k] = v
		}
	}
}

// ParseCompileOptions decodes a semicolon-separated compiler option string
// such as "i;m;f=unicode.txt" into CompileOptions, matching the token
// grammar of spec §6.
func ParseCompileOptions(s string) ([]CompileOption, error) {
	var opts []CompileOption
	if s == "" {
		return opts, nil
	}
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		switch {
		case tok == "i":
			opts = append(opts, func(o *compileOptions) { o.caseInsensitive = true })
		case tok == "m":
			opts = append(opts, func(o *compileOptions) { o.multiline = true })
		case tok == "s":
			opts = append(opts, func(o *compileOptions) { o.dotAll = true })
		case tok == "x":
			opts = append(opts, func(o *compileOptions) { o.freeSpacing = true })
		case tok == "q":
			opts = append(opts, func(o *compileOptions) { o.literal = true })
		case tok == "l":
			// l: lookahead via /. RE2 (what regexp.Compile implements) has no
			// lookahead operator of any kind, so this token is accepted for
			// source compatibility but does not change compiled behaviour. A
			// "/" in a rule is an ordinary literal character to RE2, so a rule
			// written with "/" trailing context compiles and matches a literal
			// slash; a "(?=...)" lookahead group fails at Compile with
			// ErrInvalidSyntax, same as any other RE2-incompatible construct.
		case strings.HasPrefix(tok, "f="):
			// f=file[,file]: load macro files. Parsing macro file contents is
			// outside this package's scope; the caller supplies resolved
			// macros via WithMacros instead, so this token is accepted for
			// compatibility but otherwise a no-op here.
		default:
			return nil, &PatternError{Kind: ErrInvalidModifier, Pattern: s, Err: fmt.Errorf("unknown option %q", tok)}
		}
	}
	return opts, nil
}

// Compile builds a Pattern from an ordered list of RuleSpecs. Each
// expression is optionally quoted (literal mode) or stripped of free-spacing
// whitespace and comments, expanded for {macro} references, flag-prefixed
// (case/multiline/dotall), and
// compiled with regexp/syntax first so that syntax errors can be classified
// into the spec §6 ErrorKind taxonomy before handing off to regexp.Compile.
func Compile(specs []RuleSpec, opts ...CompileOption) (*Pattern, error) {
	var co compileOptions
	for _, o := range opts {
		o(&co)
	}

	p := &Pattern{}
	var alt strings.Builder
	flags := compileFlags(co)
	groupBase := 1 // overall group 0 is the whole match; rule groups start at 1

	for _, spec := range specs {
		expr := spec.Expr
		if co.literal {
			expr = regexp.QuoteMeta(expr)
		} else if co.freeSpacing {
			expr = stripFreeSpacing(expr)
		}
		expanded, err := expandMacros(expr, co.macros)
		if err != nil {
			return nil, err
		}
		if err := classifySyntaxError(expanded, flags); err != nil {
			return nil, err
		}
		re, err := regexp.Compile(flags + "(" + expanded + ")")
		if err != nil {
			return nil, &PatternError{Kind: ErrInvalidSyntax, Pattern: spec.Expr, Err: err}
		}
		if co.posixLongest {
			re.Longest()
		}
		p.rules = append(p.rules, rule{re: re, accept: spec.Accept, negative: spec.Negative, groupBase: groupBase})
		groupBase += re.NumSubexp()

		if alt.Len() > 0 {
			alt.WriteByte('|')
		}
		fmt.Fprintf(&alt, "(%s)", expanded)
	}

	overall, err := regexp.Compile(flags + alt.String())
	if err != nil {
		return nil, &PatternError{Kind: ErrInvalidSyntax, Err: err}
	}
	if co.posixLongest {
		overall.Longest()
	}
	p.overall = overall
	return p, nil
}

// stripFreeSpacing implements the "x" extended mode of spec §6: unescaped
// whitespace and "#"-to-end-of-line comments are removed before parsing, so
// rule expressions can be written one sub-pattern per line with trailing
// commentary. Whitespace and "#" inside a character class ([...]) are
// preserved verbatim, matching every other regex flavour's treatment of "x".
func stripFreeSpacing(expr string) string {
	var out strings.Builder
	inClass := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '\\' && i+1 < len(expr):
			out.WriteByte(c)
			out.WriteByte(expr[i+1])
			i++
		case inClass:
			out.WriteByte(c)
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			out.WriteByte(c)
		case c == '#':
			for i < len(expr) && expr[i] != '\n' {
				i++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			// skip
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

func compileFlags(co compileOptions) string {
	var b strings.Builder
	b.WriteString("(?")
	any := false
	if co.caseInsensitive {
		b.WriteByte('i')
		any = true
	}
	if co.multiline {
		b.WriteByte('m')
		any = true
	}
	if co.dotAll {
		b.WriteByte('s')
		any = true
	}
	if !any {
		return ""
	}
	b.WriteByte(')')
	return b.String()
}

// expandMacros replaces {name} references with their registered expression,
// recursively, failing with ErrUndefinedMacro on an unknown name.
func expandMacros(expr string, macros map[string]string) (string, error) {
	if len(macros) == 0 || !strings.Contains(expr, "{") {
		return expr, nil
	}
	var out strings.Builder
	i := 0
	for i < len(expr) {
		if expr[i] != '{' {
			out.WriteByte(expr[i])
			i++
			continue
		}
		j := strings.IndexByte(expr[i:], '}')
		if j < 0 {
			out.WriteString(expr[i:])
			break
		}
		name := expr[i+1 : i+j]
		repl, ok := macros[name]
		if !ok {
			return "", &PatternError{Kind: ErrUndefinedMacro, Pattern: expr, Offset: i, Err: fmt.Errorf("undefined macro %q", name)}
		}
		expanded, err := expandMacros(repl, macros)
		if err != nil {
			return "", err
		}
		out.WriteString("(?:" + expanded + ")")
		i += j + 1
	}
	return out.String(), nil
}

// classifySyntaxError runs regexp/syntax.Parse to translate Go's generic
// parse errors into the finer-grained ErrorKind taxonomy of spec §6 before
// regexp.Compile's own (coarser) error is used as a fallback.
func classifySyntaxError(expr, flags string) error {
	pflags := syntax.Perl
	_, err := syntax.Parse(flags+expr, pflags)
	if err == nil {
		return nil
	}
	se, ok := err.(*syntax.Error)
	if !ok {
		return &PatternError{Kind: ErrInvalidSyntax, Pattern: expr, Err: err}
	}
	offset := strings.Index(expr, se.Expr)
	if offset < 0 {
		offset = 0
	}
	kind := ErrInvalidSyntax
	switch se.Code {
	case syntax.ErrMissingParen:
		kind = ErrMismatchedParen
	case syntax.ErrMissingBracket:
		kind = ErrMismatchedBracket
	case syntax.ErrMissingRepeatArgument:
		kind = ErrInvalidRepeat
	case syntax.ErrInvalidRepeatOp:
		kind = ErrInvalidRepeat
	case syntax.ErrInvalidRepeatSize:
		kind = ErrInvalidQuantifier
	case syntax.ErrInvalidCharRange:
		kind = ErrInvalidClassRange
	case syntax.ErrInvalidCharClass:
		kind = ErrInvalidClass
	case syntax.ErrInvalidEscape:
		kind = ErrInvalidEscape
	case syntax.ErrInvalidNamedCapture:
		kind = ErrInvalidSyntax
	}
	return &PatternError{Kind: kind, Pattern: expr, Offset: offset, Err: se}
}

// acceptFor returns the RuleSpec.Accept value, Negative flag, and own-group
// base of the rule whose wrapping capture group matched in groups (as
// produced by p.overall.FindSubmatchIndex), or (0, false, 0, false) if no
// rule's group is populated (should not occur for a successful overall
// match). groupBase lets the caller translate the rule's own 1-based
// capture-group numbers (as written in its RuleSpec.Expr) into indices into
// groups: a rule's own group j is at groups[2*(groupBase+j)].
//
// Each rule's wrapping group sits at a different offset into the combined
// alternation depending on how many capture groups every earlier rule
// opened, which is why this cannot be computed as a fixed function of the
// rule's index (see rule.groupBase's doc comment).
func (p *Pattern) acceptFor(groups []int) (accept int, negative bool, groupBase int, ok bool) {
	for _, r := range p.rules {
		gi := 2 * r.groupBase
		if gi+1 < len(groups) && groups[gi] >= 0 {
			return r.accept, r.negative, r.groupBase, true
		}
	}
	return 0, false, 0, false
}
