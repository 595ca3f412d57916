package relex

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Option configures a Matcher at construction time, following the
// functional-options style used throughout this package's ancestry.
type Option func(*Matcher)

// WithTabWidth sets the tab stop width used for column tracking and
// indent/dedent pseudo-anchors (spec §4.B / indent handling). Default 8.
func WithTabWidth(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.buf.tabWidth = n
		}
	}
}

// WithBlockSize caps the number of bytes requested from Input per fill
// call; 0 (the default) requests as much as the buffer has room for, 1
// forces byte-at-a-time "interactive" reads.
func WithBlockSize(n int) Option {
	return func(m *Matcher) { m.buf.blk = n }
}

// WithHardLimit overrides the buffer's maximum growth, in bytes. Once the
// window can neither shift nor grow within this limit, the buffer's
// internal compaction reports ErrBufferFull and the fill treats it as end
// of input; the error is not returned to the caller.
func WithHardLimit(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.buf.hard = n
		}
	}
}

// WithWrap installs the wrap() hook of spec §4.E: invoked when Input is
// exhausted, it may return a replacement Input to continue scanning
// (e.g. the next file of a multi-file argument list) or (nil, false) to
// end the stream, which is the default behaviour absent this option.
func WithWrap(fn func() (Input, bool)) Option {
	return func(m *Matcher) { m.wrapFn = fn }
}

// WithErrorPolicy overrides the default exit-on-error policy (DefaultExitPolicy)
// invoked by Matcher.Fail.
func WithErrorPolicy(p ExitPolicy) Option {
	return func(m *Matcher) { m.exitPolicy = p }
}

// WithAllMatches is the "A" option of spec §6: report negative-pattern
// matches instead of silently consuming and skipping them.
func WithAllMatches(on bool) Option {
	return func(m *Matcher) { m.allMatches = on }
}

// WithAllowEmptyFind is the "N" option of spec §6: permit Find to report
// zero-width matches instead of rejecting them.
func WithAllowEmptyFind(on bool) Option {
	return func(m *Matcher) { m.allowEmptyFind = on }
}

// WithDebug enables per-match debug logging via the matcher's slog.Logger
// (WithLogger), matching the teacher pack's slog-based diagnostic idiom
// rather than a hand-rolled fmt.Fprintf trace (spec §4.E "debug flag").
func WithDebug(on bool) Option {
	return func(m *Matcher) { m.debug = on }
}

// WithLogger overrides the slog.Logger used for debug output; the default
// is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.log = l
		}
	}
}

// WithOutput sets the sink used by Matcher.Echo (spec §4.E "debug/echo");
// the default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(m *Matcher) { m.output = w }
}

// WithInitialState sets the start condition the Matcher begins in, pushed
// onto the start-condition stack before the first Scan.
func WithInitialState(s int) Option {
	return func(m *Matcher) { m.states = []int{s} }
}

// ParseOptions decodes a semicolon-separated matcher option string per spec
// §6: "A" (report negative/non-advancing matches), "N" (allow zero-width
// Find matches), "T=<digit>" (tab width, 1..9, default 8), plus the
// runtime-only extensions "B=<n>" (block size) and "L=<n>" (hard limit) and
// "i" (shorthand for B=1, interactive mode). Unknown tokens are reported as
// errors rather than silently ignored, so that a typo'd option string fails
// fast at startup instead of silently behaving like the default.
func ParseOptions(s string) ([]Option, error) {
	var opts []Option
	if s == "" {
		return opts, nil
	}
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		switch {
		case tok == "A":
			opts = append(opts, WithAllMatches(true))
		case tok == "N":
			opts = append(opts, WithAllowEmptyFind(true))
		case tok == "i":
			opts = append(opts, WithBlockSize(1))
		case strings.HasPrefix(tok, "T="):
			n, err := strconv.Atoi(tok[2:])
			if err != nil {
				return nil, fmt.Errorf("relex: invalid option %q: %w", tok, err)
			}
			if n < 1 || n > 9 {
				return nil, fmt.Errorf("relex: invalid option %q: tab width must be 1..9", tok)
			}
			opts = append(opts, WithTabWidth(n))
		case strings.HasPrefix(tok, "B="):
			n, err := strconv.Atoi(tok[2:])
			if err != nil {
				return nil, fmt.Errorf("relex: invalid option %q: %w", tok, err)
			}
			opts = append(opts, WithBlockSize(n))
		case strings.HasPrefix(tok, "L="):
			n, err := strconv.Atoi(tok[2:])
			if err != nil {
				return nil, fmt.Errorf("relex: invalid option %q: %w", tok, err)
			}
			opts = append(opts, WithHardLimit(n))
		default:
			return nil, fmt.Errorf("relex: unknown matcher option %q", tok)
		}
	}
	return opts, nil
}
