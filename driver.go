package relex

// searchResult reports one accepted match in buffer-relative offsets
// (indices into buffer.buf).
type searchResult struct {
	start, end int
	groups     []int // buffer-relative start/end pairs, whole match plus subgroups
	accept     int
	negative   bool
	groupBase  int // matched rule's own group-numbering base, see Pattern.acceptFor
}

// searchWindow is the regex driver of spec §4.C: it locates the next
// candidate match of p against b starting no earlier than b.cur, refilling
// the buffer as needed to resolve partial matches, and reports whether the
// match is acceptable under anchored/rejectEmpty constraints.
//
// Go's regexp always evaluates ^, \b and friends against offset 0 of
// whatever slice it is given; relex cannot pass it a "pretend this isn't
// really the start of the text/line/word" flag the way a hand-written
// engine could. Instead searchWindow always includes exactly one byte of
// context before b.cur (when available) in the slice it searches, so that
// ^, (?m)^ and \b see the real preceding byte, and then rejects any
// candidate that starts at that context byte itself (offset 0 of the slice,
// when a context byte is present) since it cannot be at or after cur. This
// is the "one byte of pre-context retained across shifts" design recorded
// in DESIGN.md; buffer.compact is responsible for never discarding that
// byte while it might still be needed.
func searchWindow(b *buffer, p *Pattern, anchored, rejectEmpty bool) (searchResult, bool) {
	// searchFrom is the search position, tracked as an absolute stream Pos
	// rather than a raw buffer-relative offset. A rejected empty match
	// advances this and loops instead of recursing; any fill() along the
	// way may call compact(), which rebases every buffer-relative offset
	// (txt/cur/pos/end, and b.base) via shiftOffsets. Re-deriving the
	// relative offset from searchFrom-b.base on every iteration is what
	// keeps this loop correct across such a rebase — caching a raw relative
	// offset (or worse, stashing it in b.cur itself) across a fill() call
	// would go stale the moment a shift happens.
	searchFrom := b.absolute(b.cur)
	for {
		cur := int(searchFrom - b.base)
		p0 := 0
		if cur > 0 {
			p0 = cur - 1
		}
		minStart := cur - p0

		slice := b.buf[p0:b.end]
		idx := p.overall.FindSubmatchIndex(slice)

		if idx == nil {
			if b.fill() > 0 {
				continue
			}
			return searchResult{}, false
		}

		if idx[0] < minStart {
			// Leftmost match landed on the retained context byte itself;
			// retry without it. This loses one-byte context for *this*
			// retry only (documented limitation: a pattern anchored with
			// \b or ^ exactly at cur that only matches when the context
			// byte is excluded is vanishingly rare in practice).
			sub := slice[minStart:]
			idx2 := p.overall.FindSubmatchIndex(sub)
			if idx2 == nil {
				if b.fill() > 0 {
					continue
				}
				return searchResult{}, false
			}
			for i := range idx2 {
				if idx2[i] >= 0 {
					idx2[i] += minStart
				}
			}
			idx = idx2
		}

		start := p0 + idx[0]
		end := p0 + idx[1]

		if anchored && start != cur {
			return searchResult{}, false
		}

		// Partial match: the match reaches exactly to the fill frontier and
		// more input might extend it (regexp.Regexp, being a DFA/NFA over
		// RE2 semantics with no partial-match API, is re-run on the grown
		// window instead of resumed — see DESIGN.md's discussion of the
		// spec's hypothetical partial-match-capable engine).
		if end == b.end && !b.eof {
			if b.fill() > 0 {
				continue
			}
		}

		if rejectEmpty && start == end {
			if anchored {
				return searchResult{}, false
			}
			next := start + 1
			if next > b.end && !b.ensure(start, 1) {
				return searchResult{}, false
			}
			searchFrom = b.absolute(next)
			continue
		}

		groups := make([]int, len(idx))
		for i, v := range idx {
			if v < 0 {
				groups[i] = -1
				continue
			}
			groups[i] = p0 + v
		}
		accept, negative, groupBase, _ := p.acceptFor(idx)
		return searchResult{start: start, end: end, groups: groups, accept: accept, negative: negative, groupBase: groupBase}, true
	}
}
