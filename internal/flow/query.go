package flow

// Mode selects how the query engine compares a candidate entry's match
// key against the query.
type Mode uint8

const (
	// Strict requires a byte-exact match and selects candidates via
	// the exact-match index.
	Strict Mode = iota

	// NonStrict requires the entry's match to be more specific than
	// the query's, per the external MatchPredicates.
	NonStrict

	// Overlap requires only that the two matches can overlap on some
	// packet.
	Overlap

	// CookieOnly skips the match comparison entirely; only the
	// cookie/mask, table-ID and priority filters apply.
	CookieOnly
)

// Query is the meta-match record accepted by FirstMatch and QueryAll.
type Query struct {
	Mode  Mode
	Match []byte

	Priority      uint16
	CheckPriority bool

	Cookie     uint64
	CookieMask uint64

	// TableID filters by table ID; AnyTableID disables the filter.
	TableID uint8

	// OutPort filters entries whose output ports contain this value;
	// WildcardOutPort disables the filter. Never applied in Overlap or
	// CookieOnly mode.
	OutPort uint32
}

// candidates returns the iteration strategy selected by q: the
// exact-match index for Strict, the priority index when CheckPriority
// is set, otherwise a linear walk of the all-entries list.
func (t *Table) candidates(q Query, visit func(*Entry) bool) {
	switch {
	case q.Mode == Strict:
		it := t.byMatch.Lookup(q.Match)

		for {
			e, ok := it.Next()
			if !ok {
				return
			}

			if !visit(e) {
				return
			}
		}
	case q.CheckPriority:
		it := t.byPriority.Lookup(q.Priority)

		for {
			e, ok := it.Next()
			if !ok {
				return
			}

			if !visit(e) {
				return
			}
		}
	default:
		for slot := t.allHead; slot != -1; slot = t.allNext[slot] {
			if !visit(&t.entries[slot]) {
				return
			}
		}
	}
}

// metaMatch applies the six-step predicate described by the query
// engine: deleted-state rejection, cookie mask, table ID, priority,
// the mode-specific match comparison, and finally the output-port
// filter.
func metaMatch(e *Entry, q Query, mp MatchPredicates) bool {
	if IsDeleted(e.State) {
		return false
	}

	if q.CookieMask != 0 && (q.Cookie&q.CookieMask) != (e.Cookie&q.CookieMask) {
		return false
	}

	if q.TableID != AnyTableID && q.TableID != e.TableID {
		return false
	}

	if q.CheckPriority && q.Priority != e.Priority {
		return false
	}

	switch q.Mode {
	case NonStrict:
		if !mp.MoreSpecific(e.Match, q.Match) {
			return false
		}
	case Strict:
		if !mp.Equal(e.Match, q.Match) {
			return false
		}
	case Overlap:
		if !mp.Overlap(e.Match, q.Match) {
			return false
		}
	case CookieOnly:
		// always passes this step
	}

	if q.OutPort != WildcardOutPort && q.Mode != Overlap && q.Mode != CookieOnly {
		if !e.hasOutPort(q.OutPort) {
			return false
		}
	}

	return true
}

// FirstMatch returns the first candidate entry satisfying q, or
// (nil, false) if none do.
func (t *Table) FirstMatch(q Query, mp MatchPredicates) (*Entry, bool) {
	var found *Entry

	t.candidates(q, func(e *Entry) bool {
		if metaMatch(e, q, mp) {
			found = e

			return false
		}

		return true
	})

	return found, found != nil
}

// QueryAll returns every candidate entry satisfying q. The order of
// the result is unspecified — callers must not rely on it.
func (t *Table) QueryAll(q Query, mp MatchPredicates) []*Entry {
	var result []*Entry

	t.candidates(q, func(e *Entry) bool {
		if metaMatch(e, q, mp) {
			result = append(result, e)
		}

		return true
	})

	return result
}
