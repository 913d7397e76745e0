package ofmodel

import "bytes"

// Predicates implements flow.MatchPredicates over the Match encoding
// in this package.
type Predicates struct{}

// Equal reports byte-exact equality of the encoded matches, used in
// STRICT query mode.
func (Predicates) Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}

type matchField struct {
	wildcard     Wildcards
	candidateVal any
	queryVal     any
}

func fields(candidate, query Match) []matchField {
	return []matchField{
		{WildcardInPort, candidate.InPort, query.InPort},
		{WildcardEthSrc, candidate.EthSrc, query.EthSrc},
		{WildcardEthDst, candidate.EthDst, query.EthDst},
		{WildcardEthType, candidate.EthType, query.EthType},
		{WildcardIPSrc, candidate.IPSrc, query.IPSrc},
		{WildcardIPDst, candidate.IPDst, query.IPDst},
		{WildcardIPProto, candidate.IPProto, query.IPProto},
		{WildcardTPSrc, candidate.TPSrc, query.TPSrc},
		{WildcardTPDst, candidate.TPDst, query.TPDst},
	}
}

// MoreSpecific reports whether the candidate match subsumes the query
// match: every field the query pins down (not wildcarded) must also be
// pinned down and equal in the candidate.
func (Predicates) MoreSpecific(candidateBytes, queryBytes []byte) bool {
	candidate := DecodeMatch(candidateBytes)
	query := DecodeMatch(queryBytes)

	for _, f := range fields(candidate, query) {
		if query.Wildcards&f.wildcard != 0 {
			continue // query doesn't care about this field
		}

		if candidate.Wildcards&f.wildcard != 0 {
			return false // candidate is broader than the query here
		}

		if f.candidateVal != f.queryVal {
			return false
		}
	}

	return true
}

// Overlap reports whether two matches can both match some common
// packet: for every field neither side wildcards, the values must
// agree.
func (Predicates) Overlap(aBytes, bBytes []byte) bool {
	a := DecodeMatch(aBytes)
	b := DecodeMatch(bBytes)

	for _, f := range fields(a, b) {
		if a.Wildcards&f.wildcard != 0 || b.Wildcards&f.wildcard != 0 {
			continue
		}

		if f.candidateVal != f.queryVal {
			return false
		}
	}

	return true
}
