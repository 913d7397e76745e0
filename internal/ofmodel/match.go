package ofmodel

import "encoding/binary"

// Wildcard bits, one per Match field. A set bit means the field is a
// wildcard for matching purposes (any value satisfies it).
type Wildcards uint32

const (
	WildcardInPort Wildcards = 1 << iota
	WildcardEthSrc
	WildcardEthDst
	WildcardEthType
	WildcardIPSrc
	WildcardIPDst
	WildcardIPProto
	WildcardTPSrc
	WildcardTPDst

	WildcardAll = WildcardInPort | WildcardEthSrc | WildcardEthDst | WildcardEthType |
		WildcardIPSrc | WildcardIPDst | WildcardIPProto | WildcardTPSrc | WildcardTPDst
)

// matchSize is the fixed, padding-free byte layout Encode produces.
// flow.Table's match index hashes and compares this exact layout, so
// every field occupies a fixed offset regardless of which wildcard
// bits are set.
const matchSize = 4 + 4 + 6 + 6 + 2 + 4 + 4 + 1 + 2 + 2

// Match is a fixed-size exact/wildcard match key, standing in for an
// OpenFlow ofp_match structure distilled to the fields the query
// engine's NON_STRICT and OVERLAP modes need to reason about.
type Match struct {
	Wildcards Wildcards
	InPort    uint32
	EthSrc    [6]byte
	EthDst    [6]byte
	EthType   uint16
	IPSrc     uint32
	IPDst     uint32
	IPProto   uint8
	TPSrc     uint16
	TPDst     uint16
}

// Encode serializes m into the fixed-width byte layout the flow
// table's match index hashes and compares. The result is always
// matchSize bytes, independent of which fields are wildcarded, so two
// matches that differ only in a wildcarded field still hash
// identically once normalized by Normalize.
func (m Match) Encode() []byte {
	buf := make([]byte, matchSize)
	n := m.Normalize()

	binary.BigEndian.PutUint32(buf[0:4], uint32(n.Wildcards))
	binary.BigEndian.PutUint32(buf[4:8], n.InPort)
	copy(buf[8:14], n.EthSrc[:])
	copy(buf[14:20], n.EthDst[:])
	binary.BigEndian.PutUint16(buf[20:22], n.EthType)
	binary.BigEndian.PutUint32(buf[22:26], n.IPSrc)
	binary.BigEndian.PutUint32(buf[26:30], n.IPDst)
	buf[30] = n.IPProto
	binary.BigEndian.PutUint16(buf[31:33], n.TPSrc)
	binary.BigEndian.PutUint16(buf[33:35], n.TPDst)

	return buf
}

// DecodeMatch parses the layout produced by Encode.
func DecodeMatch(buf []byte) Match {
	var m Match

	m.Wildcards = Wildcards(binary.BigEndian.Uint32(buf[0:4]))
	m.InPort = binary.BigEndian.Uint32(buf[4:8])
	copy(m.EthSrc[:], buf[8:14])
	copy(m.EthDst[:], buf[14:20])
	m.EthType = binary.BigEndian.Uint16(buf[20:22])
	m.IPSrc = binary.BigEndian.Uint32(buf[22:26])
	m.IPDst = binary.BigEndian.Uint32(buf[26:30])
	m.IPProto = buf[30]
	m.TPSrc = binary.BigEndian.Uint16(buf[31:33])
	m.TPDst = binary.BigEndian.Uint16(buf[33:35])

	return m
}

// Normalize zeroes every field m's Wildcards bit marks as wildcarded,
// so two matches that agree on every non-wildcard field but differ
// under a wildcard encode identically.
func (m Match) Normalize() Match {
	if m.Wildcards&WildcardInPort != 0 {
		m.InPort = 0
	}

	if m.Wildcards&WildcardEthSrc != 0 {
		m.EthSrc = [6]byte{}
	}

	if m.Wildcards&WildcardEthDst != 0 {
		m.EthDst = [6]byte{}
	}

	if m.Wildcards&WildcardEthType != 0 {
		m.EthType = 0
	}

	if m.Wildcards&WildcardIPSrc != 0 {
		m.IPSrc = 0
	}

	if m.Wildcards&WildcardIPDst != 0 {
		m.IPDst = 0
	}

	if m.Wildcards&WildcardIPProto != 0 {
		m.IPProto = 0
	}

	if m.Wildcards&WildcardTPSrc != 0 {
		m.TPSrc = 0
	}

	if m.Wildcards&WildcardTPDst != 0 {
		m.TPDst = 0
	}

	return m
}
