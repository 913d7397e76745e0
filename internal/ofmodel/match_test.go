package ofmodel_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ofcore/flowtable/internal/ofmodel"
)

func Test_Match_Encode_Decode_Round_Trips(t *testing.T) {
	t.Parallel()

	m := ofmodel.Match{
		InPort:  1,
		EthType: 0x0800,
		IPSrc:   0x0A000001,
		IPDst:   0x0A000002,
		IPProto: 6,
		TPDst:   443,
	}

	got := ofmodel.DecodeMatch(m.Encode())

	diff := cmp.Diff(m, got)
	assert.Empty(t, diff, "match round-trip mismatch")
}

func Test_Match_Encode_Zeroes_Wildcarded_Fields(t *testing.T) {
	t.Parallel()

	a := ofmodel.Match{IPSrc: 1, Wildcards: ofmodel.WildcardIPSrc}
	b := ofmodel.Match{IPSrc: 2, Wildcards: ofmodel.WildcardIPSrc}

	assert.Equal(t, a.Encode(), b.Encode(), "a wildcarded field must not affect the encoded key")
}
