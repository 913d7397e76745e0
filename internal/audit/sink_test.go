package audit_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofcore/flowtable/internal/audit"
)

func Test_Sink_Records_Add_Delete_And_Modify_Events(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.db")

	sink, err := audit.Open(path)
	require.NoError(t, err)
	defer sink.Close()

	sink.OnAdd(1)
	sink.OnModify(1)
	sink.OnDelete(1, 7)

	events, err := sink.Events(1)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, audit.KindAdd, events[0].Kind)
	assert.Equal(t, audit.KindModify, events[1].Kind)
	assert.Equal(t, audit.KindDelete, events[2].Kind)
	assert.Equal(t, uint32(7), events[2].Reason)
}

func Test_Sink_Events_Are_Durable_Across_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.db")

	sink, err := audit.Open(path)
	require.NoError(t, err)

	sink.OnAdd(42)
	require.NoError(t, sink.Close())

	reopened, err := audit.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	events, err := reopened.Events(42)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.KindAdd, events[0].Kind)
}
