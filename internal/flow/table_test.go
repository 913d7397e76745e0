package flow_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofcore/flowtable/internal/flow"
)

func Test_New_Returns_ErrInvalidConfig_When_MaxEntries_Not_Positive(t *testing.T) {
	t.Parallel()

	_, err := flow.New(flow.Config{MaxEntries: 0, Duplicator: &fakeDup{}, Builder: fakeBuilder{}})
	assert.ErrorIs(t, err, flow.ErrInvalidConfig)
}

func Test_Table_Add_Makes_Entry_Reachable_By_ID_Match_And_Priority(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(16, nil)

	fa := &fakeFlowAdd{match: []byte("10.0.0.1"), priority: 100, cookie: 7}
	e, err := table.Add(1, fa)
	require.NoError(t, err)

	byID, found := table.Lookup(1)
	require.True(t, found)
	assert.Same(t, e, byID)

	all := table.QueryAll(flow.Query{Mode: flow.Strict, Match: []byte("10.0.0.1"), TableID: flow.AnyTableID, OutPort: flow.WildcardOutPort}, fakeMatchPredicates{})
	require.Len(t, all, 1)
	assert.Same(t, e, all[0])

	byPriority := table.QueryAll(flow.Query{
		Mode: flow.CookieOnly, Priority: 100, CheckPriority: true,
		TableID: flow.AnyTableID, OutPort: flow.WildcardOutPort,
	}, fakeMatchPredicates{})
	require.Len(t, byPriority, 1)
	assert.Same(t, e, byPriority[0])
}

func Test_Table_Add_Returns_ErrExists_On_Duplicate_ID(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(16, nil)
	fa := &fakeFlowAdd{match: []byte("a")}

	_, err := table.Add(1, fa)
	require.NoError(t, err)

	_, err = table.Add(1, fa)
	assert.ErrorIs(t, err, flow.ErrExists)
}

func Test_Table_Add_Returns_ErrResource_When_Pool_Full(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(2, nil)

	_, err := table.Add(1, &fakeFlowAdd{match: []byte("a")})
	require.NoError(t, err)
	_, err = table.Add(2, &fakeFlowAdd{match: []byte("b")})
	require.NoError(t, err)

	_, err = table.Add(3, &fakeFlowAdd{match: []byte("c")})
	assert.ErrorIs(t, err, flow.ErrResource)
	assert.Equal(t, uint64(1), table.Status().TableFullErrors)
}

func Test_Table_Delete_Removes_Entry_From_Indexes_And_Frees_The_Slot(t *testing.T) {
	t.Parallel()

	table, dup := newTestTable(4, nil)
	e, err := table.Add(1, &fakeFlowAdd{match: []byte("a"), priority: 5})
	require.NoError(t, err)

	table.Delete(e)

	_, found := table.Lookup(1)
	assert.False(t, found)

	assert.Equal(t, flow.InvalidID, e.ID)
	assert.Equal(t, flow.StateFree, e.State)
	assert.Equal(t, 0, table.Status().LiveCount)
	assert.Equal(t, 4, table.FreeCount())
	assert.Equal(t, 1, dup.deletedFlowAdds)
	assert.Equal(t, 1, dup.deletedEffects)
}

func Test_Table_LiveCount_Plus_FreeCount_Equals_MaxEntries(t *testing.T) {
	t.Parallel()

	const maxEntries = 8

	table, _ := newTestTable(maxEntries, nil)

	for i := uint64(1); i <= 5; i++ {
		_, err := table.Add(i, &fakeFlowAdd{match: []byte{byte(i)}})
		require.NoError(t, err)
		assert.Equal(t, maxEntries, table.Status().LiveCount+table.FreeCount())
	}

	require.NoError(t, table.DeleteByID(3))
	assert.Equal(t, maxEntries, table.Status().LiveCount+table.FreeCount())
}

func Test_Table_DeleteByID_Returns_ErrNotFound_For_Missing_ID(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(4, nil)
	assert.ErrorIs(t, table.DeleteByID(999), flow.ErrNotFound)
}

func Test_Table_PendingDeletes_Counts_MarkDeleted_Entries(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(4, nil)
	e1, _ := table.Add(1, &fakeFlowAdd{match: []byte("a")})
	_, _ = table.Add(2, &fakeFlowAdd{match: []byte("b")})

	table.MarkDeleted(e1, 1)
	assert.Equal(t, 1, table.Status().PendingDeletes)

	table.MarkDeleted(e1, 2) // no-op, already deleted
	assert.Equal(t, 1, table.Status().PendingDeletes)

	table.Delete(e1)
	assert.Equal(t, 0, table.Status().PendingDeletes)
}

func Test_Table_ModifyCookie_Applies_The_Literal_Formula(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(4, nil)
	e, _ := table.Add(1, &fakeFlowAdd{match: []byte("a"), cookie: 0xFF})

	table.ModifyCookie(e, 0x0F, 0x0F)

	assert.Equal(t, uint64(0x0F), e.Cookie)
	assert.Equal(t, uint64(1), table.Status().Modifies)
}

func Test_Table_ModifyCookieMasked_Applies_The_Corrected_Formula(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(4, nil)
	e, _ := table.Add(1, &fakeFlowAdd{match: []byte("a"), cookie: 0xFF})

	table.ModifyCookieMasked(e, 0x0A, 0x0F)

	assert.Equal(t, uint64(0xFA), e.Cookie)
	assert.Equal(t, uint64(1), table.Status().Modifies)
}

func Test_Table_ModifyEffects_Replaces_Effects_And_Releases_The_Old_Ones(t *testing.T) {
	t.Parallel()

	table, dup := newTestTable(4, nil)
	e, _ := table.Add(1, &fakeFlowAdd{match: []byte("a"), ports: []uint32{1, 2}})

	table.ModifyEffects(e, []uint32{3, 4})

	diff := cmp.Diff([]uint32{3, 4}, e.OutputPorts)
	assert.Empty(t, diff, "output ports mismatch")
	assert.Equal(t, 1, dup.deletedEffects)
	assert.Equal(t, uint64(1), table.Status().Modifies)
}

func Test_Table_ClearCounters_Writes_Out_And_Zeroes(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(4, nil)
	e, _ := table.Add(1, &fakeFlowAdd{match: []byte("a")})
	e.Packets = 10
	e.Bytes = 2000

	var packets, bytesOut uint64
	e.ClearCounters(&packets, &bytesOut)

	assert.Equal(t, uint64(10), packets)
	assert.Equal(t, uint64(2000), bytesOut)
	assert.Equal(t, uint64(0), e.Packets)
	assert.Equal(t, uint64(0), e.Bytes)
}

func Test_Table_Close_Returns_ErrBusy_When_Task_Outstanding(t *testing.T) {
	t.Parallel()

	table, _ := newTestTable(4, nil)
	sched := &fakeScheduler{}

	err := flow.Spawn(table, nil, fakeMatchPredicates{}, sched, nil, func(any, *flow.Entry) {}, nil, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, table.Close(), flow.ErrBusy)
}

type recordingSink struct {
	adds    []uint64
	deletes []uint64
	updates []uint64
}

func (s *recordingSink) OnAdd(id uint64)              { s.adds = append(s.adds, id) }
func (s *recordingSink) OnDelete(id uint64, _ uint32) { s.deletes = append(s.deletes, id) }
func (s *recordingSink) OnModify(id uint64)           { s.updates = append(s.updates, id) }

func Test_Table_EventSink_Observes_Add_Delete_And_Modify(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	table, _ := newTestTable(4, sink)

	e, _ := table.Add(1, &fakeFlowAdd{match: []byte("a")})
	table.ModifyEffects(e, []uint32{1})
	table.Delete(e)

	diff := cmp.Diff([]uint64{1}, sink.adds)
	assert.Empty(t, diff, "adds mismatch")
	diff = cmp.Diff([]uint64{1}, sink.updates)
	assert.Empty(t, diff, "updates mismatch")
	diff = cmp.Diff([]uint64{1}, sink.deletes)
	assert.Empty(t, diff, "deletes mismatch")
}

func Test_Table_EventSink_Observes_ModifyCookie_And_ModifyCookieMasked(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	table, _ := newTestTable(4, sink)

	e, _ := table.Add(1, &fakeFlowAdd{match: []byte("a"), cookie: 0xFF})

	table.ModifyCookie(e, 0x0F, 0x0F)
	table.ModifyCookieMasked(e, 0x0A, 0x0F)

	diff := cmp.Diff([]uint64{1, 1}, sink.updates)
	assert.Empty(t, diff, "updates mismatch")
}
