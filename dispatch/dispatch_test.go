package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
	"github.com/remora-data/remora/backends/lazytable"
	"github.com/remora-data/remora/backends/slicetable"
	"github.com/remora-data/remora/dispatch"
	"github.com/remora-data/remora/frame"

	_ "github.com/remora-data/remora/backends/arrowtable"
	_ "github.com/remora-data/remora/backends/devtable"
)

var peopleSchema = remora.Schema{Fields: []remora.SchemaField{
	{Name: "name", Type: remora.String},
	{Name: "city", Type: remora.String, Nullable: true},
	{Name: "age", Type: remora.Int64, Nullable: true},
}}

func peopleColumns(t *testing.T) []remora.Column {
	t.Helper()
	names := remora.NewColumn(remora.String, 0)
	cities := remora.NewColumn(remora.String, 0)
	ages := remora.NewColumn(remora.Int64, 0)
	rows := []struct {
		name string
		city remora.Value
		age  remora.Value
	}{
		{"alice", remora.NewString("warsaw"), remora.NewInt64(34)},
		{"bob", remora.NewString("berlin"), remora.NewInt64(25)},
		{"celine", remora.NewNull(remora.String), remora.NewInt64(41)},
		{"dave", remora.NewString("warsaw"), remora.NewNull(remora.Int64)},
	}
	for _, row := range rows {
		require.NoError(t, names.Append(remora.NewString(row.name)))
		require.NoError(t, cities.Append(row.city))
		require.NoError(t, ages.Append(row.age))
	}
	return []remora.Column{names, cities, ages}
}

func peopleFrame(t *testing.T, kind backend.Kind) *frame.Frame {
	t.Helper()
	var native any
	var err error
	switch kind {
	case backend.KindLazyTable:
		native, err = lazytable.NewScan(peopleSchema, peopleColumns(t))
	default:
		d, derr := backend.Get(kind)
		require.NoError(t, derr)
		native, err = d.NewTable(peopleSchema, peopleColumns(t))
	}
	require.NoError(t, err)
	f, err := frame.Wrap(native, kind)
	require.NoError(t, err)
	return f
}

func rowStrings(t *testing.T, f *frame.Frame, col int) []string {
	t.Helper()
	rows, err := dispatch.Rows(f)
	require.NoError(t, err)
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i][col].Str
	}
	return out
}

func TestEagerPipeline(t *testing.T) {
	f := peopleFrame(t, backend.KindSliceTable)

	f, err := dispatch.Filter(f, remora.Not{Inner: remora.IsNull{Column: "age"}})
	require.NoError(t, err)
	f, err = dispatch.Sort(f, []remora.SortKey{{Column: "age", Descending: true}})
	require.NoError(t, err)
	f, err = dispatch.Select(f, []string{"name", "age"})
	require.NoError(t, err)

	assert.Equal(t, []string{"celine", "alice", "bob"}, rowStrings(t, f, 0))

	columns, err := dispatch.Columns(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, columns)
}

func TestFallbackRoutesThroughReferenceBackend(t *testing.T) {
	// arrowtable has no native sort; the dispatcher must convert, sort on
	// the reference backend, and convert back without changing the kind.
	f := peopleFrame(t, backend.KindArrowTable)

	sorted, err := dispatch.Sort(f, []remora.SortKey{{Column: "name", Descending: true}})
	require.NoError(t, err)
	assert.Equal(t, backend.KindArrowTable, sorted.Identity().Kind)
	assert.Equal(t, []string{"dave", "celine", "bob", "alice"}, rowStrings(t, sorted, 0))
}

func TestFallbackOnDeviceBackend(t *testing.T) {
	f := peopleFrame(t, backend.KindDevTable)

	out, err := dispatch.GroupAggregate(f, []string{"city"}, []remora.Aggregate{
		{Column: "age", Kind: remora.AggregateCount, As: "people"},
	})
	require.NoError(t, err)
	assert.Equal(t, backend.KindDevTable, out.Identity().Kind)

	rows, cols, err := dispatch.Shape(out)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
}

func TestPendingFrameAccumulatesPlan(t *testing.T) {
	f := peopleFrame(t, backend.KindLazyTable)
	require.Equal(t, frame.ModePending, f.Mode())

	f, err := dispatch.Filter(f, remora.Compare{
		Column: "age", Op: remora.CompareGreater, Value: remora.NewInt64(30),
	})
	require.NoError(t, err)
	f, err = dispatch.Select(f, []string{"name"})
	require.NoError(t, err)

	// Nothing has executed: the row count is still unknown.
	require.Equal(t, frame.ModePending, f.Mode())
	rows, _, err := dispatch.Shape(f)
	require.NoError(t, err)
	assert.Equal(t, -1, rows)
	assert.Equal(t, 2, f.Plan().Len())

	_, err = dispatch.Rows(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrOperationUnsupported)
}

func TestCollectIsIdempotent(t *testing.T) {
	f := peopleFrame(t, backend.KindLazyTable)
	f, err := dispatch.Filter(f, remora.Compare{
		Column: "age", Op: remora.CompareGreater, Value: remora.NewInt64(30),
	})
	require.NoError(t, err)

	collected, err := dispatch.Collect(f)
	require.NoError(t, err)
	assert.Equal(t, frame.ModeEager, collected.Mode())
	assert.Equal(t, []string{"alice", "celine"}, rowStrings(t, collected, 0))

	// Collecting again returns the same frame; the plan is not re-executed.
	again, err := dispatch.Collect(collected)
	require.NoError(t, err)
	assert.Same(t, collected, again)
}

func TestPlanBranchesStayIndependent(t *testing.T) {
	base := peopleFrame(t, backend.KindLazyTable)
	base, err := dispatch.DropNulls(base)
	require.NoError(t, err)

	// Two frames built from the same pending prefix.
	young, err := dispatch.Filter(base, remora.Compare{
		Column: "age", Op: remora.CompareLess, Value: remora.NewInt64(30),
	})
	require.NoError(t, err)
	byCity, err := dispatch.Sort(base, []remora.SortKey{{Column: "city"}})
	require.NoError(t, err)

	youngCollected, err := dispatch.Collect(young)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, rowStrings(t, youngCollected, 0))

	cityCollected, err := dispatch.Collect(byCity)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice"}, rowStrings(t, cityCollected, 0))

	// The shared prefix is untouched by either branch.
	assert.Equal(t, 1, base.Plan().Len())
}

func TestJoinSameKind(t *testing.T) {
	left := peopleFrame(t, backend.KindSliceTable)

	salarySchema := remora.Schema{Fields: []remora.SchemaField{
		{Name: "name", Type: remora.String},
		{Name: "salary", Type: remora.Int64},
	}}
	right, err := slicetable.NewBuilder(salarySchema).
		AppendRow(remora.NewString("alice"), remora.NewInt64(100)).
		AppendRow(remora.NewString("bob"), remora.NewInt64(80)).
		Build()
	require.NoError(t, err)
	rightFrame, err := frame.Wrap(right, backend.KindSliceTable)
	require.NoError(t, err)

	out, err := dispatch.Join(left, rightFrame, []string{"name"}, remora.JoinInner)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, rowStrings(t, out, 0))

	columns, err := dispatch.Columns(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "city", "age", "salary"}, columns)
}

func TestJoinConvertsRightKind(t *testing.T) {
	left := peopleFrame(t, backend.KindSliceTable)
	right := peopleFrame(t, backend.KindArrowTable)

	out, err := dispatch.Join(left, right, []string{"name"}, remora.JoinInner)
	require.NoError(t, err)
	assert.Equal(t, backend.KindSliceTable, out.Identity().Kind)

	rows, _, err := dispatch.Shape(out)
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
}

func TestJoinEagerLeftPendingRightFails(t *testing.T) {
	left, err := dispatch.Collect(peopleFrame(t, backend.KindLazyTable))
	require.NoError(t, err)
	right := peopleFrame(t, backend.KindLazyTable)
	require.Equal(t, frame.ModePending, right.Mode())

	// The dispatcher never collects implicitly.
	_, err = dispatch.Join(left, right, []string{"name"}, remora.JoinInner)
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrOperationUnsupported)
}

func TestJoinPendingLeftDefers(t *testing.T) {
	left := peopleFrame(t, backend.KindLazyTable)
	right := peopleFrame(t, backend.KindLazyTable)

	joined, err := dispatch.Join(left, right, []string{"name"}, remora.JoinInner)
	require.NoError(t, err)
	require.Equal(t, frame.ModePending, joined.Mode())

	collected, err := dispatch.Collect(joined)
	require.NoError(t, err)
	rows, _, err := dispatch.Shape(collected)
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
}

func TestContainsAmbiguousOnDivergentBackend(t *testing.T) {
	f := peopleFrame(t, backend.KindSliceTable)

	_, err := dispatch.Contains(f, "age", remora.NewInt64(34))
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrAmbiguousSemantics)

	// The explicit forms work and can disagree.
	byValue, err := dispatch.ContainsByValue(f, "age", remora.NewInt64(34))
	require.NoError(t, err)
	assert.True(t, byValue)
	byLabel, err := dispatch.ContainsByLabel(f, "age", remora.NewInt64(34))
	require.NoError(t, err)
	assert.False(t, byLabel)
}

func TestContainsOnByValueBackend(t *testing.T) {
	f := peopleFrame(t, backend.KindArrowTable)

	found, err := dispatch.Contains(f, "name", remora.NewString("bob"))
	require.NoError(t, err)
	assert.True(t, found)

	_, err = dispatch.ContainsByLabel(f, "name", remora.NewString("bob"))
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrOperationUnsupported)
}

func TestContainsOnPendingFrameFails(t *testing.T) {
	f := peopleFrame(t, backend.KindLazyTable)

	_, err := dispatch.ContainsByValue(f, "name", remora.NewString("bob"))
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrOperationUnsupported)
}

func TestRenameAndWithColumn(t *testing.T) {
	f := peopleFrame(t, backend.KindSliceTable)

	f, err := dispatch.WithColumn(f, "decade", remora.Arith{
		Left:  remora.ColRef{Name: "age"},
		Op:    remora.ArithDiv,
		Right: remora.Literal{Value: remora.NewInt64(10)},
	})
	require.NoError(t, err)
	f, err = dispatch.Rename(f, map[string]string{"decade": "age_decades"})
	require.NoError(t, err)

	columns, err := dispatch.Columns(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "city", "age", "age_decades"}, columns)
}

func TestUniqueAndDropNulls(t *testing.T) {
	f := peopleFrame(t, backend.KindSliceTable)

	unique, err := dispatch.Unique(f, []string{"city"})
	require.NoError(t, err)
	rows, _, err := dispatch.Shape(unique)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)

	clean, err := dispatch.DropNulls(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, rowStrings(t, clean, 0))
}
