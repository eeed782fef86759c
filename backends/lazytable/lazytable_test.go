package lazytable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remora-data/remora"
)

var testSchema = remora.Schema{Fields: []remora.SchemaField{
	{Name: "id", Type: remora.Int64},
	{Name: "score", Type: remora.Float64},
}}

func testScan(t *testing.T) *Scan {
	t.Helper()
	ids := remora.NewColumn(remora.Int64, 0)
	scores := remora.NewColumn(remora.Float64, 0)
	for i, score := range []float64{1.5, 2.5, 3.5, 4.5} {
		require.NoError(t, ids.Append(remora.NewInt64(int64(i+1))))
		require.NoError(t, scores.Append(remora.NewFloat64(score)))
	}
	scan, err := NewScan(testSchema, []remora.Column{ids, scores})
	require.NoError(t, err)
	return scan
}

func TestScanReportsUnknownRowCount(t *testing.T) {
	var d Driver
	rows, err := d.Rows(testScan(t))
	require.NoError(t, err)
	assert.Equal(t, -1, rows)

	schema, err := d.Schema(testScan(t))
	require.NoError(t, err)
	assert.True(t, schema.Equals(testSchema))
}

func TestCollectExecutesPlan(t *testing.T) {
	var plan *remora.Plan
	plan = plan.Append(remora.Op{
		Kind: remora.OpKindFilter,
		Predicate: remora.Compare{
			Column: "score",
			Op:     remora.CompareGreater,
			Value:  remora.NewFloat64(2),
		},
	})
	plan = plan.Append(remora.Op{Kind: remora.OpKindHead, Count: 2})

	var d Driver
	out, err := d.Collect(testScan(t), plan)
	require.NoError(t, err)

	table := out.(*Table)
	require.Equal(t, 2, table.Rows())
	assert.Equal(t, []int64{2, 3}, table.data.Columns[0].Ints)
}

func TestCollectResolvesJoinSides(t *testing.T) {
	right := testScan(t)
	var rightPlan *remora.Plan
	rightPlan = rightPlan.Append(remora.Op{Kind: remora.OpKindHead, Count: 1})
	rightPlan = rightPlan.Append(remora.Op{Kind: remora.OpKindRename, Mapping: map[string]string{"score": "best"}})

	var plan *remora.Plan
	plan = plan.Append(remora.Op{
		Kind:      remora.OpKindJoin,
		JoinOn:    []string{"id"},
		JoinHow:   remora.JoinInner,
		JoinRight: &remora.JoinSide{Native: right, Plan: rightPlan},
	})

	var d Driver
	out, err := d.Collect(testScan(t), plan)
	require.NoError(t, err)

	table := out.(*Table)
	require.Equal(t, 1, table.Rows())
	assert.Equal(t, []string{"id", "score", "best"}, table.data.Schema.Names())
}

func TestUncollectedScanRefusesEagerUse(t *testing.T) {
	var d Driver
	scan := testScan(t)

	_, _, err := d.Materialize(scan)
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrOperationUnsupported)

	_, err = d.ExportExchange(scan)
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrOperationUnsupported)

	_, err = d.ContainsByValue(scan, "id", remora.NewInt64(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrOperationUnsupported)

	_, err = d.Apply(scan, remora.Op{Kind: remora.OpKindHead, Count: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrOperationUnsupported)
}

func TestCollectedTableBehavesEagerly(t *testing.T) {
	var d Driver
	out, err := d.Collect(testScan(t), nil)
	require.NoError(t, err)

	applied, err := d.Apply(out, remora.Op{Kind: remora.OpKindHead, Count: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, applied.(*Table).Rows())

	found, err := d.ContainsByValue(out, "id", remora.NewInt64(3))
	require.NoError(t, err)
	assert.True(t, found)

	exported, err := d.ExportExchange(out)
	require.NoError(t, err)
	assert.Len(t, exported, 2)
}
