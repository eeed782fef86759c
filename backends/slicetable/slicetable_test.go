package slicetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/exchange"
)

var testSchema = remora.Schema{Fields: []remora.SchemaField{
	{Name: "id", Type: remora.Int64},
	{Name: "name", Type: remora.String, Nullable: true},
}}

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewBuilder(testSchema).
		AppendRow(remora.NewInt64(1), remora.NewString("alice")).
		AppendRow(remora.NewInt64(2), remora.NewNull(remora.String)).
		AppendRow(remora.NewInt64(3), remora.NewString("celine")).
		Build()
	require.NoError(t, err)
	return table
}

func TestNewPositionalLabels(t *testing.T) {
	table := testTable(t)
	require.Equal(t, 3, table.Rows())
	assert.Equal(t, []remora.Value{
		remora.NewInt64(0), remora.NewInt64(1), remora.NewInt64(2),
	}, table.Labels())
}

func TestNewValidation(t *testing.T) {
	ids := remora.NewColumn(remora.Int64, 0)
	require.NoError(t, ids.Append(remora.NewInt64(1)))

	_, err := New(testSchema, []remora.Column{ids})
	require.Error(t, err)

	names := remora.NewColumn(remora.String, 0)
	_, err = New(testSchema, []remora.Column{ids, names})
	require.Error(t, err)
}

func TestBuilderStickyError(t *testing.T) {
	_, err := NewBuilder(testSchema).
		AppendRow(remora.NewInt64(1)).
		AppendRow(remora.NewInt64(2), remora.NewString("bob")).
		Build()
	require.Error(t, err)

	// Null in a non-nullable column is refused too.
	_, err = NewBuilder(testSchema).
		AppendRow(remora.NewNull(remora.Int64), remora.NewString("bob")).
		Build()
	require.Error(t, err)
}

func TestDriverApply(t *testing.T) {
	var d Driver
	out, err := d.Apply(testTable(t), remora.Op{
		Kind: remora.OpKindFilter,
		Predicate: remora.Compare{
			Column: "id",
			Op:     remora.CompareGreaterEq,
			Value:  remora.NewInt64(2),
		},
	})
	require.NoError(t, err)

	result := out.(*Table)
	require.Equal(t, 2, result.Rows())
	// Derived tables get fresh positional labels.
	assert.Equal(t, []remora.Value{remora.NewInt64(0), remora.NewInt64(1)}, result.Labels())
}

func TestDriverJoinNeedsEagerRight(t *testing.T) {
	var d Driver
	_, err := d.Apply(testTable(t), remora.Op{
		Kind:      remora.OpKindJoin,
		JoinOn:    []string{"id"},
		JoinRight: &remora.JoinSide{Plan: (*remora.Plan)(nil).Append(remora.Op{Kind: remora.OpKindHead})},
	})
	require.Error(t, err)
}

func TestExchangeRoundtrip(t *testing.T) {
	var d Driver
	exported, err := d.ExportExchange(testTable(t))
	require.NoError(t, err)
	require.Len(t, exported, 2)
	assert.Equal(t, exchange.Host, exported[0].Values.Residency)

	imported, err := d.ImportExchange(exported)
	require.NoError(t, err)

	result := imported.(*Table)
	require.Equal(t, 3, result.Rows())
	schema, columns, err := d.Materialize(result)
	require.NoError(t, err)
	assert.True(t, schema.Equals(testSchema))
	assert.Equal(t, remora.NewString("alice"), columns[1].Value(0))
	assert.True(t, columns[1].Value(1).Null)
}

func TestImportRejectsDeviceBuffers(t *testing.T) {
	var d Driver
	_, err := d.ImportExchange([]exchange.Column{{
		Name:   "x",
		Type:   remora.Int64,
		Length: 1,
		Values: exchange.Buffer{Handle: 3, Residency: exchange.Device},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrResidencyMismatch)
}

func TestContainsConventionsDiverge(t *testing.T) {
	// Row labels 10, 20, 30 with id values 1, 2, 3: by-label and by-value
	// answers differ for the same probe.
	table, err := NewBuilder(testSchema).
		AppendLabeledRow(remora.NewInt64(10), remora.NewInt64(1), remora.NewString("a")).
		AppendLabeledRow(remora.NewInt64(20), remora.NewInt64(2), remora.NewString("b")).
		AppendLabeledRow(remora.NewInt64(30), remora.NewInt64(3), remora.NewString("c")).
		Build()
	require.NoError(t, err)

	var d Driver
	byValue, err := d.ContainsByValue(table, "id", remora.NewInt64(10))
	require.NoError(t, err)
	byLabel, err := d.ContainsByLabel(table, "id", remora.NewInt64(10))
	require.NoError(t, err)
	assert.False(t, byValue)
	assert.True(t, byLabel)

	byValue, err = d.ContainsByValue(table, "id", remora.NewInt64(3))
	require.NoError(t, err)
	byLabel, err = d.ContainsByLabel(table, "id", remora.NewInt64(3))
	require.NoError(t, err)
	assert.True(t, byValue)
	assert.False(t, byLabel)
}

func TestContainsUnknownColumn(t *testing.T) {
	var d Driver
	_, err := d.ContainsByValue(testTable(t), "salary", remora.NewInt64(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrColumnNotFound)
}
