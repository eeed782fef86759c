package devtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/exchange"
)

var testSchema = remora.Schema{Fields: []remora.SchemaField{
	{Name: "id", Type: remora.Int64},
	{Name: "tag", Type: remora.String, Nullable: true},
}}

func testColumns(t *testing.T) []remora.Column {
	t.Helper()
	ids := remora.NewColumn(remora.Int64, 0)
	tags := remora.NewColumn(remora.String, 0)
	require.NoError(t, ids.Append(remora.NewInt64(7)))
	require.NoError(t, ids.Append(remora.NewInt64(8)))
	require.NoError(t, tags.Append(remora.NewString("x")))
	require.NoError(t, tags.Append(remora.NewNull(remora.String)))
	return []remora.Column{ids, tags}
}

func TestUploadDownloadRoundtrip(t *testing.T) {
	table, err := Upload(testSchema, testColumns(t))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Rows())

	var d Driver
	schema, columns, err := d.Materialize(table)
	require.NoError(t, err)
	assert.True(t, schema.Equals(testSchema))

	source := testColumns(t)
	for i := range columns {
		assert.True(t, columns[i].EqualData(source[i]), "column %q", schema.Fields[i].Name)
	}
}

func TestUploadCopies(t *testing.T) {
	columns := testColumns(t)
	table, err := Upload(testSchema, columns)
	require.NoError(t, err)

	// Mutating the host column after upload must not reach the device.
	columns[0].Ints[0] = 999

	var d Driver
	_, downloaded, err := d.Materialize(table)
	require.NoError(t, err)
	assert.Equal(t, int64(7), downloaded[0].Ints[0])
}

func TestExportIsDeviceResident(t *testing.T) {
	table, err := Upload(testSchema, testColumns(t))
	require.NoError(t, err)

	var d Driver
	exported, err := d.ExportExchange(table)
	require.NoError(t, err)
	require.Len(t, exported, 2)
	assert.Equal(t, exchange.Device, exported[0].Values.Residency)
	assert.Nil(t, exported[0].Values.Bytes)
	assert.NotZero(t, exported[0].Values.Handle)
	require.NotNil(t, exported[1].Offsets)
	assert.Equal(t, exchange.Device, exported[1].Offsets.Residency)
}

func TestImportAdoptsDeviceHandles(t *testing.T) {
	table, err := Upload(testSchema, testColumns(t))
	require.NoError(t, err)

	var d Driver
	exported, err := d.ExportExchange(table)
	require.NoError(t, err)

	imported, err := d.ImportExchange(exported)
	require.NoError(t, err)

	// The import shares the exporter's arena buffers.
	result := imported.(*Table)
	assert.Equal(t, table.columns[0].values, result.columns[0].values)

	_, columns, err := d.Materialize(result)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, columns[0].Ints)
}

func TestImportRejectsHostBuffers(t *testing.T) {
	hostCol := remora.NewColumn(remora.Int64, 0)
	require.NoError(t, hostCol.Append(remora.NewInt64(1)))
	encoded, err := exchange.Encode("id", hostCol, false)
	require.NoError(t, err)

	var d Driver
	_, err = d.ImportExchange([]exchange.Column{encoded})
	require.Error(t, err)
	assert.ErrorIs(t, err, remora.ErrResidencyMismatch)
}

func TestUploadValidatesShape(t *testing.T) {
	_, err := Upload(testSchema, nil)
	require.Error(t, err)
}
