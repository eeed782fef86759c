// Package devtable is an eager, device-resident backend. Column buffers
// live in a device arena and are referenced by opaque handles; the exchange
// protocol exposes them with Device residency, so host-resident consumers
// that try to adopt them fail with a residency mismatch instead of silently
// reading memory they can't address. Moving data across the host/device
// boundary is always an explicit copy (Upload / Materialize).
//
// The arena is an in-process simulation. The point of the backend is the
// residency contract, not the device: a real accelerator-backed table would
// swap the arena for driver allocations and keep every signature.
package devtable

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/exchange"
)

// arena is the process-wide simulated device memory.
var arena = struct {
	mu   sync.Mutex
	next uint64
	bufs map[uint64][]byte
}{
	bufs: map[uint64][]byte{},
}

func arenaAlloc(b []byte) uint64 {
	arena.mu.Lock()
	defer arena.mu.Unlock()
	arena.next++
	handle := arena.next
	arena.bufs[handle] = b
	return handle
}

func arenaRead(handle uint64) ([]byte, error) {
	arena.mu.Lock()
	defer arena.mu.Unlock()
	b, ok := arena.bufs[handle]
	if !ok {
		return nil, errors.Errorf("dangling device buffer handle %d", handle)
	}
	return b, nil
}

type deviceColumn struct {
	values   uint64
	offsets  uint64 // 0 when absent
	validity uint64 // 0 when absent
	length   int
}

type Table struct {
	schema  remora.Schema
	columns []deviceColumn
	rows    int
}

func (t *Table) Schema() remora.Schema {
	return t.schema
}

func (t *Table) Rows() int {
	return t.rows
}

// Upload copies generic columns into the device arena.
func Upload(schema remora.Schema, columns []remora.Column) (*Table, error) {
	if len(schema.Fields) != len(columns) {
		return nil, errors.Errorf("schema has %d fields but got %d columns", len(schema.Fields), len(columns))
	}
	t := &Table{schema: schema}
	if len(columns) > 0 {
		t.rows = columns[0].Len()
	}
	for i, field := range schema.Fields {
		hostCol, err := exchange.Encode(field.Name, columns[i], field.Nullable)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't upload column %q", field.Name)
		}
		devCol := deviceColumn{length: hostCol.Length}
		devCol.values = arenaAlloc(append([]byte(nil), hostCol.Values.Bytes...))
		if hostCol.Offsets != nil {
			devCol.offsets = arenaAlloc(append([]byte(nil), hostCol.Offsets.Bytes...))
		}
		if hostCol.Validity != nil {
			devCol.validity = arenaAlloc(append([]byte(nil), hostCol.Validity.Bytes...))
		}
		t.columns = append(t.columns, devCol)
	}
	return t, nil
}

// download copies one column back to the host.
func (t *Table) download(i int) (remora.Column, error) {
	field := t.schema.Fields[i]
	devCol := t.columns[i]
	values, err := arenaRead(devCol.values)
	if err != nil {
		return remora.Column{}, err
	}
	hostCol := exchange.Column{
		Name:     field.Name,
		Type:     field.Type,
		Nullable: field.Nullable,
		Length:   devCol.length,
		Values:   exchange.Buffer{Bytes: values},
	}
	if devCol.offsets != 0 {
		offsets, err := arenaRead(devCol.offsets)
		if err != nil {
			return remora.Column{}, err
		}
		hostCol.Offsets = &exchange.Buffer{Bytes: offsets}
	}
	if devCol.validity != 0 {
		validity, err := arenaRead(devCol.validity)
		if err != nil {
			return remora.Column{}, err
		}
		hostCol.Validity = &exchange.Buffer{Bytes: validity}
	}
	return exchange.Decode(hostCol)
}
