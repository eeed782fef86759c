package backend

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remora-data/remora"
)

type stubDriver struct {
	identity Identity
}

func (d stubDriver) Identity() Identity         { return d.identity }
func (d stubDriver) Capabilities() Capabilities { return NewCapabilities(ContainsByValueConvention, nil) }
func (d stubDriver) NewTable(schema remora.Schema, columns []remora.Column) (any, error) {
	return nil, remora.ErrOperationUnsupported
}
func (d stubDriver) Materialize(native any) (remora.Schema, []remora.Column, error) {
	return remora.Schema{}, nil, remora.ErrOperationUnsupported
}
func (d stubDriver) Schema(native any) (remora.Schema, error) {
	return remora.Schema{}, remora.ErrOperationUnsupported
}
func (d stubDriver) Rows(native any) (int, error) { return 0, remora.ErrOperationUnsupported }

func TestRegisterAndGet(t *testing.T) {
	d := stubDriver{identity: Identity{Kind: KindSliceTable, Version: "0.1.0"}}
	require.NoError(t, Register(d))

	got, err := Get(KindSliceTable)
	require.NoError(t, err)
	assert.Equal(t, KindSliceTable, got.Identity().Kind)

	assert.Contains(t, Kinds(), KindSliceTable)
}

func TestRegisterDuplicateFails(t *testing.T) {
	d := stubDriver{identity: Identity{Kind: KindDevTable, Version: "0.1.0"}}
	require.NoError(t, Register(d))

	err := Register(d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, remora.ErrDuplicateBackend))
}

func TestRegisterIncompatibleVersionFails(t *testing.T) {
	err := Register(stubDriver{identity: Identity{Kind: KindArrowTable, Version: "0.9.0"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, remora.ErrIncompatibleVersion))

	err = Register(stubDriver{identity: Identity{Kind: KindArrowTable, Version: "not-a-version"}})
	require.Error(t, err)
}

func TestRegisterInvalidKindFails(t *testing.T) {
	err := Register(stubDriver{identity: Identity{Kind: KindInvalid, Version: "0.1.0"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, remora.ErrUnsupportedBackend))
}

func TestGetUnknownKindFails(t *testing.T) {
	_, err := Get(KindLazyTable)
	require.Error(t, err)
	assert.True(t, errors.Is(err, remora.ErrUnsupportedBackend))

	_, err = Describe(KindLazyTable)
	require.Error(t, err)
}

func TestKindFromString(t *testing.T) {
	kind, ok := KindFromString("arrowtable")
	assert.True(t, ok)
	assert.Equal(t, KindArrowTable, kind)

	_, ok = KindFromString("sometable")
	assert.False(t, ok)
}
