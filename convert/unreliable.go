package convert

import (
	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
)

type unreliablePair struct {
	source backend.Kind
	target backend.Kind
	typeID remora.TypeID
}

// knownUnreliable lists (source, target, type) combinations whose
// conversion is historically known to lose or distort information — the
// arrow-backed representation has no faithful categorical encoding, so
// dictionaries degrade to plain strings in either direction. Strict mode
// fails fast on these; lenient mode proceeds and logs.
var knownUnreliable = map[unreliablePair]string{
	{backend.KindSliceTable, backend.KindArrowTable, remora.TypeIDCategorical}: "categorical dictionaries degrade to plain strings",
	{backend.KindLazyTable, backend.KindArrowTable, remora.TypeIDCategorical}:  "categorical dictionaries degrade to plain strings",
	{backend.KindDevTable, backend.KindArrowTable, remora.TypeIDCategorical}:   "categorical dictionaries degrade to plain strings",
	{backend.KindArrowTable, backend.KindSliceTable, remora.TypeIDCategorical}: "categorical dictionaries can't be reconstructed from strings",
	{backend.KindArrowTable, backend.KindDevTable, remora.TypeIDCategorical}:   "categorical dictionaries can't be reconstructed from strings",
	{backend.KindArrowTable, backend.KindLazyTable, remora.TypeIDCategorical}:  "categorical dictionaries can't be reconstructed from strings",
}

func unreliableReason(source, target backend.Kind, schema remora.Schema) (string, remora.Type, bool) {
	for _, field := range schema.Fields {
		if reason, ok := knownUnreliable[unreliablePair{source, target, field.Type.TypeID}]; ok {
			return reason, field.Type, true
		}
	}
	return "", remora.Type{}, false
}
