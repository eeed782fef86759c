package engine

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

// Sort orders rows by the given keys. The sort is stable, so rows equal
// under all keys keep their input order; nulls sort first within each key.
func Sort(t Table, keys []remora.SortKey) (Table, error) {
	keyColumns := make([]remora.Column, len(keys))
	for i, key := range keys {
		col, err := t.column(key.Column)
		if err != nil {
			return Table{}, errors.Wrap(err, "couldn't resolve sort key")
		}
		keyColumns[i] = col
	}

	indices := make([]int, t.Rows())
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		for i, key := range keys {
			cmp := keyColumns[i].Value(indices[a]).Compare(keyColumns[i].Value(indices[b]))
			if cmp == 0 {
				continue
			}
			if key.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return t.take(indices), nil
}
