package engine

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

// Unique keeps the first row of every distinct combination of the subset
// columns. An empty subset deduplicates over all columns.
func Unique(t Table, subset []string) (Table, error) {
	if len(subset) == 0 {
		subset = t.Schema.Names()
	}
	columns := make([]remora.Column, len(subset))
	for i, name := range subset {
		col, err := t.column(name)
		if err != nil {
			return Table{}, errors.Wrap(err, "couldn't resolve unique subset")
		}
		columns[i] = col
	}

	seen := map[string]bool{}
	var indices []int
	for row := 0; row < t.Rows(); row++ {
		key := encodeGroupKey(columns, row)
		if seen[key] {
			continue
		}
		seen[key] = true
		indices = append(indices, row)
	}
	return t.take(indices), nil
}
