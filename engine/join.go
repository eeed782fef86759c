package engine

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

// Join hash-joins two tables on columns present in both. The output carries
// the left table's columns followed by the right table's non-key columns;
// left rows keep their input order. Null keys never match, on either join
// type; for a left join an unmatched left row is padded with nulls. These
// rules are the layer's normalized semantics, not any single backend's.
func Join(left, right Table, on []string, how remora.JoinType) (Table, error) {
	leftKeys := make([]remora.Column, len(on))
	rightKeys := make([]remora.Column, len(on))
	for i, name := range on {
		var err error
		if leftKeys[i], err = left.column(name); err != nil {
			return Table{}, errors.Wrap(err, "couldn't resolve join key on left side")
		}
		if rightKeys[i], err = right.column(name); err != nil {
			return Table{}, errors.Wrap(err, "couldn't resolve join key on right side")
		}
	}

	hashtable := map[string][]int{}
	for row := 0; row < right.Rows(); row++ {
		if anyKeyNull(rightKeys, row) {
			continue
		}
		key := encodeGroupKey(rightKeys, row)
		hashtable[key] = append(hashtable[key], row)
	}

	var leftIndices []int
	var rightIndices []int // -1 pads with nulls
	for row := 0; row < left.Rows(); row++ {
		if anyKeyNull(leftKeys, row) {
			if how == remora.JoinLeft {
				leftIndices = append(leftIndices, row)
				rightIndices = append(rightIndices, -1)
			}
			continue
		}
		matches := hashtable[encodeGroupKey(leftKeys, row)]
		if len(matches) == 0 {
			if how == remora.JoinLeft {
				leftIndices = append(leftIndices, row)
				rightIndices = append(rightIndices, -1)
			}
			continue
		}
		for _, match := range matches {
			leftIndices = append(leftIndices, row)
			rightIndices = append(rightIndices, match)
		}
	}

	out := left.take(leftIndices)
	isKey := make(map[string]bool, len(on))
	for _, name := range on {
		isKey[name] = true
	}
	taken := make(map[string]bool, len(out.Schema.Fields))
	for _, field := range out.Schema.Fields {
		taken[field.Name] = true
	}
	for i, field := range right.Schema.Fields {
		if isKey[field.Name] {
			continue
		}
		outField := field
		if taken[outField.Name] {
			// Output names stay unique; a colliding right-side column gets
			// a suffix.
			outField.Name = field.Name + "_right"
			if taken[outField.Name] {
				return Table{}, errors.Errorf(
					"couldn't join: output already has both %q and %q", field.Name, outField.Name)
			}
		}
		taken[outField.Name] = true
		if how == remora.JoinLeft {
			outField.Nullable = true
		}
		col := remora.NewColumn(field.Type, len(rightIndices))
		for _, rightRow := range rightIndices {
			var v remora.Value
			if rightRow == -1 {
				v = remora.NewNull(field.Type)
			} else {
				v = right.Columns[i].Value(rightRow)
			}
			if err := col.Append(v); err != nil {
				return Table{}, err
			}
		}
		out.Schema.Fields = append(out.Schema.Fields, outField)
		out.Columns = append(out.Columns, col)
	}
	return out, nil
}

func anyKeyNull(keys []remora.Column, row int) bool {
	for i := range keys {
		if !keys[i].IsValid(row) {
			return true
		}
	}
	return false
}
