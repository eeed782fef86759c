package ingest

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/valyala/fastjson"

	"github.com/remora-data/remora"
)

const inferenceRowLimit = 100

// ReadJSONLines reads a newline-delimited JSON file into host columns.
// The schema is inferred from the first hundred objects; fields that are
// missing or null in any sampled object become nullable.
func ReadJSONLines(path string) (remora.Schema, []remora.Column, error) {
	schema, err := inferJSONSchema(path)
	if err != nil {
		return remora.Schema{}, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return remora.Schema{}, nil, fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	columns := make([]remora.Column, len(schema.Fields))
	for i := range columns {
		columns[i].Type = schema.Fields[i].Type
	}

	sc := bufio.NewScanner(bufio.NewReaderSize(f, 4096*1024))
	sc.Buffer(nil, 1024*1024)

	var p fastjson.Parser
	for sc.Scan() {
		v, err := p.ParseBytes(sc.Bytes())
		if err != nil {
			return remora.Schema{}, nil, fmt.Errorf("couldn't parse json: %w", err)
		}
		o, err := v.Object()
		if err != nil {
			return remora.Schema{}, nil, fmt.Errorf("expected JSON object, got '%s'", sc.Text())
		}

		for i := range schema.Fields {
			value, ok := jsonValue(schema.Fields[i].Type, o.Get(schema.Fields[i].Name))
			if !ok {
				value = remora.NewNull(schema.Fields[i].Type)
			}
			if err := columns[i].Append(value); err != nil {
				return remora.Schema{}, nil, fmt.Errorf("couldn't append value for field %s: %w", schema.Fields[i].Name, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return remora.Schema{}, nil, fmt.Errorf("couldn't scan lines: %w", err)
	}

	return schema, columns, nil
}

func inferJSONSchema(path string) (remora.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return remora.Schema{}, fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	types := make(map[string]remora.Type)
	nullable := make(map[string]bool)

	sc := bufio.NewScanner(bufio.NewReaderSize(f, 4096*1024))
	sc.Buffer(nil, 1024*1024)

	var p fastjson.Parser
	rows := 0
	for sc.Scan() && rows < inferenceRowLimit {
		rows++
		v, err := p.ParseBytes(sc.Bytes())
		if err != nil {
			return remora.Schema{}, fmt.Errorf("couldn't parse json: %w", err)
		}
		o, err := v.Object()
		if err != nil {
			return remora.Schema{}, fmt.Errorf("expected JSON object, got '%s'", sc.Text())
		}

		seen := make(map[string]bool)
		o.Visit(func(key []byte, v *fastjson.Value) {
			seen[string(key)] = true
			t, isNull := jsonType(v)
			if isNull {
				nullable[string(key)] = true
				return
			}
			if prev, ok := types[string(key)]; ok {
				types[string(key)] = widen(prev, t)
			} else {
				types[string(key)] = t
				if rows > 1 {
					// Field appeared after the first row, so earlier rows lack it.
					nullable[string(key)] = true
				}
			}
		})
		for name := range types {
			if !seen[name] {
				nullable[name] = true
			}
		}
	}
	if err := sc.Err(); err != nil {
		return remora.Schema{}, fmt.Errorf("couldn't scan lines: %w", err)
	}

	fields := make([]remora.SchemaField, 0, len(types))
	for name, t := range types {
		fields = append(fields, remora.SchemaField{
			Name:     name,
			Type:     t,
			Nullable: nullable[name],
		})
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})

	return remora.Schema{Fields: fields}, nil
}

func jsonType(v *fastjson.Value) (t remora.Type, isNull bool) {
	switch v.Type() {
	case fastjson.TypeNull:
		return remora.Type{}, true
	case fastjson.TypeNumber:
		if f, err := v.Float64(); err == nil && f == float64(int64(f)) {
			return remora.Int64, false
		}
		return remora.Float64, false
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return remora.Boolean, false
	case fastjson.TypeString:
		s, _ := v.StringBytes()
		if _, err := time.Parse(time.RFC3339Nano, string(s)); err == nil {
			return remora.Time, false
		}
		return remora.String, false
	default:
		return remora.String, false
	}
}

// widen merges the types seen for one field across sampled rows. Int64
// widens to Float64; any other disagreement falls back to String.
func widen(a, b remora.Type) remora.Type {
	if a.Equals(b) {
		return a
	}
	if a.TypeID == remora.TypeIDInt64 && b.TypeID == remora.TypeIDFloat64 {
		return remora.Float64
	}
	if a.TypeID == remora.TypeIDFloat64 && b.TypeID == remora.TypeIDInt64 {
		return remora.Float64
	}
	return remora.String
}

func jsonValue(t remora.Type, v *fastjson.Value) (remora.Value, bool) {
	if v == nil || v.Type() == fastjson.TypeNull {
		return remora.NewNull(t), false
	}

	switch t.TypeID {
	case remora.TypeIDInt64:
		if v.Type() == fastjson.TypeNumber {
			i, _ := v.Int64()
			return remora.NewInt64(i), true
		}
	case remora.TypeIDFloat64:
		if v.Type() == fastjson.TypeNumber {
			f, _ := v.Float64()
			return remora.NewFloat64(f), true
		}
	case remora.TypeIDBoolean:
		if v.Type() == fastjson.TypeTrue {
			return remora.NewBoolean(true), true
		} else if v.Type() == fastjson.TypeFalse {
			return remora.NewBoolean(false), true
		}
	case remora.TypeIDString:
		if v.Type() == fastjson.TypeString {
			s, _ := v.StringBytes()
			return remora.NewString(string(s)), true
		}
	case remora.TypeIDTime:
		if v.Type() == fastjson.TypeString {
			s, _ := v.StringBytes()
			if parsed, err := time.Parse(time.RFC3339Nano, string(s)); err == nil {
				return remora.NewTime(parsed), true
			}
		}
	}
	return remora.NewNull(t), false
}
