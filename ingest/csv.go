package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/remora-data/remora"
)

// ReadCSV reads a comma-separated file with a header row into host columns.
// Column types are inferred from the first hundred data rows; empty cells
// are nulls and make the column nullable.
func ReadCSV(path string) (remora.Schema, []remora.Column, error) {
	schema, err := inferCSVSchema(path)
	if err != nil {
		return remora.Schema{}, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return remora.Schema{}, nil, fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	decoder := csv.NewReader(bufio.NewReaderSize(f, 4096*1024))
	decoder.Comma = ','
	decoder.ReuseRecord = true
	if _, err := decoder.Read(); err != nil {
		return remora.Schema{}, nil, fmt.Errorf("couldn't decode csv header row: %w", err)
	}

	columns := make([]remora.Column, len(schema.Fields))
	for i := range columns {
		columns[i].Type = schema.Fields[i].Type
	}

	for {
		row, err := decoder.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return remora.Schema{}, nil, fmt.Errorf("couldn't decode csv row: %w", err)
		}
		if len(row) != len(schema.Fields) {
			return remora.Schema{}, nil, fmt.Errorf("expected %d cells, got %d", len(schema.Fields), len(row))
		}
		for i := range row {
			columns[i].Append(csvValue(schema.Fields[i].Type, row[i]))
		}
	}

	return schema, columns, nil
}

func inferCSVSchema(path string) (remora.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return remora.Schema{}, fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	decoder := csv.NewReader(bufio.NewReaderSize(f, 4096*1024))
	decoder.Comma = ','
	header, err := decoder.Read()
	if err != nil {
		return remora.Schema{}, fmt.Errorf("couldn't decode csv header row: %w", err)
	}

	types := make([]remora.Type, len(header))
	nullable := make([]bool, len(header))

	rows := 0
	for rows < inferenceRowLimit {
		row, err := decoder.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return remora.Schema{}, fmt.Errorf("couldn't decode csv row: %w", err)
		}
		rows++
		if len(row) != len(header) {
			return remora.Schema{}, fmt.Errorf("expected %d cells, got %d", len(header), len(row))
		}
		for i := range row {
			if row[i] == "" {
				nullable[i] = true
				continue
			}
			t := csvCellType(row[i])
			if types[i].TypeID == remora.TypeIDInvalid {
				types[i] = t
			} else {
				types[i] = widen(types[i], t)
			}
		}
	}

	fields := make([]remora.SchemaField, len(header))
	for i := range header {
		t := types[i]
		if t.TypeID == remora.TypeIDInvalid {
			t = remora.String
		}
		fields[i] = remora.SchemaField{
			Name:     header[i],
			Type:     t,
			Nullable: nullable[i],
		}
	}

	return remora.Schema{Fields: fields}, nil
}

func csvCellType(str string) remora.Type {
	if _, err := strconv.ParseInt(str, 10, 64); err == nil {
		return remora.Int64
	}
	if _, err := strconv.ParseFloat(str, 64); err == nil {
		return remora.Float64
	}
	if _, err := strconv.ParseBool(str); err == nil {
		return remora.Boolean
	}
	if _, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return remora.Time
	}
	return remora.String
}

func csvValue(t remora.Type, str string) remora.Value {
	if str == "" {
		return remora.NewNull(t)
	}

	switch t.TypeID {
	case remora.TypeIDInt64:
		if v, err := strconv.ParseInt(str, 10, 64); err == nil {
			return remora.NewInt64(v)
		}
	case remora.TypeIDFloat64:
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			return remora.NewFloat64(v)
		}
	case remora.TypeIDBoolean:
		if v, err := strconv.ParseBool(str); err == nil {
			return remora.NewBoolean(v)
		}
	case remora.TypeIDTime:
		if v, err := time.Parse(time.RFC3339Nano, str); err == nil {
			return remora.NewTime(v)
		}
	case remora.TypeIDString:
		return remora.NewString(str)
	}
	return remora.NewNull(t)
}
