package remora

import (
	"fmt"
	"strings"
)

type SchemaField struct {
	Name     string
	Type     Type
	Nullable bool
}

// Schema describes the columns of a frame. Field names are unique within a
// schema.
type Schema struct {
	Fields []SchemaField
}

func NewSchema(fields ...SchemaField) Schema {
	return Schema{Fields: fields}
}

// FieldIndex returns the position of the named field, or -1.
func (s Schema) FieldIndex(name string) int {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i := range s.Fields {
		names[i] = s.Fields[i].Name
	}
	return names
}

func (s Schema) Equals(other Schema) bool {
	if len(s.Fields) != len(other.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i].Name != other.Fields[i].Name ||
			s.Fields[i].Nullable != other.Fields[i].Nullable ||
			!s.Fields[i].Type.Equals(other.Fields[i].Type) {
			return false
		}
	}
	return true
}

func (s Schema) String() string {
	fieldStrings := make([]string, len(s.Fields))
	for i, field := range s.Fields {
		nullable := ""
		if field.Nullable {
			nullable = "?"
		}
		fieldStrings[i] = fmt.Sprintf("%s: %s%s", field.Name, field.Type, nullable)
	}
	return fmt.Sprintf("{%s}", strings.Join(fieldStrings, "; "))
}
