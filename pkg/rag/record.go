package rag

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a catalog record by its source shape.
type Kind string

const (
	KindLottery    Kind = "lottery"
	KindPacket     Kind = "packet"
	KindActiveDraw Kind = "active_draw"
)

// Field is one key/value pair of a record. Value may be a scalar, a nested
// Fields, or a list; order is preserved, which keeps the flattened text (and
// therefore the embedding) deterministic.
type Field struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

type Fields []Field

// CatalogRecord is a flattened, typed unit extracted from an upstream
// payload. Immutable once created; identity is positional within the index.
type CatalogRecord struct {
	Kind   Kind   `json:"kind"`
	Fields Fields `json:"fields"`
}

// Text serializes the record for embedding: "type: lottery, code: ..., ...".
func (r CatalogRecord) Text() string {
	parts := make([]string, 0, len(r.Fields)+1)
	parts = append(parts, "type: "+string(r.Kind))
	for _, f := range r.Fields {
		parts = append(parts, f.Key+": "+FlattenValue(f.Value))
	}
	return strings.Join(parts, ", ")
}

// FlattenValue renders an arbitrary tree as "key: value, key: value" text,
// recursing into nested structures and joining list elements with the same
// separator. Ordered Fields keep their natural order; loose maps are sorted
// by key so the output stays deterministic.
func FlattenValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case Fields:
		parts := make([]string, 0, len(val))
		for _, f := range val {
			parts = append(parts, f.Key+": "+FlattenValue(f.Value))
		}
		return strings.Join(parts, ", ")
	case []Field:
		return FlattenValue(Fields(val))
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+FlattenValue(val[k]))
		}
		return strings.Join(parts, ", ")
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, FlattenValue(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		// JSON numbers decode as float64; print integers without a fraction
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Value returns the field value for key, or nil. Used by the formatter and
// the response assembly, which treat records schema-on-read.
func (f Fields) Value(key string) interface{} {
	for _, field := range f {
		if field.Key == key {
			return field.Value
		}
	}
	return nil
}
