// backend/src/models/record.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldSchema is the ordered list of header names of an uploaded table.
// Its order defines the column position of every subsequent row.
type FieldSchema []string

// Record is one parsed row: a header-keyed string mapping that remembers
// the order in which its keys were first set.
type Record struct {
	keys   []string
	values map[string]string
}

// DerivedRecord is a Record augmented with calculator output fields.
type DerivedRecord = Record

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set assigns value to key. A new key is appended after the existing ones;
// an existing key keeps its position.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the key is present.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, or "" when the key is absent.
func (r *Record) Value(key string) string {
	return r.values[key]
}

// Float reads key as a number. Absent, empty, non-numeric and non-finite
// values read as 0.
func (r *Record) Float(key string) float64 {
	v, ok := r.values[key]
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.keys) }

// Clone returns an independent copy, so calculators never touch their input.
func (r *Record) Clone() *Record {
	c := &Record{
		keys:   make([]string, len(r.keys), len(r.keys)+4),
		values: make(map[string]string, len(r.values)+4),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON writes the record as a flat JSON object in key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat JSON object of strings, keeping document order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record: expected JSON object, got %v", tok)
	}
	r.keys = nil
	r.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record: unexpected key token %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record: field %q: %w", key, err)
		}
		r.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

// Table is a parsed upload: its schema and rows in input order.
type Table struct {
	Schema  FieldSchema
	Records []*Record
}

// NewTable creates a table for the given header row. Header names are trimmed.
func NewTable(header []string) *Table {
	schema := make(FieldSchema, len(header))
	for i, h := range header {
		schema[i] = strings.TrimSpace(h)
	}
	return &Table{Schema: schema}
}

// AppendRow maps values onto the schema by position. Values are trimmed.
// A short row leaves its trailing fields absent; surplus values are dropped.
func (t *Table) AppendRow(values []string) {
	rec := NewRecord()
	for i, name := range t.Schema {
		if i >= len(values) {
			break
		}
		rec.Set(name, strings.TrimSpace(values[i]))
	}
	t.Records = append(t.Records, rec)
}
