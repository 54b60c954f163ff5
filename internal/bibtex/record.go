// Package bibtex parses bibliography files into publication records and
// renders records back into citation text.
package bibtex

import (
	"bytes"
	"encoding/json"
)

// Field names captured from the entry header rather than the entry body.
const (
	FieldID        = "id"
	FieldEntryType = "entryType"
)

// Field is a single name/value pair of a record.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is one bibliography entry: field names mapped to string values,
// iterated in first-insertion order.
type Record struct {
	order  []string
	values map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// RecordFromFields builds a record from fields in the given order.
func RecordFromFields(fields []Field) *Record {
	r := NewRecord()
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Set stores a value. Overwriting an existing name keeps its original position.
func (r *Record) Set(name, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[name]; !ok {
		r.order = append(r.order, name)
	}
	r.values[name] = value
}

// Lookup returns the value for name and whether it is present.
func (r *Record) Lookup(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Get returns the value for name, or "" if absent.
func (r *Record) Get(name string) string {
	return r.values[name]
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.order)
}

// Fields returns all fields in insertion order.
func (r *Record) Fields() []Field {
	fields := make([]Field, 0, len(r.order))
	for _, name := range r.order {
		fields = append(fields, Field{Name: name, Value: r.values[name]})
	}
	return fields
}

// ID returns the citation key.
func (r *Record) ID() string { return r.values[FieldID] }

// EntryType returns the entry category from the header.
func (r *Record) EntryType() string { return r.values[FieldEntryType] }

// Title returns the (title-cased) title.
func (r *Record) Title() string { return r.values["title"] }

// Year returns the leading integer of the year field, or 0 when the field
// is absent or does not start with a number.
func (r *Record) Year() int {
	return leadingInt(r.values["year"])
}

// MarshalJSON encodes the record as a JSON object with keys in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// leadingInt parses an optionally signed run of leading digits after
// whitespace, stopping at the first non-digit.
func leadingInt(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<31 {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}
