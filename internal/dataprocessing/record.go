package dataprocessing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one header/value pair of a Record
type Field struct {
	Key   string
	Value Value
}

// Record is one extracted row: header keys in insertion order, each mapped
// to a normalized value. Setting an existing key replaces its value in place.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord returns an empty record sized for n fields
func NewRecord(n int) Record {
	return Record{
		fields: make([]Field, 0, n),
		index:  make(map[string]int, n),
	}
}

// RecordOf builds a record from fields in order
func RecordOf(fields ...Field) Record {
	r := NewRecord(len(fields))
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Set assigns key, keeping the position of its first insertion
func (r *Record) Set(key string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: v})
}

// Get looks a key up
func (r Record) Get(key string) (Value, bool) {
	i, ok := r.index[key]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].Value, true
}

// Len returns the number of keys
func (r Record) Len() int { return len(r.fields) }

// Keys returns the keys in insertion order
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the ordered fields
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Equal compares keys, order and values
func (r Record) Equal(o Record) bool {
	if len(r.fields) != len(o.fields) {
		return false
	}
	for i, f := range r.fields {
		if f.Key != o.fields[i].Key || !f.Value.Equal(o.fields[i].Value) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the record as a JSON object preserving key order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the document's key order
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	out := NewRecord(8)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		out.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}
