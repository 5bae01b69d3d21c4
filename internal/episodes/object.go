// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package episodes

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// member is one key/value pair of an Object. Value holds the raw JSON
// exactly as decoded.
type member struct {
	Key   string
	Value json.RawMessage
}

// Object is a JSON object that keeps its members in document order, so
// fields this tool does not know about survive a load/save cycle untouched.
type Object struct {
	members []member
}

// Keys returns the member names in document order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Raw returns the raw JSON value stored under key.
func (o *Object) Raw(key string) (json.RawMessage, bool) {
	for _, m := range o.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Raw(key)
	return ok
}

// Get decodes the value under key into v. It reports false when the key
// is absent.
func (o *Object) Get(key string, v any) (bool, error) {
	raw, ok := o.Raw(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

// SetRaw stores value under key. An existing key keeps its position;
// a new key is appended.
func (o *Object) SetRaw(key string, value json.RawMessage) {
	for i := range o.members {
		if o.members[i].Key == key {
			o.members[i].Value = value
			return
		}
	}
	o.members = append(o.members, member{Key: key, Value: value})
}

// Set encodes v and stores it under key (see SetRaw for ordering).
func (o *Object) Set(key string, v any) error {
	raw, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	o.SetRaw(key, raw)
	return nil
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	for i := range o.members {
		if o.members[i].Key == key {
			o.members = append(o.members[:i], o.members[i+1:]...)
			return
		}
	}
}

// UnmarshalJSON decodes a JSON object, recording member order. A repeated
// key keeps its first position and its last value.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	o.members = o.members[:0]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding value for %q: %w", key, err)
		}
		o.SetRaw(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the members in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeValue(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(m.Value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(m.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeValue marshals v without HTML escaping and without the trailing
// newline json.Encoder appends.
func encodeValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
