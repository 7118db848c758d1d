// internal/app/store/docstore/snapshot.go
package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is the constraint for values held in a Snapshot. Clone must return
// a copy that shares no mutable state with the receiver.
type Record[T any] interface {
	Clone() T
}

// Snapshot is an id-keyed mapping of records that remembers insertion
// order. It is the in-memory form of one collection document.
//
// A Snapshot is not safe for concurrent use; handles give every caller its
// own copy.
type Snapshot[T Record[T]] struct {
	ids   []string
	items map[string]T
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot[T Record[T]]() *Snapshot[T] {
	return &Snapshot[T]{items: make(map[string]T)}
}

// Len returns the number of records.
func (s *Snapshot[T]) Len() int { return len(s.ids) }

// Has reports whether id is present.
func (s *Snapshot[T]) Has(id string) bool {
	_, ok := s.items[id]
	return ok
}

// Get returns the record stored under id.
func (s *Snapshot[T]) Get(id string) (T, bool) {
	v, ok := s.items[id]
	return v, ok
}

// Put stores v under id. A new id is appended to the order; an existing id
// keeps its position.
func (s *Snapshot[T]) Put(id string, v T) {
	if _, ok := s.items[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.items[id] = v
}

// Delete removes id and reports whether it was present.
func (s *Snapshot[T]) Delete(id string) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, k := range s.ids {
		if k == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

// IDs returns the ids in insertion order.
func (s *Snapshot[T]) IDs() []string {
	return append([]string(nil), s.ids...)
}

// All returns clones of every record in insertion order.
func (s *Snapshot[T]) All() []T {
	out := make([]T, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// Range calls fn for each record in insertion order until fn returns false.
func (s *Snapshot[T]) Range(fn func(id string, v T) bool) {
	for _, id := range s.ids {
		if !fn(id, s.items[id]) {
			return
		}
	}
}

// Clone returns a deep copy of s.
func (s *Snapshot[T]) Clone() *Snapshot[T] {
	out := &Snapshot[T]{
		ids:   append([]string(nil), s.ids...),
		items: make(map[string]T, len(s.items)),
	}
	for id, v := range s.items {
		out.items[id] = v.Clone()
	}
	return out
}

// MarshalJSON writes a JSON object whose keys follow insertion order.
func (s *Snapshot[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.items[id])
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the order of its keys.
// A JSON null yields an empty snapshot.
func (s *Snapshot[T]) UnmarshalJSON(b []byte) error {
	s.ids = nil
	s.items = make(map[string]T)

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v T
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("record %s: %w", id, err)
		}
		s.Put(id, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
