package message

import (
	"iter"
	"reflect"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// FieldMap is a string-keyed value mapping that preserves insertion order.
// It is the structured representation of a message payload and of one
// repeating-group occurrence.
//
// Values hold the decoded domain types described in the package
// documentation; a nil value represents a field that is present but empty on
// the wire.
type FieldMap struct {
	keys   []string
	values map[string]any
}

// NewFieldMap creates an empty field map.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]any)}
}

// Set stores a value under name. A new name is appended; an existing name
// keeps its position.
func (m *FieldMap) Set(name string, value any) {
	if _, exists := m.values[name]; !exists {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

// Get returns the value stored under name.
func (m *FieldMap) Get(name string) (any, bool) {
	value, ok := m.values[name]
	return value, ok
}

// Has reports whether name is present.
func (m *FieldMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Delete removes name and its value, preserving the order of the remainder.
func (m *FieldMap) Delete(name string) {
	if _, exists := m.values[name]; !exists {
		return
	}
	delete(m.values, name)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == name })
}

// Len returns the number of entries.
func (m *FieldMap) Len() int { return len(m.keys) }

// Keys returns the names in insertion order. The returned slice is cloned to
// prevent external modification.
func (m *FieldMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)

	return keys
}

// All iterates the entries in insertion order.
func (m *FieldMap) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}

// Equal reports whether two field maps hold the same entries, ignoring
// insertion order. Values compare by domain semantics: time.Time by
// time.Time.Equal, decimal.Decimal by decimal.Decimal.Equal, group
// occurrence lists element-wise, everything else by deep equality.
func (m *FieldMap) Equal(o *FieldMap) bool {
	if o == nil || len(m.keys) != len(o.keys) {
		return false
	}
	for name, value := range m.All() {
		other, ok := o.Get(name)
		if !ok || !valueEqual(value, other) {
			return false
		}
	}

	return true
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return ok && av.Equal(bv)
	case []*FieldMap:
		bv, ok := b.([]*FieldMap)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}

		return true
	case []string:
		bv, ok := b.([]string)
		return ok && slices.Equal(av, bv)
	default:
		return reflect.DeepEqual(a, b)
	}
}
