// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strict

import (
	"iter"
	"slices"
)

// Map is an insertion ordered map which never holds two entries
// with the same key. The zero value is an empty Map ready to use.
type Map[K comparable, V any] struct {
	keys    []K
	entries map[K]V
	msgs    messages
	opts    []Option
}

// NewMap returns an empty Map.
func NewMap[K comparable, V any](opts ...Option) *Map[K, V] {
	return &Map[K, V]{
		entries: make(map[K]V),
		msgs:    newMessages(opts),
		opts:    opts,
	}
}

// Put adds the entry k => v. It fails if k is already present.
func (m *Map[K, V]) Put(k K, v V) error {
	if m.Has(k) {
		return m.msgs.duplicateError(k)
	}
	m.lazyInit()
	m.keys = append(m.keys, k)
	m.entries[k] = v
	return nil
}

// PutWeak is the non-failing form of [Map.Put].
func (m *Map[K, V]) PutWeak(k K, v V) bool {
	return m.Put(k, v) == nil
}

// PutAll adds every entry of other or none of them.
func (m *Map[K, V]) PutAll(other *Map[K, V]) error {
	for _, k := range other.keys {
		if m.Has(k) {
			return m.msgs.duplicateError(k)
		}
	}
	m.lazyInit()
	for _, k := range other.keys {
		m.keys = append(m.keys, k)
		m.entries[k] = other.entries[k]
	}
	return nil
}

// Override sets k => v regardless of whether k is present. An existing key
// keeps its position. The previous value is returned, if there was one.
func (m *Map[K, V]) Override(k K, v V) (V, bool) {
	m.lazyInit()
	old, ok := m.entries[k]
	if !ok {
		m.keys = append(m.keys, k)
	}
	m.entries[k] = v
	return old, ok
}

// Get returns the value stored for k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.entries[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.entries[k]
	return ok
}

// Remove deletes k and returns its value. It fails if k is absent.
func (m *Map[K, V]) Remove(k K) (V, error) {
	v, ok := m.entries[k]
	if !ok {
		return v, m.msgs.notFoundError(k)
	}
	delete(m.entries, k)
	i := slices.Index(m.keys, k)
	m.keys = slices.Delete(m.keys, i, i+1)
	return v, nil
}

// RemoveWeak is the non-failing form of [Map.Remove].
func (m *Map[K, V]) RemoveWeak(k K) (V, bool) {
	v, err := m.Remove(k)
	return v, err == nil
}

func (m *Map[K, V]) lazyInit() {
	if m.entries == nil {
		m.entries = make(map[K]V)
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// Values returns the values in key insertion order.
func (m *Map[K, V]) Values() []V {
	vs := make([]V, len(m.keys))
	for i, k := range m.keys {
		vs[i] = m.entries[k]
	}
	return vs
}

// All iterates the entries in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.entries[k]) {
				return
			}
		}
	}
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() {
	m.keys = nil
	clear(m.entries)
}

// Clone returns a shallow copy of m.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := NewMap[K, V](m.opts...)
	c.keys = slices.Clone(m.keys)
	for k, v := range m.entries {
		c.entries[k] = v
	}
	return c
}
