// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strict

import "iter"

// BiMap is a [Map] which also never holds two entries with the same value.
// It keeps a reverse index so entries can be found and removed by value.
// The zero value is an empty BiMap ready to use.
type BiMap[K, V comparable] struct {
	forward *Map[K, V]
	reverse map[V]K
	msgs    messages
}

// NewBiMap returns an empty BiMap.
func NewBiMap[K, V comparable](opts ...Option) *BiMap[K, V] {
	return &BiMap[K, V]{
		forward: NewMap[K, V](opts...),
		reverse: make(map[V]K),
		msgs:    newMessages(opts),
	}
}

// Put adds k => v. It fails if either k or v is already present.
func (m *BiMap[K, V]) Put(k K, v V) error {
	m.lazyInit()
	if m.forward.Has(k) {
		return m.msgs.duplicateError(k)
	}
	if _, ok := m.reverse[v]; ok {
		return m.msgs.duplicateError(v)
	}
	m.forward.keys = append(m.forward.keys, k)
	m.forward.entries[k] = v
	m.reverse[v] = k
	return nil
}

// PutWeak is the non-failing form of [BiMap.Put].
func (m *BiMap[K, V]) PutWeak(k K, v V) bool {
	return m.Put(k, v) == nil
}

// Override sets k => v unconditionally. The reverse entry of k's previous
// value is dropped, as is any other key which was mapped to v.
func (m *BiMap[K, V]) Override(k K, v V) {
	m.lazyInit()
	if old, ok := m.forward.Get(k); ok {
		delete(m.reverse, old)
	}
	if other, ok := m.reverse[v]; ok && other != k {
		m.forward.RemoveWeak(other)
	}
	m.forward.Override(k, v)
	m.reverse[v] = k
}

// Get returns the value stored for k.
func (m *BiMap[K, V]) Get(k K) (V, bool) {
	m.lazyInit()
	return m.forward.Get(k)
}

// GetKey returns the key which v is stored under.
func (m *BiMap[K, V]) GetKey(v V) (K, bool) {
	k, ok := m.reverse[v]
	return k, ok
}

// Has reports whether k is present.
func (m *BiMap[K, V]) Has(k K) bool {
	m.lazyInit()
	return m.forward.Has(k)
}

// HasValue reports whether v is present.
func (m *BiMap[K, V]) HasValue(v V) bool {
	_, ok := m.reverse[v]
	return ok
}

// Remove deletes the entry for k. It fails if k is absent.
func (m *BiMap[K, V]) Remove(k K) (V, error) {
	m.lazyInit()
	v, ok := m.forward.Get(k)
	if !ok {
		return v, m.msgs.notFoundError(k)
	}
	m.forward.RemoveWeak(k)
	delete(m.reverse, v)
	return v, nil
}

// RemoveWeak is the non-failing form of [BiMap.Remove].
func (m *BiMap[K, V]) RemoveWeak(k K) (V, bool) {
	v, err := m.Remove(k)
	return v, err == nil
}

// RemoveByValue deletes the entry holding v. It fails if v is absent.
func (m *BiMap[K, V]) RemoveByValue(v V) (K, error) {
	m.lazyInit()
	k, ok := m.reverse[v]
	if !ok {
		return k, m.msgs.notFoundError(v)
	}
	delete(m.reverse, v)
	m.forward.RemoveWeak(k)
	return k, nil
}

// RemoveByValueWeak is the non-failing form of [BiMap.RemoveByValue].
func (m *BiMap[K, V]) RemoveByValueWeak(v V) (K, bool) {
	k, err := m.RemoveByValue(v)
	return k, err == nil
}

// Len returns the number of entries.
func (m *BiMap[K, V]) Len() int {
	m.lazyInit()
	return m.forward.Len()
}

// Keys returns the keys in insertion order.
func (m *BiMap[K, V]) Keys() []K {
	m.lazyInit()
	return m.forward.Keys()
}

// All iterates the entries in insertion order.
func (m *BiMap[K, V]) All() iter.Seq2[K, V] {
	m.lazyInit()
	return m.forward.All()
}

// Clear removes every entry.
func (m *BiMap[K, V]) Clear() {
	m.lazyInit()
	m.forward.Clear()
	clear(m.reverse)
}

func (m *BiMap[K, V]) lazyInit() {
	if m.forward == nil {
		m.forward = NewMap[K, V]()
	}
	if m.reverse == nil {
		m.reverse = make(map[V]K)
	}
}
