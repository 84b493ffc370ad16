// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strict

import (
	"iter"
	"slices"
)

// Set is an insertion ordered set with constant time membership.
// The zero value is an empty Set ready to use.
type Set[E comparable] struct {
	order   []E
	members map[E]struct{}
	msgs    messages
	opts    []Option
}

// NewSet returns an empty Set.
func NewSet[E comparable](opts ...Option) *Set[E] {
	return &Set[E]{
		members: make(map[E]struct{}),
		msgs:    newMessages(opts),
		opts:    opts,
	}
}

// SetOf returns a Set containing the given elements.
func SetOf[E comparable](elems []E, opts ...Option) (*Set[E], error) {
	s := NewSet[E](opts...)
	err := s.AddAll(elems...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Add inserts e into the set.
func (s *Set[E]) Add(e E) error {
	s.lazyInit()
	if s.Contains(e) {
		return s.msgs.duplicateError(e)
	}
	s.order = append(s.order, e)
	s.members[e] = struct{}{}
	return nil
}

// AddWeak is the non-failing form of [Set.Add].
func (s *Set[E]) AddWeak(e E) bool {
	return s.Add(e) == nil
}

// AddAll inserts every element or none of them.
func (s *Set[E]) AddAll(es ...E) error {
	err := validateBatch(es, s.Contains, s.msgs)
	if err != nil {
		return err
	}
	s.lazyInit()
	for _, e := range es {
		s.order = append(s.order, e)
		s.members[e] = struct{}{}
	}
	return nil
}

// SetAll replaces the contents of the set with es. If es contains
// duplicates the set is left unchanged.
func (s *Set[E]) SetAll(es []E) error {
	err := validateBatch(es, func(E) bool { return false }, s.msgs)
	if err != nil {
		return err
	}
	s.Clear()
	s.lazyInit()
	for _, e := range es {
		s.order = append(s.order, e)
		s.members[e] = struct{}{}
	}
	return nil
}

// Remove removes e from the set.
func (s *Set[E]) Remove(e E) error {
	if !s.Contains(e) {
		return s.msgs.notFoundError(e)
	}
	delete(s.members, e)
	i := slices.Index(s.order, e)
	s.order = slices.Delete(s.order, i, i+1)
	return nil
}

// RemoveWeak is the non-failing form of [Set.Remove].
func (s *Set[E]) RemoveWeak(e E) bool {
	return s.Remove(e) == nil
}

// Contains reports whether e is in the set.
func (s *Set[E]) Contains(e E) bool {
	_, ok := s.members[e]
	return ok
}

// Range returns a new Set holding the elements inserted at or after start.
func (s *Set[E]) Range(start int) (*Set[E], error) {
	if start < 0 || start > len(s.order) {
		return nil, IndexOutOfRangeError{Index: start, Len: len(s.order)}
	}
	sub := NewSet[E](s.opts...)
	for _, e := range s.order[start:] {
		sub.order = append(sub.order, e)
		sub.members[e] = struct{}{}
	}
	return sub, nil
}

func (s *Set[E]) lazyInit() {
	if s.members == nil {
		s.members = make(map[E]struct{})
	}
}

// Len returns the number of elements.
func (s *Set[E]) Len() int {
	return len(s.order)
}

// Clear removes every element.
func (s *Set[E]) Clear() {
	s.order = nil
	clear(s.members)
}

// Values returns a copy of the elements in insertion order.
func (s *Set[E]) Values() []E {
	return slices.Clone(s.order)
}

// All iterates the elements in insertion order.
func (s *Set[E]) All() iter.Seq[E] {
	return slices.Values(s.order)
}
