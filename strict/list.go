// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strict

import (
	"iter"
	"slices"
)

// List is an insertion ordered collection of unique elements.
// Membership checks are linear, see [Set] for constant time membership.
type List[E comparable] struct {
	elems []E
	msgs  messages
	opts  []Option
}

// NewList returns an empty List.
func NewList[E comparable](opts ...Option) *List[E] {
	return &List[E]{
		msgs: newMessages(opts),
		opts: opts,
	}
}

// ListOf returns a List containing the given elements in order.
func ListOf[E comparable](elems []E, opts ...Option) (*List[E], error) {
	l := NewList[E](opts...)
	err := l.AddAll(elems...)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Add appends e to the end of the list.
func (l *List[E]) Add(e E) error {
	if l.Contains(e) {
		return l.msgs.duplicateError(e)
	}
	l.elems = append(l.elems, e)
	return nil
}

// AddWeak is the non-failing form of [List.Add].
func (l *List[E]) AddWeak(e E) bool {
	return l.Add(e) == nil
}

// AddAll appends every element or none of them.
func (l *List[E]) AddAll(es ...E) error {
	err := validateBatch(es, l.Contains, l.msgs)
	if err != nil {
		return err
	}
	l.elems = append(l.elems, es...)
	return nil
}

// SetAll replaces the contents of the list with es. If es contains
// duplicates the list is left unchanged.
func (l *List[E]) SetAll(es []E) error {
	err := validateBatch(es, func(E) bool { return false }, l.msgs)
	if err != nil {
		return err
	}
	l.elems = slices.Clone(es)
	return nil
}

// Remove removes e from the list.
func (l *List[E]) Remove(e E) error {
	i := slices.Index(l.elems, e)
	if i < 0 {
		return l.msgs.notFoundError(e)
	}
	l.elems = slices.Delete(l.elems, i, i+1)
	return nil
}

// RemoveWeak is the non-failing form of [List.Remove].
func (l *List[E]) RemoveWeak(e E) bool {
	return l.Remove(e) == nil
}

// Contains reports whether e is in the list.
func (l *List[E]) Contains(e E) bool {
	return slices.Contains(l.elems, e)
}

// IndexOf returns the position of e or -1.
func (l *List[E]) IndexOf(e E) int {
	return slices.Index(l.elems, e)
}

// Get returns the element at index i.
func (l *List[E]) Get(i int) (E, error) {
	if i < 0 || i >= len(l.elems) {
		var zero E
		return zero, IndexOutOfRangeError{Index: i, Len: len(l.elems)}
	}
	return l.elems[i], nil
}

// Range returns a new List holding the elements from start onwards.
// The returned List shares the diagnostics options of l but not its storage.
func (l *List[E]) Range(start int) (*List[E], error) {
	if start < 0 || start > len(l.elems) {
		return nil, IndexOutOfRangeError{Index: start, Len: len(l.elems)}
	}
	sub := NewList[E](l.opts...)
	sub.elems = slices.Clone(l.elems[start:])
	return sub, nil
}

// Len returns the number of elements.
func (l *List[E]) Len() int {
	return len(l.elems)
}

// Clear removes every element.
func (l *List[E]) Clear() {
	l.elems = nil
}

// Values returns a copy of the elements in order.
func (l *List[E]) Values() []E {
	return slices.Clone(l.elems)
}

// All iterates the elements in order.
func (l *List[E]) All() iter.Seq2[int, E] {
	return slices.All(l.elems)
}

// validateBatch reports the first element of es which is either already
// present according to exists or repeated within es itself.
func validateBatch[E comparable](es []E, exists func(E) bool, msgs messages) error {
	seen := make(map[E]struct{}, len(es))
	for _, e := range es {
		if _, dup := seen[e]; dup || exists(e) {
			return msgs.duplicateError(e)
		}
		seen[e] = struct{}{}
	}
	return nil
}
