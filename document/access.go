// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"reflect"

	"github.com/z5labs/confdoc/key"
	"github.com/z5labs/confdoc/strict"
)

// Get converts the value stored under k into a T. def is returned when
// k is not set or has been cleared. A value which is present but cannot be
// converted always fails; def is never substituted for it.
//
// params override the element types of T's containers, outermost first.
func Get[T any](d *Document, k string, def T, params ...reflect.Type) (T, error) {
	v, ok, err := d.Lookup(k, reflect.TypeFor[T](), params...)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		return def, nil
	}
	return as[T](v), nil
}

// Require is like [Get] but fails with a [MissingKeyError] when k is
// not set or has been cleared.
func Require[T any](d *Document, k string, params ...reflect.Type) (T, error) {
	var zero T
	v, ok, err := d.Lookup(k, reflect.TypeFor[T](), params...)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, MissingKeyError{Key: k}
	}
	return as[T](v), nil
}

// GetList converts the list stored under k element by element. A missing
// key results in an empty, non-nil slice.
func GetList[T any](d *Document, k string, params ...reflect.Type) ([]T, error) {
	l, err := Get[[]T](d, k, nil, params...)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return []T{}, nil
	}
	return l, nil
}

// GetSet converts the list stored under k into a strict.Set. Duplicate
// elements in the stored list are reported as a strict.DuplicateElementError.
func GetSet[T comparable](d *Document, k string, params ...reflect.Type) (*strict.Set[T], error) {
	l, err := GetList[T](d, k, params...)
	if err != nil {
		return nil, err
	}
	s, err := strict.SetOf(l)
	if err != nil {
		return nil, atKey(key.Name(k), err)
	}
	return s, nil
}

// GetMap converts the nested document stored under k into an ordered
// strict.Map, keeping the document's key order.
func GetMap[V any](d *Document, k string, params ...reflect.Type) (*strict.Map[string, V], error) {
	sub, err := d.GetDocument(k)
	if err != nil {
		return nil, err
	}

	vt := reflect.TypeFor[V]()
	m := strict.NewMap[string, V]()
	for name, raw := range sub.All() {
		var v V
		if raw != nil {
			elem, rest, err := elemType(vt, params)
			if err != nil {
				return nil, err
			}
			dv, err := d.codec.Deserialize(raw, elem, rest...)
			if err != nil {
				return nil, atKey(key.Name(k), atKey(key.Name(name), err))
			}
			v = as[V](dv)
		}
		err := m.Put(name, v)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GetDocument returns the nested document stored under k. A missing key
// results in a new, empty Document.
func (d *Document) GetDocument(k string) (*Document, error) {
	sub, err := Get[*Document](d, k, nil)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return New(d.codec), nil
	}
	return sub, nil
}

// GetPath converts the value addressed by k into a T, walking nested
// documents and lists. def is returned when any part of k is missing.
func GetPath[T any](d *Document, k key.Keyer, def T, params ...reflect.Type) (T, error) {
	var zero T
	raw, ok, err := d.Resolve(k)
	if err != nil {
		return zero, err
	}
	if d.removeOnGet {
		d.removePath(chainOf(k))
	}
	if !ok {
		return def, nil
	}
	v, err := d.codec.Deserialize(raw, reflect.TypeFor[T](), params...)
	if err != nil {
		return zero, atKey(k, err)
	}
	return as[T](v), nil
}

// GetString is shorthand for Get[string].
func (d *Document) GetString(k string, def string) (string, error) {
	return Get(d, k, def)
}

// GetInt is shorthand for Get[int].
func (d *Document) GetInt(k string, def int) (int, error) {
	return Get(d, k, def)
}

// GetBool is shorthand for Get[bool].
func (d *Document) GetBool(k string, def bool) (bool, error) {
	return Get(d, k, def)
}

// GetFloat is shorthand for Get[float64].
func (d *Document) GetFloat(k string, def float64) (float64, error) {
	return Get(d, k, def)
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
