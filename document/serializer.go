// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import "reflect"

// Serializer is a host supplied conversion between Go values and their
// document-native representation.
//
// Both methods report whether they handled the value. Returning false
// defers to the next registered Serializer and, finally, to the built-in rules.
type Serializer interface {
	Serialize(c *Codec, v any) (any, bool, error)
	Deserialize(c *Codec, raw any, target reflect.Type, params ...reflect.Type) (any, bool, error)
}

// SerializerFuncs is a Serializer assembled from plain functions.
// A nil function always defers.
type SerializerFuncs struct {
	SerializeFunc   func(c *Codec, v any) (any, bool, error)
	DeserializeFunc func(c *Codec, raw any, target reflect.Type, params ...reflect.Type) (any, bool, error)
}

// Serialize implements the [Serializer] interface.
func (s SerializerFuncs) Serialize(c *Codec, v any) (any, bool, error) {
	if s.SerializeFunc == nil {
		return nil, false, nil
	}
	return s.SerializeFunc(c, v)
}

// Deserialize implements the [Serializer] interface.
func (s SerializerFuncs) Deserialize(c *Codec, raw any, target reflect.Type, params ...reflect.Type) (any, bool, error) {
	if s.DeserializeFunc == nil {
		return nil, false, nil
	}
	return s.DeserializeFunc(c, raw, target, params...)
}

// TypedSerializer returns a Serializer which only handles values of type T.
// decode may defer by returning false, e.g. when raw is not in its format.
func TypedSerializer[T any](encode func(T) (any, error), decode func(raw any) (T, bool, error)) Serializer {
	t := reflect.TypeFor[T]()
	return SerializerFuncs{
		SerializeFunc: func(_ *Codec, v any) (any, bool, error) {
			x, ok := v.(T)
			if !ok || reflect.TypeOf(v) != t {
				return nil, false, nil
			}
			out, err := encode(x)
			if err != nil {
				return nil, false, err
			}
			return out, true, nil
		},
		DeserializeFunc: func(_ *Codec, raw any, target reflect.Type, _ ...reflect.Type) (any, bool, error) {
			if target != t {
				return nil, false, nil
			}
			x, ok, err := decode(raw)
			if err != nil || !ok {
				return nil, false, err
			}
			return x, true, nil
		},
	}
}

// Serializable is implemented by values which write their own fields.
// When the value's type has a polymorphic alias, the alias is written
// under the reserved key before SerializeTo is called.
type Serializable interface {
	SerializeTo(d *Document) error
}
