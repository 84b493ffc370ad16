// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"reflect"

	"github.com/z5labs/confdoc/internal/try"
)

// aliasIn returns the polymorphic alias carried by raw, if any.
func (c *Codec) aliasIn(raw any) (string, bool) {
	var v any
	switch x := raw.(type) {
	case *Document:
		v, _ = x.entries.Get(c.reservedKey)
	case map[string]any:
		v = x[c.reservedKey]
	case map[any]any:
		v = x[c.reservedKey]
	default:
		return "", false
	}
	alias, ok := v.(string)
	return alias, ok
}

// routable reports whether a tagged value requested as target should be
// materialized through its alias instead of being read as a plain mapping.
func routable(target reflect.Type) bool {
	return target != documentType && target.Kind() != reflect.Map
}

func (c *Codec) decodeTagged(alias string, raw any, target reflect.Type) (any, error) {
	t, ok := c.aliases.Get(alias)
	if !ok {
		return nil, UnregisteredPolymorphicTypeError{Alias: alias}
	}

	d, err := FromValue(c, raw)
	if err != nil {
		return nil, err
	}
	fields := d.Clone()
	fields.entries.RemoveWeak(c.reservedKey)

	v, err := c.construct(c.factories[t], fields)
	if err != nil {
		return nil, err
	}

	vt := reflect.TypeOf(v)
	switch {
	case vt.AssignableTo(target):
		return v, nil
	case target.Kind() == reflect.Pointer && vt.AssignableTo(target.Elem()):
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(reflect.ValueOf(v))
		return ptr.Interface(), nil
	}
	return nil, UnsupportedTypeError{Target: target, Actual: t}
}

// serializeObject writes v as a nested document, prefixed with its
// polymorphic alias when one is registered.
func (c *Codec) serializeObject(v any, rt reflect.Type) (_ *Document, err error) {
	d := c.NewDocument()
	if alias, ok := c.AliasOf(rt); ok {
		err := d.Put(c.reservedKey, alias)
		if err != nil {
			return nil, err
		}
	}

	if s, ok := v.(Serializable); ok {
		err = func() (err error) {
			defer try.Recover(&err)
			return s.SerializeTo(d)
		}()
		if err != nil {
			return nil, err
		}
		return d.serialized()
	}

	err = c.encodeStruct(d, v)
	if err != nil {
		return nil, err
	}
	return d, nil
}
