// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/z5labs/confdoc/internal/try"
	"github.com/z5labs/confdoc/key"

	"github.com/google/uuid"
)

// Serialize converts v into its document-native form: nil, bool, string,
// int, uint64, float64, time.Time, []any or *Document, recursively.
//
// Registered serializers are given first refusal before the built-in rules.
func (c *Codec) Serialize(v any) (out any, err error) {
	defer try.Recover(&err)

	if v == nil {
		return nil, nil
	}

	for _, s := range c.serializers {
		out, ok, err := s.Serialize(c, v)
		if err != nil {
			return nil, err
		}
		if ok {
			return out, nil
		}
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	if d, ok := v.(*Document); ok {
		if d == nil {
			return nil, nil
		}
		return d.serialized()
	}
	if e, ok := c.enums[rt]; ok {
		return c.encodeEnum(e, v)
	}
	switch x := v.(type) {
	case uuid.UUID:
		return x.String(), nil
	case time.Duration:
		return x.String(), nil
	case time.Time:
		return x, nil
	}
	if rt.Implements(serializableType) {
		if rt.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, nil
		}
		return c.serializeObject(v, rt)
	}
	if rt.Implements(textMarshalerType) {
		b, err := v.(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}

	switch rt.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return c.Serialize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		return c.serializeList(rv)
	case reflect.Map:
		return c.serializeMap(rv)
	case reflect.Struct:
		return c.serializeObject(v, rt)
	}
	if isScalarKind(rt.Kind()) {
		return nativeScalar(rv), nil
	}
	return nil, UnsupportedTypeError{Actual: rt}
}

func (c *Codec) serializeList(rv reflect.Value) ([]any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		v, err := c.Serialize(rv.Index(i).Interface())
		if err != nil {
			return nil, atKey(key.Index(i), err)
		}
		out[i] = v
	}
	return out, nil
}

// serializeMap writes a Go map as a nested document. Go maps are unordered
// so keys are written in sorted order to keep output stable.
func (c *Codec) serializeMap(rv reflect.Value) (*Document, error) {
	keys := make([]string, 0, rv.Len())
	values := make(map[string]reflect.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := fmt.Sprint(iter.Key().Interface())
		keys = append(keys, k)
		values[k] = iter.Value()
	}
	slices.Sort(keys)

	d := c.NewDocument()
	for _, k := range keys {
		v, err := c.Serialize(values[k].Interface())
		if err != nil {
			return nil, atKey(key.Name(k), err)
		}
		err = d.entries.Put(k, v)
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// encodeStruct writes the exported fields of v into d in declaration
// order, honouring the same "config" tags used when decoding.
func (c *Codec) encodeStruct(d *Document, v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	return c.encodeFields(d, rv)
}

func (c *Codec) encodeFields(d *Document, rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}

		name, opts := fieldTag(f)
		if name == "-" {
			continue
		}

		fv := rv.Field(i)
		if slices.Contains(opts, "squash") && fv.Kind() == reflect.Struct {
			err := c.encodeFields(d, fv)
			if err != nil {
				return err
			}
			continue
		}
		if slices.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}

		v, err := c.Serialize(fv.Interface())
		if err != nil {
			return atKey(key.Name(name), err)
		}
		err = d.entries.Put(name, v)
		if err != nil {
			return err
		}
	}
	return nil
}

func fieldTag(f reflect.StructField) (string, []string) {
	tag, ok := f.Tag.Lookup("config")
	if !ok {
		return f.Name, nil
	}
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = f.Name
	}
	return name, parts[1:]
}
