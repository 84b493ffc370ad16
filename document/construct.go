// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"fmt"
	"reflect"
	"strings"
)

// FromValue builds a Document from an arbitrary nested value.
//
// Accepted values are an existing *Document (returned as is), any map
// with string or printable keys, and a single legacy "key=value" pair
// encoded as a string. Anything else fails with a MalformedDocumentError
// naming the value's runtime type.
//
// Entries whose key contains "=" and whose value is nil are read as
// flattened key/value pairs. Nested values are kept as is and only
// converted when read.
func FromValue(c *Codec, v any) (*Document, error) {
	switch x := v.(type) {
	case *Document:
		if x == nil {
			return New(c), nil
		}
		return x, nil
	case map[string]any:
		return fromStringMap(c, x)
	case string:
		return fromPair(c, x)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, MalformedDocumentError{Expected: "document", Value: v}
	}

	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := fmt.Sprint(iter.Key().Interface())
		if _, dup := m[k]; dup {
			return nil, MalformedDocumentError{Expected: "unique keys", Value: v}
		}
		m[k] = iter.Value().Interface()
	}
	return fromStringMap(c, m)
}

// fromStringMap adds keys in sorted order since Go maps carry no order.
func fromStringMap(c *Codec, m map[string]any) (*Document, error) {
	d := New(c)
	for _, k := range sortedKeys(m) {
		err := d.putRaw(k, m[k])
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func fromPair(c *Codec, s string) (*Document, error) {
	trimmed := strings.TrimSpace(s)
	k, v, ok := strings.Cut(trimmed, "=")
	if !ok || k == "" || strings.HasPrefix(trimmed, "{") {
		return nil, MalformedDocumentError{Expected: "document", Value: s}
	}
	d := New(c)
	err := d.entries.Put(k, v)
	if err != nil {
		return nil, err
	}
	return d, nil
}
