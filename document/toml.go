// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"io"
	"slices"

	"github.com/z5labs/confdoc/key"

	"github.com/BurntSushi/toml"
)

// decodeTOML reads a TOML document. Keys keep the order they were
// defined in, except inside arrays of tables which are sorted.
func decodeTOML(c *Codec, b []byte) (*Document, error) {
	var m map[string]any
	md, err := toml.Decode(string(b), &m)
	if err != nil {
		return nil, InvalidTomlError{Cause: err}
	}

	d := New(c)
	for _, k := range md.Keys() {
		v, ok := tomlLookup(m, k)
		if !ok {
			continue
		}

		chain := make(key.Chain, len(k))
		for i, part := range k {
			chain[i] = key.Name(part)
		}

		if _, isTable := v.(map[string]any); isTable {
			if _, exists, _ := d.Resolve(chain); exists {
				continue
			}
			v = New(c)
		} else {
			v = tomlValue(c, v)
		}
		err = d.Set(chain, v)
		if err != nil {
			return nil, InvalidTomlError{Cause: err}
		}
	}

	// Keys which were not reported by the decoder, e.g. inside inline
	// tables, are filled in afterwards.
	fillTOML(c, d, m)
	return d, nil
}

// tomlLookup walks k through nested tables. Keys nested inside arrays of
// tables are not addressable and report false.
func tomlLookup(m map[string]any, k toml.Key) (any, bool) {
	var cur any = m
	for _, part := range k {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = table[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func fillTOML(c *Codec, d *Document, m map[string]any) {
	for _, k := range sortedKeys(m) {
		v := m[k]
		existing, ok := d.entries.Get(k)
		if !ok {
			d.entries.Put(k, tomlValue(c, v))
			continue
		}
		sub, isDoc := existing.(*Document)
		table, isTable := v.(map[string]any)
		if isDoc && isTable {
			fillTOML(c, sub, table)
		}
	}
}

func tomlValue(c *Codec, v any) any {
	switch x := v.(type) {
	case map[string]any:
		d := New(c)
		fillTOML(c, d, x)
		return d
	case []map[string]any:
		l := make([]any, len(x))
		for i, e := range x {
			l[i] = tomlValue(c, e)
		}
		return l
	case []any:
		l := make([]any, len(x))
		for i, e := range x {
			l[i] = tomlValue(c, e)
		}
		return l
	case int64:
		return int(x)
	}
	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// encodeTOML writes d as TOML. TOML has no null so cleared keys are
// left out, and tables are written in sorted key order.
func encodeTOML(w io.Writer, d *Document) error {
	m, err := d.ToMap()
	if err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(dropNil(m))
}

func dropNil(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			if e == nil {
				delete(x, k)
				continue
			}
			x[k] = dropNil(e)
		}
	case []any:
		for i, e := range x {
			x[i] = dropNil(e)
		}
	}
	return v
}
