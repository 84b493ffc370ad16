// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"iter"
	"reflect"
	"strings"

	"github.com/z5labs/confdoc/key"
	"github.com/z5labs/confdoc/strict"
)

// Document is one level of a configuration document: an ordered,
// string keyed collection of loosely typed values.
//
// Values are stored as given and converted to the requested type on every
// read through the Document's [Codec]. A Document is not safe for
// concurrent mutation.
//
// The zero value is not usable, Documents are created with [New] or
// [Codec.NewDocument].
type Document struct {
	codec       *Codec
	entries     *strict.Map[string, any]
	removeOnGet bool
}

// New returns an empty Document which converts values with c.
// A nil Codec is replaced with one built from no options.
func New(c *Codec) *Document {
	if c == nil {
		c = MustCodec()
	}
	return &Document{
		codec: c,
		entries: strict.NewMap[string, any](
			strict.WithDuplicateMessage("key {} is already set"),
			strict.WithNotFoundMessage("key {} is not set"),
		),
	}
}

// Codec returns the Codec used to convert values of d.
func (d *Document) Codec() *Codec {
	return d.codec
}

// Put sets key to value. It fails if value is nil or key is already set.
func (d *Document) Put(k string, value any) error {
	if value == nil {
		return NullValueError{Key: k}
	}
	return d.entries.Put(k, value)
}

// Override sets key to value whether or not key is already set.
func (d *Document) Override(k string, value any) error {
	if value == nil {
		return NullValueError{Key: k}
	}
	d.entries.Override(k, value)
	return nil
}

// PutIf puts value when it is neither nil nor empty. Otherwise key is
// recorded as explicitly cleared, see [Document.IsCleared].
func (d *Document) PutIf(k string, value any) error {
	if isEmpty(value) {
		return d.entries.Put(k, nil)
	}
	return d.entries.Put(k, value)
}

// IsCleared reports whether key was recorded as explicitly cleared, as
// opposed to never having been set.
func (d *Document) IsCleared(k string) bool {
	_, v, ok := d.lookup(k)
	return ok && v == nil
}

// Has reports whether key is set, including cleared keys.
func (d *Document) Has(k string) bool {
	_, _, ok := d.lookup(k)
	return ok
}

// Raw returns the value stored under key without any conversion.
func (d *Document) Raw(k string) (any, bool) {
	_, v, ok := d.lookup(k)
	return v, ok
}

// Remove deletes key and returns its value. It fails if key is not set.
// Keys are matched the same way as by [Document.Has].
func (d *Document) Remove(k string) (any, error) {
	actual, _, ok := d.lookup(k)
	if !ok {
		return d.entries.Remove(k)
	}
	return d.entries.Remove(actual)
}

// RemoveWeak is the non-failing form of [Document.Remove].
func (d *Document) RemoveWeak(k string) (any, bool) {
	v, err := d.Remove(k)
	return v, err == nil
}

// SetRemoveOnGet toggles destructive reads. While enabled every read of
// a key also deletes it. Path reads through [GetPath] delete the addressed
// entry from its parent document but never remove list elements.
func (d *Document) SetRemoveOnGet(enabled bool) {
	d.removeOnGet = enabled
}

// RemoveOnGet reports whether destructive reads are enabled.
func (d *Document) RemoveOnGet() bool {
	return d.removeOnGet
}

// Len returns the number of keys, including cleared keys.
func (d *Document) Len() int {
	return d.entries.Len()
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	return d.entries.Keys()
}

// All iterates the raw entries in insertion order.
func (d *Document) All() iter.Seq2[string, any] {
	return d.entries.All()
}

// Clone returns a shallow copy of d.
func (d *Document) Clone() *Document {
	return &Document{
		codec:       d.codec,
		entries:     d.entries.Clone(),
		removeOnGet: d.removeOnGet,
	}
}

// MergeFrom copies every entry of other whose key is not yet set in d.
// Existing values of d win.
func (d *Document) MergeFrom(other *Document) *Document {
	for k, v := range other.entries.All() {
		d.entries.PutWeak(k, v)
	}
	return d
}

// OverrideAll copies every entry of other into d. Values of other win.
func (d *Document) OverrideAll(other *Document) *Document {
	for k, v := range other.entries.All() {
		d.entries.Override(k, v)
	}
	return d
}

// Lookup converts the value under key into target. The boolean result is
// false when key is not set or has been cleared, in which case no
// conversion is attempted.
func (d *Document) Lookup(k string, target reflect.Type, params ...reflect.Type) (any, bool, error) {
	actual, raw, ok := d.lookup(k)
	if !ok {
		return nil, false, nil
	}
	if d.removeOnGet {
		d.entries.RemoveWeak(actual)
	}
	if raw == nil {
		return nil, false, nil
	}

	v, err := d.codec.Deserialize(raw, target, params...)
	if err != nil {
		return nil, false, atKey(key.Name(k), err)
	}
	return v, true, nil
}

// Resolve walks k through nested documents and lists and returns the raw
// value it addresses. An index past the end of a list is reported as not
// found. A negative index is an error.
func (d *Document) Resolve(k key.Keyer) (any, bool, error) {
	chain := chainOf(k)
	if len(chain) == 0 {
		return nil, false, nil
	}

	var cur any = d
	for i, part := range chain {
		switch p := part.(type) {
		case key.Index:
			list := reflect.ValueOf(cur)
			if list.Kind() != reflect.Slice && list.Kind() != reflect.Array {
				return nil, false, KeyError{Path: chain[:i+1], Cause: MalformedDocumentError{Expected: "list", Value: cur}}
			}
			if p < 0 {
				return nil, false, KeyError{Path: chain[:i+1], Cause: strict.IndexOutOfRangeError{Index: int(p), Len: list.Len()}}
			}
			if int(p) >= list.Len() {
				return nil, false, nil
			}
			cur = list.Index(int(p)).Interface()
		default:
			sub, err := d.codec.documentOf(cur)
			if err != nil {
				return nil, false, KeyError{Path: chain[:i+1], Cause: err}
			}
			_, v, ok := sub.lookup(part.Key())
			if !ok {
				return nil, false, nil
			}
			cur = v
		}
		if cur == nil {
			return nil, false, nil
		}
	}
	return cur, true, nil
}

// Set implements the key value Store used by [Source]s. Intermediate
// documents along a key.Chain are created as needed and later values
// override earlier ones.
func (d *Document) Set(k key.Keyer, v any) error {
	chain, ok := k.(key.Chain)
	if !ok {
		if _, isIndex := k.(key.Index); isIndex {
			return KeyError{Path: key.Chain{k}, Cause: UnsupportedTypeError{Actual: reflect.TypeOf(k)}}
		}
		d.entries.Override(k.Key(), v)
		return nil
	}
	if len(chain) == 0 {
		return EmptyKeyChainError{Value: v}
	}

	cur := d
	for i, part := range chain[:len(chain)-1] {
		if _, isIndex := part.(key.Index); isIndex {
			return KeyError{Path: chain[:i+1], Cause: UnsupportedTypeError{Actual: reflect.TypeOf(part)}}
		}
		existing, ok := cur.entries.Get(part.Key())
		if !ok || existing == nil {
			sub := New(d.codec)
			cur.entries.Override(part.Key(), sub)
			cur = sub
			continue
		}
		if _, isString := existing.(string); isString {
			return KeyError{Path: chain[:i+1], Cause: MalformedDocumentError{Expected: "document", Value: existing}}
		}
		sub, err := FromValue(d.codec, existing)
		if err != nil {
			return KeyError{Path: chain[:i+1], Cause: err}
		}
		cur.entries.Override(part.Key(), sub)
		cur = sub
	}
	return cur.Set(chain[len(chain)-1], v)
}

// removePath deletes the entry addressed by chain from the document holding
// it. Elements of lists, and entries of nested values which are not
// documents themselves, are left in place.
func (d *Document) removePath(chain key.Chain) {
	if len(chain) == 0 {
		return
	}
	last := chain[len(chain)-1]
	if _, isIndex := last.(key.Index); isIndex {
		return
	}

	parent := d
	if len(chain) > 1 {
		v, ok, err := d.Resolve(chain[:len(chain)-1])
		if err != nil || !ok {
			return
		}
		sub, isDoc := v.(*Document)
		if !isDoc {
			return
		}
		parent = sub
	}
	parent.RemoveWeak(last.Key())
}

func chainOf(k key.Keyer) key.Chain {
	if chain, ok := k.(key.Chain); ok {
		return chain
	}
	return key.Chain{k}
}

// lookup finds key exactly or, failing that and when enabled by the Codec,
// case-insensitively. The actual stored key is returned.
func (d *Document) lookup(k string) (string, any, bool) {
	if v, ok := d.entries.Get(k); ok {
		return k, v, true
	}
	if !d.codec.foldKeys {
		return "", nil, false
	}
	for actual, v := range d.entries.All() {
		if strings.EqualFold(actual, k) {
			return actual, v, true
		}
	}
	return "", nil, false
}

// putRaw stores a value read by a parser, reinterpreting legacy
// flattened "key=value" keys with no value.
func (d *Document) putRaw(k string, v any) error {
	if v == nil {
		if name, value, ok := strings.Cut(k, "="); ok {
			return d.entries.Put(name, value)
		}
	}
	return d.entries.Put(k, v)
}

// serialized returns a copy of d whose values are all document-native.
func (d *Document) serialized() (*Document, error) {
	out := New(d.codec)
	for k, v := range d.entries.All() {
		sv, err := d.codec.Serialize(v)
		if err != nil {
			return nil, atKey(key.Name(k), err)
		}
		out.entries.Put(k, sv)
	}
	return out, nil
}

// ToMap returns the fully serialized contents of d as plain Go maps and
// slices. Key order is lost.
func (d *Document) ToMap() (map[string]any, error) {
	s, err := d.serialized()
	if err != nil {
		return nil, err
	}
	return s.plain(), nil
}

// plain converts d into nested map[string]any and []any values without
// serializing leaf values.
func (d *Document) plain() map[string]any {
	m := make(map[string]any, d.Len())
	for k, v := range d.entries.All() {
		m[k] = plainValue(v)
	}
	return m
}

func plainValue(v any) any {
	switch x := v.(type) {
	case *Document:
		return x.plain()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plainValue(e)
		}
		return out
	}
	return v
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if d, ok := v.(*Document); ok {
		return d == nil || d.Len() == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
