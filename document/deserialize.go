// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"encoding"
	"fmt"
	"reflect"
	"time"

	"github.com/z5labs/confdoc/internal/try"
	"github.com/z5labs/confdoc/key"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

var (
	documentType        = reflect.TypeFor[*Document]()
	boolType            = reflect.TypeFor[bool]()
	uuidType            = reflect.TypeFor[uuid.UUID]()
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	serializableType    = reflect.TypeFor[Serializable]()
)

// Deserialize converts the document-native value raw into a value of type
// target. params supply element types for containers whose declared
// element type is an interface, outermost first.
//
// Conversion is attempted in order: polymorphic aliases, identity,
// registered serializers, built-in rules and finally fallback strategies.
func (c *Codec) Deserialize(raw any, target reflect.Type, params ...reflect.Type) (v any, err error) {
	defer try.Recover(&err)

	if raw == nil {
		if nillable(target.Kind()) {
			return reflect.Zero(target).Interface(), nil
		}
		return nil, NullValueError{Type: target}
	}

	if alias, ok := c.aliasIn(raw); ok && routable(target) {
		return c.decodeTagged(alias, raw, target)
	}

	rt := reflect.TypeOf(raw)
	if len(params) == 0 && (rt == target || (target.Kind() == reflect.Interface && rt.Implements(target))) {
		return raw, nil
	}

	for _, s := range c.serializers {
		v, ok, err := s.Deserialize(c, raw, target, params...)
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
	}

	v, err = c.builtin(raw, target, params)
	if err == nil {
		return v, nil
	}
	if fv, ok := c.runFallbacks(raw, target); ok {
		return fv, nil
	}
	return nil, err
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	}
	return false
}

func (c *Codec) builtin(raw any, target reflect.Type, params []reflect.Type) (any, error) {
	if f, ok := c.factories[target]; ok {
		return c.construct(f, raw)
	}
	if e, ok := c.enums[target]; ok {
		return c.decodeEnum(e, raw, target)
	}

	switch target {
	case documentType:
		return c.documentOf(raw)
	case uuidType:
		return decodeUUID(raw)
	case durationType:
		return decodeDuration(raw)
	}

	if s, ok := raw.(string); ok && reflect.PointerTo(target).Implements(textUnmarshalerType) {
		ptr := reflect.New(target)
		err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
		if err != nil {
			return nil, ParseError{Target: target, Value: raw, Cause: err}
		}
		return ptr.Elem().Interface(), nil
	}

	switch target.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return decodeScalar(raw, target)
	case reflect.Slice, reflect.Array:
		return c.decodeList(raw, target, params)
	case reflect.Map:
		return c.decodeMap(raw, target, params)
	case reflect.Struct:
		return c.decodeStruct(raw, target)
	case reflect.Pointer:
		v, err := c.Deserialize(raw, target.Elem(), params...)
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(reflect.ValueOf(v))
		return ptr.Interface(), nil
	}
	return nil, UnsupportedTypeError{Target: target, Actual: reflect.TypeOf(raw)}
}

func (c *Codec) construct(f Factory, raw any) (v any, err error) {
	d, err := c.documentOf(raw)
	if err != nil {
		return nil, err
	}
	defer try.Recover(&err)
	return f(d)
}

// documentOf converts raw into a Document, consulting the fallback
// strategies registered for documents.
func (c *Codec) documentOf(raw any) (*Document, error) {
	d, err := FromValue(c, raw)
	if err == nil {
		return d, nil
	}
	if v, ok := c.runFallbacks(raw, documentType); ok {
		return v.(*Document), nil
	}
	return nil, err
}

func decodeUUID(raw any) (any, error) {
	switch x := raw.(type) {
	case string:
		id, err := uuid.Parse(x)
		if err != nil {
			return nil, ParseError{Target: uuidType, Value: raw, Cause: err}
		}
		return id, nil
	case []byte:
		id, err := uuid.FromBytes(x)
		if err != nil {
			return nil, ParseError{Target: uuidType, Value: raw, Cause: err}
		}
		return id, nil
	}
	return nil, UnsupportedTypeError{Target: uuidType, Actual: reflect.TypeOf(raw)}
}

func decodeDuration(raw any) (any, error) {
	switch x := raw.(type) {
	case string:
		d, err := time.ParseDuration(x)
		if err != nil {
			return nil, ParseError{Target: durationType, Value: raw, Cause: err}
		}
		return d, nil
	case int:
		return time.Duration(x), nil
	case int64:
		return time.Duration(x), nil
	}
	return nil, UnsupportedTypeError{Target: durationType, Actual: reflect.TypeOf(raw)}
}

func elemType(declared reflect.Type, params []reflect.Type) (reflect.Type, []reflect.Type, error) {
	if len(params) == 0 || params[0] == nil {
		return declared, nil, nil
	}
	if !params[0].AssignableTo(declared) {
		return nil, nil, UnsupportedTypeError{Target: declared, Actual: params[0]}
	}
	return params[0], params[1:], nil
}

func (c *Codec) decodeList(raw any, target reflect.Type, params []reflect.Type) (any, error) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, MalformedDocumentError{Expected: "list", Value: raw}
	}

	elem, rest, err := elemType(target.Elem(), params)
	if err != nil {
		return nil, err
	}

	n := rv.Len()
	var out reflect.Value
	if target.Kind() == reflect.Array {
		if n != target.Len() {
			return nil, MalformedDocumentError{Expected: fmt.Sprintf("list of %d elements", target.Len()), Value: raw}
		}
		out = reflect.New(target).Elem()
	} else {
		out = reflect.MakeSlice(target, n, n)
	}

	for i := 0; i < n; i++ {
		v, err := c.Deserialize(rv.Index(i).Interface(), elem, rest...)
		if err != nil {
			return nil, atKey(key.Index(i), err)
		}
		if v != nil {
			out.Index(i).Set(reflect.ValueOf(v))
		}
	}
	return out.Interface(), nil
}

// decodeMap fills a Go map from a nested document. Keys of scalar kinds
// other than string are parsed back from their document key.
func (c *Codec) decodeMap(raw any, target reflect.Type, params []reflect.Type) (any, error) {
	kt := target.Key()
	if !isScalarKind(kt.Kind()) {
		return nil, UnsupportedTypeError{Target: target, Actual: reflect.TypeOf(raw)}
	}
	d, err := c.documentOf(raw)
	if err != nil {
		return nil, err
	}

	elem, rest, err := elemType(target.Elem(), params)
	if err != nil {
		return nil, err
	}

	out := reflect.MakeMapWithSize(target, d.Len())
	for k, rv := range d.All() {
		v, err := c.Deserialize(rv, elem, rest...)
		if err != nil {
			return nil, atKey(key.Name(k), err)
		}
		mk, err := mapKey(k, kt)
		if err != nil {
			return nil, atKey(key.Name(k), err)
		}
		mv := reflect.Zero(target.Elem())
		if v != nil {
			mv = reflect.ValueOf(v)
		}
		out.SetMapIndex(mk, mv)
	}
	return out.Interface(), nil
}

func mapKey(k string, kt reflect.Type) (reflect.Value, error) {
	if kt.Kind() == reflect.String {
		return reflect.ValueOf(k).Convert(kt), nil
	}
	v, err := decodeScalar(k, kt)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(v), nil
}

// decodeStruct fills a plain struct through mapstructure using the
// "config" field tag. Field values are converted by the Codec itself.
func (c *Codec) decodeStruct(raw any, target reflect.Type) (any, error) {
	d, err := c.documentOf(raw)
	if err != nil {
		return nil, err
	}

	ptr := reflect.New(target)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "config",
		Result:     ptr.Interface(),
		DecodeHook: c.fieldHook(),
	})
	if err != nil {
		return nil, err
	}

	err = dec.Decode(d.plain())
	if err != nil {
		return nil, ParseError{Target: target, Value: raw, Cause: err}
	}
	return ptr.Elem().Interface(), nil
}

// fieldHook hands every field whose type the Codec knows about back to
// the Codec and leaves containers and nested structs to mapstructure.
func (c *Codec) fieldHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if data == nil || !c.handlesField(t) {
			return data, nil
		}
		return c.Deserialize(data, t)
	}
}

func (c *Codec) handlesField(t reflect.Type) bool {
	if _, ok := c.factories[t]; ok {
		return true
	}
	if _, ok := c.enums[t]; ok {
		return true
	}
	switch t {
	case documentType, uuidType, durationType:
		return true
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	return isScalarKind(t.Kind()) || t.Kind() == reflect.Interface
}
