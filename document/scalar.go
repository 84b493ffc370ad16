// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var errFraction = errors.New("value has a fractional part")

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// decodeScalar converts raw into target, which must be of a scalar kind.
// Numbers widen freely but never lose information silently.
func decodeScalar(raw any, target reflect.Type) (any, error) {
	switch raw.(type) {
	case *Document, []any, map[string]any, map[any]any:
		return nil, MalformedDocumentError{Expected: target.String(), Value: raw}
	}

	out, err := scalarOf(raw, target)
	if err != nil {
		return nil, ParseError{Target: target, Value: raw, Cause: err}
	}
	return reflect.ValueOf(out).Convert(target).Interface(), nil
}

func scalarOf(raw any, target reflect.Type) (any, error) {
	switch target.Kind() {
	case reflect.Bool:
		return cast.ToBoolE(raw)
	case reflect.String:
		return cast.ToStringE(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		if reflect.Zero(target).OverflowInt(n) {
			return nil, fmt.Errorf("%d overflows %s", n, target)
		}
		return n, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toUint64(raw)
		if err != nil {
			return nil, err
		}
		if reflect.Zero(target).OverflowUint(n) {
			return nil, fmt.Errorf("%d overflows %s", n, target)
		}
		return n, nil
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, err
		}
		if reflect.Zero(target).OverflowFloat(f) {
			return nil, fmt.Errorf("%g overflows %s", f, target)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%s is not a scalar type", target)
}

func toInt64(raw any) (int64, error) {
	switch x := raw.(type) {
	case string:
		s := strings.TrimSpace(x)
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return n, nil
		}
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, err
		}
		return integral(f)
	case float64:
		return integral(x)
	case float32:
		return integral(float64(x))
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", x)
		}
		return int64(x), nil
	}
	return cast.ToInt64E(raw)
}

func toUint64(raw any) (uint64, error) {
	switch x := raw.(type) {
	case string:
		return strconv.ParseUint(strings.TrimSpace(x), 10, 64)
	case float64, float32:
		n, err := toInt64(x)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, fmt.Errorf("%d is negative", n)
		}
		return uint64(n), nil
	}
	return cast.ToUint64E(raw)
}

func integral(f float64) (int64, error) {
	if f != math.Trunc(f) {
		return 0, errFraction
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%g overflows int64", f)
	}
	return int64(f), nil
}

// nativeScalar strips named scalar types down to their underlying kind so
// writers only ever see builtin types.
func nativeScalar(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := rv.Uint()
		if n <= math.MaxInt64 {
			return int(n)
		}
		return n
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return rv.Interface()
}
