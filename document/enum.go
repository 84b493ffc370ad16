// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/z5labs/confdoc/strict"
)

// Enum is a type whose constants are stored by name.
type Enum interface {
	comparable
	fmt.Stringer
}

type enumType struct {
	constants *strict.BiMap[string, any]
	folded    map[string]string
}

// WithEnum registers the constants of T. Each constant is written as the
// result of its String method and read back by that name.
func WithEnum[T Enum](constants ...T) Option {
	return func(c *Codec) {
		t := reflect.TypeFor[T]()
		if _, exists := c.enums[t]; exists {
			c.errs = append(c.errs, RegistrationError{Type: t, Reason: "enum already registered"})
			return
		}

		e := &enumType{
			constants: strict.NewBiMap[string, any](strict.WithDuplicateMessage("enum constant registered twice: {}")),
			folded:    make(map[string]string, len(constants)),
		}
		for _, v := range constants {
			name := v.String()
			err := e.constants.Put(name, v)
			if err != nil {
				c.errs = append(c.errs, RegistrationError{Type: t, Reason: err.Error()})
				return
			}
			e.folded[strings.ToLower(name)] = name
		}
		c.enums[t] = e
	}
}

// UnknownConstantError occurs when a name does not match any registered
// constant of an enum, even after legacy translation.
type UnknownConstantError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownConstantError) Error() string {
	return fmt.Sprintf("unknown constant %q", e.Name)
}

func (c *Codec) decodeEnum(e *enumType, raw any, target reflect.Type) (any, error) {
	name, ok := raw.(string)
	if !ok {
		return nil, ParseError{
			Target: target,
			Value:  raw,
			Cause:  fmt.Errorf("expected the name of a constant"),
		}
	}

	canonical := name
	if c.legacyNames != nil {
		canonical = c.legacyNames(target, name)
		if canonical != name {
			c.log.Debug(
				"translated legacy enum name",
				slog.String("enum", target.String()),
				slog.String("from", name),
				slog.String("to", canonical),
			)
		}
	}

	if v, ok := e.constants.Get(canonical); ok {
		return v, nil
	}
	if folded, ok := e.folded[strings.ToLower(canonical)]; ok {
		v, _ := e.constants.Get(folded)
		return v, nil
	}
	return nil, ParseError{
		Target: target,
		Value:  raw,
		Cause:  UnknownConstantError{Name: canonical},
	}
}

func (c *Codec) encodeEnum(e *enumType, v any) (string, error) {
	name, ok := e.constants.GetKey(v)
	if !ok {
		return "", UnsupportedTypeError{Actual: reflect.TypeOf(v)}
	}
	return name, nil
}
