// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"fmt"
	"reflect"

	"github.com/z5labs/confdoc/key"
)

// NullValueError occurs when a nil value is stored or when a nil value
// is deserialized into a type which cannot represent nil.
type NullValueError struct {
	Key  string
	Type reflect.Type
}

// Error implements the error interface.
func (e NullValueError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("null value cannot be converted to %s", e.Type)
	}
	return fmt.Sprintf("null value for key %q", e.Key)
}

// UnsupportedTypeError occurs when no serializer or built-in rule can
// convert between the requested and the actual type.
type UnsupportedTypeError struct {
	Target reflect.Type
	Actual reflect.Type
}

// Error implements the error interface.
func (e UnsupportedTypeError) Error() string {
	if e.Target == nil {
		return fmt.Sprintf("unsupported type: %s", typeName(e.Actual))
	}
	return fmt.Sprintf("unsupported conversion from %s to %s", typeName(e.Actual), typeName(e.Target))
}

// ParseError occurs when a value is present but is malformed for the
// requested type, e.g. non-numeric text where a number is required.
type ParseError struct {
	Target reflect.Type
	Value  any
	Cause  error
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse %v (%T) as %s: %s", e.Value, e.Value, typeName(e.Target), e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ParseError) Unwrap() error {
	return e.Cause
}

// MalformedDocumentError occurs when the shape of a value does not match
// what was expected, e.g. a scalar where a list is required.
type MalformedDocumentError struct {
	Expected string
	Value    any
}

// Error implements the error interface.
func (e MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document: expected %s but found %s (%v)", e.Expected, typeName(reflect.TypeOf(e.Value)), e.Value)
}

// UnregisteredPolymorphicTypeError occurs when a tagged value names an
// alias which has not been registered with the Codec.
type UnregisteredPolymorphicTypeError struct {
	Alias string
}

// Error implements the error interface.
func (e UnregisteredPolymorphicTypeError) Error() string {
	return fmt.Sprintf("no type registered for polymorphic alias %q", e.Alias)
}

// MissingKeyError occurs when a required key is not set.
type MissingKeyError struct {
	Key string
}

// Error implements the error interface.
func (e MissingKeyError) Error() string {
	return fmt.Sprintf("required key is not set: %s", e.Key)
}

// EmptyKeyChainError occurs when a value is set with an empty key.Chain.
type EmptyKeyChainError struct {
	Value any
}

// Error implements the error interface.
func (e EmptyKeyChainError) Error() string {
	return fmt.Sprintf("attempted to set value to an empty key chain: %v", e.Value)
}

// RegistrationError occurs when a Codec option cannot be applied.
type RegistrationError struct {
	Type   reflect.Type
	Reason string
}

// Error implements the error interface.
func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to register %s: %s", typeName(e.Type), e.Reason)
}

// KeyError annotates an error with the path of the value which caused it.
type KeyError struct {
	Path  key.Chain
	Cause error
}

// Error implements the error interface.
func (e KeyError) Error() string {
	return fmt.Sprintf("key %s: %s", e.Path.Key(), e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e KeyError) Unwrap() error {
	return e.Cause
}

// atKey prefixes the path of err with k, collapsing nested KeyErrors
// into a single path.
func atKey(k key.Keyer, err error) error {
	if err == nil {
		return nil
	}
	if kerr, ok := err.(KeyError); ok {
		return KeyError{
			Path:  key.Chain{k}.Append(kerr.Path...),
			Cause: kerr.Cause,
		}
	}
	return KeyError{
		Path:  key.Chain{k},
		Cause: err,
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
