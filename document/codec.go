// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/z5labs/confdoc/strict"
)

// DefaultReservedKey is the field name which carries the type alias of a
// polymorphic value.
const DefaultReservedKey = "=="

// Factory constructs a value from the fields of a document.
type Factory func(d *Document) (any, error)

// LegacyNameFunc translates a stored enum constant name into its current
// canonical name. It is called before every enum lookup and should return
// name unchanged when no translation applies.
type LegacyNameFunc func(enum reflect.Type, name string) string

// Fallback is a named conversion strategy tried, in registration order,
// after every built-in rule has failed for its target type.
type Fallback struct {
	Name string
	Func func(c *Codec, raw any) (any, bool)
}

// Codec converts between document-native values and Go values.
//
// A Codec is configured once through [NewCodec] and is read-only afterwards,
// so it may be shared by any number of goroutines and documents.
type Codec struct {
	serializers []Serializer
	factories   map[reflect.Type]Factory
	aliases     *strict.BiMap[string, reflect.Type]
	enums       map[reflect.Type]*enumType
	legacyNames LegacyNameFunc
	fallbacks   map[reflect.Type][]Fallback
	reservedKey string
	foldKeys    bool
	parser      *fallbackParser
	log         *slog.Logger

	errs []error
}

// Option configures a Codec.
type Option func(*Codec)

// WithSerializer appends s to the serializer chain. Serializers are
// consulted in the order they were registered and before any built-in rule.
func WithSerializer(s Serializer) Option {
	return func(c *Codec) {
		c.serializers = append(c.serializers, s)
	}
}

// WithFactory registers f as the constructor of T. A nested document
// requested as T, or tagged with an alias of T, is passed to f.
func WithFactory[T any](f func(*Document) (T, error)) Option {
	return func(c *Codec) {
		t := reflect.TypeFor[T]()
		if _, exists := c.factories[t]; exists {
			c.errs = append(c.errs, RegistrationError{Type: t, Reason: "factory already registered"})
			return
		}
		c.factories[t] = func(d *Document) (any, error) {
			return f(d)
		}
	}
}

// WithAlias registers alias as the polymorphic type name of T. T must also
// have a factory registered through [WithFactory].
func WithAlias[T any](alias string) Option {
	return func(c *Codec) {
		t := reflect.TypeFor[T]()
		err := c.aliases.Put(alias, t)
		if err != nil {
			c.errs = append(c.errs, RegistrationError{Type: t, Reason: err.Error()})
		}
	}
}

// WithReservedKey changes the field name carrying polymorphic type aliases.
func WithReservedKey(k string) Option {
	return func(c *Codec) {
		c.reservedKey = k
	}
}

// WithLegacyEnumNames installs the hook used to translate historic enum
// constant names before lookup.
func WithLegacyEnumNames(f LegacyNameFunc) Option {
	return func(c *Codec) {
		c.legacyNames = f
	}
}

// WithFallback appends a named fallback strategy for T.
func WithFallback[T any](name string, f func(c *Codec, raw any) (T, bool)) Option {
	return func(c *Codec) {
		t := reflect.TypeFor[T]()
		c.fallbacks[t] = append(c.fallbacks[t], Fallback{
			Name: name,
			Func: func(c *Codec, raw any) (any, bool) {
				return f(c, raw)
			},
		})
	}
}

// WithCaseSensitiveKeys disables the case-insensitive key scan which
// documents otherwise perform when an exact key match fails.
func WithCaseSensitiveKeys() Option {
	return func(c *Codec) {
		c.foldKeys = false
	}
}

// WithLogger sets the logger used for diagnostics. By default nothing is logged.
func WithLogger(log *slog.Logger) Option {
	return func(c *Codec) {
		c.log = log
	}
}

// NewCodec returns a Codec configured with the given options.
func NewCodec(opts ...Option) (*Codec, error) {
	c := &Codec{
		factories:   make(map[reflect.Type]Factory),
		aliases:     strict.NewBiMap[string, reflect.Type](strict.WithDuplicateMessage("polymorphic alias or type already registered: {}")),
		enums:       make(map[reflect.Type]*enumType),
		fallbacks:   make(map[reflect.Type][]Fallback),
		reservedKey: DefaultReservedKey,
		foldKeys:    true,
		parser:      &fallbackParser{},
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	c.fallbacks[documentType] = []Fallback{{Name: "legacy-text", Func: legacyTextFallback}}
	c.fallbacks[boolType] = []Fallback{{Name: "yes-no", Func: yesNoFallback}}

	for _, opt := range opts {
		opt(c)
	}
	for alias, t := range c.aliases.All() {
		if _, ok := c.factories[t]; !ok {
			c.errs = append(c.errs, RegistrationError{
				Type:   t,
				Reason: fmt.Sprintf("alias %q has no factory", alias),
			})
		}
	}
	if len(c.errs) > 0 {
		return nil, errors.Join(c.errs...)
	}
	c.errs = nil

	c.log.Debug(
		"codec configured",
		slog.Int("serializers", len(c.serializers)),
		slog.Int("factories", len(c.factories)),
		slog.Int("aliases", c.aliases.Len()),
		slog.Int("enums", len(c.enums)),
		slog.String("reserved_key", c.reservedKey),
	)
	return c, nil
}

// MustCodec is like [NewCodec] but panics if an option fails.
func MustCodec(opts ...Option) *Codec {
	c, err := NewCodec(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// ReservedKey returns the field name which carries polymorphic type aliases.
func (c *Codec) ReservedKey() string {
	return c.reservedKey
}

// NewDocument returns an empty Document bound to c.
func (c *Codec) NewDocument() *Document {
	return New(c)
}

// AliasOf returns the polymorphic alias registered for t.
func (c *Codec) AliasOf(t reflect.Type) (string, bool) {
	if alias, ok := c.aliases.GetKey(t); ok {
		return alias, true
	}
	if t.Kind() == reflect.Pointer {
		return c.aliases.GetKey(t.Elem())
	}
	return "", false
}

// TypeOf returns the type registered under the polymorphic alias.
func (c *Codec) TypeOf(alias string) (reflect.Type, bool) {
	return c.aliases.Get(alias)
}
