// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strict

import (
	"fmt"
	"strings"
)

// Placeholder is substituted with the offending element in message templates.
const Placeholder = "{}"

const (
	defaultDuplicateMessage = "element already present: {}"
	defaultNotFoundMessage  = "element not found: {}"
)

// Option configures the diagnostics of a strict collection.
type Option func(*messages)

// WithDuplicateMessage sets the template used to describe a duplicate
// element. Every occurrence of [Placeholder] is replaced by the element.
func WithDuplicateMessage(tmpl string) Option {
	return func(m *messages) {
		m.duplicate = tmpl
	}
}

// WithNotFoundMessage sets the template used to describe a missing
// element. Every occurrence of [Placeholder] is replaced by the element.
func WithNotFoundMessage(tmpl string) Option {
	return func(m *messages) {
		m.notFound = tmpl
	}
}

type messages struct {
	duplicate string
	notFound  string
}

func newMessages(opts []Option) messages {
	m := messages{
		duplicate: defaultDuplicateMessage,
		notFound:  defaultNotFoundMessage,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m messages) duplicateError(e any) DuplicateElementError {
	return DuplicateElementError{
		Element: e,
		Message: render(m.duplicate, e),
	}
}

func (m messages) notFoundError(e any) ElementNotFoundError {
	return ElementNotFoundError{
		Element: e,
		Message: render(m.notFound, e),
	}
}

func render(tmpl string, e any) string {
	return strings.ReplaceAll(tmpl, Placeholder, fmt.Sprint(e))
}

// DuplicateElementError occurs when adding an element, key or value
// which is already present.
type DuplicateElementError struct {
	Element any
	Message string
}

// Error implements the error interface.
func (e DuplicateElementError) Error() string {
	if e.Message == "" {
		return render(defaultDuplicateMessage, e.Element)
	}
	return e.Message
}

// ElementNotFoundError occurs when removing an element, key or value
// which is not present.
type ElementNotFoundError struct {
	Element any
	Message string
}

// Error implements the error interface.
func (e ElementNotFoundError) Error() string {
	if e.Message == "" {
		return render(defaultNotFoundMessage, e.Element)
	}
	return e.Message
}

// IndexOutOfRangeError occurs when a position outside of a collection is requested.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

// Error implements the error interface.
func (e IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for collection of length %d", e.Index, e.Len)
}
