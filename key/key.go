// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides types for addressing values nested inside documents.
package key

import (
	"fmt"
	"strconv"
	"strings"
)

// Keyer is a common interface all value key types must implement.
type Keyer interface {
	Key() string
}

// Chain represents nested keys.
type Chain []Keyer

// Key implements the [Keyer] interface.
func (k Chain) Key() string {
	var sb strings.Builder
	for i, part := range k {
		if _, ok := part.(Index); !ok && i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part.Key())
	}
	return sb.String()
}

// Append returns a new Chain with ks added to the end of k.
func (k Chain) Append(ks ...Keyer) Chain {
	c := make(Chain, 0, len(k)+len(ks))
	c = append(c, k...)
	return append(c, ks...)
}

// Name represents a single key.
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}

// Index represents a position within a list.
type Index int

// Key implements the [Keyer] interface.
func (k Index) Key() string {
	return "[" + strconv.Itoa(int(k)) + "]"
}

// InvalidPathError occurs when a dotted path cannot be parsed into a [Chain].
type InvalidPathError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e InvalidPathError) Error() string {
	return fmt.Sprintf("invalid key path %q: %s", e.Path, e.Reason)
}

// Parse converts a dotted path such as "servers[1].port" into a [Chain].
func Parse(path string) (Chain, error) {
	if path == "" {
		return nil, InvalidPathError{Path: path, Reason: "empty path"}
	}

	var chain Chain
	for _, seg := range strings.Split(path, ".") {
		name, rest, indexed := strings.Cut(seg, "[")
		if name == "" && !indexed {
			return nil, InvalidPathError{Path: path, Reason: "empty segment"}
		}
		if name != "" {
			chain = append(chain, Name(name))
		}
		for indexed {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, InvalidPathError{Path: path, Reason: "unterminated index"}
			}
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return nil, InvalidPathError{Path: path, Reason: fmt.Sprintf("bad index %q", idx)}
			}
			chain = append(chain, Index(n))
			if tail == "" {
				indexed = false
				continue
			}
			if !strings.HasPrefix(tail, "[") {
				return nil, InvalidPathError{Path: path, Reason: fmt.Sprintf("unexpected %q after index", tail)}
			}
			rest = tail[1:]
		}
	}
	return chain, nil
}
