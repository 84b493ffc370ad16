// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package document loads hierarchical, loosely typed configuration
// documents and converts their values to and from Go types.
//
// # Documents
//
// A [Document] is one level of a document: an ordered map of string keys
// to raw values. Raw values are bool, string, int, uint64, float64,
// time.Time, []any or nested *Document. Values are converted when they are
// read:
//
//	d, err := document.Decode(c, f, document.YAML)
//	level, err := document.Get(d, "level", 1)
//	tags, err := document.GetList[string](d, "tags")
//
// A key which is not set results in the default. A value which is present
// but cannot be converted is always an error.
//
// # Codecs
//
// Conversion is driven by a [Codec] which is configured once and may then
// be shared. Host types plug in through serializers, factories, enums and
// fallbacks:
//
//	c, err := document.NewCodec(
//		document.WithSerializer(colorSerializer),
//		document.WithFactory(newPoint),
//		document.WithAlias[Point]("Point"),
//		document.WithEnum(Red, Green, Blue),
//	)
//
// # Polymorphic values
//
// A value whose type has an alias is written as a nested document whose
// first key is the reserved key, "==" by default, holding the alias:
//
//	point:
//	  ==: Point
//	  x: 1
//	  y: 2
//
// Reading such a document back routes it to the factory registered for
// the alias's type.
//
// # Sources
//
// [Read] composes [Source]s, e.g. files and environment variables, into one
// Document with later sources overriding earlier ones key by key.
package document
