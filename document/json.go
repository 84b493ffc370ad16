// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

var errTrailingData = errors.New("unexpected data after top-level object")

// decodeJSON reads a top-level JSON object, keeping the order of its keys.
func decodeJSON(c *Codec, b []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, InvalidJsonError{Cause: err}
	}
	if tok != json.Delim('{') {
		return nil, MalformedDocumentError{Expected: "object", Value: tok}
	}
	d, err := readJSONObject(c, dec)
	if err != nil {
		return nil, InvalidJsonError{Cause: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, InvalidJsonError{Cause: errTrailingData}
	}
	return d, nil
}

func readJSONObject(c *Codec, dec *json.Decoder) (*Document, error) {
	d := New(c)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		k := tok.(string)

		v, err := readJSONValue(c, dec)
		if err != nil {
			return nil, err
		}
		err = d.putRaw(k, v)
		if err != nil {
			return nil, err
		}
	}
	// closing brace
	_, err := dec.Token()
	return d, err
}

func readJSONValue(c *Codec, dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch x := tok.(type) {
	case json.Delim:
		if x == '{' {
			return readJSONObject(c, dec)
		}
		l := []any{}
		for dec.More() {
			v, err := readJSONValue(c, dec)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		_, err := dec.Token()
		return l, err
	case json.Number:
		return jsonNumber(x), nil
	}
	return tok, nil
}

func jsonNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u
	}
	f, _ := n.Float64()
	return f
}

// MarshalJSON implements the json.Marshaler interface. Keys are written
// in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	s, err := d.serialized()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = writeJSON(&buf, s)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case *Document:
		buf.WriteByte('{')
		i := 0
		for k, v := range x.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++

			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')

			err = writeJSON(buf, v)
			if err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, v := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			err := writeJSON(buf, v)
			if err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface. A zero
// Document is bound to a default Codec.
func (d *Document) UnmarshalJSON(b []byte) error {
	c := d.codec
	if c == nil {
		c = MustCodec()
	}
	nd, err := decodeJSON(c, b)
	if err != nil {
		return err
	}
	*d = *nd
	return nil
}

// Text returns d as compact JSON text.
func (d *Document) Text() (string, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseText reads JSON text produced by [Document.Text]. Empty or
// malformed text results in an empty Document rather than an error.
func ParseText(c *Codec, s string) *Document {
	d := New(c)
	s = strings.TrimSpace(s)
	switch s {
	case "", "{}", "[]":
		return d
	}

	parsed, err := decodeJSON(d.codec, []byte(s))
	if err != nil {
		d.codec.log.Warn(
			"replaced malformed document text with empty document",
			slog.Int("length", len(s)),
			slog.Any("error", err),
		)
		return d
	}
	return parsed
}
