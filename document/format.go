// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/z5labs/confdoc/internal/try"

	"gopkg.in/yaml.v3"
)

// Format is a text encoding of documents.
type Format int

const (
	YAML Format = iota
	JSON
	TOML
)

// String implements the fmt.Stringer interface.
func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	case TOML:
		return "toml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// UnknownFormatError occurs when a format name or file extension is not
// one of yaml, json or toml.
type UnknownFormatError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown document format: %q", e.Name)
}

// ParseFormat returns the Format with the given name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	}
	return 0, UnknownFormatError{Name: name}
}

// FormatFromPath returns the Format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, UnknownFormatError{Name: path}
	}
	f, err := ParseFormat(ext[1:])
	if err != nil {
		return 0, UnknownFormatError{Name: path}
	}
	return f, nil
}

// InvalidYamlError occurs if YAML text cannot be parsed.
type InvalidYamlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// InvalidJsonError occurs if JSON text cannot be parsed.
type InvalidJsonError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// InvalidTomlError occurs if TOML text cannot be parsed.
type InvalidTomlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidTomlError) Error() string {
	return fmt.Sprintf("invalid toml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidTomlError) Unwrap() error {
	return e.Cause
}

// Decode reads all of r as f. r is closed afterwards if it is an io.Closer.
func Decode(c *Codec, r io.Reader, f Format) (*Document, error) {
	b, err := try.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = MustCodec()
	}

	switch f {
	case YAML:
		return decodeYAML(c, b)
	case JSON:
		if len(bytes.TrimSpace(b)) == 0 {
			return New(c), nil
		}
		return decodeJSON(c, b)
	case TOML:
		return decodeTOML(c, b)
	}
	return nil, UnknownFormatError{Name: f.String()}
}

// Encode writes d to w as f. YAML and JSON keep key order.
func Encode(w io.Writer, d *Document, f Format) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(d)
		if err != nil {
			return err
		}
		return enc.Close()
	case JSON:
		b, err := d.MarshalJSON()
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		err = json.Indent(&buf, b, "", "  ")
		if err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err = buf.WriteTo(w)
		return err
	case TOML:
		return encodeTOML(w, d)
	}
	return UnknownFormatError{Name: f.String()}
}
