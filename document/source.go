// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"io"
	"os"
	"strings"

	"github.com/z5labs/confdoc/key"
)

// Store represents a general key value structure.
type Store interface {
	Set(key.Keyer, any) error
}

// Source defines valid document sources as those who can
// write themselves into a key value like structure.
type Source interface {
	Apply(Store) error
}

// Read applies every source, in order, to a new Document.
// Subsequent sources override previous sources key by key.
func Read(c *Codec, srcs ...Source) (*Document, error) {
	d := New(c)
	for _, src := range srcs {
		err := src.Apply(d)
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Map is an ordinary map[string]any but implements the Source interface.
type Map map[string]any

// Apply implements the Source interface. It recursively walks the underlying
// map, in sorted key order, to find key value pairs to set on the given store.
func (m Map) Apply(store Store) error {
	return walkMap(m, store, nil)
}

func walkMap(m map[string]any, store Store, chain key.Chain) error {
	for _, k := range sortedKeys(m) {
		next := chain.Append(key.Name(k))
		switch x := m[k].(type) {
		case map[string]any:
			err := walkMap(x, store, next)
			if err != nil {
				return err
			}
		default:
			err := store.Set(next, x)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// walkDocument sets every leaf of d on store. Empty nested documents are
// leaves so that their keys survive.
func walkDocument(d *Document, store Store, chain key.Chain) error {
	for k, v := range d.All() {
		next := chain.Append(key.Name(k))
		sub, ok := v.(*Document)
		if ok && sub.Len() > 0 {
			err := walkDocument(sub, store, next)
			if err != nil {
				return err
			}
			continue
		}
		err := store.Set(next, v)
		if err != nil {
			return err
		}
	}
	return nil
}

// Env represents a Source where its underlying values
// are extracted from environment variables.
//
// Only variables starting with the prefix are applied. The remainder of
// the name is lower cased and split on "__" into nested keys, so with
// prefix "APP_" the variable APP_SERVER__PORT sets server.port.
type Env struct {
	prefix  string
	environ func() []string
}

// FromEnv returns a Source which will apply its values
// from the environment variables available to the
// current process.
func FromEnv(prefix string) Env {
	return Env{
		prefix:  prefix,
		environ: os.Environ,
	}
}

// Apply implements the Source interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(k, src.prefix)
		if !ok || name == "" {
			continue
		}

		var chain key.Chain
		for _, part := range strings.Split(strings.ToLower(name), "__") {
			if part == "" {
				continue
			}
			chain = append(chain, key.Name(part))
		}
		if len(chain) == 0 {
			continue
		}

		err := store.Set(chain, v)
		if err != nil {
			return err
		}
	}
	return nil
}

// Yaml represents a Source where its underlying format is YAML.
type Yaml struct {
	r io.Reader
}

// FromYaml returns a source which will apply its values
// from YAML parsed from the given io.Reader.
func FromYaml(r io.Reader) Yaml {
	return Yaml{r: r}
}

// Apply implements the Source interface.
func (src Yaml) Apply(store Store) error {
	return applyText(store, src.r, YAML)
}

// Json represents a Source where its underlying format is JSON.
type Json struct {
	r io.Reader
}

// FromJson returns a source which will apply its values
// from JSON parsed from the given io.Reader.
func FromJson(r io.Reader) Json {
	return Json{r: r}
}

// Apply implements the Source interface.
func (src Json) Apply(store Store) error {
	return applyText(store, src.r, JSON)
}

// Toml represents a Source where its underlying format is TOML.
type Toml struct {
	r io.Reader
}

// FromToml returns a source which will apply its values
// from TOML parsed from the given io.Reader.
func FromToml(r io.Reader) Toml {
	return Toml{r: r}
}

// Apply implements the Source interface.
func (src Toml) Apply(store Store) error {
	return applyText(store, src.r, TOML)
}

func applyText(store Store, r io.Reader, f Format) error {
	var c *Codec
	if d, ok := store.(*Document); ok {
		c = d.codec
	}
	d, err := Decode(c, r, f)
	if err != nil {
		return err
	}
	return walkDocument(d, store, nil)
}
