// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"

	"github.com/z5labs/confdoc/document"
	"github.com/z5labs/confdoc/key"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

func newGetCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value at a key path",
		Long: `Print the value addressed by PATH, e.g. "servers[0].port".
Nested documents are printed in the input's format unless --to is set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.get(args[0], args[1])
		},
	}
	cmd.Flags().String("to", "", "format for nested documents: yaml, json or toml")
	return cmd
}

func (c *cli) get(path, keyPath string) error {
	chain, err := key.Parse(keyPath)
	if err != nil {
		return err
	}
	in, err := c.formatOf(path)
	if err != nil {
		return err
	}
	to, err := c.outputFormat(in)
	if err != nil {
		return err
	}

	d, err := c.decode(path)
	if err != nil {
		return err
	}
	v, ok, err := d.Resolve(chain)
	if err != nil {
		return err
	}
	if !ok {
		return document.MissingKeyError{Key: keyPath}
	}
	return c.print(v, to)
}

// print writes v to stdout. Scalars are written one per line, list
// elements one after another and documents encoded as f.
func (c *cli) print(v any, f document.Format) error {
	sv, err := c.codec.Serialize(v)
	if err != nil {
		return err
	}

	switch x := sv.(type) {
	case *document.Document:
		return document.Encode(c.out, x, f)
	case []any:
		for _, e := range x {
			err := c.print(e, f)
			if err != nil {
				return err
			}
		}
		return nil
	}

	s, err := cast.ToStringE(sv)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, s)
	return err
}
