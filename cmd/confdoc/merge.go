// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"

	"github.com/z5labs/confdoc/document"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMergeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge BASE OTHER...",
		Short: "Merge documents and print the result",
		Long: `Merge every OTHER into BASE and print the result in BASE's format
unless --to is set.

By default only top level keys missing from BASE are taken from OTHER.
--override lets top level keys of each OTHER replace those of BASE and
--deep overrides key by key through nested documents, optionally followed
by environment variables starting with --env-prefix.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.merge(cmd.Context(), args)
		},
	}
	cmd.Flags().Bool("override", false, "let later documents replace top level keys")
	cmd.Flags().Bool("deep", false, "override key by key through nested documents")
	cmd.Flags().String("env-prefix", "", "with --deep, apply environment variables with this prefix last")
	cmd.Flags().String("to", "", "output format: yaml, json or toml")
	return cmd
}

func (c *cli) merge(ctx context.Context, paths []string) error {
	in, err := c.formatOf(paths[0])
	if err != nil {
		return err
	}
	to, err := c.outputFormat(in)
	if err != nil {
		return err
	}

	var merged *document.Document
	if c.v.GetBool("deep") {
		merged, err = c.mergeDeep(paths, c.v.GetString("env-prefix"))
	} else {
		merged, err = c.mergeShallow(ctx, paths, c.v.GetBool("override"))
	}
	if err != nil {
		return err
	}
	c.log.Debug("merged documents", zap.Strings("paths", paths), zap.Int("keys", merged.Len()))
	return document.Encode(c.out, merged, to)
}

func (c *cli) mergeShallow(ctx context.Context, paths []string, override bool) (*document.Document, error) {
	docs, err := c.decodeAll(ctx, paths)
	if err != nil {
		return nil, err
	}
	base := docs[0]
	for _, other := range docs[1:] {
		if override {
			base.OverrideAll(other)
			continue
		}
		base.MergeFrom(other)
	}
	return base, nil
}

func (c *cli) mergeDeep(paths []string, envPrefix string) (*document.Document, error) {
	srcs := make([]document.Source, 0, len(paths)+1)
	for _, path := range paths {
		f, err := c.formatOf(path)
		if err != nil {
			return nil, err
		}
		r := c.open(path)
		switch f {
		case document.YAML:
			srcs = append(srcs, document.FromYaml(r))
		case document.JSON:
			srcs = append(srcs, document.FromJson(r))
		case document.TOML:
			srcs = append(srcs, document.FromToml(r))
		}
	}
	if envPrefix != "" {
		srcs = append(srcs, document.FromEnv(envPrefix))
	}
	return document.Read(c.codec, srcs...)
}
