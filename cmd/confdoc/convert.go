// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/z5labs/confdoc/document"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SameFormatError occurs when convert would overwrite its own input.
type SameFormatError struct {
	Path   string
	Format document.Format
}

// Error implements the error interface.
func (e SameFormatError) Error() string {
	return fmt.Sprintf("%s: already %s", e.Path, e.Format)
}

func newConvertCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Convert documents to another format",
		Long: `Convert every FILE into the format given by --to. Each result is
written next to its input with the new extension unless --stdout is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := document.ParseFormat(c.v.GetString("to"))
			if err != nil {
				return err
			}
			return c.convert(cmd.Context(), to, c.v.GetBool("stdout"), args)
		},
	}
	cmd.Flags().String("to", "", "output format: yaml, json or toml")
	cmd.Flags().Bool("stdout", false, "write results to stdout, in argument order")
	return cmd
}

func (c *cli) convert(ctx context.Context, to document.Format, toStdout bool, paths []string) error {
	outs := make([][]byte, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			dst := outputPath(path, to)
			if !toStdout && dst == path {
				return SameFormatError{Path: path, Format: to}
			}

			d, err := c.decode(path)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			err = document.Encode(&buf, d, to)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if toStdout {
				outs[i] = buf.Bytes()
				return nil
			}

			err = os.WriteFile(dst, buf.Bytes(), 0o644)
			if err != nil {
				return err
			}
			c.log.Info("converted document", zap.String("src", path), zap.String("dst", dst))
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return err
	}

	for _, b := range outs {
		_, err := c.out.Write(b)
		if err != nil {
			return err
		}
	}
	return nil
}

func outputPath(path string, f document.Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + f.String()
}
