// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/z5labs/confdoc/document"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// cli holds the state shared by every subcommand. It is populated in the
// root command's PersistentPreRunE once flags, env and config are known.
type cli struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	log    *zap.Logger
	codec  *document.Codec
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{
		v:      viper.New(),
		out:    out,
		errOut: errOut,
		log:    zap.NewNop(),
	}

	cmd := &cobra.Command{
		Use:           "confdoc",
		Short:         "Convert, query and merge configuration documents",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			// stderr can't always be synced, e.g. when it is a terminal
			_ = c.log.Sync()
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file for confdoc itself")
	flags.String("reserved-key", document.DefaultReservedKey, "field name carrying polymorphic type aliases")
	flags.String("format", "", "input format (yaml, json or toml), detected from the file extension when empty")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Bool("case-sensitive", false, "disable the case-insensitive key fallback")
	flags.Bool("template", false, "render inputs as Go text/template before decoding")

	cmd.AddCommand(
		newConvertCmd(c),
		newGetCmd(c),
		newMergeCmd(c),
	)
	return cmd
}

// init resolves settings with the precedence flag > CONFDOC_* env > config
// file > flag default and builds the logger and codec from them.
func (c *cli) init(cmd *cobra.Command) error {
	c.v.SetEnvPrefix("CONFDOC")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	err := c.v.BindPFlags(cmd.Flags())
	if err != nil {
		return err
	}

	if path := c.v.GetString("config"); path != "" {
		c.v.SetConfigFile(path)
		err = c.v.ReadInConfig()
		if err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	level, err := zapcore.ParseLevel(c.v.GetString("log-level"))
	if err != nil {
		return err
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(c.errOut)),
		level,
	)
	c.log = zap.New(core)

	opts := []document.Option{
		document.WithReservedKey(c.v.GetString("reserved-key")),
		document.WithLogger(slog.New(zapslog.NewHandler(core))),
	}
	if c.v.GetBool("case-sensitive") {
		opts = append(opts, document.WithCaseSensitiveKeys())
	}
	c.codec, err = document.NewCodec(opts...)
	return err
}

func (c *cli) formatOf(path string) (document.Format, error) {
	if name := c.v.GetString("format"); name != "" {
		return document.ParseFormat(name)
	}
	return document.FormatFromPath(path)
}

// outputFormat returns the format named by the "to" flag, or def when the
// flag is not set.
func (c *cli) outputFormat(def document.Format) (document.Format, error) {
	name := c.v.GetString("to")
	if name == "" {
		return def, nil
	}
	return document.ParseFormat(name)
}

// open lazily opens the file at path. With --template set the file is
// rendered as a text/template, with env and default available, first.
func (c *cli) open(path string) io.Reader {
	r := document.NewFileReader(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if !c.v.GetBool("template") {
		return r
	}
	return document.RenderTextTemplate(r)
}

func (c *cli) decode(path string) (*document.Document, error) {
	f, err := c.formatOf(path)
	if err != nil {
		return nil, err
	}
	d, err := document.Decode(c.codec, c.open(path), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.log.Debug(
		"decoded document",
		zap.String("path", path),
		zap.Stringer("format", f),
		zap.Int("keys", d.Len()),
	)
	return d, nil
}

// decodeAll decodes every path in parallel. The returned documents are in
// the same order as paths.
func (c *cli) decodeAll(ctx context.Context, paths []string) ([]*document.Document, error) {
	docs := make([]*document.Document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := c.decode(path)
			if err != nil {
				return err
			}
			docs[i] = d
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return docs, nil
}
