// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/z5labs/confdoc/key"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fsFunc func(string) (fs.File, error)

func (f fsFunc) Open(path string) (fs.File, error) {
	return f(path)
}

type readFunc func([]byte) (int, error)

func (f readFunc) Read(b []byte) (int, error) {
	return f(b)
}

type storeFunc func(key.Keyer, any) error

func (f storeFunc) Set(k key.Keyer, v any) error {
	return f(k, v)
}

func TestRead(t *testing.T) {
	t.Run("will override earlier sources key by key", func(t *testing.T) {
		env := Env{
			prefix: "APP_",
			environ: func() []string {
				return []string{"APP_SERVER__PORT=9090", "OTHER=1", "APP_=x", "BROKEN"}
			},
		}

		d, err := Read(
			nil,
			Map{"server": map[string]any{"host": "localhost", "port": 80}, "name": "base"},
			FromYaml(strings.NewReader("server:\n  tls: true\nname: yaml\n")),
			FromJson(strings.NewReader(`{"debug": true}`)),
			FromToml(strings.NewReader("name = \"toml\"\n")),
			env,
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "server", "debug"}, d.Keys())

		srv, err := d.GetDocument("server")
		require.NoError(t, err)
		assert.Equal(t, []string{"host", "port", "tls"}, srv.Keys())

		port, err := GetPath(d, key.Chain{key.Name("server"), key.Name("port")}, 0)
		require.NoError(t, err)
		assert.Equal(t, 9090, port)

		name, err := d.GetString("name", "")
		require.NoError(t, err)
		assert.Equal(t, "toml", name)
	})

	t.Run("will return an empty document", func(t *testing.T) {
		t.Run("if there are no sources", func(t *testing.T) {
			d, err := Read(nil)
			require.NoError(t, err)
			assert.Equal(t, 0, d.Len())
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a source fails", func(t *testing.T) {
			_, err := Read(nil, FromJson(strings.NewReader("{")))

			var jerr InvalidJsonError
			assert.ErrorAs(t, err, &jerr)
		})
	})
}

func TestMap_Apply(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the store fails", func(t *testing.T) {
			setErr := errors.New("failed to set")
			store := storeFunc(func(key.Keyer, any) error {
				return setErr
			})

			err := Map{"a": map[string]any{"b": 1}}.Apply(store)
			assert.ErrorIs(t, err, setErr)
		})
	})

	t.Run("will set nested keys as chains", func(t *testing.T) {
		var keys []string
		store := storeFunc(func(k key.Keyer, _ any) error {
			keys = append(keys, k.Key())
			return nil
		})

		err := Map{"b": 1, "a": map[string]any{"d": 2, "c": 3}}.Apply(store)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.c", "a.d", "b"}, keys)
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CONFDOC_TEST_LOG__LEVEL", "debug")

	d, err := Read(nil, FromEnv("CONFDOC_TEST_"))
	require.NoError(t, err)

	lvl, err := GetPath(d, key.Chain{key.Name("log"), key.Name("level")}, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", lvl)
}

func TestFileReader_Read(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the fs.FS fails to open the file", func(t *testing.T) {
			openErr := errors.New("failed to open")
			fs := fsFunc(func(s string) (fs.File, error) {
				return nil, openErr
			})

			r := NewFileReader(fs, "config.yaml")
			_, err := io.ReadAll(r)
			if !assert.ErrorIs(t, err, openErr) {
				return
			}

			_, err = r.Read(make([]byte, 1))
			assert.ErrorIs(t, err, openErr)
		})
	})
}

func TestFileReader_Close(t *testing.T) {
	t.Run("will not return an error", func(t *testing.T) {
		t.Run("if Close is called before the underlying file has been opened", func(t *testing.T) {
			fs := fsFunc(func(s string) (fs.File, error) {
				return nil, nil
			})

			r := NewFileReader(fs, "config.yaml")
			err := r.Close()
			if !assert.Nil(t, err) {
				return
			}
		})
	})
}

func TestDecodeFile(t *testing.T) {
	fsys := fstest.MapFS{
		"conf/app.yaml": {Data: []byte("name: app\nport: 80\n")},
		"conf/app.toml": {Data: []byte("name = \"app\"\nport = 80\n")},
		"conf/app.ini":  {Data: []byte("name=app\n")},
	}

	for _, path := range []string{"conf/app.yaml", "conf/app.toml"} {
		t.Run(path, func(t *testing.T) {
			d, err := DecodeFile(nil, fsys, path)
			require.NoError(t, err)
			assert.Equal(t, []string{"name", "port"}, d.Keys())
		})
	}

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the extension is unknown", func(t *testing.T) {
			_, err := DecodeFile(nil, fsys, "conf/app.ini")

			var uerr UnknownFormatError
			assert.ErrorAs(t, err, &uerr)
		})

		t.Run("if the file does not exist", func(t *testing.T) {
			_, err := DecodeFile(nil, fsys, "conf/missing.yaml")
			assert.ErrorIs(t, err, fs.ErrNotExist)
		})
	})
}

func TestTextTemplateRenderer_Read(t *testing.T) {
	t.Run("will render the template", func(t *testing.T) {
		t.Setenv("CONFDOC_TEST_HOST", "example.com")

		r := RenderTextTemplate(
			strings.NewReader(`host: {{ env "CONFDOC_TEST_HOST" }}
port: {{ default 8080 (env "CONFDOC_TEST_PORT") }}
name: {{ .Name }}
region: {{ region }}
`),
			TemplateData(struct{ Name string }{Name: "app"}),
			TemplateFunc("region", func() string { return "us-east-1" }),
		)

		d, err := Decode(nil, r, YAML)
		require.NoError(t, err)

		host, err := d.GetString("host", "")
		require.NoError(t, err)
		assert.Equal(t, "example.com", host)

		port, err := d.GetInt("port", 0)
		require.NoError(t, err)
		assert.Equal(t, 8080, port)

		name, err := d.GetString("name", "")
		require.NoError(t, err)
		assert.Equal(t, "app", name)

		region, err := d.GetString("region", "")
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", region)
	})

	t.Run("will use custom delimiters", func(t *testing.T) {
		r := RenderTextTemplate(strings.NewReader(`port: <% default 80 "" %>`), TemplateDelims("<%", "%>"))

		b, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "port: 80", string(b))
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the underlying io.Reader fails", func(t *testing.T) {
			readErr := errors.New("failed to read")
			r := readFunc(func(b []byte) (int, error) {
				return 0, readErr
			})

			ttr := RenderTextTemplate(r)
			_, err := io.ReadAll(ttr)
			if !assert.ErrorIs(t, err, readErr) {
				return
			}
		})

		t.Run("if the underlying io.Reader contains an invalid text/template", func(t *testing.T) {
			r := strings.NewReader(`{{ hello`)

			ttr := RenderTextTemplate(r)
			_, err := io.ReadAll(ttr)

			var ierr TextTemplateParseError
			if !assert.ErrorAs(t, err, &ierr) {
				return
			}
			if !assert.NotEmpty(t, ierr.Error()) {
				return
			}
			if !assert.Error(t, ierr.Unwrap()) {
				return
			}
		})

		t.Run("if the parsed text/template fails to execute", func(t *testing.T) {
			r := strings.NewReader(`{{ hello }}`)

			ttr := RenderTextTemplate(
				r,
				TemplateFunc("hello", func() string {
					panic("ahhhh")
				}),
			)
			_, err := io.ReadAll(ttr)

			var ierr TextTemplateExecError
			if !assert.ErrorAs(t, err, &ierr) {
				return
			}
			if !assert.NotEmpty(t, ierr.Error()) {
				return
			}
			if !assert.Error(t, ierr.Unwrap()) {
				return
			}
		})
	})
}
