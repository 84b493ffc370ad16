// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"testing"

	"github.com/z5labs/confdoc/key"
	"github.com/z5labs/confdoc/strict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Put(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the value is nil", func(t *testing.T) {
			d := New(nil)

			err := d.Put("a", nil)

			var nerr NullValueError
			if !assert.ErrorAs(t, err, &nerr) {
				return
			}
			assert.Equal(t, "a", nerr.Key)
			assert.Equal(t, 0, d.Len())
		})

		t.Run("if the key is already set", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.Put("a", 1))

			err := d.Put("a", 2)

			var derr strict.DuplicateElementError
			if !assert.ErrorAs(t, err, &derr) {
				return
			}
			assert.Contains(t, derr.Error(), "key a is already set")

			raw, _ := d.Raw("a")
			assert.Equal(t, 1, raw)
		})
	})
}

func TestDocument_Override(t *testing.T) {
	d := New(nil)
	require.NoError(t, d.Put("a", 1))
	require.NoError(t, d.Put("b", 2))

	require.NoError(t, d.Override("a", 3))
	assert.Equal(t, []string{"a", "b"}, d.Keys())

	raw, _ := d.Raw("a")
	assert.Equal(t, 3, raw)

	var nerr NullValueError
	assert.ErrorAs(t, d.Override("a", nil), &nerr)
}

func TestDocument_PutIf(t *testing.T) {
	t.Run("will record a cleared key", func(t *testing.T) {
		t.Run("if the value is empty", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.PutIf("name", ""))
			require.NoError(t, d.PutIf("tags", []string{}))
			require.NoError(t, d.PutIf("nothing", nil))

			for _, k := range []string{"name", "tags", "nothing"} {
				assert.True(t, d.Has(k), k)
				assert.True(t, d.IsCleared(k), k)
			}
			assert.False(t, d.IsCleared("never"))

			name, err := Get(d, "name", "default")
			require.NoError(t, err)
			assert.Equal(t, "default", name)
		})
	})

	t.Run("will put the value", func(t *testing.T) {
		t.Run("if it is not empty", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.PutIf("name", "x"))

			assert.False(t, d.IsCleared("name"))
			name, err := Get(d, "name", "default")
			require.NoError(t, err)
			assert.Equal(t, "x", name)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the key is already set", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.PutIf("name", ""))

			var derr strict.DuplicateElementError
			assert.ErrorAs(t, d.PutIf("name", "x"), &derr)
		})
	})
}

func TestDocument_MergeFrom(t *testing.T) {
	a := New(nil)
	require.NoError(t, a.Put("shared", "a"))
	require.NoError(t, a.Put("onlyA", 1))

	b := New(nil)
	require.NoError(t, b.Put("shared", "b"))
	require.NoError(t, b.Put("onlyB", 2))

	merged := a.MergeFrom(b)
	assert.Same(t, a, merged)
	assert.Equal(t, []string{"shared", "onlyA", "onlyB"}, a.Keys())

	shared, err := a.GetString("shared", "")
	require.NoError(t, err)
	assert.Equal(t, "a", shared)

	onlyB, err := a.GetInt("onlyB", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, onlyB)
}

func TestDocument_OverrideAll(t *testing.T) {
	a := New(nil)
	require.NoError(t, a.Put("shared", "a"))
	require.NoError(t, a.Put("onlyA", 1))

	b := New(nil)
	require.NoError(t, b.Put("shared", "b"))
	require.NoError(t, b.Put("onlyB", 2))

	a.OverrideAll(b)
	assert.Equal(t, []string{"shared", "onlyA", "onlyB"}, a.Keys())

	shared, err := a.GetString("shared", "")
	require.NoError(t, err)
	assert.Equal(t, "b", shared)
}

func TestDocument_SetRemoveOnGet(t *testing.T) {
	d := New(nil)
	require.NoError(t, d.Put("level", "5"))
	require.NoError(t, d.Put("tag", "boss"))

	d.SetRemoveOnGet(true)
	assert.True(t, d.RemoveOnGet())

	lvl, err := d.GetInt("level", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, lvl)
	assert.False(t, d.Has("level"))
	assert.Equal(t, 1, d.Len())

	lvl, err = d.GetInt("level", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, lvl)

	t.Run("will remove the value even if it fails to convert", func(t *testing.T) {
		_, err := d.GetInt("tag", 0)
		require.Error(t, err)
		assert.Equal(t, 0, d.Len())
	})

	t.Run("will remove path reads from the parent document", func(t *testing.T) {
		root := New(nil)
		server := New(nil)
		require.NoError(t, server.Put("Host", "localhost"))
		require.NoError(t, server.Put("port", 8080))
		require.NoError(t, root.Put("server", server))
		require.NoError(t, root.Put("tags", []any{"a", "b"}))
		root.SetRemoveOnGet(true)

		host, err := GetPath(root, key.Chain{key.Name("server"), key.Name("host")}, "")
		require.NoError(t, err)
		assert.Equal(t, "localhost", host)
		assert.Equal(t, []string{"port"}, server.Keys())

		host, err = GetPath(root, key.Chain{key.Name("server"), key.Name("host")}, "none")
		require.NoError(t, err)
		assert.Equal(t, "none", host)

		tag, err := GetPath(root, key.Chain{key.Name("tags"), key.Index(0)}, "")
		require.NoError(t, err)
		assert.Equal(t, "a", tag)
		assert.True(t, root.Has("tags"))

		sub, err := GetPath(root, key.Name("server"), (*Document)(nil))
		require.NoError(t, err)
		assert.Same(t, server, sub)
		assert.Equal(t, []string{"tags"}, root.Keys())
	})
}

func TestDocument_Remove(t *testing.T) {
	t.Run("will remove a key matched case-insensitively", func(t *testing.T) {
		d := New(nil)
		require.NoError(t, d.Put("Level", 5))
		require.True(t, d.Has("level"))

		v, err := d.Remove("level")
		require.NoError(t, err)
		assert.Equal(t, 5, v)
		assert.False(t, d.Has("Level"))
		assert.Equal(t, 0, d.Len())
	})

	t.Run("will prefer an exact match", func(t *testing.T) {
		d := New(nil)
		require.NoError(t, d.Put("LEVEL", 1))
		require.NoError(t, d.Put("level", 2))

		v, ok := d.RemoveWeak("level")
		require.True(t, ok)
		assert.Equal(t, 2, v)
		assert.Equal(t, []string{"LEVEL"}, d.Keys())
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the key is not set", func(t *testing.T) {
			d := New(nil)

			_, err := d.Remove("level")

			var nerr strict.ElementNotFoundError
			if !assert.ErrorAs(t, err, &nerr) {
				return
			}
			assert.Equal(t, "level", nerr.Element)
		})

		t.Run("if keys are case-sensitive", func(t *testing.T) {
			d := New(MustCodec(WithCaseSensitiveKeys()))
			require.NoError(t, d.Put("Level", 5))

			_, ok := d.RemoveWeak("level")
			assert.False(t, ok)
			assert.Equal(t, 1, d.Len())
		})
	})
}

func TestDocument_Lookup(t *testing.T) {
	t.Run("will fall back to a case-insensitive match", func(t *testing.T) {
		d := New(nil)
		require.NoError(t, d.Put("Level", 5))

		lvl, err := d.GetInt("level", 0)
		require.NoError(t, err)
		assert.Equal(t, 5, lvl)
	})

	t.Run("will prefer an exact match", func(t *testing.T) {
		d := New(nil)
		require.NoError(t, d.Put("LEVEL", 1))
		require.NoError(t, d.Put("level", 2))

		lvl, err := d.GetInt("level", 0)
		require.NoError(t, err)
		assert.Equal(t, 2, lvl)
	})

	t.Run("will not fold keys", func(t *testing.T) {
		t.Run("if the codec is case-sensitive", func(t *testing.T) {
			d := New(MustCodec(WithCaseSensitiveKeys()))
			require.NoError(t, d.Put("Level", 5))

			lvl, err := d.GetInt("level", 0)
			require.NoError(t, err)
			assert.Equal(t, 0, lvl)
		})
	})

	t.Run("will annotate errors with the key", func(t *testing.T) {
		d := New(nil)
		require.NoError(t, d.Put("level", "abc"))

		_, err := d.GetInt("level", 10)

		var kerr KeyError
		if !assert.ErrorAs(t, err, &kerr) {
			return
		}
		assert.Equal(t, "level", kerr.Path.Key())

		var perr ParseError
		assert.ErrorAs(t, err, &perr)
	})
}

func TestDocument_Resolve(t *testing.T) {
	d := New(nil)
	sub := New(nil)
	require.NoError(t, sub.Put("host", "a.example.com"))
	require.NoError(t, d.Put("servers", []any{sub, map[string]any{"host": "b.example.com"}}))

	testCases := []struct {
		name   string
		path   string
		value  any
		exists bool
	}{
		{name: "nested document in list", path: "servers[0].host", value: "a.example.com", exists: true},
		{name: "nested map in list", path: "servers[1].host", value: "b.example.com", exists: true},
		{name: "index out of range", path: "servers[2].host"},
		{name: "missing key", path: "servers[0].port"},
		{name: "missing root", path: "clients"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := key.Parse(tc.path)
			require.NoError(t, err)

			v, ok, err := d.Resolve(path)
			require.NoError(t, err)
			assert.Equal(t, tc.exists, ok)
			assert.Equal(t, tc.value, v)
		})
	}

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if an index is negative", func(t *testing.T) {
			_, _, err := d.Resolve(key.Chain{key.Name("servers"), key.Index(-1)})

			var kerr KeyError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
			assert.Equal(t, key.Chain{key.Name("servers"), key.Index(-1)}, kerr.Path)

			var ierr strict.IndexOutOfRangeError
			if !assert.ErrorAs(t, err, &ierr) {
				return
			}
			assert.Equal(t, -1, ierr.Index)
			assert.Equal(t, 2, ierr.Len)
		})

		t.Run("if an index is applied to a non-list", func(t *testing.T) {
			path, err := key.Parse("servers[0].host[1]")
			require.NoError(t, err)

			_, _, err = d.Resolve(path)

			var merr MalformedDocumentError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
			assert.Equal(t, "list", merr.Expected)
		})
	})
}

func TestDocument_Set(t *testing.T) {
	t.Run("will create intermediate documents", func(t *testing.T) {
		d := New(nil)
		path, err := key.Parse("server.http.port")
		require.NoError(t, err)

		require.NoError(t, d.Set(path, 8080))
		require.NoError(t, d.Set(key.Chain{key.Name("server"), key.Name("host")}, "localhost"))

		port, err := GetPath(d, path, 0)
		require.NoError(t, err)
		assert.Equal(t, 8080, port)

		srv, err := d.GetDocument("server")
		require.NoError(t, err)
		assert.Equal(t, []string{"http", "host"}, srv.Keys())
	})

	t.Run("will convert nested maps into documents", func(t *testing.T) {
		d := New(nil)
		require.NoError(t, d.Put("server", map[string]any{"host": "localhost"}))

		require.NoError(t, d.Set(key.Chain{key.Name("server"), key.Name("port")}, 80))

		raw, _ := d.Raw("server")
		srv, ok := raw.(*Document)
		require.True(t, ok)
		assert.Equal(t, []string{"host", "port"}, srv.Keys())
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the key chain is empty", func(t *testing.T) {
			d := New(nil)

			var eerr EmptyKeyChainError
			assert.ErrorAs(t, d.Set(key.Chain{}, 1), &eerr)
		})

		t.Run("if an intermediate value is not a document", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.Put("server", "localhost"))

			err := d.Set(key.Chain{key.Name("server"), key.Name("port")}, 80)

			var kerr KeyError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
			assert.Equal(t, "server", kerr.Path.Key())
		})

		t.Run("if the key is an index", func(t *testing.T) {
			d := New(nil)
			assert.Error(t, d.Set(key.Index(0), 1))
		})
	})
}

func TestFromValue(t *testing.T) {
	c := MustCodec()

	t.Run("will return the same document", func(t *testing.T) {
		d := New(c)

		got, err := FromValue(c, d)
		require.NoError(t, err)
		assert.Same(t, d, got)
	})

	t.Run("will read maps in sorted key order", func(t *testing.T) {
		d, err := FromValue(c, map[any]any{"b": 1, "a": 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, d.Keys())
	})

	t.Run("will read a legacy key=value pair", func(t *testing.T) {
		d, err := FromValue(c, "color=red")
		require.NoError(t, err)

		color, err := d.GetString("color", "")
		require.NoError(t, err)
		assert.Equal(t, "red", color)
	})

	t.Run("will reinterpret flattened pairs with no value", func(t *testing.T) {
		d, err := FromValue(c, map[string]any{"color=red": nil, "size": 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"color", "size"}, d.Keys())

		color, err := d.GetString("color", "")
		require.NoError(t, err)
		assert.Equal(t, "red", color)
	})

	t.Run("will return an error", func(t *testing.T) {
		testCases := []struct {
			name  string
			value any
			typ   string
		}{
			{name: "if the value is a number", value: 42, typ: "int"},
			{name: "if the value is a list", value: []any{1}, typ: "[]interface {}"},
			{name: "if the value is text without a pair", value: "hello", typ: "string"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := FromValue(c, tc.value)

				var merr MalformedDocumentError
				if !assert.ErrorAs(t, err, &merr) {
					return
				}
				assert.Contains(t, merr.Error(), tc.typ)
			})
		}
	})
}

func TestDocument_ToMap(t *testing.T) {
	c := testCodec()
	d := New(c)
	require.NoError(t, d.Put("color", red))
	require.NoError(t, d.Put("origin", point{X: 1, Y: 2}))
	require.NoError(t, d.Put("levels", []level{levelInfo, levelWarn}))

	m, err := d.ToMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"color":  "#FF0000",
		"origin": map[string]any{"==": "Point", "x": 1, "y": 2},
		"levels": []any{"INFO", "WARN"},
	}, m)
}
