// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"reflect"
	"strings"
	"testing"

	"github.com/z5labs/confdoc/key"
	"github.com/z5labs/confdoc/strict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	d := New(nil)
	require.NoError(t, d.Put("level", "5"))
	require.NoError(t, d.Put("tag", "boss"))

	t.Run("will convert the stored value", func(t *testing.T) {
		lvl, err := Get(d, "level", 0)
		require.NoError(t, err)
		assert.Equal(t, 5, lvl)
	})

	t.Run("will return the default", func(t *testing.T) {
		t.Run("if the key is not set", func(t *testing.T) {
			lvl, err := Get(d, "missing", 10)
			require.NoError(t, err)
			assert.Equal(t, 10, lvl)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the stored value cannot be converted", func(t *testing.T) {
			lvl, err := Get(d, "tag", 10)

			var perr ParseError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			assert.Equal(t, "boss", perr.Value)
			assert.Equal(t, reflect.TypeFor[int](), perr.Target)
			assert.Equal(t, 0, lvl)
		})
	})

	t.Run("will leave the document unchanged", func(t *testing.T) {
		first, err := Get(d, "level", 0)
		require.NoError(t, err)
		second, err := Get(d, "level", 0)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 2, d.Len())
	})
}

func TestRequire(t *testing.T) {
	d := New(nil)
	require.NoError(t, d.PutIf("cleared", ""))

	for _, k := range []string{"missing", "cleared"} {
		_, err := Require[int](d, k)

		var merr MissingKeyError
		if !assert.ErrorAs(t, err, &merr) {
			return
		}
		assert.Equal(t, k, merr.Key)
	}
}

func TestGetList(t *testing.T) {
	t.Run("will return an empty list", func(t *testing.T) {
		t.Run("if the key is not set", func(t *testing.T) {
			l, err := GetList[string](New(nil), "tags")
			require.NoError(t, err)
			assert.NotNil(t, l)
			assert.Empty(t, l)
		})
	})

	t.Run("will convert every element", func(t *testing.T) {
		d := New(nil)
		require.NoError(t, d.Put("ports", []any{"80", 443, 8080.0}))

		l, err := GetList[int](d, "ports")
		require.NoError(t, err)
		assert.Equal(t, []int{80, 443, 8080}, l)
	})

	t.Run("will use the given element type", func(t *testing.T) {
		d := New(testCodec())
		require.NoError(t, d.Put("shapes", []any{
			map[string]any{"==": "Circle", "radius": 2},
			map[string]any{"==": "Circle", "radius": 3},
		}))

		l, err := GetList[any](d, "shapes", reflect.TypeFor[Serializable]())
		require.NoError(t, err)
		assert.Equal(t, []any{circle{Radius: 2}, circle{Radius: 3}}, l)
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the stored value is not a list", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.Put("tags", "a"))

			_, err := GetList[string](d, "tags")

			var merr MalformedDocumentError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
			assert.Equal(t, "list", merr.Expected)
		})

		t.Run("if an element cannot be converted", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.Put("ports", []any{80, "http"}))

			_, err := GetList[int](d, "ports")

			var kerr KeyError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
			assert.Equal(t, "ports[1]", kerr.Path.Key())
		})
	})
}

func TestGetSet(t *testing.T) {
	t.Run("will keep the stored order", func(t *testing.T) {
		d := New(nil)
		require.NoError(t, d.Put("tags", []any{"b", "a", "c"}))

		s, err := GetSet[string](d, "tags")
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c"}, s.Values())
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the stored list has duplicates", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.Put("tags", []any{"a", "b", "a"}))

			_, err := GetSet[string](d, "tags")

			var derr strict.DuplicateElementError
			if !assert.ErrorAs(t, err, &derr) {
				return
			}
			assert.Equal(t, "a", derr.Element)
		})
	})
}

func TestGetMap(t *testing.T) {
	d, err := Decode(nil, strings.NewReader("ports:\n  http: 80\n  grpc: \"9090\"\n  admin: 81\n"), YAML)
	require.NoError(t, err)

	m, err := GetMap[int](d, "ports")
	require.NoError(t, err)
	assert.Equal(t, []string{"http", "grpc", "admin"}, m.Keys())
	assert.Equal(t, []int{80, 9090, 81}, m.Values())

	t.Run("will return an empty map", func(t *testing.T) {
		t.Run("if the key is not set", func(t *testing.T) {
			m, err := GetMap[int](d, "missing")
			require.NoError(t, err)
			assert.Equal(t, 0, m.Len())
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a value cannot be converted", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.Put("ports", map[string]any{"http": "eighty"}))

			_, err := GetMap[int](d, "ports")

			var kerr KeyError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
			assert.Equal(t, "ports.http", kerr.Path.Key())
		})
	})
}

func TestDocument_GetDocument(t *testing.T) {
	t.Run("will return an empty document", func(t *testing.T) {
		t.Run("if the key is not set", func(t *testing.T) {
			d := New(nil)

			sub, err := d.GetDocument("missing")
			require.NoError(t, err)
			assert.Equal(t, 0, sub.Len())
			assert.Same(t, d.Codec(), sub.Codec())
		})
	})

	t.Run("will read documents stored as text", func(t *testing.T) {
		d := New(nil)
		require.NoError(t, d.Put("inner", `{"a": 1, "b": [true]}`))

		sub, err := d.GetDocument("inner")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, sub.Keys())
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the stored value is not a document", func(t *testing.T) {
			d := New(nil)
			require.NoError(t, d.Put("inner", 5))

			_, err := d.GetDocument("inner")

			var merr MalformedDocumentError
			assert.ErrorAs(t, err, &merr)
		})
	})
}

func TestGetPath(t *testing.T) {
	d, err := Decode(nil, strings.NewReader(`{"servers": [{"port": "8080"}]}`), JSON)
	require.NoError(t, err)

	path, err := key.Parse("servers[0].port")
	require.NoError(t, err)

	port, err := GetPath(d, path, 0)
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	path, err = key.Parse("servers[1].port")
	require.NoError(t, err)

	port, err = GetPath(d, path, 80)
	require.NoError(t, err)
	assert.Equal(t, 80, port)
}
