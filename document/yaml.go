// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"gopkg.in/yaml.v3"
)

const yamlMergeTag = "!!merge"

// decodeYAML reads a top-level YAML mapping, keeping the order of its keys.
// Empty input results in an empty Document.
func decodeYAML(c *Codec, b []byte) (*Document, error) {
	var root yaml.Node
	err := yaml.Unmarshal(b, &root)
	if err != nil {
		return nil, InvalidYamlError{Cause: err}
	}
	if root.Kind == 0 {
		return New(c), nil
	}
	return documentFromNode(c, &root)
}

func documentFromNode(c *Codec, n *yaml.Node) (*Document, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return New(c), nil
		}
		n = n.Content[0]
	}
	v, err := yamlValue(c, n)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*Document)
	if !ok {
		return nil, MalformedDocumentError{Expected: "mapping", Value: v}
	}
	return d, nil
}

func yamlValue(c *Codec, n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(c, n.Alias)
	case yaml.MappingNode:
		return yamlMapping(c, n)
	case yaml.SequenceNode:
		l := make([]any, 0, len(n.Content))
		for _, e := range n.Content {
			v, err := yamlValue(c, e)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	}

	var v any
	err := n.Decode(&v)
	if err != nil {
		return nil, InvalidYamlError{Cause: err}
	}
	return v, nil
}

// yamlMapping keeps explicit keys ahead of keys pulled in through "<<"
// merges, which never override them.
func yamlMapping(c *Codec, n *yaml.Node) (*Document, error) {
	d := New(c)
	var merged []*Document
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]

		v, err := yamlValue(c, vn)
		if err != nil {
			return nil, err
		}
		if k.Tag == yamlMergeTag {
			switch x := v.(type) {
			case *Document:
				merged = append(merged, x)
			case []any:
				for _, e := range x {
					if sub, ok := e.(*Document); ok {
						merged = append(merged, sub)
					}
				}
			}
			continue
		}

		err = d.putRaw(k.Value, v)
		if err != nil {
			return nil, InvalidYamlError{Cause: err}
		}
	}
	for _, m := range merged {
		d.MergeFrom(m)
	}
	return d, nil
}

// MarshalYAML implements the yaml.Marshaler interface. Keys are written
// in insertion order.
func (d *Document) MarshalYAML() (any, error) {
	s, err := d.serialized()
	if err != nil {
		return nil, err
	}
	return yamlNode(s)
}

func yamlNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case *Document:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, v := range x.All() {
			vn, err := yamlNode(v)
			if err != nil {
				return nil, err
			}
			n.Content = append(
				n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				vn,
			)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			en, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	}

	n := new(yaml.Node)
	err := n.Encode(v)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. A zero
// Document is bound to a default Codec.
func (d *Document) UnmarshalYAML(n *yaml.Node) error {
	c := d.codec
	if c == nil {
		c = MustCodec()
	}
	nd, err := documentFromNode(c, n)
	if err != nil {
		return err
	}
	*d = *nd
	return nil
}
