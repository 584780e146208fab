package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/agentic-research/treeflat/api"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRootTag names the root of YAML/JSON documents.
	DefaultRootTag = "root"
	// itemTag names sequence items that have no mapping key of their own.
	itemTag = "item"
)

// YAMLParser builds trees from YAML documents, and therefore from JSON too.
// Mapping keys become tags in source order; a sequence under key k becomes
// repeated k children, which is what row detection looks for.
type YAMLParser struct {
	RootTag string
}

// ParseFile implements Parser.
func (p *YAMLParser) ParseFile(path string) (*api.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	root, err := p.Parse(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return root, nil
}

// Parse reads the first document from r.
func (p *YAMLParser) Parse(r io.Reader) (*api.Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	tag := p.RootTag
	if tag == "" {
		tag = DefaultRootTag
	}
	return FromYAML(tag, &doc), nil
}

// FromYAML converts a decoded yaml.Node into a tree rooted at a node tagged
// rootTag. Aliases are expanded in place.
func FromYAML(rootTag string, src *yaml.Node) *api.Node {
	type work struct {
		dst *api.Node
		src *yaml.Node
	}
	root := &api.Node{Tag: rootTag}
	stack := []work{{dst: root, src: src}}

	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := resolveAlias(w.src)

		switch s.Kind {
		case yaml.DocumentNode:
			if len(s.Content) > 0 {
				stack = append(stack, work{dst: w.dst, src: s.Content[0]})
			}
		case yaml.ScalarNode:
			if s.Tag != "!!null" {
				w.dst.Text = s.Value
			}
		case yaml.MappingNode:
			for i := 0; i+1 < len(s.Content); i += 2 {
				key := resolveAlias(s.Content[i]).Value
				val := resolveAlias(s.Content[i+1])
				if val.Kind == yaml.SequenceNode {
					for _, item := range val.Content {
						c := &api.Node{Tag: key}
						w.dst.Children = append(w.dst.Children, c)
						stack = append(stack, work{dst: c, src: item})
					}
					continue
				}
				c := &api.Node{Tag: key}
				w.dst.Children = append(w.dst.Children, c)
				stack = append(stack, work{dst: c, src: val})
			}
		case yaml.SequenceNode:
			for _, item := range s.Content {
				c := &api.Node{Tag: itemTag}
				w.dst.Children = append(w.dst.Children, c)
				stack = append(stack, work{dst: c, src: item})
			}
		}
	}
	return root
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
