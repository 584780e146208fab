package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentic-research/treeflat/api"
	"github.com/agentic-research/treeflat/internal/textenc"
	"golang.org/x/net/html/charset"
)

// XMLParser builds trees from XML documents. Element local names become
// tags; namespaces and attributes are dropped. Leaf text is trimmed.
type XMLParser struct {
	// Encoding overrides the document's declared charset when it names
	// anything other than UTF-8.
	Encoding string
}

// ParseFile implements Parser.
func (p *XMLParser) ParseFile(path string) (*api.Node, error) {
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

// Parse reads one XML document from r.
func (p *XMLParser) Parse(r io.Reader) (*api.Node, error) {
	src, err := textenc.NewReader(r, p.Encoding)
	if err != nil {
		return nil, err
	}
	dec := xml.NewDecoder(src)
	if textenc.IsUTF8(p.Encoding) {
		dec.CharsetReader = charset.NewReaderLabel
	} else {
		// Already transcoded; ignore the declared label.
		dec.CharsetReader = func(_ string, in io.Reader) (io.Reader, error) { return in, nil }
	}

	var (
		root  *api.Node
		stack []*api.Node
		texts [][]byte
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &api.Node{Tag: t.Name.Local}
			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			case root != nil:
				return nil, fmt.Errorf("multiple root elements: <%s> after <%s>", n.Tag, root.Tag)
			default:
				root = n
			}
			stack = append(stack, n)
			texts = append(texts, nil)

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, errors.New("character data outside root element")
				}
				continue
			}
			top := len(texts) - 1
			texts[top] = append(texts[top], t...)

		case xml.EndElement:
			top := len(stack) - 1
			n := stack[top]
			if n.IsLeaf() {
				n.Text = strings.TrimSpace(string(texts[top]))
			}
			stack = stack[:top]
			texts = texts[:top]
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Tag)
	}
	return root, nil
}
