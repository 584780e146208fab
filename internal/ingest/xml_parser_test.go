package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agentic-research/treeflat/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXMLParser_Parse(t *testing.T) {
	input := `<?xml version="1.0"?>
<!-- comment -->
<a xmlns:n="urn:x">
  <fa1>va1</fa1>
  <b id="ignored">
    <fb1>  vb1  </fb1>
    <n:fb2/>
  </b>
  <b><fb1>vb2</fb1></b>
</a>
`
	root, err := (&XMLParser{}).Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "a", root.Tag)
	require.Len(t, root.Children, 3)
	assert.Equal(t, api.Leaf("fa1", "va1"), root.Children[0])

	b := root.Children[1]
	assert.Equal(t, "b", b.Tag)
	assert.Empty(t, b.Text, "mixed whitespace is dropped on non-leaves")
	require.Len(t, b.Children, 2)
	assert.Equal(t, "vb1", b.Children[0].Text)
	assert.Equal(t, "fb2", b.Children[1].Tag, "namespace prefix dropped")
	assert.True(t, b.Children[1].IsLeaf())
}

func TestXMLParser_Malformed(t *testing.T) {
	cases := map[string]string{
		"mismatched":  "<a><b></a>",
		"unclosed":    "<a><b>text</b>",
		"empty":       "",
		"two roots":   "<a/><b/>",
		"stray text":  "text<a/>",
		"bad entity":  "<a>&bogus;</a>",
		"not xml":     "{\"json\": true}",
		"only prolog": `<?xml version="1.0"?>`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := (&XMLParser{}).Parse(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestXMLParser_DeclaredCharset(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="ISO-8859-1"?><a><name>caf`)
	buf.WriteByte(0xe9)
	buf.WriteString(`</name></a>`)

	root, err := (&XMLParser{}).Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, "café", root.Children[0].Text)
}

func TestXMLParser_EncodingOverride(t *testing.T) {
	var buf bytes.Buffer
	// Declaration lies; the override wins.
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?><a><name>na`)
	buf.WriteByte(0xef)
	buf.WriteString(`ve</name></a>`)

	root, err := (&XMLParser{Encoding: "latin1"}).Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, "naïve", root.Children[0].Text)
}

func TestXMLParser_Deep(t *testing.T) {
	depth := 10000
	var sb strings.Builder
	for i := 0; i < depth; i++ {
		sb.WriteString("<n>")
	}
	sb.WriteString("<leaf>x</leaf>")
	for i := 0; i < depth; i++ {
		sb.WriteString("</n>")
	}

	root, err := (&XMLParser{}).Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	n := root
	for i := 1; i < depth; i++ {
		require.Len(t, n.Children, 1)
		n = n.Children[0]
	}
	assert.Equal(t, "x", n.Children[0].Text)
}
