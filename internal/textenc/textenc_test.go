package textenc

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUTF8(t *testing.T) {
	assert.True(t, IsUTF8(""))
	assert.True(t, IsUTF8("UTF-8"))
	assert.True(t, IsUTF8(" utf8 "))
	assert.False(t, IsUTF8("latin1"))
}

func TestRoundTripLatin1(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, "latin1")
	require.NoError(t, err)
	_, err = io.WriteString(w, "café")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9}, buf.Bytes())

	r, err := NewReader(bytes.NewReader(buf.Bytes()), "latin1")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "café", string(out))
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("no-such-encoding")
	assert.Error(t, err)

	_, err = NewReader(strings.NewReader(""), "no-such-encoding")
	assert.Error(t, err)
}
