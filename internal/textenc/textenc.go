// Package textenc resolves text encoding names for reading and writing.
package textenc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// IsUTF8 reports whether name denotes UTF-8 (or is empty, meaning default).
func IsUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// Lookup resolves a WHATWG encoding label such as "latin1" or "shift_jis".
func Lookup(name string) (encoding.Encoding, error) {
	e, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return e, nil
}

// NewReader decodes r from the named encoding into UTF-8.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	if IsUTF8(name) {
		return r, nil
	}
	e, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, e.NewDecoder()), nil
}

// NewWriter encodes UTF-8 written to the result into the named encoding.
// Characters the target cannot represent are replaced. The caller must
// Close the writer to flush.
func NewWriter(w io.Writer, name string) (io.WriteCloser, error) {
	if IsUTF8(name) {
		return nopCloser{w}, nil
	}
	e, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewWriter(w, encoding.ReplaceUnsupported(e.NewEncoder())), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
