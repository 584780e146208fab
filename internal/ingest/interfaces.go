package ingest

import (
	"errors"
	"fmt"

	"github.com/agentic-research/treeflat/api"
)

// Parser turns one input document into a tree.
type Parser interface {
	ParseFile(path string) (*api.Node, error)
}

// ErrMissing marks an input path that does not exist.
var ErrMissing = errors.New("no such input file")

// ParseError reports a document that could not be turned into a tree.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is one loaded input. Exactly one of Root and Err is set.
type Document struct {
	Path string
	Root *api.Node
	Err  error
}
