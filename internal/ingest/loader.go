package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options configure document loading.
type Options struct {
	// Encoding of XML inputs; empty or utf-8 defers to the declaration.
	Encoding string
	// RootTag names the root of YAML/JSON documents.
	RootTag string
	// Workers bounds concurrent parses. Values below 1 mean 1.
	Workers int
}

// Loader parses input files into trees.
type Loader struct {
	opts Options
}

func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts}
}

// ParserFor picks a parser by file extension. Unknown extensions are XML.
func (l *Loader) ParserFor(path string) Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return &YAMLParser{RootTag: l.opts.RootTag}
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteParser{}
	default:
		return &XMLParser{Encoding: l.opts.Encoding}
	}
}

// Load parses a single file. Failures are carried in Document.Err.
func (l *Loader) Load(path string) Document {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{Path: path, Err: fmt.Errorf("%w: %s", ErrMissing, path)}
		}
		return Document{Path: path, Err: err}
	}
	if info.IsDir() {
		return Document{Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}

	root, err := l.ParserFor(path).ParseFile(path)
	if err != nil {
		return Document{Path: path, Err: err}
	}
	return Document{Path: path, Root: root}
}

// LoadAll parses paths concurrently and returns documents in input order.
// One failing file never affects the others. Once ctx is done, files not
// yet started fail with the context error.
func (l *Loader) LoadAll(ctx context.Context, paths []string) []Document {
	docs := make([]Document, len(paths))

	workers := l.opts.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				docs[i] = Document{Path: p, Err: err}
				return nil
			}
			docs[i] = l.Load(p)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	return docs
}

// SupportedExt reports whether a file extension has a parser.
func SupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".json", ".yaml", ".yml", ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// ExpandInputs replaces each directory argument with the supported files
// beneath it, in lexical walk order. Other paths pass through untouched so
// that missing files are reported by Load.
func ExpandInputs(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && SupportedExt(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	return out, nil
}
