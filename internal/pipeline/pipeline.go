// Package pipeline runs documents through loading, flattening, and column
// selection, in per-file or merged mode.
package pipeline

import (
	"context"

	"github.com/agentic-research/treeflat/internal/flatten"
	"github.com/agentic-research/treeflat/internal/ingest"
)

// Options configure a run.
type Options struct {
	Load    ingest.Options
	Flatten flatten.Options
	// Merge threads one session through every document.
	Merge bool
	// Columns, when set, restricts and orders the output columns.
	Columns []string
}

// Result is the outcome for one output table.
type Result struct {
	Source string
	Table  *flatten.Table
	// Namer resolves column names back to field paths.
	Namer *flatten.Namer
	// Missing lists requested columns that were not found.
	Missing []string
	Err     error
}

// Report collects a run. Files has one entry per input, in input order.
// In merge mode Merged holds the combined table and each file's Table
// holds only its own rows against the header as it stood after that file.
type Report struct {
	Files  []Result
	Merged *Result
}

// Failed returns the inputs that could not be converted.
func (r *Report) Failed() []Result {
	var out []Result
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Converted returns the sources of the inputs that converted.
func (r *Report) Converted() []string {
	var out []string
	for _, f := range r.Files {
		if f.Err == nil {
			out = append(out, f.Source)
		}
	}
	return out
}

// Run loads and converts paths. Loading happens concurrently; conversion
// is sequential in input order so merged headers are deterministic.
func Run(ctx context.Context, paths []string, opts Options) *Report {
	docs := ingest.NewLoader(opts.Load).LoadAll(ctx, paths)
	return Convert(docs, opts)
}

// Convert flattens already-loaded documents.
func Convert(docs []ingest.Document, opts Options) *Report {
	rep := &Report{Files: make([]Result, 0, len(docs))}

	var shared *flatten.Session
	var merged []*flatten.Row
	if opts.Merge {
		shared = flatten.NewSession(opts.Flatten)
	}

	for _, d := range docs {
		if d.Err != nil {
			rep.Files = append(rep.Files, Result{Source: d.Path, Err: d.Err})
			continue
		}

		s := shared
		if s == nil {
			s = flatten.NewSession(opts.Flatten)
		}
		rows := s.Convert(d.Root)
		res := Result{
			Source: d.Path,
			Table:  &flatten.Table{Header: s.Header.Names(), Rows: rows},
			Namer:  s.Namer,
		}
		if opts.Merge {
			merged = append(merged, rows...)
		} else {
			res.Table, res.Missing = selectColumns(res.Table, opts.Columns)
		}
		rep.Files = append(rep.Files, res)
	}

	if opts.Merge {
		t := &flatten.Table{Header: shared.Header.Names(), Rows: merged}
		t, missing := selectColumns(t, opts.Columns)
		rep.Merged = &Result{Table: t, Namer: shared.Namer, Missing: missing}
	}
	return rep
}

func selectColumns(t *flatten.Table, requested []string) (*flatten.Table, []string) {
	if len(requested) == 0 {
		return t, nil
	}
	selected, missing := flatten.Select(t.Header, requested)
	return t.Project(selected), missing
}
