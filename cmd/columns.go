package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agentic-research/treeflat/internal/flatten"
	"github.com/agentic-research/treeflat/internal/ingest"
	"github.com/agentic-research/treeflat/internal/pipeline"
	"github.com/agentic-research/treeflat/internal/stats"
	"github.com/spf13/cobra"
)

func newColumnsCmd(f *flags) *cobra.Command {
	var (
		merge     bool
		withStats bool
		withPaths bool
		cofill    string
	)
	cmd := &cobra.Command{
		Use:   "columns [inputs...]",
		Short: "List the columns each input would produce, without writing output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			paths, err := ingest.ExpandInputs(args)
			if err != nil {
				return err
			}

			rep := pipeline.Run(cmd.Context(), paths, pipelineOptions(cfg, merge))
			reportFailures(cmd, rep)
			if len(rep.Converted()) == 0 {
				return errors.New("no input could be converted")
			}

			w := cmd.OutOrStdout()
			show := func(res pipeline.Result) {
				var p *stats.Profile
				if withStats || cofill != "" {
					p = stats.Build(res.Table)
				}
				listColumns(w, res, p, withPaths, cofill)
			}

			if merge {
				warnMissing(cmd, "merged output", rep.Merged.Missing)
				show(*rep.Merged)
				return nil
			}
			for _, res := range rep.Files {
				if res.Err != nil {
					continue
				}
				warnMissing(cmd, res.Source, res.Missing)
				if len(paths) > 1 {
					_, _ = fmt.Fprintf(w, "== %s ==\n", res.Source)
				}
				show(res)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "List the union header across all inputs")
	cmd.Flags().BoolVar(&withStats, "stats", false, "Show how many rows fill each column")
	cmd.Flags().BoolVar(&withPaths, "paths", false, "Show the element path behind each column")
	cmd.Flags().StringVar(&cofill, "cofill", "", "With stats, also count rows filling both each column and this one")
	return cmd
}

func listColumns(w io.Writer, res pipeline.Result, p *stats.Profile, withPaths bool, cofill string) {
	for _, name := range res.Table.Header {
		line := name
		if withPaths {
			line += "\t" + columnPath(res.Namer, name)
		}
		if p != nil {
			line += fmt.Sprintf("\t%d/%d", p.Fill(name), p.Rows())
			if cofill != "" {
				line += fmt.Sprintf("\t%d with %s", p.CoFill(name, cofill), cofill)
			}
		}
		_, _ = fmt.Fprintln(w, line)
	}
	if p != nil {
		if sparse := p.Sparse(); len(sparse) > 0 {
			_, _ = fmt.Fprintf(w, "sparse: %s\n", strings.Join(sparse, ", "))
		}
	}
}

func columnPath(n *flatten.Namer, name string) string {
	if n == nil {
		return ""
	}
	path, ok := n.PathOf(name)
	if !ok {
		return ""
	}
	return strings.Join(path, "/")
}
