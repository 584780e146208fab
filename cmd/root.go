package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/agentic-research/treeflat/internal/config"
	"github.com/agentic-research/treeflat/internal/flatten"
	"github.com/agentic-research/treeflat/internal/ingest"
	"github.com/agentic-research/treeflat/internal/output"
	"github.com/agentic-research/treeflat/internal/pipeline"
	"github.com/spf13/cobra"
)

// flags holds every command-line value; config file values fill in the rest.
type flags struct {
	configPath string
	mergeInto  string
	outputDir  string
	encoding   string
	delimiter  string
	format     string
	table      string
	rootTag    string
	columns    []string
	skipEmpty  bool
	workers    int
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "treeflat [inputs...]",
		Short: "Flatten XML, JSON, YAML or record databases into tables",
		Long: `treeflat finds the first repeating element group in each document and
emits one row per occurrence. Scalar fields of the enclosing element are
copied into every row, and nested repeating groups multiply rows.

Directories are expanded to the supported files beneath them.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return runConvert(cmd, cfg, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Path to a YAML config file (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&f.encoding, "encoding", "", "Text encoding for reading XML and writing CSV (default utf-8)")
	pf.StringVar(&f.rootTag, "root-tag", "", "Root tag for JSON/YAML documents (default root)")
	pf.StringSliceVar(&f.columns, "columns", nil, "Only output these columns, in this order")
	pf.BoolVar(&f.skipEmpty, "skip-empty", false, "Ignore leaves with empty text")
	pf.IntVar(&f.workers, "workers", 0, "Number of documents parsed concurrently (default 4)")

	lf := root.Flags()
	lf.StringVarP(&f.mergeInto, "merge-into", "m", "", "Write all inputs into this single file (or directory)")
	lf.StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for per-file outputs (default: next to each input)")
	lf.StringVarP(&f.delimiter, "delimiter", "d", "", "CSV delimiter (default ,)")
	lf.StringVarP(&f.format, "format", "f", "", "Output format: csv, json or sqlite (default csv)")
	lf.StringVar(&f.table, "table", "", "SQLite table name (default rows)")

	root.AddCommand(newColumnsCmd(f))
	return root
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg, _, err = config.Discover(".")
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("merge-into") {
		cfg.MergeInto = f.mergeInto
	}
	if changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if changed("format") {
		cfg.Format = f.format
	}
	if changed("table") {
		cfg.Table = f.table
	}
	if changed("root-tag") {
		cfg.RootTag = f.rootTag
	}
	if changed("columns") {
		cfg.Columns = f.columns
	}
	if changed("skip-empty") {
		cfg.SkipEmpty = f.skipEmpty
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func pipelineOptions(cfg config.Config, merge bool) pipeline.Options {
	return pipeline.Options{
		Load: ingest.Options{
			Encoding: cfg.Encoding,
			RootTag:  cfg.RootTag,
			Workers:  cfg.Workers,
		},
		Flatten: flatten.Options{SkipEmpty: cfg.SkipEmpty},
		Merge:   merge,
		Columns: cfg.Columns,
	}
}

func runConvert(cmd *cobra.Command, cfg config.Config, args []string) error {
	paths, err := ingest.ExpandInputs(args)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	outOpts := output.Options{
		Format: format,
		CSV:    output.CSVOptions{Delimiter: cfg.DelimiterRune(), Encoding: cfg.Encoding},
		Table:  cfg.Table,
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	merge := cfg.MergeInto != ""
	rep := pipeline.Run(cmd.Context(), paths, pipelineOptions(cfg, merge))
	reportFailures(cmd, rep)

	converted := rep.Converted()
	if len(converted) == 0 {
		return errors.New("no input could be converted")
	}

	stdout := cmd.OutOrStdout()
	if merge {
		target, err := output.MergePath(cfg.MergeInto, format)
		if err != nil {
			return err
		}
		warnMissing(cmd, "merged output", rep.Merged.Missing)
		if err := output.Write(target, rep.Merged.Table, converted, outOpts); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "Wrote merged %s: %s\n", format, target)
		return nil
	}

	var failed int
	for _, res := range rep.Files {
		if res.Err != nil {
			continue
		}
		warnMissing(cmd, res.Source, res.Missing)
		target := output.OutputPath(res.Source, cfg.OutputDir, format)
		if err := output.Write(target, res.Table, []string{res.Source}, outOpts); err != nil {
			warnf(cmd, "Failed to write %s: %v", target, err)
			failed++
			continue
		}
		_, _ = fmt.Fprintf(stdout, "Wrote: %s\n", target)
	}
	if failed == len(converted) {
		return errors.New("no output could be written")
	}
	return nil
}

func reportFailures(cmd *cobra.Command, rep *pipeline.Report) {
	for _, f := range rep.Failed() {
		if errors.Is(f.Err, ingest.ErrMissing) {
			warnf(cmd, "Skipping non-existent file: %s", f.Source)
			continue
		}
		warnf(cmd, "Failed to convert %s: %v", f.Source, f.Err)
	}
}

func warnMissing(cmd *cobra.Command, where string, missing []string) {
	for _, m := range missing {
		warnf(cmd, "Column %q not found in %s", m, where)
	}
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorf(rootCmd, "%v", err)
		stop()
		os.Exit(1)
	}
}
