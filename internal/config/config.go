package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/agentic-research/treeflat/internal/output"
	"github.com/agentic-research/treeflat/internal/textenc"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = ".treeflat.yaml"

// Config holds conversion settings loaded from YAML and overridden by flags.
type Config struct {
	Delimiter string   `yaml:"delimiter"`
	Encoding  string   `yaml:"encoding"`
	OutputDir string   `yaml:"output_dir"`
	MergeInto string   `yaml:"merge_into"`
	Columns   []string `yaml:"columns"`
	Format    string   `yaml:"format"`
	SkipEmpty bool     `yaml:"skip_empty"`
	RootTag   string   `yaml:"root_tag"`
	Table     string   `yaml:"table"`
	Workers   int      `yaml:"workers"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Delimiter: ",",
		Encoding:  "utf-8",
		Format:    string(output.FormatCSV),
		RootTag:   "root",
		Table:     output.DefaultTable,
		Workers:   4,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads DefaultFile from dir if it exists, and the defaults
// otherwise. The returned path is empty when no file was found.
func Discover(dir string) (Config, string, error) {
	path := filepath.Join(dir, DefaultFile)
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}
	if err != nil {
		return cfg, "", err
	}
	return cfg, path, nil
}

// Validate checks settings that would otherwise fail mid-run.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	switch r := c.DelimiterRune(); r {
	case 0, '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("invalid delimiter %q", r)
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return err
	}
	if !textenc.IsUTF8(c.Encoding) {
		if _, err := textenc.Lookup(c.Encoding); err != nil {
			return err
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune.
func (c Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
