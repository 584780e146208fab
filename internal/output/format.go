package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format selects how a table is written.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatSQLite:
		return f, nil
	case "":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown output format %q (want csv, json or sqlite)", s)
}

// Ext returns the file extension, with dot, for f.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatSQLite:
		return ".db"
	default:
		return ".csv"
	}
}

// OutputPath places the output for input: same stem, format extension, in
// outputDir or else next to the input.
func OutputPath(input, outputDir string, f Format) string {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, stem+f.Ext())
}

// MergePath resolves the merged output target. A directory gets a default
// merged file inside it. Parent directories are created.
func MergePath(target string, f Format) (string, error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, "merged"+f.Ext())
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	return target, nil
}
