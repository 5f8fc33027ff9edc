// Package bankio reads and writes question batches in the file formats used
// for authoring and review: JSON, YAML and XLSX.
package bankio

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/abhisek/syllogiz/internal/syllogism"
)

// Format is a batch file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// FileVersion is the current batch document version.
const FileVersion = 1

// File is the on-disk shape of a JSON or YAML batch.
type File struct {
	Version   int                  `json:"version" yaml:"version"`
	Questions []syllogism.Question `json:"questions" yaml:"questions"`
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, yaml or xlsx)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %q: no extension", path)
	}
	return ParseFormat(ext)
}

// Export writes questions to w in the given format.
func Export(w io.Writer, format Format, questions []syllogism.Question) error {
	if questions == nil {
		questions = []syllogism.Question{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(File{Version: FileVersion, Questions: questions})
	case FormatYAML:
		return writeYAML(w, File{Version: FileVersion, Questions: questions})
	case FormatXLSX:
		return writeXLSX(w, questions)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// Import reads a batch from r. Every row must pass syllogism.ValidateRow.
func Import(r io.Reader, format Format) ([]syllogism.Question, error) {
	var (
		qs  []syllogism.Question
		err error
	)
	switch format {
	case FormatJSON:
		qs, err = readJSON(r)
	case FormatYAML:
		qs, err = readYAML(r)
	case FormatXLSX:
		qs, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := syllogism.ValidateRows(qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func readJSON(r io.Reader) ([]syllogism.Question, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	return readJSONBytes(raw)
}

func readJSONBytes(raw []byte) ([]syllogism.Question, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return f.Questions, nil
}
