package tabler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidTemplate   = errors.New("invalid template")

	// ErrUnsupportedRenderMode means a structured value reached a Plain
	// field. It is a declaration mistake and fails the whole render.
	ErrUnsupportedRenderMode = errors.New("unsupported render mode")
	// ErrPathNotFound means a path segment did not resolve. Cells degrade
	// to empty unless [Config.Strict] is set.
	ErrPathNotFound = errors.New("path not found")
	ErrInvalidPath  = errors.New("invalid path")
	// ErrDuplicateStatusField is returned by [NewSchema] when more than one
	// field is marked Status.
	ErrDuplicateStatusField = errors.New("duplicate status field")
	// ErrColumnWidthMismatch means a row and the header diverged. It
	// indicates a bug.
	ErrColumnWidthMismatch = errors.New("column width mismatch")
	ErrInvalidField        = errors.New("invalid field")
	ErrInvalidConfig       = errors.New("invalid config")
	ErrUnknownColor        = errors.New("unknown color")
	ErrInvalidValue        = errors.New("invalid value")
)

// Format represents an output format.
type Format string

const (
	JSON     Format = "json"
	YAML     Format = "yaml"
	CSV      Format = "csv"
	Table    Format = "table"
	Markdown Format = "markdown"
	TSV      Format = "tsv"
	JSONL    Format = "jsonl"
	HTML     Format = "html"
)

const goTemplatePrefix = "go-template="

var formats = []Format{JSON, YAML, CSV, Table, Markdown, TSV, JSONL, HTML}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported static format names.
// GoTemplate is not included because it is parameterized.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// GoTemplate returns a Format that renders each row using a Go
// text/template. The row is exposed as a map from header to cell.
func GoTemplate(tmpl string) Format {
	return Format(goTemplatePrefix + tmpl)
}

// ParseFormat parses a format string case-insensitively. Recognizes all
// static formats and go-template=<tmpl> strings.
func ParseFormat(s string) (Format, error) {
	if tmpl, ok := cutPrefixFold(s, goTemplatePrefix); ok {
		return GoTemplate(tmpl), nil
	}
	for _, f := range formats {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// UnmarshalText parses a format name.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// BorderStyle controls table border characters.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
	BorderHeavy                      // ┏━┓┗┛┃┳┻┣┫╋
	BorderDouble                     // ╔═╗╚╝║╦╩╠╣╬
)

var borderNames = map[string]BorderStyle{
	"rounded": BorderRounded,
	"none":    BorderNone,
	"ascii":   BorderASCII,
	"heavy":   BorderHeavy,
	"double":  BorderDouble,
}

// UnmarshalText parses a border name.
func (b *BorderStyle) UnmarshalText(text []byte) error {
	v, ok := borderNames[fold(string(text))]
	if !ok {
		return fmt.Errorf("%w: unknown border %q", ErrInvalidConfig, text)
	}
	*b = v
	return nil
}

// Alignment controls column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// UnmarshalText parses "left", "center" or "right".
func (a *Alignment) UnmarshalText(text []byte) error {
	switch fold(string(text)) {
	case "left", "":
		*a = AlignLeft
	case "center", "centre":
		*a = AlignCenter
	case "right":
		*a = AlignRight
	default:
		return fmt.Errorf("%w: unknown alignment %q", ErrInvalidConfig, text)
	}
	return nil
}

// Write writes a result in the format it was built for.
func Write(w io.Writer, t *Result) error {
	switch t.Format {
	case JSON:
		return writeJSON(w, t)
	case YAML:
		return writeYAML(w, t)
	case CSV:
		return writeCSV(w, t)
	case Table, "":
		return writeTable(w, t)
	case Markdown:
		return writeMarkdown(w, t)
	case TSV:
		return writeTSV(w, t)
	case JSONL:
		return writeJSONL(w, t)
	case HTML:
		return writeHTML(w, t)
	default:
		if tmpl, ok := strings.CutPrefix(string(t.Format), goTemplatePrefix); ok {
			return writeGoTemplate(w, tmpl, t)
		}
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, t.Format)
	}
}

// Marshal writes a result and returns the bytes.
func Marshal(t *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render builds a table from records and writes it in cfg.Format.
func Render[T any](w io.Writer, schema *Schema[T], cfg *Config, records ...T) error {
	t, err := Build(records, schema, cfg)
	if err != nil {
		return err
	}
	return Write(w, t)
}
