package tabler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// ColorScope selects what a matched status color paints.
type ColorScope int

const (
	// ScopeRow paints every cell of the row.
	ScopeRow ColorScope = iota
	// ScopeCell paints only the status cell.
	ScopeCell
)

// ParseColorScope parses "row" or "cell" case-insensitively.
func ParseColorScope(s string) (ColorScope, error) {
	switch fold(strings.TrimSpace(s)) {
	case "", "row":
		return ScopeRow, nil
	case "cell", "status":
		return ScopeCell, nil
	default:
		return 0, fmt.Errorf("%w: unknown color scope %q", ErrInvalidConfig, s)
	}
}

// UnmarshalText decodes a scope name.
func (s *ColorScope) UnmarshalText(text []byte) error {
	v, err := ParseColorScope(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ColorMode decides whether styles emit ANSI escapes.
type ColorMode int

const (
	// ColorAuto defers to terminal detection and NO_COLOR.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses "auto", "always" or "never" case-insensitively.
func ParseColorMode(s string) (ColorMode, error) {
	switch fold(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "on", "true":
		return ColorAlways, nil
	case "never", "off", "false":
		return ColorNever, nil
	default:
		return 0, fmt.Errorf("%w: unknown color mode %q", ErrInvalidConfig, s)
	}
}

// UnmarshalText decodes a color mode name.
func (m *ColorMode) UnmarshalText(text []byte) error {
	v, err := ParseColorMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Layout holds presentation options for the text table format.
type Layout struct {
	Border     BorderStyle `yaml:"border"`
	Title      string      `yaml:"title"`
	Caption    string      `yaml:"caption"`
	Alignments []Alignment `yaml:"alignments"`
	// NumberHeader prepends a row number column with this title.
	NumberHeader string `yaml:"number_header"`
	Numbered     bool   `yaml:"numbered"`
	// MaxWidths truncates cells with "...". Zero means no limit.
	MaxWidths []int `yaml:"max_widths"`
	// WrapWidths wraps cells onto several lines. Zero means no wrapping.
	WrapWidths []int `yaml:"wrap_widths"`
	// PageSize repeats the header every PageSize rows.
	PageSize int `yaml:"page_size"`
	// Indent indents JSON and YAML output. Empty means compact JSON and
	// the default YAML indent.
	Indent string `yaml:"indent"`
}

// Config controls a projection. It is read-only during a render; callers
// must not mutate it while a render is in flight. The zero Config renders a
// text table without wide columns.
type Config struct {
	Format Format `yaml:"format"`
	// Wide includes WideOnly fields.
	Wide bool `yaml:"wide"`
	// Pretty indents serialized structured values.
	Pretty bool `yaml:"pretty"`
	// Strict makes a missing path fail the render instead of leaving the
	// cell empty.
	Strict bool `yaml:"strict"`
	// Fields restricts output to the named fields (by name or header),
	// wide or not.
	Fields []string `yaml:"fields"`
	// Rename overrides headers, keyed by field name or header.
	Rename map[string]string `yaml:"rename"`
	// Paths sets an extraction path per field, keyed by field name or
	// header. A field with a path renders in JSONPath mode.
	Paths map[string]string `yaml:"paths"`
	// Colors maps status values to color names.
	Colors     map[string]string `yaml:"colors"`
	ColorScope ColorScope        `yaml:"color_scope"`
	ColorMode  ColorMode         `yaml:"color_mode"`
	Layout     Layout            `yaml:"layout"`
	// Logger receives debug diagnostics. Nil discards them.
	Logger *slog.Logger `yaml:"-"`
}

// LoadConfig decodes a YAML config document.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// folder is safe for concurrent use; cases.Fold keeps no state.
var folder = cases.Fold()

// fold maps s to its case-folded form. All configuration keys and the names
// they are compared against go through fold, so matching is exact after
// folding and nothing else.
func fold(s string) string {
	return folder.String(s)
}

func foldKeys(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[fold(k)] = v
	}
	return out
}

// settings is a Config with its lookup keys folded once per render.
type settings struct {
	cfg    *Config
	format Format
	fields map[string]bool
	rename map[string]string
	paths  map[string]string
	colors map[string]*color.Color
	logger *slog.Logger
}

var discardLogger = slog.New(slog.DiscardHandler)

func (c *Config) compile() (*settings, error) {
	if c == nil {
		c = &Config{}
	}
	s := &settings{
		cfg:    c,
		format: c.Format,
		rename: foldKeys(c.Rename),
		paths:  foldKeys(c.Paths),
		logger: c.Logger,
	}
	if s.format == "" {
		s.format = Table
	}
	if s.logger == nil {
		s.logger = discardLogger
	}
	for k, p := range c.Paths {
		if _, err := compilePath(p); err != nil {
			return nil, fmt.Errorf("%w: path for %q: %w", ErrInvalidConfig, k, err)
		}
	}
	if len(c.Fields) > 0 {
		s.fields = make(map[string]bool, len(c.Fields))
		for _, f := range c.Fields {
			s.fields[fold(strings.TrimSpace(f))] = true
		}
	}
	if len(c.Colors) > 0 {
		s.colors = make(map[string]*color.Color, len(c.Colors))
		for value, name := range c.Colors {
			col, err := newColor(name, c.ColorMode)
			if err != nil {
				return nil, err
			}
			s.colors[fold(value)] = col
		}
	}
	return s, nil
}

// resolve looks up a per-field override by name, then by declared header.
func (s *settings) resolve(m map[string]string, name, header string) (string, bool) {
	if len(m) == 0 {
		return "", false
	}
	if v, ok := m[fold(name)]; ok {
		return v, true
	}
	v, ok := m[fold(header)]
	return v, ok
}

// selected reports whether the field is visible under the width and field
// selection settings. Optional presence is decided by the projector.
func (s *settings) selected(name, header string, vis Visibility) bool {
	if s.fields != nil {
		return s.fields[fold(name)] || s.fields[fold(header)]
	}
	if vis == WideOnly {
		return s.cfg.Wide
	}
	return true
}
