package tabler

import (
	"fmt"
	"strings"
)

// Visibility controls when a field becomes a column.
type Visibility int

const (
	// Always includes the field in every projection.
	Always Visibility = iota
	// WideOnly includes the field only when [Config.Wide] is set.
	WideOnly
	// OptionalIfPresent includes the field only when a record carries a
	// value for it. For collections the column survives when at least one
	// record has a value.
	OptionalIfPresent
)

var visibilityNames = map[Visibility]string{
	Always:            "always",
	WideOnly:          "wide",
	OptionalIfPresent: "optional",
}

// String returns the visibility name.
func (v Visibility) String() string {
	if s, ok := visibilityNames[v]; ok {
		return s
	}
	return fmt.Sprintf("visibility(%d)", int(v))
}

// ParseVisibility parses a visibility name case-insensitively. The empty
// string is [Always].
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always":
		return Always, nil
	case "wide", "wide-only", "wideonly":
		return WideOnly, nil
	case "optional", "optional-if-present":
		return OptionalIfPresent, nil
	default:
		return 0, fmt.Errorf("%w: unknown visibility %q", ErrInvalidField, s)
	}
}

type renderKind int

const (
	renderPlain renderKind = iota
	renderPretty
	renderPath
)

// RenderMode selects how a field value becomes cell text. The zero value is
// [Plain].
type RenderMode struct {
	kind renderKind
	path string
}

// Plain renders scalars in their natural form. Structured values are
// rejected with [ErrUnsupportedRenderMode].
func Plain() RenderMode { return RenderMode{kind: renderPlain} }

// Pretty serializes structured values as JSON with stable key order.
func Pretty() RenderMode { return RenderMode{kind: renderPretty} }

// JSONPath extracts the node at path from a structured value. Paths use dot
// and bracket segments ("spec.ports[0].name", `labels["app.kubernetes.io/name"]`),
// an optional leading "$", or an RFC 6901 pointer ("/spec/ports/0").
func JSONPath(path string) RenderMode { return RenderMode{kind: renderPath, path: path} }

// Path returns the extraction path of a JSONPath mode.
func (m RenderMode) Path() string { return m.path }

// String returns the mode name.
func (m RenderMode) String() string {
	switch m.kind {
	case renderPretty:
		return "pretty"
	case renderPath:
		return "path=" + m.path
	default:
		return "plain"
	}
}

// ParseRenderMode parses "plain", "pretty", "serialize" or "path=<expr>".
func ParseRenderMode(s string) (RenderMode, error) {
	s = strings.TrimSpace(s)
	if p, ok := cutPrefixFold(s, "path="); ok {
		return JSONPath(p), nil
	}
	switch strings.ToLower(s) {
	case "", "plain":
		return Plain(), nil
	case "pretty", "serialize", "json":
		return Pretty(), nil
	default:
		return RenderMode{}, fmt.Errorf("%w: unknown render mode %q", ErrInvalidField, s)
	}
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// Field declares how one field of record type T becomes a column. The
// ordered field list of a [Schema] defines column order.
type Field[T any] struct {
	// Name identifies the field within its record type.
	Name string
	// Header is the column title. Empty means Name.
	Header     string
	Visibility Visibility
	Mode       RenderMode
	// Status marks the field whose rendered value drives row colors.
	Status bool
	// Value reads the field from a record.
	Value func(T) Value
}

// Schema is a validated, immutable field list for record type T. Build it
// once with [NewSchema] or [FromStruct] and share it freely.
type Schema[T any] struct {
	fields []Field[T]
	status int
}

// NewSchema validates fields and returns the schema. Every field needs a
// unique name and an accessor, and at most one field may be marked Status.
// When none is marked, a field titled "status" acts as the status field.
func NewSchema[T any](fields ...Field[T]) (*Schema[T], error) {
	s := &Schema[T]{fields: make([]Field[T], len(fields)), status: -1}
	seen := make(map[string]bool, len(fields))
	fallback := -1
	for i, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrInvalidField, i)
		}
		key := fold(f.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidField, f.Name)
		}
		seen[key] = true
		if f.Value == nil {
			return nil, fmt.Errorf("%w: field %q has no accessor", ErrInvalidField, f.Name)
		}
		if f.Header == "" {
			f.Header = f.Name
		}
		if f.Mode.kind == renderPath {
			if _, err := compilePath(f.Mode.path); err != nil {
				return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidField, f.Name, err)
			}
		}
		if f.Status {
			if s.status >= 0 {
				return nil, fmt.Errorf("%w: %q and %q", ErrDuplicateStatusField, s.fields[s.status].Name, f.Name)
			}
			s.status = i
		}
		if fallback < 0 && fold(f.Header) == statusKey {
			fallback = i
		}
		s.fields[i] = f
	}
	if s.status < 0 {
		s.status = fallback
	}
	return s, nil
}

// MustSchema is like [NewSchema] but panics on error. It is meant for
// package-level schema declarations.
func MustSchema[T any](fields ...Field[T]) *Schema[T] {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

var statusKey = fold("status")

// Fields returns a copy of the declared fields in column order.
func (s *Schema[T]) Fields() []Field[T] {
	out := make([]Field[T], len(s.fields))
	copy(out, s.fields)
	return out
}

// Status returns the name of the status field, if any.
func (s *Schema[T]) Status() (string, bool) {
	if s.status < 0 {
		return "", false
	}
	return s.fields[s.status].Name, true
}

// Len returns the number of declared fields.
func (s *Schema[T]) Len() int { return len(s.fields) }
