package tabler

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/pretty"
)

var prettyOptions = &pretty.Options{Width: 80, Indent: "  ", SortKeys: true}

// render turns a field value into cell text.
func render(v Value, c column, s *settings) (string, error) {
	v = unwrap(v)
	switch c.mode.kind {
	case renderPretty:
		return serialize(v, s.cfg.Pretty)
	case renderPath:
		node, err := extract(v, c.path)
		if err != nil {
			return "", err
		}
		return serialize(unwrap(node), s.cfg.Pretty)
	default:
		return plain(v)
	}
}

func plain(v Value) (string, error) {
	switch x := v.(type) {
	case Null:
		return "", nil
	case String:
		return string(x), nil
	case Number:
		return string(x), nil
	case Bool:
		return strconv.FormatBool(bool(x)), nil
	case Map, List:
		return "", fmt.Errorf("%w: %s value needs pretty or path rendering", ErrUnsupportedRenderMode, v.Kind())
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRenderMode, v.Kind())
	}
}

// serialize renders structured values as JSON, indented when indent is
// set. Scalars render as plain text so a string never gains quotes.
func serialize(v Value, indent bool) (string, error) {
	switch v.(type) {
	case Map, List:
	default:
		return plain(v)
	}
	data, err := encodeJSON(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidValue, err)
	}
	if indent {
		data = bytes.TrimRight(pretty.PrettyOptions(data, prettyOptions), "\n")
	}
	return string(data), nil
}

// escapes reports whether cells of a column rendered with mode are escaped
// for format by the renderer. Serialized text is full of quotes, commas
// and newlines, so it is made safe here rather than trusted to the writer.
func escapes(mode RenderMode, format Format) bool {
	return mode.kind != renderPlain && (format == CSV || format == TSV)
}

// escapeCell makes text safe to embed verbatim as one field of format.
func escapeCell(text string, format Format) string {
	if text == "" {
		return text
	}
	switch format {
	case CSV:
		return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
	case TSV:
		return tsvReplacer.Replace(text)
	default:
		return text
	}
}

var tsvReplacer = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// renderCell renders one cell, absorbing a missing path into an empty cell
// unless the config is strict.
func renderCell(v Value, f column, s *settings) (string, error) {
	text, err := render(v, f, s)
	if err != nil {
		if errors.Is(err, ErrPathNotFound) {
			if s.cfg.Strict {
				return "", fmt.Errorf("%w: field %q, path %q", ErrPathNotFound, f.name, f.mode.path)
			}
			s.logger.Debug("path not found, leaving cell empty", "field", f.name, "path", f.mode.path)
			return "", nil
		}
		return "", fmt.Errorf("field %q: %w", f.name, err)
	}
	if f.escaped {
		text = escapeCell(text, s.format)
	}
	return text, nil
}
