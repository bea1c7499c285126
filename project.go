package tabler

import (
	"fmt"
)

// Result is the table produced by a projection: one header and rows of equal
// length. It is not modified after it is built.
type Result struct {
	Header []string
	Rows   [][]string
	// Styles holds the status color of each row. Only the text table
	// writer applies them.
	Styles []Style
	// Escaped marks columns whose cells were already escaped for Format.
	Escaped []bool
	// Format is the format the cells were rendered for.
	Format Format
	Layout Layout
}

// column is a field that passed selection, with its resolved header and
// mode.
type column struct {
	field   int
	name    string
	header  string
	vis     Visibility
	mode    RenderMode
	path    []string
	escaped bool
}

// plan selects candidate columns. Optional columns are kept; whether they
// survive depends on the records.
func plan[T any](schema *Schema[T], s *settings) ([]column, error) {
	var cols []column
	for i, f := range schema.fields {
		if !s.selected(f.Name, f.Header, f.Visibility) {
			continue
		}
		c := column{field: i, name: f.Name, header: f.Header, vis: f.Visibility, mode: f.Mode}
		if h, ok := s.resolve(s.rename, f.Name, f.Header); ok {
			c.header = h
		}
		if p, ok := s.resolve(s.paths, f.Name, f.Header); ok {
			c.mode = JSONPath(p)
		}
		if c.mode.kind == renderPath {
			segs, err := compilePath(c.mode.path)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			c.path = segs
		}
		c.escaped = escapes(c.mode, s.format)
		cols = append(cols, c)
	}
	return cols, nil
}

// Build projects records into a table. A column for an OptionalIfPresent
// field exists when at least one record has a value for it; records without
// one get an empty cell. The header of an empty collection is derived from
// the schema alone.
func Build[T any](records []T, schema *Schema[T], cfg *Config) (*Result, error) {
	s, err := cfg.compile()
	if err != nil {
		return nil, err
	}
	return build(records, schema, s, 0)
}

// build projects records numbered from offset in error messages. A negative
// offset leaves the record number out.
func build[T any](records []T, schema *Schema[T], s *settings, offset int) (*Result, error) {
	cols, err := plan(schema, s)
	if err != nil {
		return nil, err
	}

	values := make([][]Value, len(records))
	present := make([]bool, len(cols))
	for r, rec := range records {
		values[r] = make([]Value, len(cols))
		for c, col := range cols {
			v := schema.fields[col.field].Value(rec)
			values[r][c] = v
			if !present[c] && Present(v) {
				present[c] = true
			}
		}
	}

	var keep []int
	for c, col := range cols {
		if col.vis == OptionalIfPresent && !present[c] {
			continue
		}
		keep = append(keep, c)
	}

	t := &Result{
		Header:  make([]string, len(keep)),
		Rows:    make([][]string, len(records)),
		Styles:  make([]Style, len(records)),
		Escaped: make([]bool, len(keep)),
		Format:  s.format,
		Layout:  s.cfg.Layout,
	}
	statusCol := -1
	for i, c := range keep {
		t.Header[i] = cols[c].header
		t.Escaped[i] = cols[c].escaped
		if cols[c].field == schema.status {
			statusCol = i
		}
	}

	for r := range records {
		row := make([]string, len(keep))
		for i, c := range keep {
			cell, err := renderCell(values[r][c], cols[c], s)
			if err != nil {
				if offset < 0 {
					return nil, err
				}
				return nil, fmt.Errorf("record %d: %w", offset+r, err)
			}
			row[i] = cell
		}
		t.Rows[r] = row
		t.Styles[r] = colorize(row, statusCol, s)
	}

	if err := t.check(); err != nil {
		return nil, err
	}
	s.logger.Debug("built table", "columns", len(t.Header), "rows", len(t.Rows))
	return t, nil
}

func (t *Result) check() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("%w: row %d has %d cells, header has %d", ErrColumnWidthMismatch, i, len(row), len(t.Header))
		}
	}
	return nil
}

// Project renders a single record. Optional fields without a value are left
// out of both the header and the row.
func Project[T any](record T, schema *Schema[T], cfg *Config) ([]string, []string, error) {
	t, err := Build([]T{record}, schema, cfg)
	if err != nil {
		return nil, nil, err
	}
	return t.Header, t.Rows[0], nil
}

// Describe renders a single record transposed: one "Attribute", "Value"
// row per surviving field.
func Describe[T any](record T, schema *Schema[T], cfg *Config) (*Result, error) {
	s, err := cfg.compile()
	if err != nil {
		return nil, err
	}
	format := s.format
	s.format = Table
	t, err := build([]T{record}, schema, s, -1)
	if err != nil {
		return nil, err
	}
	s.format = format

	out := &Result{
		Header:  []string{"Attribute", "Value"},
		Rows:    make([][]string, len(t.Header)),
		Styles:  make([]Style, len(t.Header)),
		Escaped: []bool{false, format == CSV || format == TSV},
		Format:  format,
		Layout:  s.cfg.Layout,
	}
	style := t.Styles[0]
	for i, h := range t.Header {
		out.Rows[i] = []string{h, escapeCell(t.Rows[0][i], format)}
		if style.IsZero() {
			continue
		}
		switch {
		case style.Column < 0:
			out.Styles[i] = style
		case style.Column == i:
			out.Styles[i] = Style{color: style.color, Column: 1}
		}
	}
	if err := out.check(); err != nil {
		return nil, err
	}
	return out, nil
}
