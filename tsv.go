package tabler

import (
	"io"
	"strings"
)

func writeTSV(w io.Writer, t *Result) error {
	lw := &lineWriter{w: w}
	if len(t.Header) > 0 {
		lw.line(joinTSV(t.Header, nil))
	}
	for _, row := range t.Rows {
		lw.line(joinTSV(row, t.Escaped))
	}
	return lw.err
}

func joinTSV(cells []string, escaped []bool) string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		if i < len(escaped) && escaped[i] {
			out[i] = cell
			continue
		}
		out[i] = escapeCell(cell, TSV)
	}
	return strings.Join(out, "\t")
}
