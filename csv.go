package tabler

import (
	"bufio"
	"io"
	"strings"
)

func writeCSV(w io.Writer, t *Result) error {
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)
	if len(t.Header) > 0 {
		if err := writeCSVRow(bw, t.Header, nil); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if err := writeCSVRow(bw, row, t.Escaped); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeCSVRow writes one record. Cells of escaped columns were quoted by the
// renderer and are written verbatim; the rest are quoted when needed.
func writeCSVRow(w io.Writer, cells []string, escaped []bool) error {
	var sb strings.Builder
	for i, cell := range cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		if i < len(escaped) && escaped[i] {
			sb.WriteString(cell)
			continue
		}
		if csvNeedsQuotes(cell) {
			cell = escapeCell(cell, CSV)
		}
		sb.WriteString(cell)
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

func csvNeedsQuotes(s string) bool {
	if s == "" {
		return false
	}
	if s == `\.` || s[0] == ' ' || s[0] == '\t' {
		return true
	}
	return strings.ContainsAny(s, ",\"\r\n")
}
