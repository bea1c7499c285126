package tabler

import (
	"html"
	"io"
)

func writeHTML(w io.Writer, t *Result) error {
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		return nil
	}
	lw := &lineWriter{w: w}
	lw.line("<table>")
	if t.Layout.Title != "" {
		lw.line("  <caption>" + html.EscapeString(t.Layout.Title) + "</caption>")
	}
	if len(t.Header) > 0 {
		lw.line("  <thead>")
		writeHTMLRow(lw, "th", t.Header, t.Layout.Alignments)
		lw.line("  </thead>")
	}
	lw.line("  <tbody>")
	for _, row := range t.Rows {
		writeHTMLRow(lw, "td", row, t.Layout.Alignments)
	}
	lw.line("  </tbody>")
	lw.line("</table>")
	return lw.err
}

func writeHTMLRow(lw *lineWriter, tag string, cells []string, aligns []Alignment) {
	lw.line("    <tr>")
	for i, cell := range cells {
		lw.line("      <" + tag + alignStyle(aligns, i) + ">" + html.EscapeString(cell) + "</" + tag + ">")
	}
	lw.line("    </tr>")
}

func alignStyle(aligns []Alignment, col int) string {
	if col >= len(aligns) {
		return ""
	}
	switch aligns[col] {
	case AlignRight:
		return ` style="text-align: right"`
	case AlignCenter:
		return ` style="text-align: center"`
	default:
		return ""
	}
}
