package tabler

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// markdownReplacer keeps pipes and line breaks from ending a cell early.
var markdownReplacer = strings.NewReplacer(`|`, `\|`, "\r\n", "<br>", "\n", "<br>")

func writeMarkdown(w io.Writer, t *Result) error {
	if len(t.Header) == 0 {
		return nil
	}
	numCols := len(t.Header)
	header := escapeMarkdown(t.Header)
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = escapeMarkdown(row)
	}

	// Three dashes is the shortest delimiter every renderer accepts.
	widths := make([]int, numCols)
	for i, col := range header {
		widths[i] = max(3, runewidth.StringWidth(col))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	aligns := extendAligns(t.Layout.Alignments, numCols)

	lw := &lineWriter{w: w}
	lw.line(markdownRow(header, widths, aligns))
	lw.line(markdownDelimiter(widths, aligns))
	for _, row := range rows {
		lw.line(markdownRow(row, widths, aligns))
	}
	return lw.err
}

func escapeMarkdown(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = markdownReplacer.Replace(c)
	}
	return out
}

func markdownDelimiter(widths []int, aligns []Alignment) string {
	sep := make([]string, len(widths))
	for i, width := range widths {
		switch aligns[i] {
		case AlignRight:
			sep[i] = strings.Repeat("-", width-1) + ":"
		case AlignCenter:
			sep[i] = ":" + strings.Repeat("-", width-2) + ":"
		default:
			sep[i] = strings.Repeat("-", width)
		}
	}
	return "| " + strings.Join(sep, " | ") + " |"
}

func markdownRow(cells []string, widths []int, aligns []Alignment) string {
	padded := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = alignCell(cell, width, aligns[i])
	}
	return "| " + strings.Join(padded, " | ") + " |"
}
