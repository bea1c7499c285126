package tabler

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var borderSets = map[BorderStyle]borderChars{
	BorderRounded: {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
		cross: "┼",
	},
	BorderASCII: {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topTee: "+", bottomTee: "+", leftTee: "+", rightTee: "+",
		cross: "+",
	},
	BorderHeavy: {
		topLeft: "┏", topRight: "┓", bottomLeft: "┗", bottomRight: "┛",
		horizontal: "━", vertical: "┃",
		topTee: "┳", bottomTee: "┻", leftTee: "┣", rightTee: "┫",
		cross: "╋",
	},
	BorderDouble: {
		topLeft: "╔", topRight: "╗", bottomLeft: "╚", bottomRight: "╝",
		horizontal: "═", vertical: "║",
		topTee: "╦", bottomTee: "╩", leftTee: "╠", rightTee: "╣",
		cross: "╬",
	},
}

func writeTable(w io.Writer, t *Result) error {
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		return nil
	}
	g := layoutGrid(t)

	var f frame = plainFrame{}
	if t.Layout.Border != BorderNone {
		bc, ok := borderSets[t.Layout.Border]
		if !ok {
			bc = borderSets[BorderRounded]
		}
		f = boxFrame{chars: bc, title: t.Layout.Title}
	}

	lw := &lineWriter{w: w}
	g.write(lw, f)
	if t.Layout.Caption != "" {
		lw.line(t.Layout.Caption)
	}
	return lw.err
}

// grid is a Result laid out for text output: row numbers added, widths
// resolved and per-column options sized to the column count.
type grid struct {
	header   []string
	rows     [][]string
	styles   []Style
	widths   []int
	aligns   []Alignment
	wrap     []int
	pageSize int
}

func layoutGrid(t *Result) *grid {
	lay := t.Layout
	g := &grid{
		header:   t.Header,
		rows:     t.Rows,
		styles:   extendStyles(t.Styles, len(t.Rows)),
		aligns:   lay.Alignments,
		wrap:     lay.WrapWidths,
		pageSize: lay.PageSize,
	}
	maxWidths := lay.MaxWidths

	if lay.Numbered || lay.NumberHeader != "" {
		numHdr := lay.NumberHeader
		if numHdr == "" {
			numHdr = "#"
		}
		g.header = append([]string{numHdr}, g.header...)
		g.rows = make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			g.rows[i] = append([]string{strconv.Itoa(i + 1)}, row...)
		}
		for i, st := range g.styles {
			if st.Column >= 0 && !st.IsZero() {
				st.Column++
				g.styles[i] = st
			}
		}
		g.aligns = append([]Alignment{AlignRight}, g.aligns...)
		if len(g.wrap) > 0 {
			g.wrap = append([]int{0}, g.wrap...)
		}
		if len(maxWidths) > 0 {
			maxWidths = append([]int{0}, maxWidths...)
		}
	}

	numCols := colCount(g.header, g.rows)
	g.widths = computeWidths(numCols, g.header, g.rows)
	for i, limit := range maxWidths {
		if i < numCols && limit > 0 && g.widths[i] > limit {
			g.widths[i] = limit
		}
	}
	g.aligns = extendAligns(g.aligns, numCols)
	return g
}

func (g *grid) write(lw *lineWriter, f frame) {
	for _, s := range f.top(g.widths) {
		lw.line(s)
	}
	if len(g.header) > 0 {
		g.writeRow(lw, f, g.header, Style{})
		lw.line(f.rule(g.widths))
	}
	for i, row := range g.rows {
		if g.pageSize > 0 && len(g.header) > 0 && i > 0 && i%g.pageSize == 0 {
			lw.line(f.rule(g.widths))
			g.writeRow(lw, f, g.header, Style{})
			lw.line(f.rule(g.widths))
		}
		g.writeRow(lw, f, row, g.styles[i])
	}
	for _, s := range f.bottom(g.widths) {
		lw.line(s)
	}
}

// writeRow emits one logical row, which spans several lines when a cell
// holds newlines or wraps.
func (g *grid) writeRow(lw *lineWriter, f frame, cells []string, style Style) {
	wrapped := wrapRow(cells, g.widths, g.wrap)
	for line := range maxLines(wrapped) {
		parts := make([]string, len(g.widths))
		for i, width := range g.widths {
			parts[i] = styledCell(wrapped[i], line, width, g.aligns[i], style, i)
		}
		lw.line(f.line(parts))
	}
}

// lineWriter keeps the first write error and skips every later line.
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) line(s string) {
	if lw.err == nil {
		_, lw.err = fmt.Fprintln(lw.w, s)
	}
}

// frame draws the decoration around padded cells.
type frame interface {
	top(widths []int) []string
	rule(widths []int) string
	line(parts []string) string
	bottom(widths []int) []string
}

// plainFrame separates columns with two spaces and underlines the header
// with dashes.
type plainFrame struct{}

func (plainFrame) top([]int) []string    { return nil }
func (plainFrame) bottom([]int) []string { return nil }

func (plainFrame) rule(widths []int) string {
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	return strings.Join(sep, "  ")
}

func (plainFrame) line(parts []string) string {
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

type boxFrame struct {
	chars borderChars
	title string
}

func (b boxFrame) top(widths []int) []string {
	bc := b.chars
	if b.title == "" {
		return []string{hline(widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight)}
	}
	// The title spans the full width, so its top border has no column tees.
	inner := tableInnerWidth(widths) - 2
	return []string{
		hline(widths, bc.topLeft, bc.horizontal, bc.horizontal, bc.topRight),
		bc.vertical + " " + alignCell(b.title, inner, AlignCenter) + " " + bc.vertical,
		hline(widths, bc.leftTee, bc.horizontal, bc.topTee, bc.rightTee),
	}
}

func (b boxFrame) rule(widths []int) string {
	return hline(widths, b.chars.leftTee, b.chars.horizontal, b.chars.cross, b.chars.rightTee)
}

func (b boxFrame) line(parts []string) string {
	v := b.chars.vertical
	return v + " " + strings.Join(parts, " "+v+" ") + " " + v
}

func (b boxFrame) bottom(widths []int) []string {
	bc := b.chars
	return []string{hline(widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)}
}

func hline(widths []int, left, fill, mid, right string) string {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	return sb.String()
}

// tableInnerWidth is the width between the outer borders: each cell plus
// its two padding spaces, and one separator between cells.
func tableInnerWidth(widths []int) int {
	n := 0
	for _, w := range widths {
		n += w + 2
	}
	if len(widths) > 1 {
		n += len(widths) - 1
	}
	return n
}

func colCount(header []string, rows [][]string) int {
	n := len(header)
	for _, row := range rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

func computeWidths(numCols int, header []string, rows [][]string) []int {
	widths := make([]int, numCols)
	for i, h := range header {
		if w := cellWidth(h); w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := cellWidth(cell); i < numCols && w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// cellWidth is the display width of the widest line of s.
func cellWidth(s string) int {
	n := 0
	for line := range strings.SplitSeq(s, "\n") {
		n = max(n, runewidth.StringWidth(line))
	}
	return n
}

func extendAligns(aligns []Alignment, numCols int) []Alignment {
	if len(aligns) >= numCols {
		return aligns[:numCols]
	}
	extended := make([]Alignment, numCols)
	copy(extended, aligns)
	return extended
}

// extendStyles returns a private copy of styles sized to the row count.
func extendStyles(styles []Style, numRows int) []Style {
	extended := make([]Style, numRows)
	copy(extended, styles)
	return extended
}

func wrapCell(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	for len(s) > 0 {
		line := runewidth.Truncate(s, width, "")
		lineWidth := runewidth.StringWidth(line)
		if lineWidth == 0 && len(s) > 0 {
			// Safety: advance at least one rune to avoid infinite loop.
			r := []rune(s)
			line = string(r[0])
			lineWidth = runewidth.RuneWidth(r[0])
		}
		lines = append(lines, line)
		s = s[len(line):]
	}
	return lines
}

func wrapRow(cells []string, widths []int, wrapWidths []int) [][]string {
	wrapped := make([][]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		ww := 0
		if i < len(wrapWidths) {
			ww = wrapWidths[i]
		}
		if ww <= 0 || ww >= width {
			ww = 0
		}
		// Serialized values span several lines; each one wraps on its own.
		for part := range strings.SplitSeq(cell, "\n") {
			wrapped[i] = append(wrapped[i], wrapCell(part, ww)...)
		}
	}
	return wrapped
}

func maxLines(wrapped [][]string) int {
	n := 1
	for _, lines := range wrapped {
		if len(lines) > n {
			n = len(lines)
		}
	}
	return n
}

// styledCell formats one visual line of a cell. Styles apply after padding
// and truncation so escape codes never count toward widths.
func styledCell(lines []string, line, width int, align Alignment, style Style, col int) string {
	cell := ""
	if line < len(lines) {
		cell = lines[line]
	}
	return style.Apply(col, formatTableCell(cell, width, align))
}

func formatTableCell(s string, width int, align Alignment) string {
	if width > 0 && runewidth.StringWidth(s) > width {
		if width <= 3 {
			s = runewidth.Truncate(s, width, "")
		} else {
			s = runewidth.Truncate(s, width, "...")
		}
	}
	return alignCell(s, width, align)
}

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}
