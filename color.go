package tabler

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var colorAttrs = map[string]color.Attribute{
	"black":     color.FgBlack,
	"red":       color.FgRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"blue":      color.FgBlue,
	"magenta":   color.FgMagenta,
	"cyan":      color.FgCyan,
	"white":     color.FgWhite,
	"gray":      color.FgHiBlack,
	"grey":      color.FgHiBlack,
	"hired":     color.FgHiRed,
	"higreen":   color.FgHiGreen,
	"hiyellow":  color.FgHiYellow,
	"hiblue":    color.FgHiBlue,
	"himagenta": color.FgHiMagenta,
	"hicyan":    color.FgHiCyan,
	"hiwhite":   color.FgHiWhite,
	"bold":      color.Bold,
	"faint":     color.Faint,
	"dim":       color.Faint,
	"italic":    color.Italic,
	"underline": color.Underline,
}

// newColor parses a color spec such as "red" or "bold+red".
func newColor(spec string, mode ColorMode) (*color.Color, error) {
	var attrs []color.Attribute
	for part := range strings.SplitSeq(spec, "+") {
		a, ok := colorAttrs[fold(strings.TrimSpace(part))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColor, spec)
		}
		attrs = append(attrs, a)
	}
	c := color.New(attrs...)
	switch mode {
	case ColorAlways:
		c.EnableColor()
	case ColorNever:
		c.DisableColor()
	}
	return c, nil
}

// Style paints a row, or one cell of it, when its status value matched a
// configured color. The zero Style paints nothing.
type Style struct {
	color *color.Color
	// Column is the status cell index, or -1 for the whole row.
	Column int
}

// IsZero reports whether the style paints nothing.
func (s Style) IsZero() bool { return s.color == nil }

// Apply paints cell text in column col.
func (s Style) Apply(col int, text string) string {
	if s.color == nil || (s.Column >= 0 && s.Column != col) {
		return text
	}
	return s.color.Sprint(text)
}

// colorize matches the status cell of row against the configured colors.
func colorize(row []string, statusCol int, s *settings) Style {
	if statusCol < 0 || statusCol >= len(row) || len(s.colors) == 0 {
		return Style{}
	}
	c, ok := s.colors[fold(strings.TrimSpace(row[statusCol]))]
	if !ok {
		return Style{}
	}
	st := Style{color: c, Column: -1}
	if s.cfg.ColorScope == ScopeCell {
		st.Column = statusCol
	}
	return st
}
