package tabler

import (
	"fmt"
	"io"
	"text/template"
)

func parseTemplate(tmplStr string) (*template.Template, error) {
	tmpl, err := template.New("row").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	return tmpl, nil
}

// writeGoTemplate executes tmpl once per row. The row is a map from header
// to cell text.
func writeGoTemplate(w io.Writer, tmplStr string, t *Result) error {
	tmpl, err := parseTemplate(tmplStr)
	if err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := execRow(w, tmpl, t.Header, row); err != nil {
			return err
		}
	}
	return nil
}

func execRow(w io.Writer, tmpl *template.Template, header, row []string) error {
	data := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(row) {
			data[h] = row[i]
		}
	}
	if err := tmpl.Execute(w, data); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
