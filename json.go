package tabler

import (
	"bytes"
	"encoding/json"
	"io"
)

func writeJSON(w io.Writer, t *Result) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendObject(&buf, t.Header, row); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	out := buf.Bytes()
	if t.Layout.Indent != "" {
		var ind bytes.Buffer
		if err := json.Indent(&ind, out, "", t.Layout.Indent); err != nil {
			return err
		}
		out = ind.Bytes()
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// appendObject writes row as a JSON object whose keys follow header order.
func appendObject(buf *bytes.Buffer, header, row []string) error {
	buf.WriteByte('{')
	for i, h := range header {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendString(buf, h); err != nil {
			return err
		}
		buf.WriteByte(':')
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if err := appendString(buf, cell); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func appendString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
