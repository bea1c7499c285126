package tabler

import (
	"bytes"
	"io"
)

func writeJSONL(w io.Writer, t *Result) error {
	var buf bytes.Buffer
	for _, row := range t.Rows {
		buf.Reset()
		if err := appendObject(&buf, t.Header, row); err != nil {
			return err
		}
		buf.WriteByte('\n')
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
