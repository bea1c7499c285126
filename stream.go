package tabler

import (
	"bufio"
	"io"
	"iter"
	"slices"
	"strings"
)

// BuildSeq collects records from an iterator and projects them with [Build].
func BuildSeq[T any](seq iter.Seq[T], schema *Schema[T], cfg *Config) (*Result, error) {
	return Build(slices.Collect(seq), schema, cfg)
}

// BuildChan drains ch and projects the records with [Build].
func BuildChan[T any](ch <-chan T, schema *Schema[T], cfg *Config) (*Result, error) {
	return BuildSeq(chanToIter(ch), schema, cfg)
}

// RenderSeq projects records from an iterator and writes them to w. JSONL,
// CSV, TSV and GoTemplate rows are written as records arrive, provided no
// selected field is OptionalIfPresent; an optional column depends on every
// record, so those schemas and the layout formats (Table, Markdown, HTML,
// JSON, YAML) collect the records first.
//
// Streamed output is not all-or-nothing: when a later record fails, the
// rows of earlier records have already been written to w. Use [BuildSeq]
// and [Write] when a failure must leave w untouched.
func RenderSeq[T any](w io.Writer, seq iter.Seq[T], schema *Schema[T], cfg *Config) error {
	s, err := cfg.compile()
	if err != nil {
		return err
	}
	cols, err := plan(schema, s)
	if err != nil {
		return err
	}
	if !streamable(s.format) || slices.ContainsFunc(cols, func(c column) bool {
		return c.vis == OptionalIfPresent
	}) {
		t, err := build(slices.Collect(seq), schema, s, 0)
		if err != nil {
			return err
		}
		return Write(w, t)
	}
	return streamRows(w, seq, schema, s)
}

// RenderChan projects records from a channel and writes them to w.
// It is a thin wrapper around [RenderSeq].
func RenderChan[T any](w io.Writer, ch <-chan T, schema *Schema[T], cfg *Config) error {
	return RenderSeq(w, chanToIter(ch), schema, cfg)
}

func chanToIter[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range ch {
			if !yield(item) {
				return
			}
		}
	}
}

func streamable(f Format) bool {
	switch f {
	case JSONL, CSV, TSV:
		return true
	}
	return strings.HasPrefix(string(f), goTemplatePrefix)
}

func streamRows[T any](w io.Writer, seq iter.Seq[T], schema *Schema[T], s *settings) error {
	bw := bufio.NewWriter(w)
	first := true
	n := 0
	var streamErr error
	seq(func(rec T) bool {
		t, err := build([]T{rec}, schema, s, n)
		n++
		if err != nil {
			streamErr = err
			return false
		}
		if !first && (t.Format == CSV || t.Format == TSV) {
			t.Header = nil
		}
		first = false
		if err := Write(bw, t); err != nil {
			streamErr = err
			return false
		}
		// Flush per record so a slow producer still shows progress.
		if err := bw.Flush(); err != nil {
			streamErr = err
			return false
		}
		return true
	})
	if streamErr != nil {
		return streamErr
	}
	if first {
		// No records: emit what an empty collection renders as.
		t, err := build[T](nil, schema, s, 0)
		if err != nil {
			return err
		}
		if err := Write(bw, t); err != nil {
			return err
		}
	}
	return bw.Flush()
}
