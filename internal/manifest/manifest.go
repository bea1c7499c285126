// Package manifest loads table schemas for generic documents from YAML and
// decodes JSON or YAML documents into records.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bjaus/tabler"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidManifest = errors.New("invalid manifest")
	ErrInvalidDocument = errors.New("invalid document")
)

// Root as a field source selects the whole record.
const Root = "$"

// FieldSpec declares one column of a document table.
type FieldSpec struct {
	Name   string `yaml:"name"`
	Header string `yaml:"header"`
	// From is the record key the value is read from. Empty means Name;
	// "$" means the whole record.
	From       string `yaml:"from"`
	Visibility string `yaml:"visibility"`
	Render     string `yaml:"render"`
	Path       string `yaml:"path"`
	Status     bool   `yaml:"status"`
}

// Manifest is a schema file.
type Manifest struct {
	// Key selects the records inside each document, as dot separated map
	// keys and list indexes ("data.items", "items.0").
	Key    string      `yaml:"key"`
	Fields []FieldSpec `yaml:"fields"`
}

// Load decodes a manifest.
func Load(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty manifest", ErrInvalidManifest)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if len(m.Fields) == 0 {
		return nil, fmt.Errorf("%w: no fields", ErrInvalidManifest)
	}
	return &m, nil
}

// Schema builds the table schema for the manifest's fields.
func (m *Manifest) Schema() (*tabler.Schema[tabler.Map], error) {
	fields := make([]tabler.Field[tabler.Map], 0, len(m.Fields))
	for _, fs := range m.Fields {
		vis, err := tabler.ParseVisibility(fs.Visibility)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidManifest, fs.Name, err)
		}
		mode, err := tabler.ParseRenderMode(fs.Render)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidManifest, fs.Name, err)
		}
		if fs.Path != "" {
			mode = tabler.JSONPath(fs.Path)
		}
		from := fs.From
		if from == "" {
			from = fs.Name
		}
		fields = append(fields, tabler.Field[tabler.Map]{
			Name:       fs.Name,
			Header:     fs.Header,
			Visibility: vis,
			Mode:       mode,
			Status:     fs.Status,
			Value:      accessor(from, vis == tabler.OptionalIfPresent),
		})
	}
	s, err := tabler.NewSchema(fields...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return s, nil
}

func accessor(from string, optional bool) func(tabler.Map) tabler.Value {
	return func(rec tabler.Map) tabler.Value {
		var v tabler.Value
		var ok bool
		if from == Root {
			v, ok = rec, true
		} else {
			v, ok = rec[from]
		}
		switch {
		case !optional && !ok:
			return tabler.Null{}
		case !optional:
			return v
		case !ok:
			return tabler.None()
		default:
			return tabler.Some(v)
		}
	}
}

// Records flattens decoded documents into records. Each document, or the
// value under key in it, is either one object or a list of objects.
func Records(docs []tabler.Value, key string) ([]tabler.Map, error) {
	var out []tabler.Map
	for i, doc := range docs {
		v, err := lookup(doc, key)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		switch x := v.(type) {
		case tabler.Map:
			out = append(out, x)
		case tabler.List:
			for j, e := range x {
				m, ok := e.(tabler.Map)
				if !ok {
					return nil, fmt.Errorf("%w: document %d item %d is a %s, not an object", ErrInvalidDocument, i, j, e.Kind())
				}
				out = append(out, m)
			}
		case tabler.Null:
		default:
			return nil, fmt.Errorf("%w: document %d is a %s, not an object or list", ErrInvalidDocument, i, v.Kind())
		}
	}
	return out, nil
}

func lookup(doc tabler.Value, key string) (tabler.Value, error) {
	if key == "" {
		return doc, nil
	}
	v := doc
	for part := range strings.SplitSeq(key, ".") {
		switch x := v.(type) {
		case tabler.Map:
			next, ok := x[part]
			if !ok {
				return nil, fmt.Errorf("%w: key %q: %q not found", ErrInvalidDocument, key, part)
			}
			v = next
		case tabler.List:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(x) {
				return nil, fmt.Errorf("%w: key %q: no item %q", ErrInvalidDocument, key, part)
			}
			v = x[i]
		default:
			return nil, fmt.Errorf("%w: key %q: %q is not inside an object or list", ErrInvalidDocument, key, part)
		}
	}
	return v, nil
}
