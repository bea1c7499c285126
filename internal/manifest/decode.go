package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bjaus/tabler"
	"gopkg.in/yaml.v3"
)

// Decode reads every document in r. format is "json", "yaml" or "auto",
// which picks JSON when the input starts with '{' or '['.
func Decode(r io.Reader, format string) ([]tabler.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "auto":
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
			return decodeJSON(data)
		}
		return decodeYAML(data)
	case "json", "jsonl":
		return decodeJSON(data)
	case "yaml", "yml":
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: unknown input format %q", ErrInvalidDocument, format)
	}
}

func decodeJSON(data []byte) ([]tabler.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var docs []tabler.Value
	for {
		var raw any
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		v, err := tabler.FromAny(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
}

func decodeYAML(data []byte) ([]tabler.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []tabler.Value
	for {
		var raw any
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		v, err := tabler.FromAny(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
}
