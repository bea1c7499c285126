package tabler

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// compilePath splits a dot/bracket path, "$"-rooted path or RFC 6901
// pointer into keys. A nil result selects the whole value; an empty key
// selects the member named "".
func compilePath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	switch {
	case path == "" || path == "$":
		return nil, nil
	case strings.HasPrefix(path, "/"):
		return pointerSegments(path), nil
	default:
		segs, err := dotSegments(strings.TrimPrefix(path, "$"))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrInvalidPath, path, err)
		}
		return segs, nil
	}
}

// gjsonPath joins keys into gjson syntax. None of them may be empty.
func gjsonPath(segs []string) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = escapeGJSON(s)
	}
	return strings.Join(parts, ".")
}

func pointerSegments(p string) []string {
	raw := strings.Split(p[1:], "/")
	out := make([]string, len(raw))
	for i, s := range raw {
		out[i] = strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return out
}

func dotSegments(p string) ([]string, error) {
	var segs []string
	for i := 0; i < len(p); {
		switch p[i] {
		case '.':
			i++
			if i == len(p) || p[i] == '.' {
				return nil, fmt.Errorf("empty segment at %d", i)
			}
			if p[i] == '[' {
				return nil, fmt.Errorf("unexpected '[' at %d", i)
			}
		case '[':
			seg, n, err := bracketSegment(p[i:])
			if err != nil {
				return nil, fmt.Errorf("%s at %d", err, i)
			}
			segs = append(segs, seg)
			i += n
			if i < len(p) && p[i] != '.' && p[i] != '[' {
				return nil, fmt.Errorf("unexpected %q after ']' at %d", p[i], i)
			}
		default:
			j := i
			for j < len(p) && p[j] != '.' && p[j] != '[' {
				j++
			}
			segs = append(segs, p[i:j])
			i = j
		}
	}
	return segs, nil
}

// bracketSegment reads `[0]`, `["key"]` or `['key']` and returns the segment
// and the number of bytes consumed.
func bracketSegment(p string) (string, int, error) {
	if len(p) < 3 {
		return "", 0, fmt.Errorf("unterminated bracket")
	}
	if q := p[1]; q == '"' || q == '\'' {
		end := strings.IndexByte(p[2:], q)
		if end < 0 || 2+end+1 >= len(p) || p[2+end+1] != ']' {
			return "", 0, fmt.Errorf("unterminated quoted key")
		}
		return p[2 : 2+end], 2 + end + 2, nil
	}
	end := strings.IndexByte(p, ']')
	if end < 0 {
		return "", 0, fmt.Errorf("unterminated bracket")
	}
	idx := p[1:end]
	for k := 0; k < len(idx); k++ {
		if idx[k] < '0' || idx[k] > '9' {
			return "", 0, fmt.Errorf("index %q is not a number", idx)
		}
	}
	if idx == "" {
		return "", 0, fmt.Errorf("empty index")
	}
	return idx, end + 1, nil
}

const gjsonSpecial = `\.*?|#@!=<>%[]{}(),:"`

func escapeGJSON(s string) string {
	if !strings.ContainsAny(s, gjsonSpecial) {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(gjsonSpecial, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// extract resolves keys against v. Runs of non-empty keys go through gjson;
// an empty key is looked up on the map directly since gjson cannot name it.
func extract(v Value, segs []string) (Value, error) {
	for len(segs) > 0 {
		if segs[0] == "" {
			m, ok := unwrap(v).(Map)
			if !ok {
				return nil, ErrPathNotFound
			}
			next, ok := m[""]
			if !ok {
				return nil, ErrPathNotFound
			}
			v, segs = unwrap(next), segs[1:]
			continue
		}
		n := 1
		for n < len(segs) && segs[n] != "" {
			n++
		}
		var err error
		if v, err = extractGJSON(unwrap(v), gjsonPath(segs[:n])); err != nil {
			return nil, err
		}
		segs = segs[n:]
	}
	return v, nil
}

func extractGJSON(v Value, gpath string) (Value, error) {
	switch v.(type) {
	case Map, List:
	default:
		return nil, ErrPathNotFound
	}
	data, err := encodeJSON(v)
	if err != nil {
		return nil, err
	}
	res := gjson.GetBytes(data, gpath)
	if !res.Exists() {
		return nil, ErrPathNotFound
	}
	switch res.Type {
	case gjson.Null:
		return Null{}, nil
	case gjson.String:
		return String(res.Str), nil
	case gjson.Number:
		return Number(res.Raw), nil
	case gjson.True:
		return Bool(true), nil
	case gjson.False:
		return Bool(false), nil
	default:
		return decodeJSON([]byte(res.Raw))
	}
}
