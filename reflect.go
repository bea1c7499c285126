package tabler

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

const tagName = "table"

// FromStruct derives a schema from the exported fields of struct type T (or
// a pointer to one). Each field may carry a tag:
//
//	Name   string            `table:"NAME"`
//	Labels map[string]string `table:"LABELS,wide,pretty"`
//	Port   int               `table:"PORT,path=spec.ports[0].port"`
//	Phase  string            `table:",status"`
//	Note   *string           `table:",optional"`
//	Secret string            `table:"-"`
//
// An empty header derives one from the field name ("ComplexData" becomes
// "COMPLEX_DATA"). Optional pointer fields are absent when nil; other
// optional fields are absent when zero.
func FromStruct[T any]() (*Schema[T], error) {
	rt := reflect.TypeFor[T]()
	ptr := rt.Kind() == reflect.Pointer
	if ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidField, rt)
	}

	var fields []Field[T]
	for _, sf := range reflect.VisibleFields(rt) {
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		tag, hasTag := sf.Tag.Lookup(tagName)
		if tag == "-" {
			continue
		}
		f, err := fieldFromTag[T](sf, tag, ptr)
		if err != nil {
			return nil, err
		}
		if !hasTag && f.Mode.kind == renderPlain && isComposite(sf.Type) {
			f.Mode = Pretty()
		}
		fields = append(fields, f)
	}
	return NewSchema(fields...)
}

// MustFromStruct is like [FromStruct] but panics on error.
func MustFromStruct[T any]() *Schema[T] {
	s, err := FromStruct[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func fieldFromTag[T any](sf reflect.StructField, tag string, ptr bool) (Field[T], error) {
	f := Field[T]{Name: sf.Name}
	header, opts, _ := strings.Cut(tag, ",")
	f.Header = strings.TrimSpace(header)
	if f.Header == "" {
		f.Header = headerFromName(sf.Name)
	}
	for opt := range strings.SplitSeq(opts, ",") {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "":
		case opt == "wide":
			f.Visibility = WideOnly
		case opt == "optional":
			f.Visibility = OptionalIfPresent
		case opt == "status":
			f.Status = true
		case opt == "pretty":
			f.Mode = Pretty()
		case strings.HasPrefix(opt, "path="):
			f.Mode = JSONPath(strings.TrimPrefix(opt, "path="))
		default:
			return f, fmt.Errorf("%w: field %q: unknown tag option %q", ErrInvalidField, sf.Name, opt)
		}
	}
	switch sf.Type.Kind() {
	case reflect.Func, reflect.Chan, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return f, fmt.Errorf("%w: field %q has unsupported type %s", ErrInvalidField, sf.Name, sf.Type)
	}
	f.Value = accessor[T](sf.Index, ptr, f.Visibility == OptionalIfPresent)
	return f, nil
}

func accessor[T any](index []int, ptr, optional bool) func(T) Value {
	return func(rec T) Value {
		rv := reflect.ValueOf(rec)
		if ptr {
			if rv.IsNil() {
				return missing(optional)
			}
			rv = rv.Elem()
		}
		fv, err := rv.FieldByIndexErr(index)
		if err != nil {
			// Nil embedded pointer.
			return missing(optional)
		}
		if optional && fv.IsZero() {
			return None()
		}
		v, err := ValueOf(fv.Interface())
		if err != nil {
			return String(fmt.Sprint(fv.Interface()))
		}
		if optional {
			return Some(v)
		}
		return v
	}
}

func missing(optional bool) Value {
	if optional {
		return None()
	}
	return Null{}
}

// headerFromName turns a Go field name into an upper snake case title.
func headerFromName(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}
