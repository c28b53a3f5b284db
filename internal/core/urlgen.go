package core

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/comalice/staterouter/internal/primitives"
)

// buildURL concatenates the patterns along dest's chain, substituting each
// dynamic segment with its escaped raw value.
func buildURL(dest *node, params primitives.Context) (string, error) {
	var parts []string
	for _, n := range dest.chain {
		for _, seg := range n.pattern.Segments {
			if !seg.IsParam() {
				parts = append(parts, seg.Literal)
				continue
			}
			p, ok := params.Lookup(n.path, seg.Param)
			if !ok {
				return "", fmt.Errorf("%w: no value for :%s of %s", ErrMissingContext, seg.Param, n.path)
			}
			parts = append(parts, url.PathEscape(p.Raw))
		}
	}
	return "/" + strings.Join(parts, "/"), nil
}

// serializeParam renders a context object into the value of the named
// dynamic segment. Supported, in order:
//   - primitives.ParamSerializer
//   - strings, numbers and booleans
//   - fmt.Stringer
//   - maps keyed by segment name; a name ending in "_id" falls back to "id"
//   - structs (or pointers to structs) with an exported ID field
func serializeParam(name string, v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case primitives.ParamSerializer:
		return val.SerializeParam(name)
	case string:
		return val, val != ""
	case fmt.Stringer:
		s := val.String()
		return s, s != ""
	case map[string]any:
		return fromMap(name, func(k string) (any, bool) { x, ok := val[k]; return x, ok })
	case map[string]string:
		return fromMap(name, func(k string) (any, bool) { x, ok := val[k]; return x, ok })
	}

	if s, ok := scalar(v); ok {
		return s, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		if f := rv.FieldByName("ID"); f.IsValid() && f.CanInterface() {
			return scalarOrString(f.Interface())
		}
	}
	return "", false
}

func fromMap(name string, get func(string) (any, bool)) (string, bool) {
	if x, ok := get(name); ok {
		return scalarOrString(x)
	}
	if strings.HasSuffix(name, "_id") {
		if x, ok := get("id"); ok {
			return scalarOrString(x)
		}
	}
	return "", false
}

func scalarOrString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case fmt.Stringer:
		s := val.String()
		return s, s != ""
	}
	return scalar(v)
}

// scalar formats numeric and boolean kinds, including named types.
func scalar(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.String:
		s := rv.String()
		return s, s != ""
	}
	return "", false
}
