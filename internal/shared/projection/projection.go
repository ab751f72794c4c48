// Package projection provides whitelist-based shaping of entities for
// client-facing API responses.
package projection

import (
	"reflect"
	"strings"
)

// Projection is an ordered whitelist of field names. Applying it to an
// entity yields a map containing only the whitelisted fields, so internal
// attributes such as password digests can never reach a response unless a
// whitelist names them explicitly.
type Projection struct {
	fields []string
}

// New creates a Projection exposing exactly the given fields.
// Each name is matched case-insensitively against the exported struct
// fields of the projected entity and used verbatim as the output key.
func New(fields ...string) Projection {
	return Projection{fields: fields}
}

// Fields returns the whitelisted field names in declaration order.
func (p Projection) Fields() []string {
	return append([]string(nil), p.fields...)
}

// Apply projects v onto the whitelist. Pointers are dereferenced; a nil
// pointer or non-struct value yields an empty map. Whitelisted names with
// no matching field are simply omitted.
func (p Projection) Apply(v any) map[string]any {
	out := make(map[string]any, len(p.fields))

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return out
	}

	rt := rv.Type()
	for _, name := range p.fields {
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if f.IsExported() && strings.EqualFold(f.Name, name) {
				out[name] = rv.Field(i).Interface()
				break
			}
		}
	}
	return out
}

// ApplyAll projects each element of a slice, preserving order.
func (p Projection) ApplyAll(vs any) []map[string]any {
	rv := reflect.ValueOf(vs)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]map[string]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, p.Apply(rv.Index(i).Interface()))
	}
	return out
}
