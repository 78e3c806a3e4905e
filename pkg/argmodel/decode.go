// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/yeetrun/argmodel/pkg/typeshape"
	"tailscale.com/util/mak"
)

// Result is either a decoded Record or the ValidationError explaining why
// there is none.
type Result struct {
	rec *Record
	err *ValidationError
}

func (r Result) OK() bool { return r.err == nil }

// Record returns the decoded record, or nil.
func (r Result) Record() *Record { return r.rec }

// Err returns the *ValidationError, or nil.
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Unwrap returns the record and error as a pair.
func (r Result) Unwrap() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.rec, nil
}

// Decode checks raw against every field of s in declaration order and
// builds a record. raw is keyed by destination. Keys not belonging to s are
// ignored. Missing keys take the field's default; a missing required field
// is an issue. Every key present in raw counts as explicitly given.
func Decode(s *Schema, raw map[string]any) Result {
	return decode(s, raw, func(dest string) bool {
		_, ok := raw[dest]
		return ok
	})
}

func decode(s *Schema, raw map[string]any, explicit func(dest string) bool) Result {
	rec := &Record{schema: s, values: make(map[string]any, len(s.fields))}
	var issues []Issue
	for _, f := range s.fields {
		action, _ := f.resolveAction()
		if !action.stores() {
			continue
		}
		dest := f.dest()
		v, ok := raw[dest]
		if ok {
			if explicit(dest) {
				mak.Set(&rec.explicit, f.name, true)
			}
		} else if v, ok = f.fallback(); !ok {
			issues = append(issues, Issue{Field: f.name, Code: IssueMissing, Message: "field required"})
			continue
		}
		nv, is := normalizeField(f, v)
		if is != nil {
			issues = append(issues, *is)
			continue
		}
		rec.values[f.name] = nv
	}
	if len(issues) > 0 {
		return Result{err: &ValidationError{Issues: issues}}
	}
	return Result{rec: rec}
}

// fallback is the value of a field absent from a raw mapping.
func (f *FieldDecl) fallback() (any, bool) {
	if f.hasDefault {
		return f.def, true
	}
	if a, toggle := f.resolveAction(); toggle {
		return a == ActionStoreFalse, true
	}
	if f.factory != nil {
		return f.factory(), true
	}
	return nil, false
}

func normalizeField(f *FieldDecl, v any) (any, *Issue) {
	sh, _ := f.Shape()
	fail := func(code, msg string) (any, *Issue) {
		return nil, &Issue{Field: f.name, Code: code, Message: msg}
	}
	if v == nil {
		if sh.Optional || (f.hasDefault && f.def == nil) {
			return nil, nil
		}
		return fail(IssueType, fmt.Sprintf("input should be a valid %s, got none", expected(sh)))
	}
	if !sh.Multi {
		nv, code, err := normalizeScalar(sh, v)
		if err != nil {
			return fail(code, err.Error())
		}
		return nv, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fail(IssueType, fmt.Sprintf("input should be a valid list, got %T", v))
	}
	items := make([]any, rv.Len())
	for i := range items {
		nv, code, err := normalizeScalar(sh, rv.Index(i).Interface())
		if err != nil {
			return fail(code, fmt.Sprintf("item %d: %v", i, err))
		}
		items[i] = nv
	}
	return typedSlice(sh, items), nil
}

func expected(sh typeshape.Shape) string {
	if sh.Multi {
		return "list[" + sh.Base.String() + "]"
	}
	return sh.Base.String()
}

// normalizeScalar checks one value against the element shape. Values of
// the exact type are taken as is; otherwise numeric strings and integral
// floats are coerced. Secret shapes yield SecretString.
func normalizeScalar(sh typeshape.Shape, v any) (any, string, error) {
	if s, ok := v.(SecretString); ok {
		v = string(s)
	}
	v = typeshape.Normalize(v)

	if sh.Literal {
		for _, c := range sh.Values {
			if c == v {
				return wrapSecret(sh, c), "", nil
			}
		}
		if s, ok := v.(string); ok {
			for _, c := range sh.Values {
				if formatValue(c) == s {
					return wrapSecret(sh, c), "", nil
				}
			}
		}
		return nil, IssueChoice, fmt.Errorf("input should be %s", choiceList(sh.Values))
	}

	kinds := sh.Kinds()
	for _, k := range kinds {
		if typeshape.ConstKind(v) == k {
			return wrapSecret(sh, v), "", nil
		}
	}
	for _, k := range kinds {
		if c, ok := coerce(k, v); ok {
			return wrapSecret(sh, c), "", nil
		}
	}
	return nil, IssueType, fmt.Errorf("input should be a valid %s, got %T", sh.Base, v)
}

func coerce(k typeshape.Kind, v any) (any, bool) {
	switch k {
	case typeshape.KindInt:
		switch x := v.(type) {
		case float64:
			if x == math.Trunc(x) && !math.IsInf(x, 0) {
				return int(x), true
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
				return n, true
			}
		}
	case typeshape.KindFloat:
		switch x := v.(type) {
		case int:
			return float64(x), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				return f, true
			}
		}
	case typeshape.KindBool:
		switch x := v.(type) {
		case int:
			if x == 0 || x == 1 {
				return x == 1, true
			}
		case string:
			switch strings.ToLower(strings.TrimSpace(x)) {
			case "1", "t", "true", "y", "yes", "on":
				return true, true
			case "0", "f", "false", "n", "no", "off":
				return false, true
			}
		}
	}
	return nil, false
}

func wrapSecret(sh typeshape.Shape, v any) any {
	if s, ok := v.(string); ok && sh.Secret {
		return SecretString(s)
	}
	return v
}

// typedSlice converts decoded list items to a slice of the element's Go
// type. Unions stay []any.
func typedSlice(sh typeshape.Shape, items []any) any {
	if sh.Secret {
		return convertSlice[SecretString](items)
	}
	k, ok := sh.Primitive()
	if !ok {
		return items
	}
	switch k {
	case typeshape.KindString:
		return convertSlice[string](items)
	case typeshape.KindInt:
		return convertSlice[int](items)
	case typeshape.KindFloat:
		return convertSlice[float64](items)
	case typeshape.KindBool:
		return convertSlice[bool](items)
	}
	return items
}

func convertSlice[T any](items []any) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.(T)
	}
	return out
}

func choiceList(vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		if s, ok := v.(string); ok {
			parts[i] = strconv.Quote(s)
		} else {
			parts[i] = formatValue(v)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}
