// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typeshape describes the declared type of a schema field and
// reduces it to the primitive shape a command-line converter needs.
//
// A declared type is built from constructors and may nest wrapper layers:
//
//	typeshape.Optional(typeshape.List(typeshape.Literal("a", "b")))
//
// Resolve peels the optional, list, literal and secret layers, in that
// order, and reports what was found.
package typeshape

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Kind identifies the outermost constructor of a Type.
type Kind int

const (
	Invalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindNone
	KindSecret
	KindList
	KindLiteral
	KindUnion
)

var kindNames = map[Kind]string{
	Invalid:     "invalid",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindBool:    "bool",
	KindNone:    "none",
	KindSecret:  "secret",
	KindList:    "list",
	KindLiteral: "literal",
	KindUnion:   "union",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsPrimitive reports whether k is one of the base types a converter can
// produce directly.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindString, KindInt, KindFloat, KindBool:
		return true
	}
	return false
}

// Type is an immutable declared type expression. The zero Type is Invalid.
type Type struct {
	kind   Kind
	elems  []Type // list element or union members
	values []any  // literal constants, normalized
}

func String() Type { return Type{kind: KindString} }
func Int() Type    { return Type{kind: KindInt} }
func Float() Type  { return Type{kind: KindFloat} }
func Bool() Type   { return Type{kind: KindBool} }
func None() Type   { return Type{kind: KindNone} }

// Secret is a string whose value should not be echoed back in logs.
func Secret() Type { return Type{kind: KindSecret} }

// List is a sequence of elem.
func List(elem Type) Type {
	return Type{kind: KindList, elems: []Type{elem}}
}

// Literal restricts a value to the given constants. Integer kinds are
// normalized to int and float32 to float64. Values of any other kind are
// kept as given and rejected by Resolve.
func Literal(values ...any) Type {
	norm := make([]any, len(values))
	for i, v := range values {
		norm[i] = normalizeConst(v)
	}
	return Type{kind: KindLiteral, values: norm}
}

// Union is the type whose values may be any of members. Nested unions are
// flattened and duplicate members dropped; a union of one member is that
// member.
func Union(members ...Type) Type {
	var flat []Type
	var add func(t Type)
	add = func(t Type) {
		if t.kind == KindUnion {
			for _, m := range t.elems {
				add(m)
			}
			return
		}
		for _, seen := range flat {
			if seen.Equal(t) {
				return
			}
		}
		flat = append(flat, t)
	}
	for _, m := range members {
		add(m)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Type{kind: KindUnion, elems: flat}
}

// Optional is shorthand for Union(t, None()).
func Optional(t Type) Type {
	return Union(t, None())
}

// LogLevel is the literal set of standard logging level names.
func LogLevel() Type {
	return Literal("DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL")
}

func (t Type) Kind() Kind { return t.kind }

// Elem returns the element type of a list.
func (t Type) Elem() Type {
	if t.kind != KindList || len(t.elems) == 0 {
		return Type{}
	}
	return t.elems[0]
}

// Members returns the members of a union, or t itself for any other kind.
func (t Type) Members() []Type {
	if t.kind != KindUnion {
		return []Type{t}
	}
	return append([]Type(nil), t.elems...)
}

// Values returns the constants of a literal type.
func (t Type) Values() []any {
	return append([]any(nil), t.values...)
}

func (t Type) Equal(o Type) bool {
	if t.kind != o.kind || len(t.elems) != len(o.elems) || len(t.values) != len(o.values) {
		return false
	}
	for i := range t.elems {
		if !t.elems[i].Equal(o.elems[i]) {
			return false
		}
	}
	for i := range t.values {
		if !reflect.DeepEqual(t.values[i], o.values[i]) {
			return false
		}
	}
	return true
}

func (t Type) String() string {
	switch t.kind {
	case KindList:
		return "list[" + t.Elem().String() + "]"
	case KindLiteral:
		parts := make([]string, len(t.values))
		for i, v := range t.values {
			if s, ok := v.(string); ok {
				parts[i] = fmt.Sprintf("%q", s)
			} else {
				parts[i] = fmt.Sprint(v)
			}
		}
		return "literal[" + strings.Join(parts, ", ") + "]"
	case KindUnion:
		parts := make([]string, len(t.elems))
		for i, m := range t.elems {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	}
	return t.kind.String()
}

// normalizeConst returns v unchanged when it does not fit in an int, which
// leaves it to be rejected as an unsupported constant.
func normalizeConst(v any) any {
	switch x := v.(type) {
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		if x < math.MinInt || x > math.MaxInt {
			return v
		}
		return int(x)
	case uint:
		if uint64(x) > math.MaxInt {
			return v
		}
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		if uint64(x) > math.MaxInt {
			return v
		}
		return int(x)
	case uint64:
		if x > math.MaxInt {
			return v
		}
		return int(x)
	case float32:
		return float64(x)
	}
	return v
}

// ConstKind returns the primitive kind of a normalized literal constant.
func ConstKind(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case int:
		return KindInt
	case float64:
		return KindFloat
	case bool:
		return KindBool
	}
	return Invalid
}

// Normalize converts integer kinds to int and float32 to float64, the same
// normalization Literal applies to its constants.
func Normalize(v any) any {
	return normalizeConst(v)
}
