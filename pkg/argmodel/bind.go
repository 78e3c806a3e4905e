// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/yeetrun/argmodel/pkg/typeshape"
	"tailscale.com/util/must"
)

var secretType = reflect.TypeFor[SecretString]()

// SchemaOf derives a schema from the exported fields of a struct (or a
// pointer to one). Each field becomes a flag named by its arg tag or its
// snake_case name. Supported field types are strings, integers, floats,
// booleans and SecretString, pointers to those (optional, default nil) and
// slices of those (lists).
//
// Struct tags:
//
//	arg      flag name, or "-" to skip the field
//	help     description
//	default  default value; lists are comma separated, "[]" is empty
//	choices  comma separated allowed values
//	short    one-character alias
//	group    help section
//	nargs    "?", "*", "+" or a count
//	action   see Action
//	metavar  value placeholder in help
//	dest     raw mapping key
//	const    value for store_const, append_const and nargs "?"
//
// Constraints in validate tags are checked by Record.Decode.
func SchemaOf(v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("SchemaOf needs a struct, got %T", v)
	}
	var fields []*FieldDecl
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := argTagName(sf)
		if skip {
			continue
		}
		f, err := structField(name, sf)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return NewSchema(fields...)
}

func structField(name string, sf reflect.StructField) (*FieldDecl, error) {
	tag := sf.Tag
	typ, err := goType(sf.Type, tag.Get("choices"))
	if err != nil {
		return nil, &FieldError{Field: name, Err: err}
	}
	sh, err := typeshape.Resolve(typ)
	if err != nil {
		return nil, &FieldError{Field: name, Err: err}
	}

	var opts []FieldOption
	if h := tag.Get("help"); h != "" {
		opts = append(opts, Description(h))
	}
	if g := tag.Get("group"); g != "" {
		opts = append(opts, Group(g))
	}
	if s := tag.Get("short"); s != "" {
		opts = append(opts, Short(s))
	}
	if m := tag.Get("metavar"); m != "" {
		opts = append(opts, Metavar(m))
	}
	if d := tag.Get("dest"); d != "" {
		opts = append(opts, Dest(d))
	}
	if a := tag.Get("action"); a != "" {
		opts = append(opts, WithAction(Action(a)))
	}
	if n := tag.Get("nargs"); n != "" {
		nargs, err := ParseNargs(n)
		if err != nil {
			return nil, &FieldError{Field: name, Err: err}
		}
		opts = append(opts, WithNargs(nargs))
	}
	if c, ok := tag.Lookup("const"); ok {
		cv, err := convertToken(scalarShape(sh), c)
		if err != nil {
			return nil, &FieldError{Field: name, Err: fmt.Errorf("const %q: %w", c, err)}
		}
		opts = append(opts, Const(cv))
	}
	if d, ok := tag.Lookup("default"); ok {
		dv, err := parseDefault(sh, d)
		if err != nil {
			return nil, &FieldError{Field: name, Err: fmt.Errorf("default %q: %w", d, err)}
		}
		opts = append(opts, Default(dv))
	} else if sf.Type.Kind() == reflect.Pointer {
		opts = append(opts, Default(nil))
	}
	return Field(name, typ, opts...), nil
}

func goType(t reflect.Type, choices string) (typeshape.Type, error) {
	if t == secretType {
		return typeshape.Secret(), nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		inner, err := goType(t.Elem(), choices)
		return typeshape.Optional(inner), err
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return typeshape.Type{}, fmt.Errorf("unsupported Go type %s", t)
		}
		inner, err := goType(t.Elem(), choices)
		return typeshape.List(inner), err
	}
	base, err := primitiveType(t)
	if err != nil || choices == "" {
		return base, err
	}
	var values []any
	for _, c := range strings.Split(choices, ",") {
		v, err := convertKind(base.Kind(), strings.TrimSpace(c))
		if err != nil {
			return typeshape.Type{}, fmt.Errorf("choice %q: %w", c, err)
		}
		values = append(values, v)
	}
	return typeshape.Literal(values...), nil
}

func primitiveType(t reflect.Type) (typeshape.Type, error) {
	switch t.Kind() {
	case reflect.String:
		return typeshape.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return typeshape.Int(), nil
	case reflect.Float32, reflect.Float64:
		return typeshape.Float(), nil
	case reflect.Bool:
		return typeshape.Bool(), nil
	}
	return typeshape.Type{}, fmt.Errorf("unsupported Go type %s", t)
}

// scalarShape is sh without the list layer.
func scalarShape(sh typeshape.Shape) typeshape.Shape {
	sh.Multi = false
	return sh
}

func parseDefault(sh typeshape.Shape, s string) (any, error) {
	if !sh.Multi {
		v, err := convertToken(sh, s)
		if err != nil {
			return nil, err
		}
		return wrapSecret(sh, v), nil
	}
	var items []any
	if s != "" && s != "[]" {
		for _, part := range strings.Split(s, ",") {
			v, err := convertToken(sh, strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			items = append(items, wrapSecret(sh, v))
		}
	}
	return typedSlice(sh, items), nil
}

// Parse derives the schema of T, parses args and decodes the selected
// record into a new T.
func Parse[T any](args []string, opts Options) (T, error) {
	var out T
	s, err := SchemaOf(&out)
	if err != nil {
		return out, err
	}
	rec, err := ParseRecord(s, args, opts)
	if err != nil {
		return out, err
	}
	err = rec.Decode(&out)
	return out, err
}

// MustParse is Parse with the terminating behavior of MustParseRecord. A
// struct that does not describe a valid schema panics.
func MustParse[T any](args []string, opts Options) T {
	var out T
	s := must.Get(SchemaOf(&out))
	p := must.Get(NewParser(s, opts))
	rec, ok := p.mustRecord(args)
	if !ok {
		return out
	}
	if err := rec.Decode(&out); err != nil {
		p.Exit(err)
	}
	return out
}
