// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"reflect"

	"github.com/yeetrun/argmodel/pkg/typeshape"
)

// ReprArgs returns tokens that reproduce every non-nil value of r when
// parsed with r's schema. Tokens are not quoted.
//
// A toggle is emitted only when it is true and its action is not
// store_false, so a store_false toggle never appears. Fields at their
// default are emitted like any other value. Count, append, extend and
// append_const start from the declared default when parsing, so only what
// was added on top of it is emitted.
func ReprArgs(r *Record) []string {
	var args []string
	for _, f := range r.schema.fields {
		v, ok := r.values[f.name]
		if !ok || v == nil {
			continue
		}
		flag := "--" + f.name
		action, toggle := f.resolveAction()
		if toggle {
			if b, _ := v.(bool); b && action != ActionStoreFalse {
				args = append(args, flag)
			}
			continue
		}
		switch action {
		case ActionHelp, ActionVersion:
			continue
		case ActionCount:
			n, _ := v.(int)
			if d, ok := asInt(f.def); ok && f.hasDefault {
				n -= d
			}
			for range n {
				args = append(args, flag)
			}
			continue
		case ActionStoreConst:
			if reflect.DeepEqual(typeshape.Normalize(v), typeshape.Normalize(f.Meta().Const)) {
				args = append(args, flag)
			}
			continue
		case ActionAppendConst:
			for range withoutDefault(f, toAnySlice(v)) {
				args = append(args, flag)
			}
			continue
		}

		items, isList := listValue(v)
		switch {
		case !isList:
			args = append(args, flag, reprValue(v))
		case action == ActionAppend || (action == ActionExtend && f.Meta().Nargs.IsZero()):
			for _, it := range withoutDefault(f, items) {
				args = append(args, flag, reprValue(it))
			}
		case action == ActionExtend:
			if items = withoutDefault(f, items); len(items) > 0 {
				args = append(args, flag)
				for _, it := range items {
					args = append(args, reprValue(it))
				}
			}
		default:
			args = append(args, flag)
			for _, it := range items {
				args = append(args, reprValue(it))
			}
		}
	}
	return args
}

// ReprArgs returns the tokens of every level of the invocation, root first,
// with each selected sub-command name between its parent's tokens and its
// own.
func (inv *Invocation) ReprArgs() ([]string, error) {
	recs, err := inv.Records()
	if err != nil {
		return nil, err
	}
	var args []string
	for i, r := range recs {
		if i > 0 {
			args = append(args, inv.Path[i-1])
		}
		args = append(args, ReprArgs(r)...)
	}
	return args, nil
}

// withoutDefault drops the leading items of a list that equal f's declared
// default list.
func withoutDefault(f *FieldDecl, items []any) []any {
	if !f.hasDefault {
		return items
	}
	def := toAnySlice(f.def)
	if len(def) > len(items) {
		return items
	}
	for i, d := range def {
		if !reflect.DeepEqual(typeshape.Normalize(d), typeshape.Normalize(items[i])) {
			return items
		}
	}
	return items[len(def):]
}

func listValue(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	return toAnySlice(v), true
}

// reprValue is formatValue with secrets revealed.
func reprValue(v any) string {
	if s, ok := v.(SecretString); ok {
		return s.Reveal()
	}
	return formatValue(v)
}
